package pos

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pharmacy/m/domain"
	"pharmacy/m/internal/schema"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCheckoutInFlight = errors.New("a sale is already being processed")
	ErrNoModule         = errors.New("no module selected")
)

// Row is one record as rendered in a module's table.
type Row map[string]any

// Controller holds the state of one point-of-sale screen: the active module
// with its rows and form, the product stock used by the cart, the cart
// itself and the last banner message. Network calls run without the lock
// held.
type Controller struct {
	client *Client
	log    *zap.Logger

	mu          sync.Mutex
	module      *schema.Resource
	editID      string
	form        map[string]any
	rows        []Row
	products    []domain.Product
	cart        Cart
	banner      Message
	checkingOut bool
}

func NewController(client *Client, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{client: client, log: log, form: map[string]any{}}
}

// SwitchModule activates the named resource and loads its rows. The cart
// survives module switches.
func (c *Controller) SwitchModule(ctx context.Context, name string) error {
	res, ok := schema.Lookup(name)
	if !ok {
		err := fmt.Errorf("unknown module %q", name)
		c.mu.Lock()
		c.reportLocked(err)
		c.mu.Unlock()
		return err
	}
	c.mu.Lock()
	c.module = res
	c.editID = ""
	c.form = map[string]any{}
	c.rows = nil
	c.mu.Unlock()
	return c.Load(ctx)
}

// Module returns the active module name.
func (c *Controller) Module() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.module == nil {
		return ""
	}
	return c.module.Name
}

// Load re-fetches the active module's rows. On failure the previous rows
// stay in place.
func (c *Controller) Load(ctx context.Context) error {
	res, err := c.activeModule()
	if err != nil {
		return err
	}
	var rows []Row
	if err := c.client.List(ctx, res.Name, &rows); err != nil {
		c.report(err)
		return err
	}
	c.mu.Lock()
	if c.module == res {
		c.rows = rows
	}
	c.mu.Unlock()
	return nil
}

// Rows returns the rows last loaded for the active module.
func (c *Controller) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Row(nil), c.rows...)
}

// NewForm clears the form and leaves edit mode.
func (c *Controller) NewForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editID = ""
	c.form = map[string]any{}
}

// Edit fetches one row and pre-fills the form with it.
func (c *Controller) Edit(ctx context.Context, id string) error {
	res, err := c.activeModule()
	if err != nil {
		return err
	}
	var row Row
	if err := c.client.Get(ctx, res.Name, id, &row); err != nil {
		c.report(err)
		return err
	}
	form := map[string]any{}
	for _, f := range res.Updatable() {
		if v, ok := row[f.Column]; ok {
			form[f.Column] = v
		}
	}
	c.mu.Lock()
	c.editID = id
	c.form = form
	c.mu.Unlock()
	return nil
}

// EditID is the id of the row being edited, empty when adding.
func (c *Controller) EditID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editID
}

func (c *Controller) SetField(column string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form[column] = value
}

// Form returns a copy of the current form values.
func (c *Controller) Form() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.form))
	for k, v := range c.form {
		out[k] = v
	}
	return out
}

// Submit creates or updates a row from the form. A failed write keeps the
// form and edit target so the user can resubmit.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	res, err := c.activeModule()
	if err != nil {
		return Result{}, err
	}
	form := c.Form()
	editID := c.EditID()

	var result Result
	if editID != "" {
		result, err = c.client.Update(ctx, res.Name, editID, form)
	} else {
		result, err = c.client.Create(ctx, res.Name, form)
	}
	if err != nil {
		c.report(err)
		return result, err
	}

	c.mu.Lock()
	c.banner = success("%s", result.Message)
	c.editID = ""
	c.form = map[string]any{}
	c.mu.Unlock()
	c.log.Info("record saved", zap.String("module", res.Name), zap.Any("id", result.ID))
	return result, c.Load(ctx)
}

func (c *Controller) Delete(ctx context.Context, id string) (Result, error) {
	res, err := c.activeModule()
	if err != nil {
		return Result{}, err
	}
	result, err := c.client.Delete(ctx, res.Name, id)
	if err != nil {
		c.report(err)
		return result, err
	}
	c.mu.Lock()
	c.banner = success("%s", result.Message)
	if c.editID == id {
		c.editID = ""
		c.form = map[string]any{}
	}
	c.mu.Unlock()
	c.log.Info("record deleted", zap.String("module", res.Name), zap.String("id", id))
	return result, c.Load(ctx)
}

// RefreshStock reloads the product list the cart checks stock against.
func (c *Controller) RefreshStock(ctx context.Context) error {
	if err := c.refreshStock(ctx); err != nil {
		c.report(err)
		return err
	}
	return nil
}

func (c *Controller) refreshStock(ctx context.Context) error {
	var products []domain.Product
	if err := c.client.List(ctx, schema.Products.Name, &products); err != nil {
		return err
	}
	c.mu.Lock()
	c.products = products
	c.mu.Unlock()
	return nil
}

// Products returns the last fetched product list.
func (c *Controller) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Product(nil), c.products...)
}

// AddToCart adds one unit of a product. Products missing from the stock
// list are fetched individually first.
func (c *Controller) AddToCart(ctx context.Context, productID int64) Message {
	c.mu.Lock()
	p, ok := c.cachedProduct(productID)
	c.mu.Unlock()

	if !ok {
		if err := c.client.Get(ctx, schema.Products.Name, strconv.FormatInt(productID, 10), &p); err != nil {
			return c.report(err)
		}
		c.mu.Lock()
		c.products = append(c.products, p)
		c.mu.Unlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.show(c.cart.Add(p))
}

func (c *Controller) cachedProduct(productID int64) (domain.Product, bool) {
	for _, p := range c.products {
		if p.ID == productID {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (c *Controller) RemoveFromCart(productID int64) Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.show(c.cart.Remove(productID))
}

func (c *Controller) SetQuantity(productID, quantity int64) Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.show(c.cart.SetQuantity(productID, quantity))
}

func (c *Controller) Cart() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Lines()
}

func (c *Controller) CartTotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Total()
}

// Checkout sends the whole cart as one sale. The cart is cleared only once
// the API accepts the sale; stock is then re-fetched, and a failed re-fetch
// is only logged. Only one checkout may be in flight at a time.
func (c *Controller) Checkout(ctx context.Context, customerName, customerPhone string) (domain.CheckoutResponse, error) {
	c.mu.Lock()
	if c.cart.Len() == 0 {
		c.show(failure("Cart is empty. Please add products to process a sale."))
		c.mu.Unlock()
		return domain.CheckoutResponse{}, ErrEmptyCart
	}
	if c.checkingOut {
		c.show(failure("A sale is already being processed."))
		c.mu.Unlock()
		return domain.CheckoutResponse{}, ErrCheckoutInFlight
	}
	c.checkingOut = true
	req := c.cart.Request(customerName, customerPhone)
	c.mu.Unlock()

	resp, err := c.client.Checkout(ctx, req)

	c.mu.Lock()
	c.checkingOut = false
	if err != nil {
		c.reportLocked(err)
		c.mu.Unlock()
		return resp, err
	}
	c.cart.Clear()
	c.banner = success("%s Sale ID: %d", resp.Message, resp.SaleID)
	c.mu.Unlock()

	c.log.Info("sale completed",
		zap.Int64("sale_id", resp.SaleID),
		zap.Int("items", len(req.Items)),
		zap.String("total_amount", resp.TotalAmount.StringFixed(2)),
	)
	// the sale is committed; a stale stock list must not read as a failed sale
	if err := c.refreshStock(ctx); err != nil {
		c.log.Warn("stock refresh after sale failed", zap.Int64("sale_id", resp.SaleID), zap.Error(err))
	}
	return resp, nil
}

// Banner returns the last message shown to the user.
func (c *Controller) Banner() Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banner
}

func (c *Controller) activeModule() (*schema.Resource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.module == nil {
		c.reportLocked(ErrNoModule)
		return nil, ErrNoModule
	}
	return c.module, nil
}

// show records m as the banner; callers hold mu.
func (c *Controller) show(m Message) Message {
	c.banner = m
	if m.Level == LevelError {
		c.log.Warn("action refused", zap.String("message", m.Text))
	}
	return m
}

func (c *Controller) report(err error) Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reportLocked(err)
}

// reportLocked surfaces err verbatim in the banner and logs it.
func (c *Controller) reportLocked(err error) Message {
	text := err.Error()
	fields := []zap.Field{zap.String("message", text)}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.Int("status", apiErr.Status))
	}
	c.log.Error("request failed", fields...)
	c.banner = failure("%s", text)
	return c.banner
}
