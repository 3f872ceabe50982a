// Package pos is the point-of-sale client: a cart, an HTTP client for the
// pharmacy API and the controller that ties them to the active screen.
package pos

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pharmacy/m/domain"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Message is what the banner shows after an action.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

func success(format string, args ...any) Message {
	return Message{Level: LevelSuccess, Text: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...any) Message {
	return Message{Level: LevelError, Text: fmt.Sprintf(format, args...)}
}

// Line is one product in the cart. StockQuantity is the stock known when the
// product was last added and caps Quantity.
type Line struct {
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int64           `json:"quantity"`
	StockQuantity int64           `json:"stock_quantity"`
}

// Subtotal is price × quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// Cart holds lines in the order they were first added. The zero value is an
// empty cart. Cart is not safe for concurrent use.
type Cart struct {
	Items []Line `json:"items"`
}

func (c *Cart) find(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of p in the cart, refusing to go past p's stock. A line
// already above p's stock is cut back to it.
func (c *Cart) Add(p domain.Product) Message {
	if i := c.find(p.ID); i >= 0 {
		line := &c.Items[i]
		line.StockQuantity = p.StockQuantity
		if p.StockQuantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return failure("%s is out of stock. Removed from cart.", p.Name)
		}
		if line.Quantity > p.StockQuantity {
			line.Quantity = p.StockQuantity
			return failure("Only %d %s left in stock. Quantity adjusted.", p.StockQuantity, p.Name)
		}
		if line.Quantity == p.StockQuantity {
			return failure("Cannot add more %s. Max stock reached.", p.Name)
		}
		line.Quantity++
		return success("%s quantity increased in cart.", p.Name)
	}
	if p.StockQuantity <= 0 {
		return failure("%s is out of stock.", p.Name)
	}
	c.Items = append(c.Items, Line{
		ProductID:     p.ID,
		Name:          p.Name,
		Price:         decimal.NewFromFloat(p.Price),
		Quantity:      1,
		StockQuantity: p.StockQuantity,
	})
	return success("%s added to cart.", p.Name)
}

// Remove drops the line for productID.
func (c *Cart) Remove(productID int64) Message {
	i := c.find(productID)
	if i < 0 {
		return failure("Item is not in the cart.")
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return success("Item removed from cart.")
}

// SetQuantity sets a line's quantity. Zero or less removes the line; more
// than the known stock is refused and the previous quantity kept.
func (c *Cart) SetQuantity(productID, quantity int64) Message {
	i := c.find(productID)
	if i < 0 {
		return failure("Item is not in the cart.")
	}
	if quantity <= 0 {
		return c.Remove(productID)
	}
	line := &c.Items[i]
	if quantity > line.StockQuantity {
		return failure("Cannot set quantity to %d. Max stock for %s is %d.", quantity, line.Name, line.StockQuantity)
	}
	line.Quantity = quantity
	return success("Quantity updated for %s.", line.Name)
}

// Total is recomputed from the lines on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Items {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.Items...)
}

func (c *Cart) Len() int { return len(c.Items) }

func (c *Cart) Clear() { c.Items = nil }

// Request builds the checkout payload for the current lines.
func (c *Cart) Request(customerName, customerPhone string) domain.CheckoutRequest {
	items := make([]domain.CheckoutItem, len(c.Items))
	for i, l := range c.Items {
		items[i] = domain.CheckoutItem{ProductID: l.ProductID, Quantity: l.Quantity, PriceAtSale: l.Price}
	}
	return domain.CheckoutRequest{
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Items:         items,
	}
}
