package schema

var (
	Users = &Resource{
		Name:      "users",
		Label:     "User",
		Table:     "tbl_crm_user",
		Key:       "user_id",
		ClientKey: true,
		Fields: []Field{
			{Column: "user_id", Kind: Text, Required: true, Rule: "max=255"},
			{Column: "user_pass", Kind: Secret, Required: true, Rule: "min=1,max=72"},
			{Column: "user_department", Kind: Text, Required: true, Rule: "max=100"},
			{Column: "user_type", Kind: Text, Required: true, Rule: "max=50"},
			{Column: "user_status", Kind: Text, Required: true, Rule: "max=50"},
		},
	}

	Manufacturers = &Resource{
		Name:  "manufacturers",
		Label: "Manufacturer",
		Table: "tbl_manufacturers",
		Key:   "manufacturer_id",
		Fields: []Field{
			{Column: "manufacturer_name", Kind: Text, Required: true, Rule: "max=255"},
			{Column: "contact_person", Kind: Text, Rule: "max=255"},
			{Column: "phone", Kind: Text, Rule: "max=50"},
			{Column: "email", Kind: Text, Rule: "omitempty,email,max=255"},
		},
	}

	ActiveIngredients = &Resource{
		Name:  "active_ingredients",
		Label: "Active ingredient",
		Table: "tbl_active_ingredients",
		Key:   "ingredient_id",
		Fields: []Field{
			{Column: "ingredient_name", Kind: Text, Required: true, Rule: "max=255"},
			{Column: "description", Kind: Text},
		},
	}

	Products = &Resource{
		Name:  "products",
		Label: "Product",
		Table: "tbl_products",
		Key:   "product_id",
		Fields: []Field{
			{Column: "product_name", Kind: Text, Required: true, Rule: "max=255"},
			{Column: "manufacturer_id", Kind: Int, Required: true, Rule: "gt=0"},
			{Column: "price", Kind: Float, Required: true, Rule: "gte=0"},
			{Column: "description", Kind: Text},
			{Column: "active_ingredient_id", Kind: Int, Required: true, Rule: "gt=0"},
			{Column: "stock_quantity", Kind: Int, Required: true, Rule: "gte=0"},
		},
	}

	Inventory = &Resource{
		Name:  "inventory",
		Label: "Inventory item",
		Table: "tbl_inventory",
		Key:   "inventory_id",
		Fields: []Field{
			{Column: "product_id", Kind: Int, Required: true, Rule: "gt=0"},
			{Column: "batch_number", Kind: Text, Required: true, Rule: "max=255"},
			{Column: "expiry_date", Kind: Date, Required: true},
			{Column: "quantity", Kind: Int, Required: true, Rule: "gte=0"},
			{Column: "location", Kind: Text, Rule: "max=255"},
		},
	}

	Suppliers = &Resource{
		Name:  "suppliers",
		Label: "Supplier",
		Table: "tbl_suppliers",
		Key:   "supplier_id",
		Fields: []Field{
			{Column: "supplier_name", Kind: Text, Required: true, Rule: "max=255"},
			{Column: "contact_person", Kind: Text, Rule: "max=255"},
			{Column: "phone", Kind: Text, Rule: "max=50"},
			{Column: "email", Kind: Text, Rule: "omitempty,email,max=255"},
			{Column: "address", Kind: Text},
		},
	}

	PurchaseOrders = &Resource{
		Name:  "purchase_orders",
		Label: "Purchase order",
		Table: "tbl_purchase_orders",
		Key:   "po_id",
		Fields: []Field{
			{Column: "supplier_id", Kind: Int, Required: true, Rule: "gt=0"},
			{Column: "order_date", Kind: Date, Required: true},
			{Column: "total_amount", Kind: Float, Required: true, Rule: "gte=0"},
			{Column: "status", Kind: Text, Required: true, Rule: "max=50"},
		},
	}

	Customers = &Resource{
		Name:  "customers",
		Label: "Customer",
		Table: "tbl_customers",
		Key:   "customer_id",
		Fields: []Field{
			{Column: "customer_name", Kind: Text, Required: true, Rule: "max=255"},
			{Column: "phone", Kind: Text, Rule: "max=50"},
			{Column: "email", Kind: Text, Rule: "omitempty,email,max=255"},
			{Column: "address", Kind: Text},
		},
	}

	Sales = &Resource{
		Name:  "sales",
		Label: "Sale",
		Table: "tbl_sales",
		Key:   "sale_id",
		Fields: []Field{
			{Column: "customer_id", Kind: Int, Required: true, Rule: "gt=0"},
			{Column: "sale_date", Kind: Date, Required: true},
			{Column: "total_amount", Kind: Float, Required: true, Rule: "gte=0"},
			{Column: "status", Kind: Text, Required: true, Rule: "max=50"},
		},
	}
)

// All lists every resource in dependency order.
var All = []*Resource{
	Users,
	Manufacturers,
	ActiveIngredients,
	Products,
	Inventory,
	Suppliers,
	PurchaseOrders,
	Customers,
	Sales,
}

// Lookup finds a resource by URL segment.
func Lookup(name string) (*Resource, bool) {
	for _, r := range All {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}
