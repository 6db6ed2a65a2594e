package domain

// Upstream record shapes as returned by the merchant data API's REST
// endpoints. These are a deliberate superset of the public schema; the data
// service projects them down to the allow-listed fields before anything
// leaves the gateway.

// Order is an upstream order record.
type Order struct {
	ID                int64       `json:"id"`
	OrderNumber       int         `json:"order_number"`
	Email             string      `json:"email"`
	Customer          *Customer   `json:"customer"`
	LineItems         []LineItem  `json:"line_items"`
	TotalPrice        string      `json:"total_price"`
	SubtotalPrice     string      `json:"subtotal_price"`
	TotalTax          string      `json:"total_tax"`
	Currency          string      `json:"currency"`
	FinancialStatus   string      `json:"financial_status"`
	FulfillmentStatus string      `json:"fulfillment_status"`
	Tags              string      `json:"tags"`
	Note              string      `json:"note"`
	Test              bool        `json:"test"`
	BrowserIP         string      `json:"browser_ip"`
	CreatedAt         string      `json:"created_at"`
	UpdatedAt         string      `json:"updated_at"`
}

// LineItem is one line of an upstream order.
type LineItem struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	VariantID    int64  `json:"variant_id"`
	Title        string `json:"title"`
	VariantTitle string `json:"variant_title"`
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
	Grams        int    `json:"grams"`
}

// Customer is an upstream customer record.
type Customer struct {
	ID             int64             `json:"id"`
	Email          string            `json:"email"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Phone          string            `json:"phone"`
	OrdersCount    int               `json:"orders_count"`
	TotalSpent     string            `json:"total_spent"`
	State          string            `json:"state"`
	Note           string            `json:"note"`
	Tags           string            `json:"tags"`
	VerifiedEmail  bool              `json:"verified_email"`
	Addresses      []CustomerAddress `json:"addresses"`
	DefaultAddress *CustomerAddress  `json:"default_address"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

// CustomerAddress is one address of an upstream customer.
type CustomerAddress struct {
	ID       int64  `json:"id"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
}

// Product is an upstream product record, the source for inventory data.
type Product struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Handle      string           `json:"handle"`
	Status      string           `json:"status"`
	Tags        string           `json:"tags"`
	Variants    []ProductVariant `json:"variants"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

// ProductVariant is one variant of an upstream product.
type ProductVariant struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	Position          int    `json:"position"`
	Barcode           string `json:"barcode"`
	InventoryQuantity int    `json:"inventory_quantity"`
	InventoryItemID   int64  `json:"inventory_item_id"`
}

// List options passed to the upstream API. Encoded into query parameters by
// the client adapter; zero-valued optional filters are omitted.

// OrderListOptions filters the upstream orders listing.
type OrderListOptions struct {
	Limit        int    `url:"limit"`
	Status       string `url:"status"`
	CreatedAtMin string `url:"created_at_min,omitempty"`
	CreatedAtMax string `url:"created_at_max,omitempty"`
	CustomerID   string `url:"customer_id,omitempty"`
}

// CustomerListOptions filters the upstream customers listing.
type CustomerListOptions struct {
	Limit        int    `url:"limit"`
	CreatedAtMin string `url:"created_at_min,omitempty"`
	CreatedAtMax string `url:"created_at_max,omitempty"`
	Email        string `url:"email,omitempty"`
}

// ProductListOptions filters the upstream products listing.
type ProductListOptions struct {
	Limit  int    `url:"limit"`
	IDs    string `url:"ids,omitempty"`
	Vendor string `url:"vendor,omitempty"`
}
