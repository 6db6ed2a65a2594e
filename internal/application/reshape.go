package application

import "merchant-data-gateway/internal/domain"

// Public response schema for the data endpoints. Reshaping is a strict
// allow-list projection: upstream fields not named here never reach the
// caller, nested collections included.

// OrderData is the public shape of one order.
type OrderData struct {
	ID                int64               `json:"id"`
	OrderNumber       int                 `json:"order_number"`
	Customer          *OrderCustomerData  `json:"customer"`
	LineItems         []OrderLineItemData `json:"line_items"`
	TotalPrice        string              `json:"total_price"`
	Currency          string              `json:"currency"`
	FinancialStatus   string              `json:"financial_status"`
	FulfillmentStatus string              `json:"fulfillment_status"`
	CreatedAt         string              `json:"created_at"`
	UpdatedAt         string              `json:"updated_at"`
}

// OrderCustomerData is the customer summary embedded in an order.
type OrderCustomerData struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// OrderLineItemData is the public shape of one order line.
type OrderLineItemData struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// CustomerData is the public shape of one customer.
type CustomerData struct {
	ID          int64         `json:"id"`
	Email       string        `json:"email"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	Phone       string        `json:"phone"`
	OrdersCount int           `json:"orders_count"`
	TotalSpent  string        `json:"total_spent"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
	Addresses   []AddressData `json:"addresses"`
}

// AddressData is the public shape of one customer address.
type AddressData struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
}

// ProductData is the public shape of one inventory product.
type ProductData struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Vendor      string        `json:"vendor"`
	ProductType string        `json:"product_type"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
	Variants    []VariantData `json:"variants"`
}

// VariantData is the public shape of one product variant.
type VariantData struct {
	ID                int64  `json:"id"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
	InventoryItemID   int64  `json:"inventory_item_id"`
	Title             string `json:"title"`
	Available         bool   `json:"available"`
}

func formatOrders(orders []domain.Order) []OrderData {
	out := make([]OrderData, 0, len(orders))
	for _, order := range orders {
		data := OrderData{
			ID:                order.ID,
			OrderNumber:       order.OrderNumber,
			LineItems:         make([]OrderLineItemData, 0, len(order.LineItems)),
			TotalPrice:        order.TotalPrice,
			Currency:          order.Currency,
			FinancialStatus:   order.FinancialStatus,
			FulfillmentStatus: order.FulfillmentStatus,
			CreatedAt:         order.CreatedAt,
			UpdatedAt:         order.UpdatedAt,
		}
		if order.Customer != nil {
			data.Customer = &OrderCustomerData{
				ID:        order.Customer.ID,
				Email:     order.Customer.Email,
				FirstName: order.Customer.FirstName,
				LastName:  order.Customer.LastName,
			}
		}
		for _, item := range order.LineItems {
			data.LineItems = append(data.LineItems, OrderLineItemData{
				ID:        item.ID,
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Title:     item.Title,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
		out = append(out, data)
	}
	return out
}

func formatCustomers(customers []domain.Customer) []CustomerData {
	out := make([]CustomerData, 0, len(customers))
	for _, customer := range customers {
		data := CustomerData{
			ID:          customer.ID,
			Email:       customer.Email,
			FirstName:   customer.FirstName,
			LastName:    customer.LastName,
			Phone:       customer.Phone,
			OrdersCount: customer.OrdersCount,
			TotalSpent:  customer.TotalSpent,
			CreatedAt:   customer.CreatedAt,
			UpdatedAt:   customer.UpdatedAt,
			Addresses:   make([]AddressData, 0, len(customer.Addresses)),
		}
		for _, addr := range customer.Addresses {
			data.Addresses = append(data.Addresses, AddressData{
				Address1: addr.Address1,
				City:     addr.City,
				Province: addr.Province,
				Country:  addr.Country,
				Zip:      addr.Zip,
			})
		}
		out = append(out, data)
	}
	return out
}

func formatProducts(products []domain.Product) []ProductData {
	out := make([]ProductData, 0, len(products))
	for _, product := range products {
		data := ProductData{
			ID:          product.ID,
			Title:       product.Title,
			Vendor:      product.Vendor,
			ProductType: product.ProductType,
			CreatedAt:   product.CreatedAt,
			UpdatedAt:   product.UpdatedAt,
			Variants:    make([]VariantData, 0, len(product.Variants)),
		}
		for _, variant := range product.Variants {
			data.Variants = append(data.Variants, VariantData{
				ID:                variant.ID,
				SKU:               variant.SKU,
				Price:             variant.Price,
				InventoryQuantity: variant.InventoryQuantity,
				InventoryItemID:   variant.InventoryItemID,
				Title:             variant.Title,
				Available:         variant.InventoryQuantity > 0,
			})
		}
		out = append(out, data)
	}
	return out
}
