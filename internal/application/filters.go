package application

import (
	"net/url"
	"strconv"

	"merchant-data-gateway/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 250
)

// clampLimit normalizes a raw limit parameter into [1, 250], defaulting to
// 50 when absent or non-numeric.
func clampLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultPageSize
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

// OrderOptionsFromQuery builds normalized upstream order filters from query
// parameters. Optional filters pass through only when present.
func OrderOptionsFromQuery(q url.Values) domain.OrderListOptions {
	opts := domain.OrderListOptions{
		Limit:        clampLimit(q.Get("limit")),
		Status:       q.Get("status"),
		CreatedAtMin: q.Get("created_at_min"),
		CreatedAtMax: q.Get("created_at_max"),
		CustomerID:   q.Get("customer_id"),
	}
	if opts.Status == "" {
		opts.Status = "any"
	}
	return opts
}

// CustomerOptionsFromQuery builds normalized upstream customer filters.
func CustomerOptionsFromQuery(q url.Values) domain.CustomerListOptions {
	return domain.CustomerListOptions{
		Limit:        clampLimit(q.Get("limit")),
		CreatedAtMin: q.Get("created_at_min"),
		CreatedAtMax: q.Get("created_at_max"),
		Email:        q.Get("email"),
	}
}

// ProductOptionsFromQuery builds normalized upstream product filters. The
// public product_id filter maps to the upstream ids parameter.
func ProductOptionsFromQuery(q url.Values) domain.ProductListOptions {
	return domain.ProductListOptions{
		Limit:  clampLimit(q.Get("limit")),
		IDs:    q.Get("product_id"),
		Vendor: q.Get("vendor"),
	}
}
