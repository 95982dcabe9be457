// Package dto provides data transfer objects for HTTP API.
package dto

// IDResponse returns the id of a created entity.
type IDResponse struct {
	ID string `json:"id"`
}

// ListResponse wraps a list payload.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListResponse builds a list payload from mapped items.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}
