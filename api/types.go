package api

import (
	"github.com/rpupo63/portfolio-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	accountHandler accountHandler
	contactHandler contactHandler
	projectHandler projectHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid email address"`
	Message string `json:"message,omitempty" example:"An unexpected error occurred"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"email"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Message string `json:"message" example:"Password changed successfully"`
}

// ListResponse is one page of a listing. Count is the size of the whole
// filtered set.
type ListResponse[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  []*T  `json:"results"`
}

func newListResponse[T any](p *services.Page[T]) ListResponse[T] {
	results := p.Items
	if results == nil {
		results = []*T{}
	}
	return ListResponse[T]{Count: p.Total, Page: p.Page, PageSize: p.PageSize, Results: results}
}

// SearchResponse holds every match of a search
type SearchResponse[T any] struct {
	Count   int  `json:"count"`
	Results []*T `json:"results"`
}

func newSearchResponse[T any](items []*T) SearchResponse[T] {
	if items == nil {
		items = []*T{}
	}
	return SearchResponse[T]{Count: len(items), Results: items}
}
