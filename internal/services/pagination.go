package services

import (
	"strconv"
)

const (
	DefaultPerPage = 25
	MaxPerPage     = 100
)

type Order string

const (
	OrderOldest   Order = "oldest"
	OrderNewest   Order = "newest"
	OrderAlphabet Order = "alphabet"
)

// ParseOrder validates the order query value, falling back to def when empty.
func ParseOrder(raw string, def Order) (Order, error) {
	switch Order(raw) {
	case "":
		return def, nil
	case OrderOldest, OrderNewest, OrderAlphabet:
		return Order(raw), nil
	default:
		return "", NewValidationError("order", "order must be one of: oldest, newest, alphabet")
	}
}

type PageRequest struct {
	Page    int
	PerPage int
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NewPageRequest validates page (>= 1) and per_page (1..100).
func NewPageRequest(page, perPage int) (PageRequest, error) {
	if page < 1 {
		return PageRequest{}, NewValidationError("page", "Page number must be greater than 0")
	}
	if perPage < 1 || perPage > MaxPerPage {
		return PageRequest{}, NewValidationError("per_page", "Per page must be between 1 and 100")
	}
	return PageRequest{Page: page, PerPage: perPage}, nil
}

// ParsePageRequest reads raw query values; empty values take the defaults.
func ParsePageRequest(rawPage, rawPerPage string) (PageRequest, error) {
	page, perPage := 1, DefaultPerPage
	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil {
			return PageRequest{}, NewValidationError("page", "page must be an integer")
		}
		page = n
	}
	if rawPerPage != "" {
		n, err := strconv.Atoi(rawPerPage)
		if err != nil {
			return PageRequest{}, NewValidationError("per_page", "per_page must be an integer")
		}
		perPage = n
	}
	return NewPageRequest(page, perPage)
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func NewPagination(req PageRequest, total int64) Pagination {
	perPage := int64(req.PerPage)
	totalPages := (total + perPage - 1) / perPage
	return Pagination{
		Total:      total,
		Page:       req.Page,
		PerPage:    req.PerPage,
		TotalPages: totalPages,
		HasNext:    int64(req.Page) < totalPages,
		HasPrev:    req.Page > 1,
	}
}

// ListQuery carries the paging, ordering and search options shared by list endpoints.
type ListQuery struct {
	PageRequest
	Order  Order
	Search string
}
