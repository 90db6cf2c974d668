package service

import (
	"errors"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
)

// ListRequest is shared by the paginated list endpoints.
type ListRequest struct {
	EntrepriseID string
	Search       string
	Page         int
	Size         int
}

func (r ListRequest) filter() repository.ListFilter {
	return repository.ListFilter{Search: strings.TrimSpace(r.Search), Page: r.Page, Size: r.Size}
}

// ListResponse wraps one page of items.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// optional unwraps an optional body number for validation maps.
func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
