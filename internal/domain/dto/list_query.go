package dto

import (
	"strings"
	"unicode/utf8"

	"gallery/internal/domain/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
	MaxSearchLen = 200
)

// ListQuery selects one page of objects, optionally filtered by status and a
// case-insensitive search over title and description.
type ListQuery struct {
	Page   int          `json:"page"`
	Limit  int          `json:"limit"`
	Status model.Status `json:"status,omitempty"`
	Search string       `json:"search,omitempty"`
}

// Normalize applies defaults and validates the query.
func (q ListQuery) Normalize() (ListQuery, error) {
	if q.Page == 0 {
		q.Page = DefaultPage
	}

	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}

	if q.Page < 1 {
		return q, model.NewValidationError("page", "must be at least 1")
	}

	if q.Limit < 1 || q.Limit > MaxLimit {
		return q, model.NewValidationError("limit", "must be between 1 and 100")
	}

	if q.Status != "" && !q.Status.Valid() {
		return q, model.NewValidationError("status", "must be one of PENDING, PROCESSING, READY, FAILED")
	}

	q.Search = strings.TrimSpace(q.Search)
	if utf8.RuneCountInString(q.Search) > MaxSearchLen {
		return q, model.NewValidationError("search", "too long")
	}

	return q, nil
}

func (q ListQuery) Skip() int64 {
	return int64((q.Page - 1) * q.Limit)
}

// ObjectPage is one page of a list query.
type ObjectPage struct {
	Items      []model.Object `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
	Cached     bool           `json:"cached"`
}

func NewObjectPage(items []model.Object, total int64, q ListQuery) ObjectPage {
	if items == nil {
		items = []model.Object{}
	}

	pages := 0
	if q.Limit > 0 {
		pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}

	return ObjectPage{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: pages,
	}
}
