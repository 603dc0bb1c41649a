package core

import (
	"context"

	"github.com/thisdougb/vitals/internal/storage"
)

// NewPagedResult derives the paging fields for one page of a sequence of
// total items. page and pageSize must already be valid.
func NewPagedResult[T any](data []T, page, pageSize int, total int64) PagedResult[T] {
	if data == nil {
		data = []T{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return PagedResult[T]{
		Data:            data,
		Page:            page,
		PageSize:        pageSize,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// PageHistory reads one page of history, newest first. It issues a single
// count and a single bounded range read.
func PageHistory(ctx context.Context, backend storage.Backend, page, pageSize int) (PagedResult[storage.Vital], error) {
	vitals, total, err := backend.Page(ctx, page, pageSize)
	if err != nil {
		return PagedResult[storage.Vital]{}, err
	}

	return NewPagedResult(vitals, page, pageSize, total), nil
}
