// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Pagination defaults shared by every listing.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// List is one page of results.
type List[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// TotalPages returns the number of pages needed for Total items.
func (l *List[T]) TotalPages() int {
	if l.PageSize <= 0 {
		return 0
	}
	return int((l.Total + int64(l.PageSize) - 1) / int64(l.PageSize))
}

// NormalizePaging clamps page to >= 1 and size to [1, MaxPageSize],
// using DefaultPageSize when size is not positive.
func NormalizePaging(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// Offset returns the row offset for a normalized page and size.
func Offset(page, size int) int {
	return (page - 1) * size
}
