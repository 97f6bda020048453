package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// Pagination bounds shared by every paginated list operation.
const (
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PageRequest describes one page of an ordered, filtered collection.
// Page is 1-based; Size is bounded to 1..100 by the caller.
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the number of rows to skip for this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// TotalPages computes ceil(total/size), or 0 when the collection is empty.
func TotalPages(total int64, size int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// paginate runs the count and page queries against the same filtered query.
// The total is unbounded by skip/limit; a page past the end of the data
// yields empty items with the correct total. orderBy must be qualified when
// the query joins other tables.
func paginate[T any](query *gorm.DB, orderBy string, page PageRequest) ([]*T, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count page total: %w", err)
	}

	var items []*T
	err := query.Order(orderBy).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch page: %w", err)
	}

	return items, total, nil
}
