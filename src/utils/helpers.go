package utils

import (
	"fmt"
	"strconv"
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int
	PerPage    int
	Offset     int
	TotalItems int64
	TotalPages int
	PrevPage   *int
	NextPage   *int
}

// Paginate computes page math for a listing of total items.
func Paginate(total int64, page, perPage int) Pagination {
	// Avoid division by zero
	if perPage <= 0 {
		perPage = 1
	}
	if page <= 0 {
		page = 1
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	p := Pagination{
		Page:       page,
		PerPage:    perPage,
		Offset:     CalculateOffset(page, perPage),
		TotalItems: total,
		TotalPages: totalPages,
	}
	if page < totalPages {
		next := page + 1
		p.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		p.PrevPage = &prev
	}
	return p
}

// CalculateOffset returns the row offset of a 1-based page.
func CalculateOffset(page, perPage int) int {
	offset := (page - 1) * perPage
	if offset < 0 {
		offset = 0
	}
	return offset
}

// PageLink renders a list link for page, or nil when page is nil.
func PageLink(base string, page *int, perPage int) *string {
	if page == nil {
		return nil
	}
	link := fmt.Sprintf("%s?page=%d&per_page=%d", base, *page, perPage)
	return &link
}

// ParseID parses a positive numeric path id.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
