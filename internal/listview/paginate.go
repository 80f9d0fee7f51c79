package listview

import (
	"math"

	"github.com/mferrell/dealflow/internal/model"
)

// DefaultPageSize is the fixed page size used by the list view.
const DefaultPageSize = 25

// PageMeta describes where a page sits within the filtered collection.
type PageMeta struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// Page slices the ordered deals into the requested fixed-size page.
// TotalPages is ceil(n/pageSize) with a minimum of 1, and currentPage is
// clamped into [1, totalPages] before slicing, so a stale page number from
// a shrunken filter result degrades to the last valid page instead of an
// empty one.
func Page(deals []model.Deal, pageSize, currentPage int) ([]model.Deal, PageMeta) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := int(math.Ceil(float64(len(deals)) / float64(pageSize)))
	if totalPages < 1 {
		totalPages = 1
	}

	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	start := (currentPage - 1) * pageSize
	end := start + pageSize
	if start > len(deals) {
		start = len(deals)
	}
	if end > len(deals) {
		end = len(deals)
	}

	meta := PageMeta{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  len(deals),
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}

	return deals[start:end], meta
}
