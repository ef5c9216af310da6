package console

import "bot-console/internal/model"

// paginationWindowSize is the maximum number of page-number controls shown
// at once, centered on the current page.
const paginationWindowSize = 5

// PageWindow computes the sliding window of page numbers to render: at most
// five entries centered on the current page, clamped to [1, totalPages] at
// both edges so early and late pages still show a full window when one fits.
func PageWindow(page int, totalPages int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := page - paginationWindowSize/2
	if start > totalPages-paginationWindowSize+1 {
		start = totalPages - paginationWindowSize + 1
	}
	if start < 1 {
		start = 1
	}

	end := start + paginationWindowSize - 1
	if end > totalPages {
		end = totalPages
	}

	window := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		window = append(window, n)
	}

	return window
}

// BuildMeta normalizes a page response into pagination metadata.
func BuildMeta(page int, pageSize int, total int) model.Meta {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if total < 0 {
		total = 0
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return model.Meta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
