package handlers

import (
	"errors"
	"strconv"
)

const pageWindowSize = 5

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errors.New("invalid page")
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, errors.New("invalid limit")
		}
		limit = l
	}

	return page, limit, nil
}

// clampPage pins a page number to [1, totalPages]. A totalPages of zero keeps
// page 1 so empty lists still render.
func clampPage(page, totalPages int64) int64 {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// pageWindow returns the visible page numbers: a 5-wide window centered on
// the current page when possible, clamped so it never leaves [1, totalPages].
func pageWindow(currentPage, totalPages int64) []int64 {
	if totalPages < 1 {
		return []int64{}
	}

	currentPage = clampPage(currentPage, totalPages)

	start := currentPage - pageWindowSize/2
	if start < 1 {
		start = 1
	}

	end := start + pageWindowSize - 1
	if end > totalPages {
		end = totalPages
		start = end - pageWindowSize + 1
		if start < 1 {
			start = 1
		}
	}

	window := make([]int64, 0, pageWindowSize)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}
