package handler

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	// maxPage keeps (page-1)*limit from overflowing.
	maxPage = math.MaxInt / maxPageSize
)

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// NewPaginationMeta describes page of a list holding totalItems entries.
func NewPaginationMeta(totalItems int64, page, limit int) PaginationMeta {
	if limit <= 0 {
		limit = 1
	}
	return PaginationMeta{
		TotalItems:  totalItems,
		TotalPages:  (int(totalItems) + limit - 1) / limit,
		CurrentPage: page,
		PageSize:    limit,
	}
}

// parsePagination reads page and limit from the query string. requested is
// false when the client sent neither, in which case the full list is served.
// Malformed values fall back to the defaults.
func parsePagination(c *gin.Context) (page, limit int, requested bool) {
	_, hasPage := c.GetQuery("page")
	_, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return 0, 0, false
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit, true
}

// paginate returns the items of the given 1-based page; pages past the end are empty.
func paginate[T any](items []T, page, limit int) []T {
	if page < 1 || limit < 1 {
		return []T{}
	}
	pages := len(items) / limit
	if len(items)%limit != 0 {
		pages++
	}
	if page > pages {
		return []T{}
	}
	offset := (page - 1) * limit
	end := min(offset+limit, len(items))
	return items[offset:end]
}
