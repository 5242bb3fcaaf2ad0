package services

import (
	"strings"

	"quillpost/internal/models"
	"quillpost/internal/utils"
)

// Page describes one window of an ordered result set.
type Page struct {
	Number      int   `json:"number"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// PostPage is a page of posts plus its metadata.
type PostPage struct {
	Posts []models.Post `json:"posts"`
	Page  Page          `json:"page"`
}

// ParsePageNumber reads a ?page= value. Anything non-numeric or below 1 means page 1.
func ParsePageNumber(raw string) int {
	if n := utils.StringToInt(strings.TrimSpace(raw)); n > 0 {
		return n
	}
	return 1
}

// NewPage clamps the requested page into [1, TotalPages]. An empty result
// has zero pages and reports page 1.
func NewPage(raw string, total int64, perPage int) Page {
	if perPage < 1 {
		perPage = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	number := ParsePageNumber(raw)
	if number > totalPages {
		number = totalPages
	}
	if number < 1 {
		number = 1
	}

	return Page{
		Number:      number,
		PerPage:     perPage,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}
