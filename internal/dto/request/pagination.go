package request

import "branch-locator/pkg/utils"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// PageNumber is Page clamped to the first page.
func (p PaginatedRequest) PageNumber() int {
	return max(p.Page, 1)
}

func (p PaginatedRequest) Limit() int {
	switch {
	case p.PerPage < 1:
		return DefaultPerPage
	case p.PerPage > MaxPerPage:
		return MaxPerPage
	}
	return p.PerPage
}

// Window returns the [start,end) slice bounds of this page within total items.
func (p PaginatedRequest) Window(total int) (int, int) {
	return utils.PageBounds(total, p.PageNumber(), p.Limit())
}
