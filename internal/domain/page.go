package domain

// Pagination defaults and bounds.
const (
	DefaultPage    uint64 = 1
	DefaultPerPage uint64 = 20
	MaxPerPage     uint64 = 100
)

// Paginate is a page request. Page and PerPage start at 1.
type Paginate struct {
	Page    uint64 `form:"page" json:"page"`
	PerPage uint64 `form:"per_page" json:"per_page"`
}

// Skip returns the number of rows preceding the requested page.
func (p Paginate) Skip() uint64 {
	if p.Page == 0 {
		return 0
	}
	return p.PerPage * (p.Page - 1)
}

// Take returns the page size.
func (p Paginate) Take() uint64 {
	return p.PerPage
}

// Normalize replaces zero values with defaults and clamps PerPage to MaxPerPage.
func (p Paginate) Normalize() Paginate {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.PerPage == 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Paginated is one page of results plus the metadata needed to render a pager.
type Paginated[T any] struct {
	Data     []T    `json:"data"`
	Page     uint64 `json:"page"`
	PerPage  uint64 `json:"per_page"`
	Total    uint64 `json:"total"`
	LastPage uint64 `json:"last_page"`
}

// NewPaginated builds a Paginated from a page request and the observed total.
// LastPage is at least 1 so an empty result still renders a single page.
func NewPaginated[T any](data []T, total uint64, p Paginate) Paginated[T] {
	if data == nil {
		data = []T{}
	}
	return Paginated[T]{
		Data:     data,
		Page:     p.Page,
		PerPage:  p.PerPage,
		Total:    total,
		LastPage: LastPage(total, p.PerPage),
	}
}

// LastPage returns ceil(total/perPage), or 1 when total is zero.
// perPage must be at least 1.
func LastPage(total, perPage uint64) uint64 {
	if total == 0 {
		return 1
	}
	last := total / perPage
	if total%perPage != 0 {
		last++
	}
	return last
}
