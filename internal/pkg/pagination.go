package pkg

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/domain"
)

// totalColumn carries the window count next to every page row.
const totalColumn = "total_rows"

// PageLimits bounds the page size accepted from clients.
type PageLimits struct {
	DefaultPerPage uint64
	MaxPerPage     uint64
}

// DefaultPageLimits are the limits used by ParsePaginate.
var DefaultPageLimits = PageLimits{
	DefaultPerPage: domain.DefaultPerPage,
	MaxPerPage:     domain.MaxPerPage,
}

// ParsePaginate extracts page and per_page from the query string using
// DefaultPageLimits.
func ParsePaginate(c *gin.Context) domain.Paginate {
	return DefaultPageLimits.Parse(c)
}

// Parse extracts page and per_page from the query string. Missing, invalid or
// non-positive values fall back to the defaults; per_page is clamped to
// MaxPerPage and page to the last page whose offset still fits an int.
func (l PageLimits) Parse(c *gin.Context) domain.Paginate {
	def, limit := l.DefaultPerPage, l.MaxPerPage
	if def == 0 {
		def = domain.DefaultPerPage
	}
	if limit == 0 {
		limit = domain.MaxPerPage
	}
	if def > limit {
		def = limit
	}

	page := parsePositive(c.Query("page"), domain.DefaultPage)
	perPage := parsePositive(c.Query("per_page"), def)
	if perPage > limit {
		perPage = limit
	}
	if last := maxPage(perPage); page > last {
		page = last
	}
	return domain.Paginate{Page: page, PerPage: perPage}
}

// maxPage is the largest page for which per_page*(page-1) fits an int offset.
func maxPage(perPage uint64) uint64 {
	return math.MaxInt/perPage + 1
}

func parsePositive(raw string, fallback uint64) uint64 {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return fallback
	}
	return n
}

// windowRow is one page row plus the window total.
type windowRow[T any] struct {
	Row   T     `gorm:"embedded"`
	Total int64 `gorm:"column:total_rows"`
}

// WindowPage runs q as a single paged query. The row count of the whole
// filtered set is read from a COUNT(*) OVER() column on the same result, so
// the page and its total come from one round trip and one snapshot.
//
// The select list of q is kept (or * when q selects nothing) and the model or
// table of q names the source; without either, T is used as the model.
// A page past the end yields no rows and therefore a total of 0; a page whose
// offset does not fit an int is past any end and is answered without a query.
// Driver errors are returned as is.
func WindowPage[T any](ctx context.Context, q *gorm.DB, p domain.Paginate) (domain.Paginated[T], error) {
	if p.Page == 0 {
		p.Page = domain.DefaultPage
	}
	if p.PerPage == 0 {
		p.PerPage = domain.DefaultPerPage
	}
	if p.PerPage > math.MaxInt {
		p.PerPage = math.MaxInt
	}
	if p.Page > maxPage(p.PerPage) {
		return domain.NewPaginated([]T{}, 0, p), nil
	}

	if q.Statement.Model == nil && q.Statement.Table == "" {
		q = q.Model(new(T))
	}

	cols := "*"
	if sel := q.Statement.Selects; len(sel) > 0 {
		cols = strings.Join(sel, ", ")
	}

	var rows []windowRow[T]
	err := q.WithContext(ctx).
		Select(cols + ", COUNT(*) OVER() AS " + totalColumn).
		Offset(int(p.Skip())).
		Limit(int(p.Take())).
		Find(&rows).Error
	if err != nil {
		return domain.Paginated[T]{}, err
	}

	var total uint64
	if len(rows) > 0 && rows[0].Total > 0 {
		total = uint64(rows[0].Total)
	}
	data := make([]T, len(rows))
	for i := range rows {
		data[i] = rows[i].Row
	}
	return domain.NewPaginated(data, total, p), nil
}
