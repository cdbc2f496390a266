package pkg

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/domain"
)

// SortField is a sortable column name from a closed allowlist.
type SortField interface {
	~string
	Valid() bool
}

// Direction is the sort direction of one key.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Valid reports whether d is asc or desc.
func (d Direction) Valid() bool {
	return d == Ascending || d == Descending
}

// Sort is one ordering key.
type Sort[F SortField] struct {
	Mode  Direction `json:"mode"`
	Field F         `json:"field"`
}

// Asc orders by f ascending.
func Asc[F SortField](f F) Sort[F] { return Sort[F]{Mode: Ascending, Field: f} }

// Desc orders by f descending.
func Desc[F SortField](f F) Sort[F] { return Sort[F]{Mode: Descending, Field: f} }

func (s Sort[F]) String() string {
	return string(s.Field) + " " + string(s.Mode)
}

// SortStatement is an ordered list of sort keys. Earlier keys take precedence.
type SortStatement[F SortField] []Sort[F]

// Clause renders the statement as an ORDER BY body, e.g. "id desc,created_at asc".
// An empty statement renders as "".
func (s SortStatement[F]) Clause() string {
	if len(s) == 0 {
		return ""
	}
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = k.String()
	}
	return strings.Join(parts, ",")
}

// Encode renders the statement as a query string, e.g.
// "sorts[0][mode]=desc&sorts[0][field]=id". Key order is preserved.
func (s SortStatement[F]) Encode(key string) string {
	var b strings.Builder
	for i, k := range s {
		if i > 0 {
			b.WriteByte('&')
		}
		prefix := key + "[" + strconv.Itoa(i) + "]"
		b.WriteString(prefix + "[mode]=" + url.QueryEscape(string(k.Mode)))
		b.WriteString("&" + prefix + "[field]=" + url.QueryEscape(string(k.Field)))
	}
	return b.String()
}

var sortParam = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[(\d+)\]\[(mode|field|column)\]$`)

// ParseSortStatement decodes the keys written by Encode from query values.
// "column" is accepted as an alias of "field" but not next to it. Unknown
// fields, unknown modes and gaps in the index sequence are reported as
// validation errors. An absent
// statement decodes to an empty one.
func ParseSortStatement[F SortField](values url.Values, key string) (SortStatement[F], error) {
	type entry struct {
		mode, field string
		hasMode     bool
		hasField    bool
	}
	entries := make(map[int]*entry)

	for name, vals := range values {
		m := sortParam.FindStringSubmatch(name)
		if m == nil || m[1] != key || len(vals) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, domain.Validation(fmt.Sprintf("invalid sort index %q", m[2]))
		}
		e, ok := entries[idx]
		if !ok {
			e = &entry{}
			entries[idx] = e
		}
		switch {
		case m[3] == "mode":
			e.mode, e.hasMode = vals[0], true
		case e.hasField:
			return nil, domain.Validation(fmt.Sprintf("sort key %d has both field and column", idx))
		default:
			e.field, e.hasField = vals[0], true
		}
	}
	if len(entries) == 0 {
		return SortStatement[F]{}, nil
	}

	idxs := make([]int, 0, len(entries))
	for i := range entries {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	stmt := make(SortStatement[F], 0, len(idxs))
	for want, idx := range idxs {
		if idx != want {
			return nil, domain.Validation(fmt.Sprintf("missing sort key %d", want))
		}
		e := entries[idx]
		if !e.hasField {
			return nil, domain.Validation(fmt.Sprintf("sort key %d has no field", idx))
		}
		mode := Ascending
		if e.hasMode {
			mode = Direction(strings.ToLower(e.mode))
		}
		if !mode.Valid() {
			return nil, domain.Validation(fmt.Sprintf("invalid sort mode %q", e.mode))
		}
		field := F(e.field)
		if !field.Valid() {
			return nil, domain.Validation(fmt.Sprintf("invalid sort field %q", e.field))
		}
		stmt = append(stmt, Sort[F]{Mode: mode, Field: field})
	}
	return stmt, nil
}

// OrderBy returns a GORM scope that applies clause as ORDER BY. An empty
// clause leaves the query untouched.
func OrderBy(clause string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if clause == "" {
			return db
		}
		return db.Order(clause)
	}
}
