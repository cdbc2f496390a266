package pkg

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/simp-lee/blogbase/internal/domain"
)

type testField string

func (f testField) Valid() bool {
	switch f {
	case "id", "name", "created_at":
		return true
	}
	return false
}

func TestSortStatement_Clause(t *testing.T) {
	tests := []struct {
		name string
		stmt SortStatement[testField]
		want string
	}{
		{"empty", nil, ""},
		{"single", SortStatement[testField]{Desc(testField("id"))}, "id desc"},
		{"multiple", SortStatement[testField]{Desc(testField("id")), Asc(testField("created_at"))}, "id desc,created_at asc"},
		{"duplicates kept", SortStatement[testField]{Asc(testField("id")), Desc(testField("id"))}, "id asc,id desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stmt.Clause(); got != tt.want {
				t.Errorf("Clause: want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSortStatement_Encode(t *testing.T) {
	stmt := SortStatement[testField]{Desc(testField("id")), Asc(testField("name"))}
	want := "sorts[0][mode]=desc&sorts[0][field]=id&sorts[1][mode]=asc&sorts[1][field]=name"
	if got := stmt.Encode("sorts"); got != want {
		t.Errorf("Encode:\nwant %s\ngot  %s", want, got)
	}
	if got := (SortStatement[testField]{}).Encode("sorts"); got != "" {
		t.Errorf("empty statement should encode to \"\", got %q", got)
	}
}

func TestSortStatement_RoundTrip(t *testing.T) {
	stmts := []SortStatement[testField]{
		{},
		{Asc(testField("id"))},
		{Desc(testField("created_at")), Asc(testField("name")), Desc(testField("id"))},
		{Asc(testField("id")), Asc(testField("id"))},
	}

	for _, stmt := range stmts {
		values, err := url.ParseQuery(stmt.Encode("sorts"))
		if err != nil {
			t.Fatalf("ParseQuery(%q): %v", stmt.Encode("sorts"), err)
		}
		got, err := ParseSortStatement[testField](values, "sorts")
		if err != nil {
			t.Fatalf("ParseSortStatement: %v", err)
		}
		if got.Clause() != stmt.Clause() || len(got) != len(stmt) {
			t.Errorf("round trip: want %q, got %q", stmt.Clause(), got.Clause())
		}
	}
}

func TestParseSortStatement(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{"absent", "page=2", "", false},
		{"column alias", "sorts[0][mode]=desc&sorts[0][column]=id", "id desc", false},
		{"mode defaults to asc", "sorts[0][field]=name", "name asc", false},
		{"mode is case insensitive", "sorts[0][mode]=DESC&sorts[0][field]=id", "id desc", false},
		{"index order wins over query order", "sorts[1][field]=id&sorts[0][field]=name", "name asc,id asc", false},
		{"other keys ignored", "order[0][field]=id&sorts[0][field]=name", "name asc", false},
		{"unknown field", "sorts[0][field]=password", "", true},
		{"injection attempt", "sorts[0][field]=id%3BDROP%20TABLE%20users", "", true},
		{"unknown mode", "sorts[0][mode]=up&sorts[0][field]=id", "", true},
		{"missing field", "sorts[0][mode]=asc", "", true},
		{"gap in indices", "sorts[0][field]=id&sorts[2][field]=name", "", true},
		{"field and column on one key", "sorts[0][field]=id&sorts[0][column]=name", "", true},
		{"field and column with equal values", "sorts[0][column]=id&sorts[0][field]=id", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			got, err := ParseSortStatement[testField](values, "sorts")
			if tt.wantErr {
				if !domain.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Clause() != tt.want {
				t.Errorf("Clause: want %q, got %q", tt.want, got.Clause())
			}
		})
	}
}

func TestSort_JSON(t *testing.T) {
	data, err := json.Marshal(SortStatement[testField]{Desc(testField("id"))})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `[{"mode":"desc","field":"id"}]` {
		t.Errorf("unexpected JSON: %s", data)
	}
}
