package query

import (
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		columns []string
		want    string
		wantOK  bool
	}{
		{
			name:    "exact match case-insensitive",
			token:   "Revenue",
			columns: []string{"region", "revenue"},
			want:    "revenue",
			wantOK:  true,
		},
		{
			name:    "plural token singular column",
			token:   "dealers",
			columns: []string{"dealer", "sales"},
			want:    "dealer",
			wantOK:  true,
		},
		{
			name:    "token substring of column",
			token:   "rev",
			columns: []string{"region_code", "total_revenue"},
			want:    "total_revenue",
			wantOK:  true,
		},
		{
			name:    "column substring of token",
			token:   "net sales",
			columns: []string{"sales", "cost"},
			want:    "sales",
			wantOK:  true,
		},
		{
			name:    "underscore word boundary",
			token:   "dealer",
			columns: []string{"dealership_profit", "dealer_id"},
			// Substring rule fires before the boundary rule and matches
			// the earlier column.
			want:   "dealership_profit",
			wantOK: true,
		},
		{
			name:    "fuzzy match above threshold",
			token:   "revenu",
			columns: []string{"revenue"},
			want:    "revenue",
			wantOK:  true,
		},
		{
			name:    "no match below threshold",
			token:   "weather",
			columns: []string{"sales", "region"},
			wantOK:  false,
		},
		{
			name:    "empty columns",
			token:   "sales",
			columns: nil,
			wantOK:  false,
		},
		{
			name:    "empty token",
			token:   "  ",
			columns: []string{"sales"},
			wantOK:  false,
		},
		{
			name:    "tie broken by lowest index",
			token:   "total",
			columns: []string{"total_cost", "total_revenue"},
			want:    "total_cost",
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.token, tt.columns)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestResolveExactMatchPriority(t *testing.T) {
	// An exact match must win even when earlier columns fuzzy-match.
	columns := []string{"sales_total", "sale", "sales"}
	got, ok := Resolve("sales", columns)
	if !ok || got != "sales" {
		t.Errorf("Resolve(sales) = %q, %v; want exact column \"sales\"", got, ok)
	}
}

func TestResolveDeterminism(t *testing.T) {
	columns := []string{"dealer_name", "sales", "region"}
	first, firstOK := Resolve("dealer", columns)
	for i := 0; i < 50; i++ {
		got, ok := Resolve("dealer", columns)
		if got != first || ok != firstOK {
			t.Fatalf("Resolve not deterministic: run %d got %q, %v; want %q, %v",
				i, got, ok, first, firstOK)
		}
	}
}

func TestLooksNumeric(t *testing.T) {
	tests := []struct {
		column string
		want   bool
	}{
		{"revenue", true},
		{"total_amount", true},
		{"GMV", true},
		{"unit_price", true},
		{"customer_id", false},
		{"region", false},
		{"order_date", false},
		// Known heuristic misfire: the name test has no dtype knowledge.
		{"rate_limit_id", true},
	}
	for _, tt := range tests {
		if got := LooksNumeric(tt.column); got != tt.want {
			t.Errorf("LooksNumeric(%q) = %v, want %v", tt.column, got, tt.want)
		}
	}
}

func TestDetectTimeColumn(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    string
	}{
		{"order date first", []string{"region", "order_date", "sales"}, "order_date"},
		{"month column", []string{"sales", "fiscal_month"}, "fiscal_month"},
		{"none", []string{"region", "sales"}, ""},
		{"first of several", []string{"year", "order_date"}, "year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectTimeColumn(tt.columns); got != tt.want {
				t.Errorf("detectTimeColumn(%v) = %q, want %q", tt.columns, got, tt.want)
			}
		})
	}
}
