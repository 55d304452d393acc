package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindInference(t *testing.T) {
	ds := New([]string{"amount", "mixed", "label", "empty"})
	ds.AppendRow(map[string]interface{}{"amount": "10.5", "mixed": "1", "label": "a", "empty": nil})
	ds.AppendRow(map[string]interface{}{"amount": float64(3), "mixed": "oops", "label": "b", "empty": nil})
	ds.AppendRow(map[string]interface{}{"amount": nil, "mixed": "2", "label": "c", "empty": nil})

	assert.Equal(t, KindNumeric, ds.Kind("amount"), "missing values do not break numeric inference")
	assert.Equal(t, KindCategorical, ds.Kind("mixed"), "one non-coercible value makes the column categorical")
	assert.Equal(t, KindCategorical, ds.Kind("label"))
	assert.Equal(t, KindCategorical, ds.Kind("empty"), "all-missing column is categorical")
	assert.Equal(t, KindCategorical, ds.Kind("no_such_column"))
}

func TestKindNotCached(t *testing.T) {
	ds := New([]string{"v"})
	ds.AppendRow(map[string]interface{}{"v": "1"})
	require.Equal(t, KindNumeric, ds.Kind("v"))

	ds.AppendRow(map[string]interface{}{"v": "not a number"})
	assert.Equal(t, KindCategorical, ds.Kind("v"), "kind must be re-derived per call")
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in     interface{}
		want   float64
		wantOK bool
	}{
		{float64(1.5), 1.5, true},
		{int(7), 7, true},
		{int64(-3), -3, true},
		{uint32(9), 9, true},
		{"42", 42, true},
		{" 1,234.5 ", 1234.5, true},
		{"", 0, false},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat64(tt.in)
		assert.Equal(t, tt.wantOK, ok, "ToFloat64(%v)", tt.in)
		if ok {
			assert.Equal(t, tt.want, got, "ToFloat64(%v)", tt.in)
		}
	}
}

func TestHead(t *testing.T) {
	ds := New([]string{"n"})
	for i := 0; i < 5; i++ {
		ds.AppendRow(map[string]interface{}{"n": i})
	}
	assert.Equal(t, 3, ds.Head(3).Len())
	assert.Equal(t, 5, ds.Head(10).Len())
	assert.Equal(t, 0, ds.Head(-1).Len())
	assert.Equal(t, 5, ds.Len(), "Head must not mutate the receiver")
}

func TestDescribe(t *testing.T) {
	ds := New([]string{"region", "sales"})
	ds.AppendRow(map[string]interface{}{"region": "north", "sales": "10"})
	ds.AppendRow(map[string]interface{}{"region": "north", "sales": nil})
	ds.AppendRow(map[string]interface{}{"region": "south", "sales": "30"})

	summary := ds.Describe()
	require.Len(t, summary, 2)

	assert.Equal(t, "region", summary[0].Name)
	assert.Equal(t, KindCategorical, summary[0].Kind)
	assert.Equal(t, 3, summary[0].NonNull)
	assert.Equal(t, 2, summary[0].Distinct)

	assert.Equal(t, "sales", summary[1].Name)
	assert.Equal(t, KindNumeric, summary[1].Kind)
	assert.Equal(t, 2, summary[1].NonNull)
	assert.Equal(t, 2, summary[1].Distinct)
}
