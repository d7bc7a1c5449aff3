package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/products", nil)

	p := FromRequest(r)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_ExplicitValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/products?page=3&per_page=10", nil)

	p := FromRequest(r)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 20, p.Offset)
}

func TestFromRequest_InvalidValuesIgnored(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric page", "?page=abc&per_page=xyz"},
		{"zero page", "?page=0&per_page=0"},
		{"negative page", "?page=-1&per_page=-5"},
		{"per_page over limit", "?per_page=500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/products"+tt.query, nil)

			p := FromRequest(r)

			assert.Equal(t, 1, p.Page)
			assert.Equal(t, 20, p.PerPage)
		})
	}
}

func TestNewResult(t *testing.T) {
	data := []string{"a", "b", "c"}
	params := Params{Page: 2, PerPage: 3, Offset: 3}

	result := NewResult(data, 7, params)

	assert.Equal(t, 7, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_SinglePage(t *testing.T) {
	result := NewResult([]int{1, 2}, 2, DefaultParams())

	assert.Equal(t, 1, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrev)
}

func TestApply(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, Apply(items, Params{Page: 2, PerPage: 2, Offset: 2}))
	assert.Equal(t, []int{5}, Apply(items, Params{Page: 3, PerPage: 2, Offset: 4}))
	assert.Empty(t, Apply(items, Params{Page: 4, PerPage: 2, Offset: 6}))
}
