// internal/pkg/pagination/pagination_test.go
package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Params{Page: 0, Limit: 500}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.Limit)
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, Params{Page: 2, Limit: 3}, 7)
	assert.Equal(t, 2, page.PageNumber)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(7), page.TotalResults)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 40, Params{Page: 3, Limit: 20}.Offset())
}
