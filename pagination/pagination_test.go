package pagination

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func render(pages []Page) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

func TestVisiblePages(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    string
	}{
		{name: "single page", current: 1, total: 1, want: "1"},
		{name: "no pages", current: 1, total: 0, want: "1"},
		{name: "two pages", current: 1, total: 2, want: "1 2"},
		{name: "start of long list", current: 1, total: 10, want: "1 2 3 ... 10"},
		{name: "no leading gap", current: 4, total: 10, want: "1 2 3 4 5 6 ... 10"},
		{name: "middle", current: 5, total: 10, want: "1 ... 3 4 5 6 7 ... 10"},
		{name: "end of long list", current: 10, total: 10, want: "1 ... 8 9 10"},
		{name: "no trailing gap", current: 7, total: 10, want: "1 ... 5 6 7 8 9 10"},
		{name: "small list", current: 3, total: 5, want: "1 2 3 4 5"},
		{name: "far middle", current: 250, total: 500, want: "1 ... 248 249 250 251 252 ... 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(VisiblePages(tt.current, tt.total)))
		})
	}
}

func TestVisiblePages_Current(t *testing.T) {
	pages := VisiblePages(5, 10)

	var current []int
	for _, p := range pages {
		if p.Current {
			current = append(current, p.Number)
		}
	}
	assert.Equal(t, []int{5}, current)
}

func TestVisiblePages_NoDuplicates(t *testing.T) {
	for total := 1; total <= 12; total++ {
		for current := 1; current <= total; current++ {
			seen := make(map[int]bool)
			for _, p := range VisiblePages(current, total) {
				if p.Ellipsis {
					continue
				}
				assert.False(t, seen[p.Number], "page %d repeated for %d/%d", p.Number, current, total)
				seen[p.Number] = true
			}
		}
	}
}

func TestClampTotal(t *testing.T) {
	assert.Equal(t, 0, ClampTotal(-3))
	assert.Equal(t, 42, ClampTotal(42))
	assert.Equal(t, MaxPages, ClampTotal(38000))
}

func TestNew(t *testing.T) {
	w := New(1, 1200)
	assert.Equal(t, 500, w.Total)
	assert.False(t, w.HasPrevious)
	assert.True(t, w.HasNext)
	assert.Equal(t, "1 2 3 ... 500", render(w.Pages))

	w = New(500, 1200)
	assert.True(t, w.HasPrevious)
	assert.False(t, w.HasNext)
}
