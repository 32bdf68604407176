// Package pagination computes the page-number window shown under a listing.
package pagination

import "strconv"

// MaxPages is the highest page TMDB serves for list endpoints
const MaxPages = 500

// Delta is how many pages are shown on each side of the current page
const Delta = 2

// Page is one entry of the visible window: a page number or an ellipsis
type Page struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// String renders the entry as shown to the user
func (p Page) String() string {
	if p.Ellipsis {
		return "..."
	}
	return strconv.Itoa(p.Number)
}

// ClampTotal caps the reported total page count at MaxPages
func ClampTotal(total int) int {
	return min(max(total, 0), MaxPages)
}

// VisiblePages returns the window for current out of total pages. The first
// and last pages are always present; pages within Delta of current fill the
// middle and gaps are marked with an ellipsis.
func VisiblePages(current, total int) []Page {
	if total <= 1 {
		return []Page{{Number: 1, Current: current == 1}}
	}

	pages := make([]Page, 0, 2*Delta+5)
	seen := make(map[int]bool)
	add := func(n int) {
		if seen[n] {
			return
		}
		seen[n] = true
		pages = append(pages, Page{Number: n, Current: n == current})
	}

	add(1)
	if current-Delta > 2 {
		pages = append(pages, Page{Ellipsis: true})
	}
	for i := max(2, current-Delta); i <= min(total-1, current+Delta); i++ {
		add(i)
	}
	if current+Delta < total-1 {
		pages = append(pages, Page{Ellipsis: true})
	}
	add(total)

	return pages
}

// HasPrevious reports whether a page before current exists
func HasPrevious(current int) bool {
	return current > 1
}

// HasNext reports whether a page after current exists
func HasNext(current, total int) bool {
	return current < total
}

// Window is the pagination block of a listing response
type Window struct {
	Current     int    `json:"current"`
	Total       int    `json:"total"`
	Pages       []Page `json:"pages"`
	HasPrevious bool   `json:"has_previous"`
	HasNext     bool   `json:"has_next"`
}

// New builds the window for a listing page. Total is clamped first.
func New(current, total int) Window {
	total = ClampTotal(total)
	return Window{
		Current:     current,
		Total:       total,
		Pages:       VisiblePages(current, total),
		HasPrevious: HasPrevious(current),
		HasNext:     HasNext(current, total),
	}
}
