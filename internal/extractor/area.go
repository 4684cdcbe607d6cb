package extractor

import (
	"fmt"
	"strconv"
	"strings"
)

// Area is a rectangle on the page in PDF points, measured from the top-left
// corner: Top and Bottom are distances from the top edge, Left and Right from
// the left edge.
type Area struct {
	Top, Left, Bottom, Right float64
}

// DefaultArea is large enough to cover any common page size.
var DefaultArea = Area{Top: 0, Left: 0, Bottom: 2480, Right: 3508}

// Contains reports whether the point (x, fromTop) lies inside the area.
func (a Area) Contains(x, fromTop float64) bool {
	return x >= a.Left && x <= a.Right && fromTop >= a.Top && fromTop <= a.Bottom
}

// ParseArea parses "top,left,bottom,right".
func ParseArea(s string) (Area, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Area{}, fmt.Errorf("area must be T,L,B,R, got %q", s)
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Area{}, fmt.Errorf("invalid area coordinate %q: %w", p, err)
		}
		v[i] = f
	}

	a := Area{Top: v[0], Left: v[1], Bottom: v[2], Right: v[3]}
	if a.Bottom <= a.Top || a.Right <= a.Left {
		return Area{}, fmt.Errorf("area %q is empty", s)
	}
	return a, nil
}

// ParsePages parses "all" or a comma-separated list of 1-based page numbers.
// "all" and "" return nil.
func ParsePages(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return nil, nil
	}

	var pages []int
	for _, p := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid page number %q", p)
		}
		pages = append(pages, n)
	}
	return pages, nil
}
