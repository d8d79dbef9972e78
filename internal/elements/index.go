package elements

import "sort"

// Index groups elements by page number, preserving input order
// within each page.
type Index struct {
	pages map[int][]Element
	total int
}

// NewIndex builds an Index in a single pass over elems. The input slice is
// not retained or modified.
func NewIndex(elems []Element) *Index {
	idx := &Index{
		pages: make(map[int][]Element),
		total: len(elems),
	}
	for _, e := range elems {
		idx.pages[e.Page] = append(idx.pages[e.Page], e)
	}
	return idx
}

// ForPage returns the elements on page n in input order. Pages with no
// elements, including out-of-range pages, return an empty slice.
func (idx *Index) ForPage(n int) []Element {
	if idx == nil {
		return []Element{}
	}
	bucket := idx.pages[n]
	if len(bucket) == 0 {
		return []Element{}
	}
	out := make([]Element, len(bucket))
	copy(out, bucket)
	return out
}

// Len returns the total number of indexed elements.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.total
}

// Pages returns the page numbers that have elements, ascending.
func (idx *Index) Pages() []int {
	if idx == nil {
		return nil
	}
	pages := make([]int, 0, len(idx.pages))
	for p := range idx.pages {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// CountBeyond counts elements whose page exceeds pageCount. These are
// never shown by the viewer.
func (idx *Index) CountBeyond(pageCount int) int {
	if idx == nil {
		return 0
	}
	n := 0
	for p, bucket := range idx.pages {
		if p > pageCount {
			n += len(bucket)
		}
	}
	return n
}
