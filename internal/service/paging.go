package service

// Page is one page of a filtered list along with the total match count.
type Page[T any] struct {
	Items  []T
	Total  int
	Limit  int
	Offset int
}

// Number returns the 1-based page number.
func (p Page[T]) Number() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}

// Pages returns the number of pages needed to show Total items, at least 1.
func (p Page[T]) Pages() int {
	if p.Limit <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool { return p.Offset > 0 }

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool { return p.Offset+len(p.Items) < p.Total }

// PrevOffset returns the offset of the previous page.
func (p Page[T]) PrevOffset() int { return max(p.Offset-p.Limit, 0) }

// NextOffset returns the offset of the next page.
func (p Page[T]) NextOffset() int { return p.Offset + p.Limit }
