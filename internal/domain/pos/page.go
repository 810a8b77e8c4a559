package pos

// PageMeta mirrors the pagination block of list responses.
type PageMeta struct {
	Total       int `json:"total"`
	PerPage     int `json:"perPage"`
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
	FirstPage   int `json:"firstPage"`
}

// Page is a paginated list response.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Meta.CurrentPage > 1 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Meta.CurrentPage < p.Meta.LastPage }
