package pagination

// Params are normalized page/limit query values
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit into sane bounds
func Normalize(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the row offset for the current page
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block returned alongside list responses
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

// NewMeta builds response metadata from a total row count
func NewMeta(total int64, p Params) Meta {
	pages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		pages++
	}
	return Meta{
		Total: total,
		Page:  p.Page,
		Pages: pages,
		Limit: p.Limit,
	}
}
