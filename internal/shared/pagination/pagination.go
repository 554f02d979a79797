package pagination

// Pages and per_page are 1-based. No upper bound is enforced on
// per_page.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

// Params is the normalized pagination window for a list query.
type Params struct {
	Page    int
	PerPage int
}

// Normalize replaces missing or non-positive values with defaults.
func Normalize(page, perPage int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Offset returns the row offset for the window: (page-1)*per_page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Limit returns the row limit for the window.
func (p Params) Limit() int {
	return p.PerPage
}
