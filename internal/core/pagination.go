package core

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number  int
	PerPage int
}

// Normalize clamps the page to valid bounds: page >= 1, 1 <= per page <= MaxPerPage.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.PerPage
}

// TotalPages returns ceil(total / per page).
func (p Page) TotalPages(total int) int {
	p = p.Normalize()
	return (total + p.PerPage - 1) / p.PerPage
}
