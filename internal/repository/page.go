package repository

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a skip/limit window. Out-of-range windows yield empty results.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}
