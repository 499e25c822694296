package boats

import "strings"

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type SearchParams struct {
	Type          string
	Location      string
	MinCapacity   int
	PriceMinCents int64
	PriceMaxCents int64
	Limit         int
	Offset        int
}

type SearchResult struct {
	Items []*Boat
	Total int
}

// Normalized clamps pagination and lower-cases the filters so repositories can
// compare without caring about caller formatting.
func (p SearchParams) Normalized() SearchParams {
	out := p
	out.Type = strings.ToLower(strings.TrimSpace(p.Type))
	out.Location = strings.TrimSpace(p.Location)
	if out.Limit <= 0 {
		out.Limit = defaultSearchLimit
	}
	if out.Limit > maxSearchLimit {
		out.Limit = maxSearchLimit
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	if out.MinCapacity < 0 {
		out.MinCapacity = 0
	}
	if out.PriceMinCents < 0 {
		out.PriceMinCents = 0
	}
	if out.PriceMaxCents < 0 {
		out.PriceMaxCents = 0
	}
	return out
}

// Matches applies the normalized filters to a single boat.
func (p SearchParams) Matches(b *Boat) bool {
	if b == nil {
		return false
	}
	if p.Type != "" && string(b.Type) != p.Type {
		return false
	}
	if p.Location != "" && !strings.EqualFold(b.Location, p.Location) {
		return false
	}
	if p.MinCapacity > 0 && b.Capacity < p.MinCapacity {
		return false
	}
	if p.PriceMinCents > 0 && b.DailyRate.Amount < p.PriceMinCents {
		return false
	}
	if p.PriceMaxCents > 0 && b.DailyRate.Amount > p.PriceMaxCents {
		return false
	}
	return true
}
