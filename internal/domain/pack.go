package domain

import "fmt"

// DefaultPackID is the primary pack: its streak is the one the leaderboard
// ranks.
const DefaultPackID = "daily"

// PackDefinition is a named, bounded range of card ids with its own
// independent daily-pull gate. Static configuration, never mutated at runtime.
type PackDefinition struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CardRangeStart int    `json:"card_range_start"`
	CardRangeEnd   int    `json:"card_range_end"`
}

// Size returns the number of card ids in the pack.
func (p PackDefinition) Size() int {
	return p.CardRangeEnd - p.CardRangeStart + 1
}

// Contains reports whether cardID belongs to this pack's range.
func (p PackDefinition) Contains(cardID int) bool {
	return cardID >= p.CardRangeStart && cardID <= p.CardRangeEnd
}

// Validate rejects malformed definitions at the configuration boundary.
func (p PackDefinition) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pack id is empty")
	}
	if p.CardRangeStart < 1 || p.CardRangeEnd < p.CardRangeStart {
		return fmt.Errorf("pack %s: invalid card range [%d, %d]", p.ID, p.CardRangeStart, p.CardRangeEnd)
	}
	return nil
}

// PackRegistry holds the configured packs keyed by id.
type PackRegistry struct {
	packs map[string]PackDefinition
	order []string
}

func NewPackRegistry(packs []PackDefinition) (*PackRegistry, error) {
	r := &PackRegistry{packs: make(map[string]PackDefinition, len(packs))}
	for _, p := range packs {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.packs[p.ID]; dup {
			return nil, fmt.Errorf("duplicate pack id %s", p.ID)
		}
		r.packs[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r, nil
}

// Get returns the pack definition for id.
func (r *PackRegistry) Get(id string) (PackDefinition, bool) {
	p, ok := r.packs[id]
	return p, ok
}

// All returns the packs in configuration order.
func (r *PackRegistry) All() []PackDefinition {
	out := make([]PackDefinition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.packs[id])
	}
	return out
}
