package program

import (
	"errors"
	"strings"
)

// Level constants
const (
	LevelFoundation   = "foundation"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// ValidLevels contains all valid level values.
var ValidLevels = []string{LevelFoundation, LevelIntermediate, LevelAdvanced}

// Program is a coaching program offered on the public site.
type Program struct {
	ID            string
	Slug          string
	Name          string
	Level         string
	DurationWeeks int
	PriceCents    int
	Description   string // markdown
	Active        bool
	DisplayOrder  int
}

// Validate checks if the Program has valid data.
// PRE: Program struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Program) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("program name cannot be empty")
	}
	if strings.TrimSpace(p.Slug) == "" {
		return errors.New("program slug cannot be empty")
	}
	if !isValidLevel(p.Level) {
		return errors.New("level must be 'foundation', 'intermediate', or 'advanced'")
	}
	if p.DurationWeeks <= 0 {
		return errors.New("duration must be at least one week")
	}
	if p.PriceCents < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}

// DiscountedPriceCents applies a percent discount, rounding down.
// PRE: 0 <= percent <= 100
// INVARIANT: Program fields are not mutated
func (p *Program) DiscountedPriceCents(percent int) int {
	if percent <= 0 {
		return p.PriceCents
	}
	if percent >= 100 {
		return 0
	}
	return p.PriceCents * (100 - percent) / 100
}

func isValidLevel(level string) bool {
	for _, l := range ValidLevels {
		if l == level {
			return true
		}
	}
	return false
}
