package testimonial

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxAuthorLength = 100
	MaxQuoteLength  = 1000
)

// Testimonial is a client quote shown on the public site once published.
type Testimonial struct {
	ID           string
	Author       string
	Quote        string // markdown
	Rating       int    // 1-5
	Published    bool
	DisplayOrder int
	CreatedAt    time.Time
}

// Validate checks if the Testimonial has valid data.
// PRE: Testimonial struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (tm *Testimonial) Validate() error {
	if strings.TrimSpace(tm.Author) == "" {
		return errors.New("testimonial author cannot be empty")
	}
	if len(tm.Author) > MaxAuthorLength {
		return errors.New("author cannot exceed 100 characters")
	}
	if strings.TrimSpace(tm.Quote) == "" {
		return errors.New("testimonial quote cannot be empty")
	}
	if len(tm.Quote) > MaxQuoteLength {
		return errors.New("quote cannot exceed 1000 characters")
	}
	if tm.Rating < 1 || tm.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

// Publish marks the testimonial as visible on the public site.
// PRE: Testimonial is valid
// POST: Published is true
func (tm *Testimonial) Publish() {
	tm.Published = true
}

// Unpublish hides the testimonial from the public site.
// POST: Published is false
func (tm *Testimonial) Unpublish() {
	tm.Published = false
}
