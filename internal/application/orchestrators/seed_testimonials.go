package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ironhall/internal/domain/testimonial"
)

// TestimonialStoreForSeed defines the store interface needed by SeedTestimonials.
type TestimonialStoreForSeed interface {
	Save(ctx context.Context, t testimonial.Testimonial) error
	List(ctx context.Context) ([]testimonial.Testimonial, error)
}

// SeedTestimonialsDeps holds dependencies for SeedTestimonials.
type SeedTestimonialsDeps struct {
	TestimonialStore TestimonialStoreForSeed
}

// ExecuteSeedTestimonials creates starter testimonials if none exist.
func ExecuteSeedTestimonials(ctx context.Context, deps SeedTestimonialsDeps) error {
	existing, err := deps.TestimonialStore.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil // Already seeded
	}

	testimonials := []testimonial.Testimonial{
		{
			ID: uuid.New().String(), Author: "Mere T.",
			Quote:  "Went from never touching a barbell to a 100kg deadlift in four months. The coaching is patient and precise.",
			Rating: 5, Published: true, DisplayOrder: 1, CreatedAt: time.Now(),
		},
		{
			ID: uuid.New().String(), Author: "Dan K.",
			Quote:  "The strength block fixed the plateau I'd been stuck on for a year. Worth every cent.",
			Rating: 5, Published: true, DisplayOrder: 2, CreatedAt: time.Now(),
		},
		{
			ID: uuid.New().String(), Author: "Alex R.",
			Quote:  "First powerlifting meet done, nine for nine on attempts. Could not have asked for better prep.",
			Rating: 4, Published: true, DisplayOrder: 3, CreatedAt: time.Now(),
		},
	}

	for _, t := range testimonials {
		if err := deps.TestimonialStore.Save(ctx, t); err != nil {
			return err
		}
	}

	slog.Info("seed_event", "event", "testimonials_seeded", "testimonials", len(testimonials))
	return nil
}
