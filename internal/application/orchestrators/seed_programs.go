package orchestrators

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"ironhall/internal/domain/program"
)

// ProgramStoreForSeed defines the store interface needed by SeedPrograms.
type ProgramStoreForSeed interface {
	Save(ctx context.Context, p program.Program) error
	List(ctx context.Context) ([]program.Program, error)
}

// SeedProgramsDeps holds dependencies for SeedPrograms.
type SeedProgramsDeps struct {
	ProgramStore ProgramStoreForSeed
}

// ExecuteSeedPrograms creates the default program catalogue if none exist.
func ExecuteSeedPrograms(ctx context.Context, deps SeedProgramsDeps) error {
	existing, err := deps.ProgramStore.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil // Already seeded
	}

	programs := []program.Program{
		{
			ID: uuid.New().String(), Slug: "foundations", Name: "Foundations",
			Level: program.LevelFoundation, DurationWeeks: 8, PriceCents: 44900,
			Description: "Learn the squat, bench, deadlift and press from scratch with two coached sessions a week.",
			Active:      true, DisplayOrder: 1,
		},
		{
			ID: uuid.New().String(), Slug: "strength-block", Name: "Strength Block",
			Level: program.LevelIntermediate, DurationWeeks: 12, PriceCents: 64900,
			Description: "A twelve-week linear progression for lifters past the novice stage, with monthly assessments.",
			Active:      true, DisplayOrder: 2,
		},
		{
			ID: uuid.New().String(), Slug: "competition-prep", Name: "Competition Prep",
			Level: program.LevelAdvanced, DurationWeeks: 16, PriceCents: 89900,
			Description: "Peaking cycle for powerlifting meets: attempt selection, commands practice and a full mock meet.",
			Active:      true, DisplayOrder: 3,
		},
	}

	for _, p := range programs {
		if err := deps.ProgramStore.Save(ctx, p); err != nil {
			return err
		}
	}

	slog.Info("seed_event", "event", "programs_seeded", "programs", len(programs))
	return nil
}
