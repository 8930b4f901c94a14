package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/students-demo/students-api/internal/types"
)

// DemoStudents is the data preloaded by Seed.
func DemoStudents() []types.Student {
	return []types.Student{
		types.NewStudent("Kelvin", "Chuks", "SOE", 100),
		types.NewStudent("Marcus", "David", "SOP", 200),
	}
}

// Seed preloads the demo students into s when s holds no students yet, so
// restarting against a file or server database does not duplicate them.
// It keeps going after a failed insert and returns every error joined.
func Seed(ctx context.Context, s Storage, log *slog.Logger) error {
	existing, err := s.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("seed: list students: %w", err)
	}
	if len(existing) > 0 {
		log.Debug("store already populated, skipping preload",
			slog.Int("students", len(existing)))
		return nil
	}

	var finalErr error
	for _, st := range DemoStudents() {
		saved, err := s.Save(ctx, st)
		if err != nil {
			log.Error("failed to preload student",
				slog.String("student", st.String()),
				slog.String("error", err.Error()))
			finalErr = errors.Join(finalErr, fmt.Errorf("seed %s %s: %w", st.FirstName, st.LastName, err))
			continue
		}
		log.Info("preloading " + saved.String())
	}
	return finalErr
}
