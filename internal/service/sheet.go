package service

import (
	"context"
	"fmt"

	"insales/catsync/internal/domain"
	"insales/catsync/internal/layout"
	"insales/catsync/internal/state"
)

// withSheet loads the sheet and runs fn on its grid while the sheet lease is held.
// When fn reports a change the grid is saved before the lease is released.
func (s *Service) withSheet(ctx context.Context, sheet layout.Sheet, fn func(grid *layout.MemoryGrid, sections domain.SectionMap) (bool, error)) error {
	return state.WithLease(ctx, s.leases, sheet.Name(), func() error {
		grid, err := sheet.Load()
		if err != nil {
			return fmt.Errorf("failed to load sheet %s: %w", sheet.Name(), err)
		}

		changed, err := fn(grid, layout.Compute(grid, s.layout))
		if err != nil || !changed {
			return err
		}

		if err := sheet.Save(grid); err != nil {
			return fmt.Errorf("failed to save sheet %s: %w", sheet.Name(), err)
		}
		return nil
	})
}
