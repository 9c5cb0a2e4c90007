package service

import (
	"context"
	"fmt"

	"insales/catsync/internal/domain"
	"insales/catsync/internal/positions"

	log "github.com/sirupsen/logrus"
)

const historyLimit = 50

// RecordPositionCheck stores a ranking observation with its change against the
// previous check of the same query.
func (s *Service) RecordPositionCheck(ctx context.Context, check domain.PositionCheck) (domain.PositionCheck, error) {
	if check.Query == "" {
		return check, fmt.Errorf("position check for category %d has no query", check.CategoryID)
	}
	if check.CheckedAt.IsZero() {
		check.CheckedAt = s.clock.Now()
	}

	prev, err := s.positions.LastCheck(ctx, check.CategoryID, check.Query)
	if err != nil {
		return check, err
	}
	check.Change = positions.ChangeLabel(prev, check)

	if err := s.positions.SaveCheck(ctx, check); err != nil {
		return check, err
	}

	log.Infof("✅ Position check for %q saved: Yandex %d, Google %d (%s)",
		check.Query, check.Yandex, check.Google, check.Change)
	return check, nil
}

// PositionReport is the ranking history of a category with its recent page edits.
type PositionReport struct {
	positions.Report
	Changes []domain.PageChange
}

func (s *Service) PositionReport(ctx context.Context, categoryID int64) (*PositionReport, error) {
	history, err := s.positions.History(ctx, categoryID, historyLimit)
	if err != nil {
		return nil, err
	}

	changes, err := s.positions.RecentPageChanges(ctx, categoryID, 10)
	if err != nil {
		return nil, err
	}

	return &PositionReport{
		Report:  positions.BuildReport(categoryID, history),
		Changes: changes,
	}, nil
}
