package service

import (
	"context"
	"fmt"

	"insales/catsync/internal/domain"
	"insales/catsync/internal/hierarchy"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SyncReport summarises one hierarchy sync.
type SyncReport struct {
	Categories int
	Roots      int
	Items      int
	Rows       []domain.FlatCategoryRow
	Anomalies  []domain.Anomaly
}

// SyncHierarchy loads categories and items, rebuilds the flattened hierarchy with
// product counts and stores it.
func (s *Service) SyncHierarchy(ctx context.Context) (*SyncReport, error) {
	var (
		categories []domain.Category
		items      []domain.CatalogItem
	)

	log.Info("🔄 Loading categories and items")

	errGroup, groupCtx := errgroup.WithContext(ctx)
	errGroup.Go(func() error {
		var err error
		categories, err = s.client.ListAllCategories(groupCtx)
		return err
	})
	errGroup.Go(func() error {
		var err error
		items, err = s.client.ListAllItems(groupCtx, nil)
		return err
	})
	if err := errGroup.Wait(); err != nil {
		log.Errorf("❌ Failed to load catalog: %v", err)
		return nil, err
	}

	forest := hierarchy.Build(categories)
	rows := hierarchy.Aggregate(hierarchy.Collect(forest.Roots), items)

	for _, anomaly := range forest.Anomalies {
		log.Warnf("⚠️ %s", anomaly)
	}

	if err := s.categories.SaveRows(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to store hierarchy: %w", err)
	}

	log.Infof("✅ Synced %d categories (%d roots) with %d items", len(rows), len(forest.Roots), len(items))

	return &SyncReport{
		Categories: len(categories),
		Roots:      len(forest.Roots),
		Items:      len(items),
		Rows:       rows,
		Anomalies:  forest.Anomalies,
	}, nil
}

// CategoryPath returns the ancestor titles of a category, root first, including its own title.
func (s *Service) CategoryPath(ctx context.Context, id int64) ([]string, error) {
	categories, err := s.client.ListAllCategories(ctx)
	if err != nil {
		return nil, err
	}
	return hierarchy.Breadcrumb(categories, id)
}

// CreateCategory creates a visible category under parentID, or a root when parentID is nil.
func (s *Service) CreateCategory(ctx context.Context, title string, parentID *int64) (*domain.Category, error) {
	category, err := s.client.CreateCategory(ctx, title, parentID)
	if err != nil {
		log.Errorf("❌ %v", err)
		return nil, err
	}

	log.Infof("✅ Created category %q with id %d at /collection/%s", category.Title, category.ID, category.URL)
	return category, nil
}
