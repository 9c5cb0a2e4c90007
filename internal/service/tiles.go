package service

import (
	"context"
	"fmt"

	"insales/catsync/internal/domain"
	"insales/catsync/internal/layout"
	"insales/catsync/internal/tiles"

	log "github.com/sirupsen/logrus"
)

// Layout resolves the section offsets of a category sheet.
func (s *Service) Layout(ctx context.Context, sheet layout.Sheet) (domain.SectionMap, error) {
	var sections domain.SectionMap
	err := s.withSheet(ctx, sheet, func(_ *layout.MemoryGrid, m domain.SectionMap) (bool, error) {
		sections = m
		return false, nil
	})
	if err != nil {
		return domain.SectionMap{}, err
	}

	for _, anomaly := range sections.Anomalies {
		log.Warnf("⚠️ %s: %s", sheet.Name(), anomaly)
	}
	return sections, nil
}

// PublishOptions selects where the new tags of a publish come from.
type PublishOptions struct {
	// FromKeywords takes the new tags from the checked rows of the keyword table
	// instead of the right half of the tile tables.
	FromKeywords bool
}

// TilesReport is the outcome of publishing both tag blocks of a category.
type TilesReport struct {
	Sections domain.SectionMap
	Upper    tiles.Result
	Lower    tiles.Result
	Skipped  []domain.Anomaly // keyword rows left out of the tiles
	Update   domain.CategoryUpdate
}

// PublishTiles reconciles the upper and lower tag tables of the sheet, writes the
// resulting blocks back into the grid and sends them to the category's link fields.
// The sheet stays leased from loading until the updated grid is saved.
func (s *Service) PublishTiles(ctx context.Context, sheet layout.Sheet, categoryID int64, opts PublishOptions) (*TilesReport, error) {
	var report *TilesReport
	err := s.withSheet(ctx, sheet, func(grid *layout.MemoryGrid, sections domain.SectionMap) (bool, error) {
		var err error
		report, err = s.publishTiles(ctx, grid, sections, categoryID, opts)
		return err == nil, err
	})
	if err != nil {
		log.Errorf("❌ Failed to publish tiles of %s: %v", sheet.Name(), err)
		return nil, err
	}
	return report, nil
}

func (s *Service) publishTiles(ctx context.Context, grid *layout.MemoryGrid, sections domain.SectionMap, categoryID int64, opts PublishOptions) (*TilesReport, error) {
	report := &TilesReport{Sections: sections}

	var newTags map[domain.SectionKind][]domain.AnchorTag
	if opts.FromKeywords {
		var err error
		newTags, report.Skipped, err = s.keywordTags(ctx, tiles.ReadKeywords(grid, sections))
		if err != nil {
			return nil, err
		}
	}

	upper, err := s.reconcileTable(grid, sections, domain.SectionUpperTile, newTags)
	if err != nil {
		return nil, err
	}
	lower, err := s.reconcileTable(grid, sections, domain.SectionLowerTile, newTags)
	if err != nil {
		return nil, err
	}
	report.Upper, report.Lower = upper, lower

	fields, err := s.linkFieldValues(ctx, categoryID, upper.HTML, lower.HTML)
	if err != nil {
		return nil, err
	}

	report.Update = domain.CategoryUpdate{CategoryID: categoryID, FieldValues: fields}
	if err := s.applyUpdate(ctx, report.Update, "tag tiles"); err != nil {
		return nil, err
	}

	log.Infof("✅ Published %d upper and %d lower tags to category %d",
		len(upper.Tags), len(lower.Tags), categoryID)
	return report, nil
}

// reconcileTable merges one tile table. The new tags come from newTags when it is
// set, otherwise from the right half of the table.
func (s *Service) reconcileTable(grid *layout.MemoryGrid, sections domain.SectionMap, kind domain.SectionKind, newTags map[domain.SectionKind][]domain.AnchorTag) (tiles.Result, error) {
	table, err := tiles.ReadTable(grid, sections, kind)
	if err != nil {
		return tiles.Result{}, err
	}

	after := table.After
	if newTags != nil {
		after = newTags[kind]
	}

	result := tiles.Reconcile(table.Before, after)
	if _, err := tiles.Write(grid, sections, kind, table, after, result.HTML); err != nil {
		return tiles.Result{}, err
	}

	for _, anomaly := range result.Anomalies {
		log.Warnf("⚠️ %s: %s", kind, anomaly)
	}
	log.Debugf("%s: %d published, %d new, %d kept", kind, len(table.Before), len(after), len(result.Tags))
	return result, nil
}

// linkFieldValues maps the two blocks onto the category's extra fields, reusing the
// existing field value ids so the API updates them in place.
func (s *Service) linkFieldValues(ctx context.Context, categoryID int64, upperHTML, lowerHTML string) ([]domain.FieldValue, error) {
	fields, err := s.client.ListCollectionFields(ctx)
	if err != nil {
		return nil, err
	}
	fieldIDs := make(map[string]int64, len(fields))
	for _, f := range fields {
		fieldIDs[f.Title] = f.ID
	}

	category, err := s.client.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	valueIDs := make(map[int64]int64, len(category.FieldValues))
	for _, v := range category.FieldValues {
		valueIDs[v.CollectionFieldID] = v.ID
	}

	values := make([]domain.FieldValue, 0, 2)
	for _, block := range []struct {
		title string
		html  string
	}{
		{s.upperField, upperHTML},
		{s.lowerField, lowerHTML},
	} {
		fieldID, ok := fieldIDs[block.title]
		if !ok {
			return nil, fmt.Errorf("category field %q does not exist", block.title)
		}
		values = append(values, domain.FieldValue{
			ID:                valueIDs[fieldID],
			CollectionFieldID: fieldID,
			Value:             block.html,
		})
	}
	return values, nil
}

// PublishedTiles parses the link blocks currently stored on the category.
func (s *Service) PublishedTiles(ctx context.Context, categoryID int64) (upper, lower []domain.AnchorTag, err error) {
	fields, err := s.client.ListCollectionFields(ctx)
	if err != nil {
		return nil, nil, err
	}
	titles := make(map[int64]string, len(fields))
	for _, f := range fields {
		titles[f.ID] = f.Title
	}

	category, err := s.client.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}

	for _, v := range category.FieldValues {
		var dst *[]domain.AnchorTag
		switch titles[v.CollectionFieldID] {
		case s.upperField:
			dst = &upper
		case s.lowerField:
			dst = &lower
		default:
			continue
		}
		tags, err := tiles.Parse(v.Value)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse field %d of category %d: %w", v.CollectionFieldID, categoryID, err)
		}
		*dst = tags
	}
	return upper, lower, nil
}
