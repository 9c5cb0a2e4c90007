package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"insales/catsync/internal/client"
	"insales/catsync/internal/domain"
	"insales/catsync/internal/layout"
	"insales/catsync/internal/tiles"

	log "github.com/sirupsen/logrus"
)

// ErrNoKeywords is returned when tiles are built from a keyword table that has no
// checked row with a category.
var ErrNoKeywords = errors.New("no checked keyword rows with a category")

// KeywordReport summarizes a pass over the keyword table.
type KeywordReport struct {
	Checked  int
	Existing int
	ToCreate int
	Created  int
	Failed   int
	Rows     []tiles.KeywordRow
}

// ValidateKeywords checks the category cell of every keyword row against the
// catalog and writes the resulting status into the row.
func (s *Service) ValidateKeywords(ctx context.Context, sheet layout.Sheet) (*KeywordReport, error) {
	report := &KeywordReport{}
	err := s.withSheet(ctx, sheet, func(grid *layout.MemoryGrid, sections domain.SectionMap) (bool, error) {
		rows := tiles.ReadKeywords(grid, sections)
		for i := range rows {
			status, err := s.keywordStatus(ctx, rows[i])
			if err != nil {
				return false, err
			}
			switch status {
			case tiles.StatusExists, tiles.StatusURL:
				report.Existing++
			case tiles.StatusCreate:
				report.ToCreate++
			}
			rows[i].Status = status
			tiles.SetKeywordStatus(grid, rows[i].Row, status)
		}
		report.Checked = len(rows)
		report.Rows = rows
		return len(rows) > 0, nil
	})
	if err != nil {
		log.Errorf("❌ Failed to validate keywords of %s: %v", sheet.Name(), err)
		return nil, err
	}

	log.Infof("✅ Checked %d keywords of %s: %d existing, %d to create",
		report.Checked, sheet.Name(), report.Existing, report.ToCreate)
	return report, nil
}

func (s *Service) keywordStatus(ctx context.Context, row tiles.KeywordRow) (string, error) {
	link, id := row.Link()
	switch link {
	case tiles.LinkNone:
		return tiles.StatusCreate, nil
	case tiles.LinkURL:
		return tiles.StatusURL, nil
	case tiles.LinkHandle:
		return tiles.StatusInvalid, nil
	}

	if _, err := s.client.GetCategory(ctx, id); err != nil {
		if notFound(err) {
			return tiles.StatusMissing, nil
		}
		return "", fmt.Errorf("failed to check category %d of keyword %q: %w", id, row.Keyword, err)
	}
	return tiles.StatusExists, nil
}

// CreateKeywordCategories creates a visible category for every keyword row that has
// none, titled by its anchor text, under the row's parent id or parentID. The row
// is pointed at the new category.
func (s *Service) CreateKeywordCategories(ctx context.Context, sheet layout.Sheet, parentID int64) (*KeywordReport, error) {
	report := &KeywordReport{}
	err := s.withSheet(ctx, sheet, func(grid *layout.MemoryGrid, sections domain.SectionMap) (bool, error) {
		rows := tiles.ReadKeywords(grid, sections)
		report.Checked = len(rows)
		for i := range rows {
			row := &rows[i]
			if !row.NeedsCategory() {
				continue
			}
			if ctx.Err() != nil {
				// keep the ids created so far
				break
			}
			report.ToCreate++

			parent := parentID
			if row.ParentID != 0 {
				parent = row.ParentID
			}
			category, err := s.CreateCategory(ctx, row.AnchorText(), &parent)
			if err != nil {
				row.Status = tiles.StatusError
				report.Failed++
			} else {
				row.Category = strconv.FormatInt(category.ID, 10)
				row.Status = tiles.StatusCreated
				tiles.SetKeywordCategory(grid, row.Row, category.ID)
				report.Created++
			}
			tiles.SetKeywordStatus(grid, row.Row, row.Status)
		}
		report.Rows = rows
		return report.ToCreate > 0, nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("✅ Created %d categories for keywords of %s, %d failed", report.Created, sheet.Name(), report.Failed)
	return report, nil
}

// keywordTags turns the checked keyword rows into the new tags of each tile.
// Rows without a tile type or a reachable category are reported and left out.
func (s *Service) keywordTags(ctx context.Context, rows []tiles.KeywordRow) (map[domain.SectionKind][]domain.AnchorTag, []domain.Anomaly, error) {
	tags := make(map[domain.SectionKind][]domain.AnchorTag, 2)
	var skipped []domain.Anomaly
	skip := func(row tiles.KeywordRow, format string, args ...any) {
		skipped = append(skipped, domain.Anomaly{
			Kind:    domain.AnomalyKeyword,
			Row:     row.Row,
			Message: fmt.Sprintf("%q ", row.Keyword) + fmt.Sprintf(format, args...),
		})
	}

	used := 0
	for _, row := range rows {
		if !row.Checked {
			continue
		}
		kind, ok := row.Kind()
		if !ok {
			skip(row, "has no tile type")
			continue
		}
		if !row.Usable() {
			skip(row, "has no usable category (%q)", row.Status)
			continue
		}

		tag := domain.AnchorTag{Text: row.AnchorText(), URL: tiles.NormalizeLink(row.Category)}
		if link, id := row.Link(); link == tiles.LinkID {
			category, err := s.client.GetCategory(ctx, id)
			if err != nil {
				if notFound(err) {
					skip(row, "points at missing category %d", id)
					continue
				}
				return nil, nil, err
			}
			if category.URL == "" {
				skip(row, "category %d has no handle", id)
				continue
			}
			tag.URL, tag.CategoryID = tiles.NormalizeLink(category.URL), id
		}

		tags[kind] = append(tags[kind], tag)
		used++
	}

	for _, a := range skipped {
		log.Warnf("⚠️ %s", a)
	}
	if used == 0 {
		return nil, skipped, ErrNoKeywords
	}
	return tags, skipped, nil
}

func notFound(err error) bool {
	var apiErr *client.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
