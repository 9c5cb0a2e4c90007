package tiles

import (
	"regexp"
	"strconv"
	"strings"

	"insales/catsync/internal/domain"
	"insales/catsync/internal/layout"
)

// Category statuses written to the keyword table.
const (
	StatusExists  = "✅ Существует"
	StatusMissing = "❌ Не найдена"
	StatusURL     = "🔗 URL указан"
	StatusInvalid = "⚠️ Неверный формат"
	StatusCreate  = "➕ Создать новую"
	StatusCreated = "✅ Создана"
	StatusError   = "❌ Ошибка"
)

// LinkKind classifies the category cell of a keyword row.
type LinkKind int

const (
	LinkNone LinkKind = iota
	LinkID
	LinkURL
	LinkHandle
)

var numericLink = regexp.MustCompile(`^\d+$`)

// KeywordRow is one filled row of the keyword table.
type KeywordRow struct {
	Row      int    `json:"row"`
	Checked  bool   `json:"checked"`
	Keyword  string `json:"keyword"`
	TileType string `json:"tile_type"`
	Anchor   string `json:"anchor,omitempty"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
	ParentID int64  `json:"parent_id,omitempty"`
}

// ReadKeywords reads the keyword table measured by the section map. Rows without a keyword are skipped.
func ReadKeywords(g layout.Grid, m domain.SectionMap) []KeywordRow {
	var rows []KeywordRow
	for row := m.KeywordsStart; row < m.KeywordsStart+m.KeywordsCount; row++ {
		keyword := strings.TrimSpace(g.Cell(row, layout.ColKeyword))
		if keyword == "" {
			continue
		}

		k := KeywordRow{
			Row:      row,
			Checked:  parseCheckbox(g.Cell(row, layout.ColKeywordChecked)),
			Keyword:  keyword,
			TileType: strings.TrimSpace(g.Cell(row, layout.ColKeywordTile)),
			Anchor:   strings.TrimSpace(g.Cell(row, layout.ColKeywordAnchor)),
			Category: strings.TrimSpace(g.Cell(row, layout.ColKeywordCategory)),
			Status:   strings.TrimSpace(g.Cell(row, layout.ColKeywordStatus)),
		}
		if id, err := strconv.ParseInt(strings.TrimSpace(g.Cell(row, layout.ColKeywordParent)), 10, 64); err == nil && id > 0 {
			k.ParentID = id
		}
		rows = append(rows, k)
	}
	return rows
}

// Kind returns the tile the row belongs to.
func (k KeywordRow) Kind() (domain.SectionKind, bool) {
	switch {
	case strings.Contains(k.TileType, "Верхн"):
		return domain.SectionUpperTile, true
	case strings.Contains(k.TileType, "Нижн"):
		return domain.SectionLowerTile, true
	}
	return 0, false
}

// AnchorText is the link label: the anchor cell or the keyword itself.
func (k KeywordRow) AnchorText() string {
	if k.Anchor != "" {
		return k.Anchor
	}
	return k.Keyword
}

// Link classifies the category cell. The id is set for LinkID.
func (k KeywordRow) Link() (LinkKind, int64) {
	switch {
	case k.Category == "":
		return LinkNone, 0
	case numericLink.MatchString(k.Category):
		id, err := strconv.ParseInt(k.Category, 10, 64)
		if err != nil {
			return LinkHandle, 0
		}
		return LinkID, id
	case strings.Contains(k.Category, "://"), strings.HasPrefix(k.Category, "/"):
		return LinkURL, 0
	default:
		return LinkHandle, 0
	}
}

// NeedsCategory reports whether a category has to be created for the row.
func (k KeywordRow) NeedsCategory() bool {
	return k.Category == "" || strings.Contains(k.Status, "Создать")
}

// Usable reports whether a checked row can become a tag.
func (k KeywordRow) Usable() bool {
	return k.Checked && k.Category != "" && !strings.HasPrefix(k.Status, "❌")
}

// SetKeywordStatus writes the category status of a keyword row.
func SetKeywordStatus(g *layout.MemoryGrid, row int, status string) {
	g.Set(row, layout.ColKeywordStatus, status)
}

// SetKeywordCategory points a keyword row at a category.
func SetKeywordCategory(g *layout.MemoryGrid, row int, id int64) {
	g.Set(row, layout.ColKeywordCategory, strconv.FormatInt(id, 10))
}
