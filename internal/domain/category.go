package domain

// Category is a collection record as returned by the catalog admin API.
type Category struct {
	ID              int64        `json:"id"`
	ParentID        *int64       `json:"parent_id"`
	Title           string       `json:"title"`
	Position        int          `json:"position"`
	URL             string       `json:"url"` // storefront handle
	IsHidden        bool         `json:"is_hidden"`
	HTMLTitle       string       `json:"html_title,omitempty"`
	MetaDescription string       `json:"meta_description,omitempty"`
	MetaKeywords    string       `json:"meta_keywords,omitempty"`
	Description     string       `json:"description,omitempty"`
	FieldValues     []FieldValue `json:"field_values,omitempty"`
}

// FieldValue is a value of an extra collection field.
type FieldValue struct {
	ID                int64  `json:"id,omitempty"`
	CollectionFieldID int64  `json:"collection_field_id,omitempty"`
	Value             string `json:"value"`
}

// CollectionField describes an extra field configured for every collection of the shop.
type CollectionField struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// CategoryNode is a Category placed into the built forest.
type CategoryNode struct {
	Category

	Level    int      // parent hops to the root, root = 0
	Path     []string // ancestor titles, root first, parent last
	Children []*CategoryNode
}

// FlatCategoryRow is one pre-order row of a flattened hierarchy.
type FlatCategoryRow struct {
	ID              int64  `json:"id"`
	ParentID        *int64 `json:"parent_id,omitempty"`
	Level           int    `json:"level"`
	Path            string `json:"path"`         // ancestors joined with " > "
	DisplayPath     string `json:"display_path"` // ancestors and own title
	Title           string `json:"title"`
	URL             string `json:"url"`
	Position        int    `json:"position"`
	IsHidden        bool   `json:"is_hidden"`
	HTMLTitle       string `json:"html_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	Description     string `json:"description,omitempty"`
	ProductsCount   int    `json:"products_count"`
	InStockCount    int    `json:"in_stock_count"`
}

// IndentedTitle renders the title the way the category list shows nesting.
func (r FlatCategoryRow) IndentedTitle() string {
	if r.Level == 0 {
		return r.Title
	}
	prefix := make([]byte, 0, r.Level*2)
	for i := 0; i < r.Level; i++ {
		prefix = append(prefix, ' ', ' ')
	}
	return string(prefix) + "└─ " + r.Title
}
