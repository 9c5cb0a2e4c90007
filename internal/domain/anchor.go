package domain

// AnchorTag is one labelled link of a tag tile block.
type AnchorTag struct {
	Text       string `json:"text"`
	URL        string `json:"url"`
	Selected   bool   `json:"selected,omitempty"`    // checkbox state of a previously published tag
	CategoryID int64  `json:"category_id,omitempty"` // category the link points to, if known
}

// Complete reports whether the tag has both a label and a target.
func (a AnchorTag) Complete() bool {
	return a.Text != "" && a.URL != ""
}
