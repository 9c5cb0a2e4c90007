package domain

// CategoryUpdate is a partial update of a category. Empty fields are not sent.
type CategoryUpdate struct {
	CategoryID      int64        `json:"category_id"`
	Title           string       `json:"title,omitempty"`
	HTMLTitle       string       `json:"html_title,omitempty"`
	MetaDescription string       `json:"meta_description,omitempty"`
	MetaKeywords    string       `json:"meta_keywords,omitempty"`
	Description     string       `json:"description,omitempty"`
	FieldValues     []FieldValue `json:"field_values,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (u CategoryUpdate) IsEmpty() bool {
	return u.Title == "" && u.HTMLTitle == "" && u.MetaDescription == "" &&
		u.MetaKeywords == "" && u.Description == "" && len(u.FieldValues) == 0
}

// ChangedFields names the fields the update touches, used for the page change log.
func (u CategoryUpdate) ChangedFields() []string {
	var fields []string
	if u.Title != "" {
		fields = append(fields, "title")
	}
	if u.HTMLTitle != "" {
		fields = append(fields, "html_title")
	}
	if u.MetaDescription != "" {
		fields = append(fields, "meta_description")
	}
	if u.MetaKeywords != "" {
		fields = append(fields, "meta_keywords")
	}
	if u.Description != "" {
		fields = append(fields, "description")
	}
	if len(u.FieldValues) > 0 {
		fields = append(fields, "field_values")
	}
	return fields
}

// BatchResult accumulates the outcome of a batch that never stops on the first failure.
type BatchResult struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Errors    map[int64]string `json:"errors,omitempty"`
}

func NewBatchResult() *BatchResult {
	return &BatchResult{Errors: make(map[int64]string)}
}

func (r *BatchResult) Success() {
	r.Total++
	r.Succeeded++
}

func (r *BatchResult) Failure(id int64, err error) {
	r.Total++
	r.Failed++
	r.Errors[id] = err.Error()
}
