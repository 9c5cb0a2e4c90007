package domain

// Variant is a purchasable variant of a catalog item.
type Variant struct {
	ID       int64   `json:"id,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price,omitempty"`
	SKU      string  `json:"sku,omitempty"`
}

// CatalogItem is a product record with its category memberships.
type CatalogItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title,omitempty"`
	CategoryIDs []int64   `json:"collections_ids"`
	Variants    []Variant `json:"variants"`
}

// InStock reports whether at least one variant has a positive quantity.
func (i CatalogItem) InStock() bool {
	for _, v := range i.Variants {
		if v.Quantity > 0 {
			return true
		}
	}
	return false
}

// Membership is the join record linking an item to a category.
type Membership struct {
	ID         int64 `json:"id"`
	ItemID     int64 `json:"product_id"`
	CategoryID int64 `json:"collection_id"`
}
