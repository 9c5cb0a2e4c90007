package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"insales/catsync/internal/config"
	"insales/catsync/internal/domain"

	"github.com/benbjohnson/clock"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const maxPerPage = 250

type InSalesClient interface {
	ListCategories(ctx context.Context, page, perPage int) ([]domain.Category, error)
	ListAllCategories(ctx context.Context) ([]domain.Category, error)
	ListItems(ctx context.Context, categoryID *int64, page, perPage int) ([]domain.CatalogItem, error)
	ListAllItems(ctx context.Context, categoryID *int64) ([]domain.CatalogItem, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCollectionFields(ctx context.Context) ([]domain.CollectionField, error)
	UpdateCategory(ctx context.Context, update domain.CategoryUpdate) error
	CreateCategory(ctx context.Context, title string, parentID *int64) (*domain.Category, error)
	// AddItemToCategory returns false when the item already belongs to the category.
	AddItemToCategory(ctx context.Context, itemID, categoryID int64) (bool, error)
	// RemoveItemFromCategory returns false when the item was not in the category.
	RemoveItemFromCategory(ctx context.Context, itemID, categoryID int64) (bool, error)
}

type insalesClient struct {
	rl         ratelimit.Limiter
	config     config.InSalesConfig
	httpClient *resty.Client
	clock      clock.Clock
}

func NewInSalesClient(cfg config.InSalesConfig, clk clock.Clock) InSalesClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.APIKey, cfg.Password).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &insalesClient{
		rl:         rl,
		config:     cfg,
		httpClient: client,
		clock:      clk,
	}
}

type collectionPayload struct {
	Title                 string              `json:"title,omitempty"`
	URL                   string              `json:"url,omitempty"`
	ParentID              *int64              `json:"parent_id,omitempty"`
	IsHidden              *bool               `json:"is_hidden,omitempty"`
	HTMLTitle             string              `json:"html_title,omitempty"`
	MetaDescription       string              `json:"meta_description,omitempty"`
	MetaKeywords          string              `json:"meta_keywords,omitempty"`
	Description           string              `json:"description,omitempty"`
	FieldValuesAttributes []domain.FieldValue `json:"field_values_attributes,omitempty"`
}

type collectPayload struct {
	ItemID     int64 `json:"product_id"`
	CategoryID int64 `json:"collection_id"`
}

func (c *insalesClient) ListCategories(ctx context.Context, page, perPage int) ([]domain.Category, error) {
	var categories []domain.Category
	err := c.getJSON(ctx, "/admin/collections.json", pageQuery(page, perPage), &categories)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories page %d: %w", page, err)
	}
	return categories, nil
}

func (c *insalesClient) ListAllCategories(ctx context.Context) ([]domain.Category, error) {
	return listAll(ctx, "categories", c.config.PerPage, c.config.MaxCategoryPages, func(page, perPage int) ([]domain.Category, error) {
		return c.ListCategories(ctx, page, perPage)
	})
}

func (c *insalesClient) ListItems(ctx context.Context, categoryID *int64, page, perPage int) ([]domain.CatalogItem, error) {
	query := pageQuery(page, perPage)
	query["fields"] = "id,title,collections_ids,variants"
	if categoryID != nil {
		query["collection_id"] = strconv.FormatInt(*categoryID, 10)
	}

	var items []domain.CatalogItem
	if err := c.getJSON(ctx, "/admin/products.json", query, &items); err != nil {
		return nil, fmt.Errorf("failed to list items page %d: %w", page, err)
	}
	return items, nil
}

func (c *insalesClient) ListAllItems(ctx context.Context, categoryID *int64) ([]domain.CatalogItem, error) {
	return listAll(ctx, "items", c.config.PerPage, c.config.MaxItemPages, func(page, perPage int) ([]domain.CatalogItem, error) {
		return c.ListItems(ctx, categoryID, page, perPage)
	})
}

func (c *insalesClient) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var category domain.Category
	if err := c.getJSON(ctx, fmt.Sprintf("/admin/collections/%d.json", id), nil, &category); err != nil {
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return &category, nil
}

func (c *insalesClient) ListCollectionFields(ctx context.Context) ([]domain.CollectionField, error) {
	var fields []domain.CollectionField
	if err := c.getJSON(ctx, "/admin/collection_fields.json", nil, &fields); err != nil {
		return nil, fmt.Errorf("failed to list collection fields: %w", err)
	}
	return fields, nil
}

func (c *insalesClient) UpdateCategory(ctx context.Context, update domain.CategoryUpdate) error {
	if update.IsEmpty() {
		return fmt.Errorf("update for category %d has no fields", update.CategoryID)
	}

	body := map[string]collectionPayload{
		"collection": {
			Title:                 update.Title,
			HTMLTitle:             update.HTMLTitle,
			MetaDescription:       update.MetaDescription,
			MetaKeywords:          update.MetaKeywords,
			Description:           update.Description,
			FieldValuesAttributes: update.FieldValues,
		},
	}

	endpoint := fmt.Sprintf("/admin/collections/%d.json", update.CategoryID)
	if _, err := c.do(ctx, http.MethodPut, endpoint, nil, body, true); err != nil {
		return fmt.Errorf("failed to update category %d: %w", update.CategoryID, err)
	}

	log.Debugf("Updated category %d: %v", update.CategoryID, update.ChangedFields())
	return nil
}

func (c *insalesClient) CreateCategory(ctx context.Context, title string, parentID *int64) (*domain.Category, error) {
	hidden := false
	body := map[string]collectionPayload{
		"collection": {
			Title:     title,
			URL:       Slugify(title),
			HTMLTitle: title,
			IsHidden:  &hidden,
			ParentID:  parentID,
		},
	}

	// creation is not idempotent, a retried POST could create the category twice
	resp, err := c.do(ctx, http.MethodPost, "/admin/collections.json", nil, body, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", title, err)
	}

	var category domain.Category
	if err := json.Unmarshal([]byte(resp.String()), &category); err != nil {
		return nil, fmt.Errorf("failed to decode created category %q: %w", title, err)
	}
	return &category, nil
}

func (c *insalesClient) AddItemToCategory(ctx context.Context, itemID, categoryID int64) (bool, error) {
	body := map[string]collectPayload{
		"collect": {ItemID: itemID, CategoryID: categoryID},
	}

	_, err := c.do(ctx, http.MethodPost, "/admin/collects.json", nil, body, true)
	if statusOf(err) == http.StatusUnprocessableEntity {
		log.Debugf("Item %d already in category %d", itemID, categoryID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to add item %d to category %d: %w", itemID, categoryID, err)
	}
	return true, nil
}

func (c *insalesClient) RemoveItemFromCategory(ctx context.Context, itemID, categoryID int64) (bool, error) {
	query := map[string]string{
		"collection_id": strconv.FormatInt(categoryID, 10),
		"product_id":    strconv.FormatInt(itemID, 10),
		"per_page":      strconv.Itoa(maxPerPage),
	}

	var memberships []domain.Membership
	if err := c.getJSON(ctx, "/admin/collects.json", query, &memberships); err != nil {
		return false, fmt.Errorf("failed to find membership of item %d in category %d: %w", itemID, categoryID, err)
	}

	removed := false
	for _, m := range memberships {
		// the API may ignore the product filter
		if m.ItemID != itemID || m.CategoryID != categoryID {
			continue
		}
		endpoint := fmt.Sprintf("/admin/collects/%d.json", m.ID)
		if _, err := c.do(ctx, http.MethodDelete, endpoint, nil, nil, true); err != nil {
			return removed, fmt.Errorf("failed to remove item %d from category %d: %w", itemID, categoryID, err)
		}
		removed = true
	}
	return removed, nil
}

func (c *insalesClient) getJSON(ctx context.Context, endpoint string, query map[string]string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, endpoint, query, nil, true)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(resp.String()), out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// do sends one request. Retried calls repeat on 429/503 with a fixed delay up to
// MaxRetries attempts; any other error status ends the call at once.
func (c *insalesClient) do(ctx context.Context, method, endpoint string, query map[string]string, body any, retry bool) (*resty.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", method, endpoint, err)
		}
	}

	attempts := 1
	if retry {
		attempts = max(1, c.config.MaxRetries)
	}

	for attempt := 1; ; attempt++ {
		c.rl.Take()

		req := c.httpClient.R().SetContext(ctx)
		if len(query) > 0 {
			req.SetQueryParams(query)
		}
		if payload != nil {
			req.SetBody(payload)
		}

		resp, err := req.Execute(method, endpoint)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
		}
		if !resp.IsError() {
			return resp, nil
		}

		apiErr := &APIError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode(),
			Attempt:    attempt,
			Body:       resp.String(),
		}
		if !apiErr.Retryable() || !retry {
			return nil, apiErr
		}
		if attempt >= attempts {
			return nil, &RetryExhaustedError{Endpoint: method + " " + endpoint, Attempts: attempt, Last: apiErr}
		}

		log.Warnf("🔄 %s %s returned %d, retrying in %s (attempt %d/%d)",
			method, endpoint, apiErr.StatusCode, c.config.RetryDelay, attempt, attempts)
		c.clock.Sleep(c.config.RetryDelay)
	}
}

func pageQuery(page, perPage int) map[string]string {
	if perPage < 1 || perPage > maxPerPage {
		perPage = maxPerPage
	}
	return map[string]string{
		"page":     strconv.Itoa(max(1, page)),
		"per_page": strconv.Itoa(perPage),
	}
}

// listAll fetches pages until a short page or the page ceiling. Catalogs larger than
// the ceiling are truncated.
func listAll[T any](ctx context.Context, what string, perPage, maxPages int, fetch func(page, perPage int) ([]T, error)) ([]T, error) {
	if perPage < 1 || perPage > maxPerPage {
		perPage = maxPerPage
	}

	var all []T
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := fetch(page, perPage)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		log.Debugf("Fetched %s page %d: %d records", what, page, len(batch))

		if len(batch) < perPage {
			return all, nil
		}
	}

	log.Warnf("⚠️ Stopped loading %s after %d pages, the list may be truncated", what, maxPages)
	return all, nil
}
