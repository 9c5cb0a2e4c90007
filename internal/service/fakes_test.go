package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"insales/catsync/internal/client"
	"insales/catsync/internal/config"
	"insales/catsync/internal/domain"
	"insales/catsync/internal/domain/task"
	"insales/catsync/internal/layout"
	"insales/catsync/internal/state"

	"github.com/benbjohnson/clock"
	"github.com/redis/go-redis/v9"
)

type fakeClient struct {
	categories []domain.Category
	items      []domain.CatalogItem
	fields     []domain.CollectionField
	members    map[int64]bool
	updateErrs map[int64]error
	createErrs map[string]error // by title

	mu      sync.Mutex
	updates []domain.CategoryUpdate
	created []domain.Category
}

func (f *fakeClient) ListCategories(context.Context, int, int) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeClient) ListAllCategories(context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeClient) ListItems(context.Context, *int64, int, int) ([]domain.CatalogItem, error) {
	return f.items, nil
}

func (f *fakeClient) ListAllItems(context.Context, *int64) ([]domain.CatalogItem, error) {
	return f.items, nil
}

func (f *fakeClient) GetCategory(_ context.Context, id int64) (*domain.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, &client.APIError{Method: "GET", Endpoint: "/admin/collections/{id}.json", StatusCode: http.StatusNotFound}
}

func (f *fakeClient) ListCollectionFields(context.Context) ([]domain.CollectionField, error) {
	return f.fields, nil
}

func (f *fakeClient) UpdateCategory(_ context.Context, update domain.CategoryUpdate) error {
	if err := f.updateErrs[update.CategoryID]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeClient) CreateCategory(_ context.Context, title string, parentID *int64) (*domain.Category, error) {
	if err := f.createErrs[title]; err != nil {
		return nil, err
	}
	category := domain.Category{ID: 100 + int64(len(f.created)), ParentID: parentID, Title: title, URL: "new"}
	f.created = append(f.created, category)
	f.categories = append(f.categories, category)
	return &category, nil
}

func (f *fakeClient) AddItemToCategory(_ context.Context, itemID, _ int64) (bool, error) {
	if err := f.updateErrs[itemID]; err != nil {
		return false, err
	}
	if f.members[itemID] {
		return false, nil
	}
	f.members[itemID] = true
	return true, nil
}

func (f *fakeClient) RemoveItemFromCategory(_ context.Context, itemID, _ int64) (bool, error) {
	if !f.members[itemID] {
		return false, nil
	}
	delete(f.members, itemID)
	return true, nil
}

type fakeCategoryRepo struct {
	saved []domain.FlatCategoryRow
}

func (r *fakeCategoryRepo) SaveRows(_ context.Context, rows []domain.FlatCategoryRow) error {
	r.saved = rows
	return nil
}

func (r *fakeCategoryRepo) ListRows(context.Context) ([]domain.FlatCategoryRow, error) {
	return r.saved, nil
}

type fakePositionRepo struct {
	mu      sync.Mutex
	checks  []domain.PositionCheck // oldest first
	changes []domain.PageChange
}

func (r *fakePositionRepo) SaveCheck(_ context.Context, check domain.PositionCheck) error {
	r.checks = append(r.checks, check)
	return nil
}

func (r *fakePositionRepo) LastCheck(_ context.Context, categoryID int64, query string) (*domain.PositionCheck, error) {
	for i := len(r.checks) - 1; i >= 0; i-- {
		if r.checks[i].CategoryID == categoryID && r.checks[i].Query == query {
			c := r.checks[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakePositionRepo) History(_ context.Context, categoryID int64, limit int) ([]domain.PositionCheck, error) {
	var out []domain.PositionCheck
	for i := len(r.checks) - 1; i >= 0 && len(out) < limit; i-- {
		if r.checks[i].CategoryID == categoryID {
			out = append(out, r.checks[i])
		}
	}
	return out, nil
}

func (r *fakePositionRepo) LogPageChange(_ context.Context, change domain.PageChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
	return nil
}

func (r *fakePositionRepo) RecentPageChanges(_ context.Context, categoryID int64, limit int) ([]domain.PageChange, error) {
	var out []domain.PageChange
	for i := len(r.changes) - 1; i >= 0 && len(out) < limit; i-- {
		if r.changes[i].CategoryID == categoryID {
			out = append(out, r.changes[i])
		}
	}
	return out, nil
}

type fakeAI struct {
	prompts   []string
	assistant string
	answer    string
}

func (f *fakeAI) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, nil
}

func (f *fakeAI) RunAssistant(_ context.Context, assistantID, content string) (string, error) {
	f.assistant = assistantID
	f.prompts = append(f.prompts, content)
	return f.answer, nil
}

type fakeQueue struct {
	added []task.Task
	acked []string
}

func (q *fakeQueue) AddTask(_ context.Context, t task.Task) (string, error) {
	q.added = append(q.added, t)
	return "1-0", nil
}

func (q *fakeQueue) GetTask(context.Context, string, string, string) (*redis.XMessage, error) {
	return nil, nil
}

func (q *fakeQueue) AckTask(_ context.Context, stream, _, msgID string) error {
	q.acked = append(q.acked, stream+"/"+msgID)
	return nil
}

func (q *fakeQueue) CreateGroup(context.Context, string, string) error { return nil }

func (q *fakeQueue) AutoClaim(context.Context, string, string, string, time.Duration) ([]redis.XMessage, error) {
	return nil, nil
}

func (q *fakeQueue) EnsureStreamsExist(context.Context) error { return nil }

type fakeLeases struct {
	held map[string]bool
}

func (f *fakeLeases) Acquire(_ context.Context, sheet string) (*state.Lease, error) {
	if f.held[sheet] {
		return nil, state.ErrLeaseHeld
	}
	f.held[sheet] = true
	return &state.Lease{Key: sheet}, nil
}

func (f *fakeLeases) Release(_ context.Context, lease *state.Lease) error {
	delete(f.held, lease.Key)
	return nil
}

// fakeSheet records whether the sheet lease was held when the grid was loaded and saved.
type fakeSheet struct {
	name   string
	grid   *layout.MemoryGrid
	leases *fakeLeases

	loadedLeased bool
	savedLeased  bool
	saves        int
}

func (s *fakeSheet) Name() string { return s.name }

func (s *fakeSheet) Load() (*layout.MemoryGrid, error) {
	s.loadedLeased = s.leases.held[s.name]
	return s.grid, nil
}

func (s *fakeSheet) Save(*layout.MemoryGrid) error {
	s.savedLeased = s.leases.held[s.name]
	s.saves++
	return nil
}

type fixture struct {
	service    *Service
	client     *fakeClient
	categories *fakeCategoryRepo
	positions  *fakePositionRepo
	ai         *fakeAI
	queue      *fakeQueue
	leases     *fakeLeases
	clock      *clock.Mock
}

func newFixture(client *fakeClient) *fixture {
	if client.members == nil {
		client.members = map[int64]bool{}
	}
	f := &fixture{
		client:     client,
		categories: &fakeCategoryRepo{},
		positions:  &fakePositionRepo{},
		ai:         &fakeAI{answer: "<p>описание</p>"},
		queue:      &fakeQueue{},
		leases:     &fakeLeases{held: map[string]bool{}},
		clock:      clock.NewMock(),
	}
	f.clock.Set(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	cfg := &config.Config{
		InSales: config.InSalesConfig{
			UpperFieldTitle: "Блок ссылок сверху",
			LowerFieldTitle: "Блок ссылок",
		},
		Layout: layout.DefaultOptions(),
		Redis: config.RedisConfig{
			ConsumerGroup: "catsync",
			MinIdleTime:   time.Minute,
			MaxRetries:    3,
		},
	}
	f.service = NewService(f.categories, f.positions, f.client, f.ai, f.queue, f.leases, f.clock, cfg)
	return f
}

func (f *fixture) sheet(name string, grid *layout.MemoryGrid) *fakeSheet {
	return &fakeSheet{name: name, grid: grid, leases: f.leases}
}
