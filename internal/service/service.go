package service

import (
	"time"

	"insales/catsync/internal/ai"
	"insales/catsync/internal/client"
	"insales/catsync/internal/config"
	"insales/catsync/internal/layout"
	"insales/catsync/internal/queue"
	"insales/catsync/internal/repository"
	"insales/catsync/internal/state"

	"github.com/benbjohnson/clock"
)

type Service struct {
	categories  repository.CategoryRepository
	positions   repository.PositionRepository
	client      client.InSalesClient
	ai          ai.Client
	queue       queue.Queue
	leases      state.LeaseManager
	clock       clock.Clock
	layout      layout.Options
	upperField  string // title of the extra field holding the upper tag block
	lowerField  string
	assistantID string
	groupName   string
	minIdleTime time.Duration
	maxRetries  int
}

func NewService(
	categories repository.CategoryRepository,
	positions repository.PositionRepository,
	client client.InSalesClient,
	ai ai.Client,
	queue queue.Queue,
	leases state.LeaseManager,
	clk clock.Clock,
	cfg *config.Config,
) *Service {
	return &Service{
		categories:  categories,
		positions:   positions,
		client:      client,
		ai:          ai,
		queue:       queue,
		leases:      leases,
		clock:       clk,
		layout:      cfg.Layout,
		upperField:  cfg.InSales.UpperFieldTitle,
		lowerField:  cfg.InSales.LowerFieldTitle,
		assistantID: cfg.OpenAI.AssistantID,
		groupName:   cfg.Redis.ConsumerGroup,
		minIdleTime: cfg.Redis.MinIdleTime,
		maxRetries:  cfg.Redis.MaxRetries,
	}
}
