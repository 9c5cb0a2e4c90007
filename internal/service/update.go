package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"insales/catsync/internal/client"
	"insales/catsync/internal/domain"
	"insales/catsync/internal/domain/task"

	log "github.com/sirupsen/logrus"
)

// applyUpdate sends a partial update and records it in the page change log.
// A failed log write does not fail the update.
func (s *Service) applyUpdate(ctx context.Context, update domain.CategoryUpdate, comment string) error {
	if err := s.client.UpdateCategory(ctx, update); err != nil {
		return err
	}

	change := domain.PageChange{
		ChangedAt:  s.clock.Now(),
		CategoryID: update.CategoryID,
		Fields:     update.ChangedFields(),
		Comment:    comment,
	}
	if err := s.positions.LogPageChange(ctx, change); err != nil {
		log.Warnf("⚠️ Failed to log page change for category %d: %v", update.CategoryID, err)
	}
	return nil
}

// BulkUpdate sends updates one after another. Every update is attempted; failures
// are collected in the result.
func (s *Service) BulkUpdate(ctx context.Context, updates []domain.CategoryUpdate) *domain.BatchResult {
	result := domain.NewBatchResult()

	for i, update := range updates {
		if err := ctx.Err(); err != nil {
			result.Failure(update.CategoryID, err)
			continue
		}

		log.Infof("🔄 Updating category %d (%d/%d): %s",
			update.CategoryID, i+1, len(updates), strings.Join(update.ChangedFields(), ", "))

		if err := s.applyUpdate(ctx, update, "bulk update"); err != nil {
			log.Errorf("❌ Category %d: %v", update.CategoryID, err)
			result.Failure(update.CategoryID, err)
			continue
		}
		result.Success()
	}

	log.Infof("✅ Bulk update finished: %d succeeded, %d failed", result.Succeeded, result.Failed)
	return result
}

// EnqueueUpdates puts updates on the update stream for the workers. Empty updates are skipped.
func (s *Service) EnqueueUpdates(ctx context.Context, updates []domain.CategoryUpdate, source string) (int, error) {
	queued := 0
	for _, update := range updates {
		if update.IsEmpty() {
			log.Warnf("⚠️ Skipping empty update for category %d", update.CategoryID)
			continue
		}
		if _, err := s.queue.AddTask(ctx, &task.CategoryUpdateTask{Update: update, Source: source}); err != nil {
			return queued, fmt.Errorf("failed to enqueue update for category %d: %w", update.CategoryID, err)
		}
		queued++
	}

	log.Infof("✅ Queued %d updates", queued)
	return queued, nil
}

// permanent reports whether retrying err cannot help: the API rejected the
// request itself rather than being unavailable.
func permanent(err error) bool {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return !apiErr.Retryable() && apiErr.StatusCode < 500
}
