package service

import (
	"context"

	"insales/catsync/internal/domain"

	log "github.com/sirupsen/logrus"
)

// MembershipResult counts how a batch of membership changes went.
// Unchanged counts items that were already in the requested state.
type MembershipResult struct {
	*domain.BatchResult
	Unchanged int
}

// AddItems puts each item into the category. Items already there are not an error.
func (s *Service) AddItems(ctx context.Context, categoryID int64, itemIDs []int64) *MembershipResult {
	return s.changeMembership(ctx, categoryID, itemIDs, "add", s.client.AddItemToCategory)
}

// RemoveItems takes each item out of the category.
func (s *Service) RemoveItems(ctx context.Context, categoryID int64, itemIDs []int64) *MembershipResult {
	return s.changeMembership(ctx, categoryID, itemIDs, "remove", s.client.RemoveItemFromCategory)
}

func (s *Service) changeMembership(
	ctx context.Context,
	categoryID int64,
	itemIDs []int64,
	action string,
	change func(ctx context.Context, itemID, categoryID int64) (bool, error),
) *MembershipResult {
	result := &MembershipResult{BatchResult: domain.NewBatchResult()}

	log.Infof("🔄 %s %d items, category %d", action, len(itemIDs), categoryID)

	for _, itemID := range itemIDs {
		changed, err := change(ctx, itemID, categoryID)
		if err != nil {
			log.Errorf("❌ Failed to %s item %d: %v", action, itemID, err)
			result.Failure(itemID, err)
			continue
		}
		if !changed {
			result.Unchanged++
		}
		result.Success()
	}

	log.Infof("✅ %s finished: %d succeeded (%d unchanged), %d failed",
		action, result.Succeeded, result.Unchanged, result.Failed)
	return result
}
