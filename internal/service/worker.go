package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"insales/catsync/internal/domain/task"
	"insales/catsync/internal/queue"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// fetchErrorBackoff is the pause of a worker after a failed read from its stream.
const fetchErrorBackoff = time.Second

// RunUpdateWorkers consumes the update streams until ctx is cancelled.
func (s *Service) RunUpdateWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamName(task.CategoryUpdateTaskType), "main")
	s.runWorkersForStream(ctx, &wg, max(1, numWorkers/2), queue.StreamName(task.UpdateRetryTaskType), "retry")

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Reclaims messages of consumers that died before acking
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := s.clock.Ticker(s.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, s.clock.Now().UnixNano())
				claimedMessages, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimedMessages) > 0 {
					log.Infof("🔄 Auto-claimed %d messages from %s stream", len(claimedMessages), workerType)
					for _, msg := range claimedMessages {
						if err := s.processMessage(ctx, &msg); err != nil {
							log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						if ctx.Err() == nil {
							log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
							select {
							case <-ctx.Done():
							case <-s.clock.After(fetchErrorBackoff):
							}
						}
						continue
					}

					if msg != nil {
						if err := s.processMessage(ctx, msg); err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	switch taskType {
	case task.CategoryUpdateTaskType:
		updateTask, err := task.UnmarshalTask[task.CategoryUpdateTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal category update task: %w", err)
		}
		if err := s.runUpdate(ctx, updateTask); err != nil {
			return err
		}

	case task.UpdateRetryTaskType:
		retryTask, err := task.UnmarshalTask[task.UpdateRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal update retry task: %w", err)
		}
		if err := s.retryUpdate(ctx, retryTask); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, queue.StreamName(taskType), s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

func (s *Service) runUpdate(ctx context.Context, updateTask *task.CategoryUpdateTask) error {
	err := s.applyUpdate(ctx, updateTask.Update, updateTask.Source)
	if err == nil {
		log.Infof("✅ Updated category %d", updateTask.Update.CategoryID)
		return nil
	}

	if permanent(err) {
		log.Errorf("❌ Dropping update for category %d: %v", updateTask.Update.CategoryID, err)
		return nil
	}

	retryTask := &task.UpdateRetryTask{
		Update:     updateTask.Update,
		RetryCount: 0,
		Error:      err.Error(),
	}
	if _, addErr := s.queue.AddTask(ctx, retryTask); addErr != nil {
		log.Errorf("❌ Failed to add retry task for category %d: %v", updateTask.Update.CategoryID, addErr)
		return addErr
	}

	log.Warnf("🔄 Added category %d to retry queue due to error: %v", updateTask.Update.CategoryID, err)
	return nil
}

func (s *Service) retryUpdate(ctx context.Context, retryTask *task.UpdateRetryTask) error {
	retryTask.RetryCount++
	categoryID := retryTask.Update.CategoryID

	log.Infof("🔄 Retrying update of category %d (attempt %d)", categoryID, retryTask.RetryCount)

	err := s.applyUpdate(ctx, retryTask.Update, "retry")
	if err == nil {
		log.Infof("✅ Recovered update of category %d after %d attempts", categoryID, retryTask.RetryCount)
		return nil
	}

	if permanent(err) || retryTask.RetryCount >= s.maxRetries {
		log.Errorf("❌ Giving up on category %d after %d attempts: %v", categoryID, retryTask.RetryCount, err)
		return nil
	}

	next := &task.UpdateRetryTask{
		Update:     retryTask.Update,
		RetryCount: retryTask.RetryCount,
		Error:      err.Error(),
	}
	if _, addErr := s.queue.AddTask(ctx, next); addErr != nil {
		log.Errorf("❌ Failed to re-add retry task for category %d: %v", categoryID, addErr)
		return addErr
	}

	log.Warnf("🔄 Category %d failed again, will retry (attempt %d): %v", categoryID, retryTask.RetryCount, err)
	return nil
}
