package queue

import (
	"context"
	"testing"
	"time"

	"insales/catsync/internal/config"
	"insales/catsync/internal/domain"
	"insales/catsync/internal/domain/task"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestStreamName(t *testing.T) {
	tests := []struct {
		task task.Task
		want string
	}{
		{&task.CategoryUpdateTask{}, "catsync:stream:CategoryUpdateTask"},
		{&task.UpdateRetryTask{}, "catsync:stream:UpdateRetryTask"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := StreamName(tt.task.TaskType()); got != tt.want {
				t.Errorf("StreamName = %q, want %q", got, tt.want)
			}
		})
	}

	if len(TaskTypes) != len(tests) {
		t.Errorf("TaskTypes = %v, every task type needs a stream", TaskTypes)
	}
}

func newTestQueue(t *testing.T) *RedisQueue {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	q, err := NewRedisQueue(context.Background(), rdb, config.RedisConfig{ConsumerGroup: "catsync"})
	if err != nil {
		t.Fatalf("NewRedisQueue failed: %v", err)
	}
	rq := q.(*RedisQueue)
	rq.block = 10 * time.Millisecond
	return rq
}

func TestRedisQueue_AddGetAck(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)
	stream := StreamName(task.CategoryUpdateTaskType)

	// groups already exist, a second pass must not fail
	if err := q.EnsureStreamsExist(ctx); err != nil {
		t.Fatalf("EnsureStreamsExist failed: %v", err)
	}

	id, err := q.AddTask(ctx, &task.CategoryUpdateTask{
		Update: domain.CategoryUpdate{CategoryID: 42, HTMLTitle: "Сапоги"},
		Source: "test",
	})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	msg, err := q.GetTask(ctx, "catsync", "worker-1", stream)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if msg == nil || msg.ID != id || msg.Values["task_type"] != task.CategoryUpdateTaskType {
		t.Fatalf("message = %+v, want id %s", msg, id)
	}
	got, err := task.UnmarshalTask[task.CategoryUpdateTask]([]byte(msg.Values["task_data"].(string)))
	if err != nil {
		t.Fatalf("UnmarshalTask failed: %v", err)
	}
	if got.Update.CategoryID != 42 || got.Source != "test" {
		t.Errorf("task = %+v", got)
	}

	if err := q.AckTask(ctx, stream, "catsync", msg.ID); err != nil {
		t.Fatalf("AckTask failed: %v", err)
	}

	empty, err := q.GetTask(ctx, "catsync", "worker-1", stream)
	if err != nil || empty != nil {
		t.Errorf("GetTask on drained stream = %+v, %v", empty, err)
	}
	claimed, err := q.AutoClaim(ctx, "catsync", "autoclaimer", stream, 0)
	if err != nil || len(claimed) != 0 {
		t.Errorf("acked message was claimed: %+v, %v", claimed, err)
	}
}

func TestRedisQueue_AutoClaim(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)
	stream := StreamName(task.UpdateRetryTaskType)

	id, err := q.AddTask(ctx, &task.UpdateRetryTask{Update: domain.CategoryUpdate{CategoryID: 7}, RetryCount: 1})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	// read by a consumer that never acks
	if msg, err := q.GetTask(ctx, "catsync", "dead-worker", stream); err != nil || msg == nil {
		t.Fatalf("GetTask = %+v, %v", msg, err)
	}

	claimed, err := q.AutoClaim(ctx, "catsync", "autoclaimer", stream, 0)
	if err != nil {
		t.Fatalf("AutoClaim failed: %v", err)
	}
	if len(claimed) != 1 || claimed[0].ID != id {
		t.Fatalf("claimed = %+v, want %s", claimed, id)
	}
}
