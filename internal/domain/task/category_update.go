package task

import "insales/catsync/internal/domain"

const CategoryUpdateTaskType = "CategoryUpdateTask"

type CategoryUpdateTask struct {
	Update domain.CategoryUpdate `json:"update"`
	Source string                `json:"source,omitempty"` // command that enqueued the update
}

func (t *CategoryUpdateTask) TaskType() string {
	return CategoryUpdateTaskType
}

func (t *CategoryUpdateTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
