package task

import "insales/catsync/internal/domain"

const UpdateRetryTaskType = "UpdateRetryTask"

type UpdateRetryTask struct {
	Update     domain.CategoryUpdate `json:"update"`
	RetryCount int                   `json:"retry_count"` // Number of times this update has been retried
	Error      string                `json:"error"`       // Error message from the last failure
}

func (t *UpdateRetryTask) TaskType() string {
	return UpdateRetryTaskType
}

func (t *UpdateRetryTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
