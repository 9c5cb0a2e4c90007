package task

import "github.com/goccy/go-json"

type Task interface {
	TaskType() string
	TaskValue() ([]byte, error)
}

// DefaultTaskValue provides a common implementation for TaskValue
func DefaultTaskValue(task any) ([]byte, error) {
	return json.Marshal(task)
}

func UnmarshalTask[T any, PT interface {
	*T
	Task
}](data []byte) (PT, error) {
	t := PT(new(T))
	if err := json.Unmarshal(data, t); err != nil {
		return nil, err
	}
	return t, nil
}
