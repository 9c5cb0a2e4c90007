package domain

import "fmt"

type AnomalyKind string

func (k AnomalyKind) String() string {
	return string(k)
}

const (
	AnomalyOrphan      AnomalyKind = "orphan"       // parent id not present in input
	AnomalySelfParent  AnomalyKind = "self_parent"  // record names itself as parent
	AnomalyCycle       AnomalyKind = "cycle"        // parent chain loops back
	AnomalyDuplicateID AnomalyKind = "duplicate_id" // later record replaced an earlier one
	AnomalyOrder       AnomalyKind = "section_order"
	AnomalyIncomplete  AnomalyKind = "incomplete_tag"
	AnomalyKeyword     AnomalyKind = "keyword"
)

// Anomaly is a piece of malformed input that was resolved by a fallback policy.
type Anomaly struct {
	Kind    AnomalyKind `json:"kind"`
	ID      int64       `json:"id,omitempty"`
	Row     int         `json:"row,omitempty"`
	Message string      `json:"message"`
}

func (a Anomaly) String() string {
	switch {
	case a.ID != 0:
		return fmt.Sprintf("%s [id=%d]: %s", a.Kind, a.ID, a.Message)
	case a.Row != 0:
		return fmt.Sprintf("%s [row=%d]: %s", a.Kind, a.Row, a.Message)
	default:
		return fmt.Sprintf("%s: %s", a.Kind, a.Message)
	}
}
