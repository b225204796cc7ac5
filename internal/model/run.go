package model

import "time"

// RunStatus tracks a pipeline run through the store.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is the persisted record of one pipeline execution.
type Run struct {
	ID        string       `json:"id"`
	Source    string       `json:"source"` // transcript path or "http"
	Status    RunStatus    `json:"status"`
	Error     string       `json:"error,omitempty"`
	Result    *FinalOutput `json:"result,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
