package decisionlog

import "time"

// Decision is one row of the scheduling audit trail: every candidate
// the Scheduler scored for a task invocation, plus which one won.
// Grounded on internal/database/models.go's ScalingDecision shape
// (decision type/reasoning/outcome columns), adapted to the scavenger
// domain's candidate-scoring vocabulary.
type Decision struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TaskName  string    `json:"task_name" gorm:"index"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`

	Winner      string  `json:"winner"` // peer name, or "localhost"
	WinnerTime  float64 `json:"winner_time"`
	Complexity  float64 `json:"complexity"`
	Candidates  string  `json:"candidates"` // JSON-encoded []CandidateScore
	PreferRemote bool   `json:"prefer_remote"`

	Outcome string `json:"outcome"` // "remote", "local", "no_surrogates", "error"
	Err     string `json:"err,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// CandidateScore is one scored candidate within a Decision, marshaled
// into Decision.Candidates.
type CandidateScore struct {
	Executor  string  `json:"executor"`
	TotalTime float64 `json:"total_time"`
}

// Observation is one fed-back complexity sample: the outcome of
// actually running a task, used to audit ProfileStore's history
// independent of the binary .dat files.
type Observation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskName  string    `json:"task_name" gorm:"index"`
	Executor  string    `json:"executor" gorm:"index"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`

	InputComplexity    *float64 `json:"input_complexity,omitempty"`
	ObservedComplexity float64  `json:"observed_complexity"`

	CreatedAt time.Time `json:"created_at"`
}
