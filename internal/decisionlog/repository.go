package decisionlog

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Store provides the decisionlog's data access methods over a DB.
// Grounded on internal/database/repository.go's Repository shape.
type Store struct {
	db *DB
}

// NewStore wraps a DB in a Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// RecordDecision appends one scheduling decision to the audit trail,
// assigning it a fresh ID.
func (s *Store) RecordDecision(d Decision, candidates []CandidateScore) error {
	encoded, err := json.Marshal(candidates)
	if err != nil {
		return err
	}
	d.ID = uuid.New().String()
	d.Candidates = string(encoded)
	return s.db.Create(&d).Error
}

// ListDecisions returns the most recent decisions for a task, newest
// first. A zero limit returns every row.
func (s *Store) ListDecisions(taskName string, limit int) ([]Decision, error) {
	var decisions []Decision
	q := s.db.Order("timestamp DESC")
	if taskName != "" {
		q = q.Where("task_name = ?", taskName)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&decisions).Error
	return decisions, err
}

// RecordObservation appends one profile feedback sample.
func (s *Store) RecordObservation(o Observation) error {
	return s.db.Create(&o).Error
}

// ListObservations returns observations for a task/executor pair,
// newest first. An empty executor matches every executor.
func (s *Store) ListObservations(taskName, executor string, limit int) ([]Observation, error) {
	var observations []Observation
	q := s.db.Where("task_name = ?", taskName).Order("timestamp DESC")
	if executor != "" {
		q = q.Where("executor = ?", executor)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&observations).Error
	return observations, err
}
