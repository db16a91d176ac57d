package service

import (
	"time"
)

// EntityStatus is the outcome of one entity within a run.
type EntityStatus string

const (
	StatusLoaded  EntityStatus = "loaded"
	StatusSkipped EntityStatus = "skipped"
	StatusFailed  EntityStatus = "failed"
)

// EntityResult describes what a run did for one entity.
type EntityResult struct {
	Entity        string        `json:"entity"`
	Status        EntityStatus  `json:"status"`
	RowsRead      int           `json:"rows_read"`
	RowsDropped   int           `json:"rows_dropped"`
	RowsLoaded    int           `json:"rows_loaded"`
	RowsAffected  int64         `json:"rows_affected"`
	OmittedRatios []string      `json:"omitted_ratios,omitempty"`
	Error         string        `json:"error,omitempty"`
	Duration      time.Duration `json:"duration"`
}

// RunReport collects the per-entity results of one pipeline run.
type RunReport struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Results    []EntityResult `json:"results"`
}

// Result returns the result of entityName, if the run processed it.
func (r *RunReport) Result(entityName string) (EntityResult, bool) {
	for _, res := range r.Results {
		if res.Entity == entityName {
			return res, true
		}
	}
	return EntityResult{}, false
}

// Failed reports whether any entity failed.
func (r *RunReport) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Duration is the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
