// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package workflow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/google/uuid"
)

// Outcome is the recorded result of one step.
type Outcome int

const (
	// Passed means the step did what it declared.
	Passed Outcome = iota
	// Failed means the step errored or its assertion did not hold.
	Failed
	// TimedOut means the step's wait condition or action exceeded its budget.
	TimedOut
	// Skipped means the step never ran because the run was aborted.
	Skipped
)

var outcomeNames = []string{"Passed", "Failed", "TimedOut", "Skipped"}

func (o Outcome) String() string {
	if int(o) >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MarshalText renders the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is the outcome of one step, recorded once and never modified.
type Result struct {
	StepIndex int              `json:"step_index"`
	Kind      Kind             `json:"kind"`
	Label     string           `json:"label"`
	Outcome   Outcome          `json:"outcome"`
	ErrorKind shared.ErrorKind `json:"error_kind,omitempty"`
	Message   string           `json:"message,omitempty"`
	Attempts  int              `json:"attempts"`
	Elapsed   time.Duration    `json:"elapsed_ns"`
	// FailedFacets lists facet keys a Fill step could not apply.
	FailedFacets []string `json:"failed_facets,omitempty"`
}

// State is a workflow run state.
type State int

const (
	Idle State = iota
	Acquiring
	Executing
	Aborting
	Releasing
	Completed
	Aborted
)

var stateNames = []string{"Idle", "Acquiring", "Executing", "Aborting", "Releasing", "Completed", "Aborted"}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether s is Completed or Aborted.
func (s State) Terminal() bool {
	return s == Completed || s == Aborted
}

// Report is the run report: one Result per step in execution order.
type Report struct {
	RunID      uuid.UUID
	Name       string
	State      State
	StartedAt  time.Time
	FinishedAt time.Time
	// ReleaseError is set when closing the page failed. It does not affect
	// State or any Result.
	ReleaseError error

	results []Result
}

func newReport(name string) *Report {
	return &Report{RunID: uuid.New(), Name: name, StartedAt: time.Now()}
}

func (r *Report) append(res Result) {
	r.results = append(r.results, res)
}

// Results returns a copy of the recorded results.
func (r *Report) Results() []Result {
	tmp := make([]Result, len(r.results))
	copy(tmp, r.results)
	return tmp
}

// Result returns the result of step i.
func (r *Report) Result(i int) (Result, bool) {
	if i < 0 || i >= len(r.results) {
		return Result{}, false
	}
	return r.results[i], true
}

// Count returns how many results have outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Green reports whether the run completed with every step passing.
func (r *Report) Green() bool {
	if r.State != Completed {
		return false
	}
	return r.Count(Failed) == 0 && r.Count(TimedOut) == 0 && r.Count(Skipped) == 0
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ElapsedOf sums Elapsed over the results of the given step indexes.
func (r *Report) ElapsedOf(indexes ...int) time.Duration {
	var d time.Duration
	for _, i := range indexes {
		if res, ok := r.Result(i); ok {
			d += res.Elapsed
		}
	}
	return d
}

func (r *Report) String() string {
	return fmt.Sprintf("run %s (%s): %s, %d passed, %d failed, %d timed out, %d skipped",
		r.RunID, r.Name, r.State, r.Count(Passed), r.Count(Failed), r.Count(TimedOut), r.Count(Skipped))
}

type reportJSON struct {
	RunID        string    `json:"run_id"`
	Name         string    `json:"name,omitempty"`
	State        State     `json:"state"`
	Green        bool      `json:"green"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	ReleaseError string    `json:"release_error,omitempty"`
	Results      []Result  `json:"results"`
}

// MarshalJSON renders the report for the run report output.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		RunID:      r.RunID.String(),
		Name:       r.Name,
		State:      r.State,
		Green:      r.Green(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Results:    r.Results(),
	}
	if r.ReleaseError != nil {
		out.ReleaseError = r.ReleaseError.Error()
	}
	return json.Marshal(out)
}
