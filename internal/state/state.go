// Package state persists one project's aggregate SDD state as a single
// JSON document under <projectRoot>/.sdd/state.json.
//
// Reads are fail-soft: a missing or unparsable state file reads as nil,
// never as an error — callers decide whether an absent state matters.
// Writes fully overwrite the file; there is no merging, locking or
// optimistic concurrency. At most one mutating caller per project root
// is assumed; serializing concurrent callers is the embedding adapter's
// job.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HendryAvila/sdd-kit/internal/plan"
	"github.com/HendryAvila/sdd-kit/internal/spec"
	"github.com/HendryAvila/sdd-kit/internal/task"
)

const (
	// StateDir is the subdirectory under the project root holding
	// engine-owned files (state, template overrides, artifact ledger).
	StateDir = ".sdd"
	// StateFile is the filename for the project state document.
	StateFile = "state.json"
)

// Metadata describes the project independent of any phase output.
type Metadata struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// ProjectState is the root aggregate: one per project root, created at
// init and mutated in place by each phase.
type ProjectState struct {
	Metadata        Metadata                `json:"metadata"`
	Specification   *spec.Specification     `json:"specification,omitempty"`
	Plan            *plan.TechnicalPlan     `json:"plan,omitempty"`
	TaskPlan        *task.Plan              `json:"taskPlan,omitempty"`
	ProgressHistory []task.ProgressSnapshot `json:"progressHistory"`
}

// Store reads and writes the state document for one project root.
type Store struct {
	stateFile string
}

// NewStore creates a store rooted at projectRoot.
func NewStore(projectRoot string) *Store {
	return &Store{stateFile: filepath.Join(projectRoot, StateDir, StateFile)}
}

// Path returns the absolute path of the backing state file.
func (s *Store) Path() string {
	return s.stateFile
}

// Read returns the persisted state, or nil if the file is absent or
// unparsable. Only unexpected I/O failures (permissions, disk) surface
// as errors.
func (s *Store) Read() (*ProjectState, error) {
	data, err := os.ReadFile(s.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var st ProjectState
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt state file reads as "no state"; the next write
		// replaces it whole.
		return nil, nil
	}
	return &st, nil
}

// Write replaces the state file with the serialized state, creating
// parent directories as needed.
func (s *Store) Write(st *ProjectState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.stateFile), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return os.WriteFile(s.stateFile, data, 0o644)
}

// Update applies fn to the current state (nil when absent) and persists
// the result. Read-then-write convenience only — not safe under
// concurrent callers.
func (s *Store) Update(fn func(current *ProjectState) *ProjectState) (*ProjectState, error) {
	current, err := s.Read()
	if err != nil {
		return nil, err
	}
	next := fn(current)
	if err := s.Write(next); err != nil {
		return nil, err
	}
	return next, nil
}
