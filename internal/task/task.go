// Package task derives and maintains the dependency-aware task plan.
//
// Derivation is a single ordered pass: analysis tasks per functional
// theme, a chained milestone task per delivery phase, then governance
// tasks per architecture principle. Task ids are generated and unique
// within a plan; regenerating a plan replaces the previous one whole.
package task

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/HendryAvila/sdd-kit/internal/plan"
	"github.com/HendryAvila/sdd-kit/internal/spec"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// --- Status enum ---

// Status tracks a task through its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

var validStatuses = map[Status]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusBlocked:    true,
	StatusDone:       true,
}

// ValidateStatus returns an error if the status is not recognized.
func ValidateStatus(s Status) error {
	if !validStatuses[s] {
		return fmt.Errorf("invalid task status %q: must be one of: pending, in_progress, blocked, done", s)
	}
	return nil
}

// --- Category enum ---

// Category groups tasks for the board swimlanes.
type Category string

const (
	CategoryAnalysis   Category = "analysis"
	CategoryPlanning   Category = "planning"
	CategoryBuild      Category = "build"
	CategoryQA         Category = "qa"
	CategoryGovernance Category = "governance"
)

// --- Data structures ---

// Task is one unit of work in the plan.
type Task struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Owner         string   `json:"owner,omitempty"`
	Status        Status   `json:"status"`
	Category      Category `json:"category"`
	EstimateHours int      `json:"estimateHours"`
	Dependencies  []string `json:"dependencies"`
	Deliverables  []string `json:"deliverables"`
	Tags          []string `json:"tags"`
}

// Board groups task ids into named swimlanes plus the focus areas.
type Board struct {
	Swimlanes  map[string][]string `json:"swimlanes"`
	FocusAreas []string            `json:"focusAreas"`
}

// Plan is the root task aggregate. Regeneration discards the previous
// plan rather than merging.
type Plan struct {
	Tasks        []Task   `json:"tasks"`
	Board        Board    `json:"board"`
	CriticalPath []string `json:"criticalPath"`
	GeneratedAt  string   `json:"generatedAt"`
}

// Update is one requested mutation of a task.
type Update struct {
	TaskID string `json:"taskId"`
	Status Status `json:"status,omitempty"`
	Owner  string `json:"owner,omitempty"`
	Note   string `json:"note,omitempty"`
}

// ProgressSnapshot is a point-in-time summary of plan execution.
type ProgressSnapshot struct {
	Timestamp      string   `json:"timestamp"`
	Completed      int      `json:"completed"`
	InProgress     int      `json:"inProgress"`
	Blocked        int      `json:"blocked"`
	RemainingHours int      `json:"remainingHours"`
	BurndownNotes  []string `json:"burndownNotes"`
}

// Fixed estimates for generated tasks.
const (
	analysisEstimateHours   = 16
	governanceEstimateHours = 8
	hoursPerPhaseWeek       = 8
	criticalPathLength      = 5
)

// DerivePlan generates the task plan from a specification and its
// technical plan.
//
// Generation order is fixed: one analysis task per functional theme,
// one milestone task per delivery phase (the first in_progress, later
// ones pending and depending on exactly the prior phase task), then one
// governance task per architecture principle.
func DerivePlan(specification spec.Specification, technicalPlan plan.TechnicalPlan) Plan {
	var tasks []Task

	for _, theme := range specification.FunctionalThemes {
		tasks = append(tasks, Task{
			ID:            uuid.NewString(),
			Title:         fmt.Sprintf("%s 规范定稿", theme.Name),
			Description:   fmt.Sprintf("完成 %s 相关规范与验收标准", theme.Name),
			Status:        StatusPending,
			Category:      CategoryAnalysis,
			EstimateHours: analysisEstimateHours,
			Dependencies:  []string{},
			Deliverables:  []string{"规范文档", "验收 checklist"},
			Tags:          []string{theme.Name},
		})
	}

	var previousPhaseID string
	for i, phase := range technicalPlan.DeliveryPhases {
		status := StatusPending
		category := CategoryPlanning
		dependencies := []string{}
		if i == 0 {
			status = StatusInProgress
			category = CategoryAnalysis
		} else {
			dependencies = []string{previousPhaseID}
		}

		phaseTask := Task{
			ID:            uuid.NewString(),
			Title:         fmt.Sprintf("%s 里程碑", phase.Name),
			Description:   fmt.Sprintf("确保 %s 目标达成", phase.Name),
			Status:        status,
			Category:      category,
			EstimateHours: phase.DurationWeeks * hoursPerPhaseWeek,
			Dependencies:  dependencies,
			Deliverables:  copyStrings(phase.ExitCriteria),
			Tags:          []string{phase.ID},
		}
		tasks = append(tasks, phaseTask)
		previousPhaseID = phaseTask.ID
	}

	for _, principle := range technicalPlan.ArchitecturePrinciples {
		tasks = append(tasks, Task{
			ID:            uuid.NewString(),
			Title:         fmt.Sprintf("%s 审查", principle.Name),
			Description:   principle.Statement,
			Status:        StatusPending,
			Category:      CategoryGovernance,
			EstimateHours: governanceEstimateHours,
			Dependencies:  []string{},
			Deliverables:  copyStrings(principle.Practices),
			Tags:          []string{"architecture"},
		})
	}

	swimlanes := map[string][]string{
		"分析": idsByCategory(tasks, CategoryAnalysis),
		"规划": idsByCategory(tasks, CategoryPlanning),
		"落地": idsByCategory(tasks, CategoryBuild),
	}

	criticalPath := []string{}
	for _, t := range tasks {
		if t.Category == CategoryGovernance {
			continue
		}
		criticalPath = append(criticalPath, t.ID)
		if len(criticalPath) == criticalPathLength {
			break
		}
	}

	focusAreas := make([]string, len(specification.FunctionalThemes))
	for i, theme := range specification.FunctionalThemes {
		focusAreas[i] = theme.Name
	}

	if tasks == nil {
		tasks = []Task{}
	}

	return Plan{
		Tasks:        tasks,
		Board:        Board{Swimlanes: swimlanes, FocusAreas: focusAreas},
		CriticalPath: criticalPath,
		GeneratedAt:  timeNow().UTC().Format(time.RFC3339),
	}
}

// copyStrings clones a slice, normalizing nil to an empty slice so the
// wire form is always [] rather than null.
func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func idsByCategory(tasks []Task, category Category) []string {
	ids := []string{}
	for _, t := range tasks {
		if t.Category == category {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// ApplyUpdates returns a new plan with the updates applied. Updates
// naming unknown task ids are ignored silently. Task order, the board,
// the critical path and generatedAt are untouched.
func ApplyUpdates(taskPlan Plan, updates []Update) Plan {
	byID := make(map[string]int, len(taskPlan.Tasks))
	tasks := make([]Task, len(taskPlan.Tasks))
	for i, t := range taskPlan.Tasks {
		tasks[i] = t
		tasks[i].Dependencies = copyStrings(t.Dependencies)
		tasks[i].Deliverables = copyStrings(t.Deliverables)
		tasks[i].Tags = copyStrings(t.Tags)
		byID[t.ID] = i
	}

	for _, update := range updates {
		i, ok := byID[update.TaskID]
		if !ok {
			continue
		}
		if update.Status != "" {
			tasks[i].Status = update.Status
		}
		if update.Owner != "" {
			tasks[i].Owner = update.Owner
		}
		if update.Note != "" {
			tasks[i].Deliverables = append(tasks[i].Deliverables, update.Note)
		}
	}

	next := taskPlan
	next.Tasks = tasks
	return next
}

// SummarizeProgress counts tasks by status and totals outstanding
// hours. remainingHours sums estimates of every task not done.
func SummarizeProgress(taskPlan Plan) ProgressSnapshot {
	var completed, inProgress, blocked, remainingHours int
	for _, t := range taskPlan.Tasks {
		switch t.Status {
		case StatusDone:
			completed++
		case StatusInProgress:
			inProgress++
		case StatusBlocked:
			blocked++
		}
		if t.Status != StatusDone {
			remainingHours += t.EstimateHours
		}
	}

	completedPercent := 0
	if total := len(taskPlan.Tasks); total > 0 {
		completedPercent = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return ProgressSnapshot{
		Timestamp:      timeNow().UTC().Format(time.RFC3339),
		Completed:      completed,
		InProgress:     inProgress,
		Blocked:        blocked,
		RemainingHours: remainingHours,
		BurndownNotes: []string{
			fmt.Sprintf("完成率 %d%%", completedPercent),
			fmt.Sprintf("剩余 %d 小时", remainingHours),
		},
	}
}
