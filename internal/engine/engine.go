// Package engine orchestrates the SDD pipeline: init → specify → plan
// → tasks → implement. It owns phase ordering, template resolution and
// state persistence; the heavy lifting lives in the leaf packages.
package engine

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/HendryAvila/sdd-kit/internal/artifacts"
	"github.com/HendryAvila/sdd-kit/internal/compliance"
	"github.com/HendryAvila/sdd-kit/internal/plan"
	"github.com/HendryAvila/sdd-kit/internal/render"
	"github.com/HendryAvila/sdd-kit/internal/report"
	"github.com/HendryAvila/sdd-kit/internal/spec"
	"github.com/HendryAvila/sdd-kit/internal/state"
	"github.com/HendryAvila/sdd-kit/internal/task"
	"github.com/HendryAvila/sdd-kit/internal/templates"
)

var timeNow = time.Now

// TemplateFile is the filename of the persisted template overrides
// under the project's .sdd directory.
const TemplateFile = "templates.json"

// DocsDir is the subdirectory for rendered governance documents.
const DocsDir = "docs"

// Options configures a new Engine.
type Options struct {
	// ProjectRoot is the directory the engine persists under. Empty
	// means the process working directory.
	ProjectRoot string
	// Templates are overrides layered on top of the persisted
	// override file; explicit options win.
	Templates templates.Overrides
}

// Engine runs the phases of one SDD project and persists every result.
// It assumes at most one in-flight mutating call per project root.
type Engine struct {
	projectRoot string
	overrides   templates.Overrides
	registry    templates.Registry
	store       *state.Store
	ledger      *artifacts.Ledger
}

// New builds an engine rooted at opts.ProjectRoot. Persisted template
// overrides are loaded and merged under opts.Templates. The artifact
// ledger is an independent subsystem: failure to open it is logged and
// the engine runs without it.
func New(opts Options) (*Engine, error) {
	root := opts.ProjectRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		root = wd
	}

	e := &Engine{
		projectRoot: root,
		store:       state.NewStore(root),
	}

	persisted, err := loadPersistedOverrides(e.templateStorePath())
	if err != nil {
		return nil, err
	}
	e.overrides = persisted.Merge(opts.Templates)
	e.registry = templates.Resolve(e.overrides)

	ledger, err := artifacts.Open(filepath.Join(root, state.StateDir))
	if err != nil {
		log.Printf("WARNING: artifact ledger unavailable, continuing without it: %v", err)
	} else {
		e.ledger = ledger
	}

	return e, nil
}

// Root returns the project root the engine persists under.
func (e *Engine) Root() string {
	return e.projectRoot
}

// Templates returns the effective template registry.
func (e *Engine) Templates() templates.Registry {
	return e.registry
}

// Close releases the artifact ledger. The engine is unusable after.
func (e *Engine) Close() error {
	if e.ledger == nil {
		return nil
	}
	return e.ledger.Close()
}

// InitOptions names the project being initialized.
type InitOptions struct {
	ProjectName string `json:"projectName"`
	Domain      string `json:"domain"`
	Description string `json:"description"`
}

// InitializeProject writes the initial project state plus the rendered
// constitution and principles documents under <root>/docs/.
func (e *Engine) InitializeProject(opts InitOptions) (*state.ProjectState, error) {
	now := timeNow().UTC().Format(time.RFC3339)

	constitution := render.Render(e.registry.Constitution, map[string]any{
		"projectName": opts.ProjectName,
		"domain":      opts.Domain,
		"description": opts.Description,
		"principles": []any{
			"业务价值优先",
			"端到端可追溯",
			"自动化即默认",
		},
		"governanceModel": "双周节奏会 + 规范审查委员会",
		"deliveryCadence": "每两周一次增量评审",
		"qualityBar":      []any{"质量门槛数字化", "安全红线左移"},
		"compliance": []any{
			map[string]any{"standard": "iso-25010", "summary": "初始化基线"},
			map[string]any{"standard": "owasp-asvs", "summary": "威胁建模排期"},
		},
		"generatedAt": now,
	})

	principles := render.Render(e.registry.Principles, map[string]any{
		"principles": []any{
			map[string]any{
				"title":     "标准即产品",
				"statement": "所有规范均以可执行资产交付",
				"impact":    "减少认知偏差",
				"practices": "模板+校验+报告",
			},
			map[string]any{
				"title":     "透明化推进",
				"statement": "每个任务状态可视",
				"impact":    "支撑治理决策",
				"practices": "看板+报告",
			},
		},
	})

	docsDir := filepath.Join(e.projectRoot, DocsDir)
	constitutionPath := filepath.Join(docsDir, "constitution.md")
	if err := writeFileSafe(constitutionPath, constitution); err != nil {
		return nil, err
	}
	if err := writeFileSafe(filepath.Join(docsDir, "principles.md"), principles); err != nil {
		return nil, err
	}

	st := &state.ProjectState{
		Metadata: state.Metadata{
			Name:        opts.ProjectName,
			Domain:      opts.Domain,
			Description: opts.Description,
			CreatedAt:   now,
		},
		ProgressHistory: []task.ProgressSnapshot{},
	}
	if err := e.store.Write(st); err != nil {
		return nil, err
	}

	e.record("init", "constitution", constitutionPath)
	return st, nil
}

// ConstitutionOptions carries the governance inputs for re-rendering
// the constitution document.
type ConstitutionOptions struct {
	GuidingPrinciples []string `json:"guidingPrinciples"`
	GovernanceModel   string   `json:"governanceModel"`
	DeliveryCadence   string   `json:"deliveryCadence"`
}

// UpdateConstitution re-renders and rewrites docs/constitution.md from
// the current metadata and the supplied governance inputs. Stored phase
// outputs are untouched.
func (e *Engine) UpdateConstitution(opts ConstitutionOptions) (string, error) {
	st, err := e.requireState()
	if err != nil {
		return "", err
	}

	principles := make([]any, len(opts.GuidingPrinciples))
	for i, p := range opts.GuidingPrinciples {
		principles[i] = p
	}
	complianceRows := []any{}
	if st.Specification != nil {
		for _, finding := range st.Specification.Compliance {
			complianceRows = append(complianceRows, map[string]any{
				"standard": string(finding.StandardID),
				"summary":  finding.Summary,
			})
		}
	}

	content := render.Render(e.registry.Constitution, map[string]any{
		"projectName":     st.Metadata.Name,
		"domain":          st.Metadata.Domain,
		"description":     st.Metadata.Description,
		"principles":      principles,
		"governanceModel": opts.GovernanceModel,
		"deliveryCadence": opts.DeliveryCadence,
		"qualityBar":      []any{"度量透明化", "缺陷零容忍"},
		"compliance":      complianceRows,
		"generatedAt":     timeNow().UTC().Format(time.RFC3339),
	})

	filePath := filepath.Join(e.projectRoot, DocsDir, "constitution.md")
	if err := writeFileSafe(filePath, content); err != nil {
		return "", err
	}

	e.record("constitution", "constitution", filePath)
	return filePath, nil
}

// UpdateTemplates merges partial overrides into the persisted override
// store and returns the resolved registry. Overrides survive process
// restarts; they are kept apart from project state.
func (e *Engine) UpdateTemplates(partial templates.Overrides) (templates.Registry, error) {
	e.overrides = e.overrides.Merge(partial)
	e.registry = templates.Resolve(e.overrides)

	data, err := json.MarshalIndent(e.overrides, "", "  ")
	if err != nil {
		return templates.Registry{}, fmt.Errorf("marshaling template overrides: %w", err)
	}
	if err := writeFileSafe(e.templateStorePath(), string(data)); err != nil {
		return templates.Registry{}, err
	}
	return e.registry, nil
}

// Specify generates a specification from intake and persists it. An
// absent project state is bootstrapped from the intake metadata, so
// specify works on a fresh root.
func (e *Engine) Specify(input spec.Input) (*spec.Specification, error) {
	specification := spec.Generate(input)

	st, err := e.store.Update(func(current *state.ProjectState) *state.ProjectState {
		if current == nil {
			current = &state.ProjectState{
				Metadata: state.Metadata{
					Name:        input.ProjectName,
					Domain:      input.Domain,
					Description: input.Summary,
					CreatedAt:   timeNow().UTC().Format(time.RFC3339),
				},
				ProgressHistory: []task.ProgressSnapshot{},
			}
		}
		current.Specification = &specification
		return current
	})
	if err != nil {
		return nil, err
	}

	e.record("specify", "specification", "specification")
	return st.Specification, nil
}

// PlanOptions optionally supplies the specification to plan from
// instead of the persisted one.
type PlanOptions struct {
	Specification *spec.Specification
}

// Plan derives the technical plan from the given or persisted
// specification and persists it.
func (e *Engine) Plan(opts PlanOptions) (*plan.TechnicalPlan, error) {
	specification := opts.Specification
	if specification == nil {
		st, err := e.requireState()
		if err != nil {
			return nil, err
		}
		specification = st.Specification
	}
	if specification == nil {
		return nil, &MissingPredecessorError{Phase: "plan", Needs: "specification"}
	}

	technicalPlan := plan.Build(*specification)

	_, err := e.store.Update(func(current *state.ProjectState) *state.ProjectState {
		if current == nil {
			current = &state.ProjectState{
				Metadata: state.Metadata{
					Name:        specification.ProjectName,
					Domain:      specification.Domain,
					Description: specification.ExecutiveSummary,
					CreatedAt:   timeNow().UTC().Format(time.RFC3339),
				},
				ProgressHistory: []task.ProgressSnapshot{},
			}
		}
		current.Specification = specification
		current.Plan = &technicalPlan
		return current
	})
	if err != nil {
		return nil, err
	}

	e.record("plan", "technicalPlan", "plan")
	return &technicalPlan, nil
}

// TasksOptions optionally supplies the plan to derive tasks from
// instead of the persisted one.
type TasksOptions struct {
	Plan *plan.TechnicalPlan
}

// Tasks derives the task plan from the persisted specification and the
// given or persisted technical plan, replacing any previous task plan.
func (e *Engine) Tasks(opts TasksOptions) (*task.Plan, error) {
	st, err := e.requireState()
	if err != nil {
		return nil, err
	}

	technicalPlan := opts.Plan
	if technicalPlan == nil {
		technicalPlan = st.Plan
	}
	if technicalPlan == nil {
		return nil, &MissingPredecessorError{Phase: "tasks", Needs: "plan"}
	}
	if st.Specification == nil {
		return nil, &MissingPredecessorError{Phase: "tasks", Needs: "specification"}
	}

	taskPlan := task.DerivePlan(*st.Specification, *technicalPlan)

	_, err = e.store.Update(func(current *state.ProjectState) *state.ProjectState {
		if current == nil {
			current = st
		}
		current.Plan = technicalPlan
		current.TaskPlan = &taskPlan
		return current
	})
	if err != nil {
		return nil, err
	}

	e.record("tasks", "taskPlan", "taskPlan")
	return &taskPlan, nil
}

// ImplementInput carries task updates plus report narrative.
type ImplementInput struct {
	Updates             []task.Update `json:"updates"`
	NarrativeHighlights []string      `json:"narrativeHighlights"`
	Blockers            []string      `json:"blockers"`
}

// ImplementResult bundles the rendered report, its file path and the
// progress snapshot appended to history.
type ImplementResult struct {
	Report   report.Report         `json:"report"`
	FilePath string                `json:"filePath"`
	Progress task.ProgressSnapshot `json:"progress"`
}

// Implement applies task updates, appends a progress snapshot to the
// project history and writes an implementation report. It is repeatable
// and never advances past itself.
func (e *Engine) Implement(input ImplementInput) (*ImplementResult, error) {
	st, err := e.requireState()
	if err != nil {
		return nil, err
	}
	if st.TaskPlan == nil {
		return nil, &MissingPredecessorError{Phase: "implement", Needs: "taskPlan"}
	}

	updatedPlan := *st.TaskPlan
	if len(input.Updates) > 0 {
		updatedPlan = task.ApplyUpdates(updatedPlan, input.Updates)
	}
	progress := task.SummarizeProgress(updatedPlan)

	persisted, err := e.store.Update(func(*state.ProjectState) *state.ProjectState {
		st.TaskPlan = &updatedPlan
		st.ProgressHistory = append(st.ProgressHistory, progress)
		return st
	})
	if err != nil {
		return nil, err
	}

	highlights := input.NarrativeHighlights
	if len(highlights) == 0 {
		highlights = []string{"保持稳定推进"}
	}
	blockers := input.Blockers
	if blockers == nil {
		blockers = []string{}
	}

	rep, filePath, err := report.Compose(report.Params{
		ProjectName:     persisted.Metadata.Name,
		Progress:        progress,
		Highlights:      highlights,
		Blockers:        blockers,
		ComplianceDelta: complianceDelta(persisted.Specification),
		Template:        e.registry.Report,
		ProjectRoot:     e.projectRoot,
	})
	if err != nil {
		return nil, err
	}

	e.record("implement", "report", filePath)
	return &ImplementResult{Report: rep, FilePath: filePath, Progress: progress}, nil
}

// GetState returns the persisted project state, nil when none exists.
func (e *Engine) GetState() (*state.ProjectState, error) {
	return e.store.Read()
}

// Artifacts lists the most recent ledger entries, newest first.
func (e *Engine) Artifacts(limit int) ([]artifacts.Entry, error) {
	if e.ledger == nil {
		return nil, fmt.Errorf("artifact ledger unavailable")
	}
	return e.ledger.List(limit)
}

// complianceDelta keeps only the findings that still carry gaps; a
// report should surface open deviations, not the whole scorecard.
func complianceDelta(specification *spec.Specification) []compliance.Finding {
	if specification == nil {
		return []compliance.Finding{}
	}
	delta := []compliance.Finding{}
	for _, finding := range specification.Compliance {
		if len(finding.Gaps) > 0 {
			delta = append(delta, finding)
		}
	}
	return delta
}

func (e *Engine) requireState() (*state.ProjectState, error) {
	st, err := e.store.Read()
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNotInitialized
	}
	return st, nil
}

func (e *Engine) templateStorePath() string {
	return filepath.Join(e.projectRoot, state.StateDir, TemplateFile)
}

// record appends to the artifact ledger when one is open. Ledger
// failures never fail the phase.
func (e *Engine) record(phase, kind, ref string) {
	if e.ledger == nil {
		return
	}
	if err := e.ledger.Record(phase, kind, ref); err != nil {
		log.Printf("WARNING: recording artifact %s/%s: %v", phase, kind, err)
	}
}

func loadPersistedOverrides(path string) (templates.Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return templates.Overrides{}, nil
		}
		return templates.Overrides{}, fmt.Errorf("reading template overrides: %w", err)
	}

	var overrides templates.Overrides
	if err := json.Unmarshal(data, &overrides); err != nil {
		return templates.Overrides{}, &MalformedInputError{
			Path:    path,
			Purpose: "模板覆盖文件",
			Err:     err,
		}
	}
	return overrides, nil
}

func writeFileSafe(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
