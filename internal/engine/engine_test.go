package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/sdd-kit/internal/spec"
	"github.com/HendryAvila/sdd-kit/internal/state"
	"github.com/HendryAvila/sdd-kit/internal/task"
	"github.com/HendryAvila/sdd-kit/internal/templates"
)

func newTestEngine(t *testing.T, root string) *Engine {
	t.Helper()
	e, err := New(Options{ProjectRoot: root})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func sampleIntake() spec.Input {
	return spec.Input{
		ProjectName:     "星图平台",
		Domain:          "知识管理",
		Summary:         "构建规范驱动的交付中台",
		BusinessDrivers: []string{"agile iteration feedback"},
		PrimaryModules:  []string{"规范中心"},
		Requirements: []spec.Requirement{
			{
				ID:          "REQ-1",
				Title:       "规范中心需求管理",
				Description: "支持 process audit trace 全链路",
				Category:    spec.CategoryFunctional,
				Priority:    "high",
			},
		},
	}
}

func TestFullPipeline(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)

	st, err := e.InitializeProject(InitOptions{
		ProjectName: "星图平台",
		Domain:      "知识管理",
		Description: "构建规范驱动的交付中台",
	})
	require.NoError(t, err)
	assert.Equal(t, "星图平台", st.Metadata.Name)
	assert.Empty(t, st.ProgressHistory)

	constitution, err := os.ReadFile(filepath.Join(root, "docs", "constitution.md"))
	require.NoError(t, err)
	assert.Contains(t, string(constitution), "星图平台 研发宪章")
	assert.Contains(t, string(constitution), "- 业务价值优先")
	assert.Contains(t, string(constitution), "双周节奏会 + 规范审查委员会")
	assert.Contains(t, string(constitution), "- iso-25010：初始化基线")

	principles, err := os.ReadFile(filepath.Join(root, "docs", "principles.md"))
	require.NoError(t, err)
	assert.Contains(t, string(principles), "## 标准即产品")

	specification, err := e.Specify(sampleIntake())
	require.NoError(t, err)
	require.NotNil(t, specification)
	assert.Equal(t, "星图平台", specification.ProjectName)

	technicalPlan, err := e.Plan(PlanOptions{})
	require.NoError(t, err)
	require.Len(t, technicalPlan.DeliveryPhases, 3)

	taskPlan, err := e.Tasks(TasksOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, taskPlan.Tasks)

	result, err := e.Implement(ImplementInput{
		Updates: []task.Update{{TaskID: taskPlan.Tasks[0].ID, Status: task.StatusDone}},
	})
	require.NoError(t, err)
	assert.Equal(t, "星图平台 实施报告", result.Report.Title)
	assert.Equal(t, 1, result.Progress.Completed)
	assert.True(t, strings.HasPrefix(result.FilePath, filepath.Join(root, "reports")))

	content, err := os.ReadFile(result.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "实施报告")

	persisted, err := e.GetState()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.NotNil(t, persisted.Specification)
	assert.NotNil(t, persisted.Plan)
	assert.NotNil(t, persisted.TaskPlan)
	assert.Len(t, persisted.ProgressHistory, 1)
}

func TestPhaseOrdering(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	_, err := e.Plan(PlanOptions{})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = e.Tasks(TasksOptions{})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = e.Implement(ImplementInput{})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestTasksWithoutPlan(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	_, err := e.Specify(sampleIntake())
	require.NoError(t, err)

	_, err = e.Tasks(TasksOptions{})
	var missing *MissingPredecessorError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "tasks", missing.Phase)
	assert.Equal(t, "plan", missing.Needs)
}

func TestImplementWithoutTasks(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	_, err := e.Specify(sampleIntake())
	require.NoError(t, err)
	_, err = e.Plan(PlanOptions{})
	require.NoError(t, err)

	_, err = e.Implement(ImplementInput{})
	var missing *MissingPredecessorError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "taskPlan", missing.Needs)
}

func TestSpecifyBootstrapsState(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	_, err := e.Specify(sampleIntake())
	require.NoError(t, err)

	st, err := e.GetState()
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "星图平台", st.Metadata.Name)
	assert.Equal(t, "构建规范驱动的交付中台", st.Metadata.Description)
	assert.NotNil(t, st.Specification)
}

func TestPlanWithSuppliedSpecification(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	specification := spec.Generate(sampleIntake())
	technicalPlan, err := e.Plan(PlanOptions{Specification: &specification})
	require.NoError(t, err)
	require.NotNil(t, technicalPlan)

	st, err := e.GetState()
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.NotNil(t, st.Specification)
	assert.NotNil(t, st.Plan)
}

func TestUpdateTemplatesPersists(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)

	registry, err := e.UpdateTemplates(templates.Overrides{Report: "自定义报告 {{projectName}}"})
	require.NoError(t, err)
	assert.Equal(t, "自定义报告 {{projectName}}", registry.Report)
	assert.Equal(t, templates.Defaults().Constitution, registry.Constitution)

	// A fresh engine on the same root picks the overrides back up.
	reloaded := newTestEngine(t, root)
	assert.Equal(t, "自定义报告 {{projectName}}", reloaded.Templates().Report)
}

func TestOptionTemplatesWinOverPersisted(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	_, err := e.UpdateTemplates(templates.Overrides{Report: "persisted"})
	require.NoError(t, err)

	overridden, err := New(Options{
		ProjectRoot: root,
		Templates:   templates.Overrides{Report: "explicit"},
	})
	require.NoError(t, err)
	defer overridden.Close()
	assert.Equal(t, "explicit", overridden.Templates().Report)
}

func TestMalformedTemplateStore(t *testing.T) {
	root := t.TempDir()
	storePath := filepath.Join(root, state.StateDir, TemplateFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(storePath), 0o755))
	require.NoError(t, os.WriteFile(storePath, []byte("{not json"), 0o644))

	_, err := New(Options{ProjectRoot: root})
	var malformed *MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, storePath, malformed.Path)
	assert.Contains(t, malformed.Error(), "模板覆盖文件")
}

func TestUpdateConstitution(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)

	_, err := e.UpdateConstitution(ConstitutionOptions{})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = e.InitializeProject(InitOptions{ProjectName: "demo", Domain: "d", Description: "x"})
	require.NoError(t, err)

	path, err := e.UpdateConstitution(ConstitutionOptions{
		GuidingPrinciples: []string{"先验证后扩张"},
		GovernanceModel:   "月度架构评审",
		DeliveryCadence:   "每周发布",
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "- 先验证后扩张")
	assert.Contains(t, string(content), "月度架构评审")
	assert.Contains(t, string(content), "- 度量透明化")
}

func TestArtifactLedgerRecordsPhases(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	_, err := e.InitializeProject(InitOptions{ProjectName: "demo", Domain: "d", Description: "x"})
	require.NoError(t, err)
	_, err = e.Specify(sampleIntake())
	require.NoError(t, err)

	entries, err := e.Artifacts(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "specify", entries[0].Phase)
	assert.Equal(t, "init", entries[1].Phase)
}

func TestReSpecifyKeepsDownstreamState(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	_, err := e.Specify(sampleIntake())
	require.NoError(t, err)
	_, err = e.Plan(PlanOptions{})
	require.NoError(t, err)
	_, err = e.Tasks(TasksOptions{})
	require.NoError(t, err)

	// Re-running specify replaces the specification but leaves the
	// stale plan and task plan in place; re-derivation is explicit.
	_, err = e.Specify(sampleIntake())
	require.NoError(t, err)

	st, err := e.GetState()
	require.NoError(t, err)
	assert.NotNil(t, st.Plan)
	assert.NotNil(t, st.TaskPlan)
}
