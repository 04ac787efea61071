package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/sdd-kit/internal/plan"
	"github.com/HendryAvila/sdd-kit/internal/spec"
)

func fixtureSpec() spec.Specification {
	return spec.Specification{
		ProjectName: "demo",
		FunctionalThemes: []spec.FunctionalTheme{
			{Name: "订单", Description: "订单主题"},
			{Name: "库存", Description: "库存主题"},
		},
	}
}

func fixturePlan(phases int) plan.TechnicalPlan {
	p := plan.TechnicalPlan{
		ArchitecturePrinciples: []plan.ArchitecturePrinciple{
			{Name: "订单 端到端", Statement: "围绕 订单 打造可扩展能力", Practices: []string{"模块边界清晰"}},
		},
	}
	names := []string{"洞察与规范化", "技术方案与底座", "增量交付"}
	ids := []string{"discovery", "foundation", "scale"}
	for i := 0; i < phases; i++ {
		p.DeliveryPhases = append(p.DeliveryPhases, plan.DeliveryPhase{
			ID:            ids[i],
			Name:          names[i],
			DurationWeeks: 3 + i,
			ExitCriteria:  []string{"exit " + ids[i]},
		})
	}
	return p
}

// --- DerivePlan ---

func TestDerivePlan_GenerationOrderAndCategories(t *testing.T) {
	taskPlan := DerivePlan(fixtureSpec(), fixturePlan(3))

	// 2 themes + 3 phases + 1 principle.
	require.Len(t, taskPlan.Tasks, 6)

	assert.Equal(t, CategoryAnalysis, taskPlan.Tasks[0].Category) // theme
	assert.Equal(t, CategoryAnalysis, taskPlan.Tasks[1].Category) // theme
	assert.Equal(t, CategoryAnalysis, taskPlan.Tasks[2].Category) // first phase
	assert.Equal(t, CategoryPlanning, taskPlan.Tasks[3].Category)
	assert.Equal(t, CategoryPlanning, taskPlan.Tasks[4].Category)
	assert.Equal(t, CategoryGovernance, taskPlan.Tasks[5].Category)

	assert.Equal(t, "订单 规范定稿", taskPlan.Tasks[0].Title)
	assert.Equal(t, 16, taskPlan.Tasks[0].EstimateHours)
	assert.Equal(t, "洞察与规范化 里程碑", taskPlan.Tasks[2].Title)
	assert.Equal(t, 24, taskPlan.Tasks[2].EstimateHours) // 3 weeks * 8h
	assert.Equal(t, "订单 端到端 审查", taskPlan.Tasks[5].Title)
	assert.Equal(t, 8, taskPlan.Tasks[5].EstimateHours)
}

func TestDerivePlan_PhaseChain(t *testing.T) {
	taskPlan := DerivePlan(fixtureSpec(), fixturePlan(2))

	phase1 := taskPlan.Tasks[2]
	phase2 := taskPlan.Tasks[3]

	assert.Equal(t, StatusInProgress, phase1.Status)
	assert.Empty(t, phase1.Dependencies)

	assert.Equal(t, StatusPending, phase2.Status)
	require.Len(t, phase2.Dependencies, 1)
	assert.Equal(t, phase1.ID, phase2.Dependencies[0])
}

func TestDerivePlan_TaskIDsUnique(t *testing.T) {
	taskPlan := DerivePlan(fixtureSpec(), fixturePlan(3))

	seen := map[string]bool{}
	for _, task := range taskPlan.Tasks {
		require.NotEmpty(t, task.ID)
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}
}

func TestDerivePlan_BoardAndFocusAreas(t *testing.T) {
	taskPlan := DerivePlan(fixtureSpec(), fixturePlan(3))

	require.Contains(t, taskPlan.Board.Swimlanes, "分析")
	require.Contains(t, taskPlan.Board.Swimlanes, "规划")
	require.Contains(t, taskPlan.Board.Swimlanes, "落地")

	assert.Len(t, taskPlan.Board.Swimlanes["分析"], 3) // 2 themes + first phase
	assert.Len(t, taskPlan.Board.Swimlanes["规划"], 2)
	assert.Empty(t, taskPlan.Board.Swimlanes["落地"])

	assert.Equal(t, []string{"订单", "库存"}, taskPlan.Board.FocusAreas)
}

func TestDerivePlan_CriticalPathIsFirstFiveNonGovernance(t *testing.T) {
	taskPlan := DerivePlan(fixtureSpec(), fixturePlan(3))

	require.Len(t, taskPlan.CriticalPath, 5)
	for i, id := range taskPlan.CriticalPath {
		assert.Equal(t, taskPlan.Tasks[i].ID, id) // governance task is last
	}
}

func TestDerivePlan_EmptyInputs(t *testing.T) {
	taskPlan := DerivePlan(spec.Specification{}, plan.TechnicalPlan{})

	assert.Empty(t, taskPlan.Tasks)
	assert.Empty(t, taskPlan.CriticalPath)
	assert.NotNil(t, taskPlan.Tasks)
	assert.NotEmpty(t, taskPlan.GeneratedAt)
}

// --- ApplyUpdates ---

func TestApplyUpdates_StatusOwnerAndNote(t *testing.T) {
	taskPlan := DerivePlan(fixtureSpec(), fixturePlan(2))
	target := taskPlan.Tasks[0]

	updated := ApplyUpdates(taskPlan, []Update{
		{TaskID: target.ID, Status: StatusDone, Owner: "ana", Note: "评审记录"},
	})

	got := updated.Tasks[0]
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, "ana", got.Owner)
	assert.Equal(t, append(append([]string{}, target.Deliverables...), "评审记录"), got.Deliverables)

	// Original plan is not mutated.
	assert.Equal(t, StatusPending, taskPlan.Tasks[0].Status)
	assert.Len(t, taskPlan.Tasks[0].Deliverables, len(target.Deliverables))
}

func TestApplyUpdates_UnknownTaskIDIgnored(t *testing.T) {
	taskPlan := DerivePlan(fixtureSpec(), fixturePlan(2))

	updated := ApplyUpdates(taskPlan, []Update{
		{TaskID: "nonexistent", Status: StatusDone},
	})

	assert.Equal(t, taskPlan, updated)
}

func TestApplyUpdates_PreservesOrderAndMetadata(t *testing.T) {
	taskPlan := DerivePlan(fixtureSpec(), fixturePlan(3))
	last := taskPlan.Tasks[len(taskPlan.Tasks)-1]

	updated := ApplyUpdates(taskPlan, []Update{{TaskID: last.ID, Status: StatusBlocked}})

	for i := range taskPlan.Tasks {
		assert.Equal(t, taskPlan.Tasks[i].ID, updated.Tasks[i].ID)
	}
	assert.Equal(t, taskPlan.Board, updated.Board)
	assert.Equal(t, taskPlan.CriticalPath, updated.CriticalPath)
	assert.Equal(t, taskPlan.GeneratedAt, updated.GeneratedAt)
}

// --- SummarizeProgress ---

func TestSummarizeProgress_CountsAndRemainingHours(t *testing.T) {
	taskPlan := Plan{
		Tasks: []Task{
			{ID: "a", Status: StatusDone, EstimateHours: 5},
			{ID: "b", Status: StatusPending, EstimateHours: 10},
			{ID: "c", Status: StatusBlocked, EstimateHours: 7},
		},
	}

	snapshot := SummarizeProgress(taskPlan)

	assert.Equal(t, 1, snapshot.Completed)
	assert.Equal(t, 0, snapshot.InProgress)
	assert.Equal(t, 1, snapshot.Blocked)
	assert.Equal(t, 17, snapshot.RemainingHours)
	require.Len(t, snapshot.BurndownNotes, 2)
	assert.Equal(t, "完成率 33%", snapshot.BurndownNotes[0])
	assert.Equal(t, "剩余 17 小时", snapshot.BurndownNotes[1])
}

func TestSummarizeProgress_EmptyPlan(t *testing.T) {
	snapshot := SummarizeProgress(Plan{Tasks: []Task{}})

	assert.Zero(t, snapshot.Completed)
	assert.Zero(t, snapshot.RemainingHours)
	assert.Equal(t, "完成率 0%", snapshot.BurndownNotes[0])
}

func TestSummarizeProgress_Timestamp(t *testing.T) {
	stamp := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	prev := timeNow
	timeNow = func() time.Time { return stamp }
	t.Cleanup(func() { timeNow = prev })

	snapshot := SummarizeProgress(Plan{})
	assert.Equal(t, "2026-05-01T12:00:00Z", snapshot.Timestamp)
}
