package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func initProject(t *testing.T, root string) {
	t.Helper()
	tool := NewInitTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"projectName": "test-project",
		"domain":      "testing",
		"description": "exercise the pipeline",
		"projectRoot": root,
	}))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("init failed: %s", getResultText(result))
	}
}

func specifyProject(t *testing.T, root string) {
	t.Helper()
	intake := map[string]interface{}{
		"projectName":    "test-project",
		"domain":         "testing",
		"summary":        "exercise the pipeline",
		"primaryModules": []string{"核心"},
	}
	payload, err := json.Marshal(intake)
	if err != nil {
		t.Fatalf("marshal intake: %v", err)
	}

	tool := NewSpecifyTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"input":       string(payload),
		"projectRoot": root,
	}))
	if err != nil {
		t.Fatalf("specify: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("specify failed: %s", getResultText(result))
	}
}

func planProject(t *testing.T, root string) {
	t.Helper()
	tool := NewPlanTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"projectRoot": root,
	}))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("plan failed: %s", getResultText(result))
	}
}

func tasksProject(t *testing.T, root string) {
	t.Helper()
	tool := NewTasksTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"projectRoot": root,
	}))
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("tasks failed: %s", getResultText(result))
	}
}

// --- InitTool ---

func TestInitTool_Handle_Success(t *testing.T) {
	root := t.TempDir()

	tool := NewInitTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"projectName": "my-app",
		"domain":      "delivery",
		"description": "a cool app",
		"projectRoot": root,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}

	text := getResultText(result)
	if !strings.Contains(text, "SDD Project Initialized") {
		t.Errorf("result should announce initialization, got: %s", text)
	}
	if !strings.Contains(text, "my-app") {
		t.Error("result should contain project name")
	}

	for _, rel := range []string{
		filepath.Join(".sdd", "state.json"),
		filepath.Join("docs", "constitution.md"),
		filepath.Join("docs", "principles.md"),
	} {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Errorf("%s should exist after init: %v", rel, err)
		}
	}
}

func TestInitTool_Handle_MissingProjectName(t *testing.T) {
	tool := NewInitTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"domain":      "delivery",
		"description": "a cool app",
		"projectRoot": t.TempDir(),
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("should return error when projectName is missing")
	}
}

// --- SpecifyTool ---

func TestSpecifyTool_Handle_Success(t *testing.T) {
	root := t.TempDir()
	initProject(t, root)
	specifyProject(t, root)
}

func TestSpecifyTool_Handle_MalformedInput(t *testing.T) {
	tool := NewSpecifyTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"input":       "{not json",
		"projectRoot": t.TempDir(),
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("should return error for malformed intake JSON")
	}
}

// --- PlanTool ---

func TestPlanTool_Handle_WithoutSpecification(t *testing.T) {
	tool := NewPlanTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"projectRoot": t.TempDir(),
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("plan without a specification should be a tool error")
	}
}

func TestPlanTool_Handle_Success(t *testing.T) {
	root := t.TempDir()
	initProject(t, root)
	specifyProject(t, root)
	planProject(t, root)
}

// --- TasksTool ---

func TestTasksTool_Handle_WithoutPlan(t *testing.T) {
	root := t.TempDir()
	initProject(t, root)
	specifyProject(t, root)

	tool := NewTasksTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"projectRoot": root,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("tasks without a plan should be a tool error")
	}
}

// --- ImplementTool ---

func TestImplementTool_Handle_FullFlow(t *testing.T) {
	root := t.TempDir()
	initProject(t, root)
	specifyProject(t, root)
	planProject(t, root)
	tasksProject(t, root)

	tool := NewImplementTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"input":       `{"narrativeHighlights":["第一阶段打通"]}`,
		"projectRoot": root,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("implement failed: %s", getResultText(result))
	}

	text := getResultText(result)
	if !strings.Contains(text, "实施报告") {
		t.Errorf("result should contain report title, got: %s", text)
	}

	entries, err := os.ReadDir(filepath.Join(root, "reports"))
	if err != nil || len(entries) == 0 {
		t.Errorf("a report file should exist under reports/: %v", err)
	}
}

func TestImplementTool_Handle_WithoutTasks(t *testing.T) {
	root := t.TempDir()
	initProject(t, root)

	tool := NewImplementTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"projectRoot": root,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("implement without tasks should be a tool error")
	}
}

// --- ConstitutionTool ---

func TestConstitutionTool_Handle_Success(t *testing.T) {
	root := t.TempDir()
	initProject(t, root)

	tool := NewConstitutionTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"guidingPrinciples": `["先验证后扩张"]`,
		"governanceModel":   "月度架构评审",
		"deliveryCadence":   "每周发布",
		"projectRoot":       root,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("constitution update failed: %s", getResultText(result))
	}

	content, err := os.ReadFile(filepath.Join(root, "docs", "constitution.md"))
	if err != nil {
		t.Fatalf("reading constitution: %v", err)
	}
	if !strings.Contains(string(content), "月度架构评审") {
		t.Error("constitution should carry the new governance model")
	}
}

func TestConstitutionTool_Handle_Uninitialized(t *testing.T) {
	tool := NewConstitutionTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"guidingPrinciples": `["x"]`,
		"governanceModel":   "g",
		"deliveryCadence":   "c",
		"projectRoot":       t.TempDir(),
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("constitution update without init should be a tool error")
	}
}

// --- UpdateTemplatesTool ---

func TestUpdateTemplatesTool_Handle(t *testing.T) {
	root := t.TempDir()

	tool := NewUpdateTemplatesTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"report":      "自定义 {{projectName}}",
		"projectRoot": root,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("update templates failed: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "report: overridden") {
		t.Errorf("result should mark report as overridden, got: %s", getResultText(result))
	}

	if _, err := os.Stat(filepath.Join(root, ".sdd", "templates.json")); err != nil {
		t.Errorf("override store should exist: %v", err)
	}
}

func TestUpdateTemplatesTool_Handle_NoFields(t *testing.T) {
	tool := NewUpdateTemplatesTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"projectRoot": t.TempDir(),
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("update templates with no fields should be a tool error")
	}
}

// --- StatusTool ---

func TestStatusTool_Handle_Uninitialized(t *testing.T) {
	tool := NewStatusTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"projectRoot": t.TempDir(),
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "No SDD Project") {
		t.Errorf("status on empty root should report no project, got: %s", getResultText(result))
	}
}

func TestStatusTool_Handle_AfterPipeline(t *testing.T) {
	root := t.TempDir()
	initProject(t, root)
	specifyProject(t, root)
	planProject(t, root)

	tool := NewStatusTool(DefaultFactory)
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"projectRoot": root,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "✓ specification") {
		t.Errorf("status should mark specification done, got: %s", text)
	}
	if !strings.Contains(text, "✓ plan") {
		t.Errorf("status should mark plan done, got: %s", text)
	}
	if !strings.Contains(text, "✗ taskPlan") {
		t.Errorf("status should mark taskPlan missing, got: %s", text)
	}
}
