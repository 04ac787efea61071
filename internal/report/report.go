// Package report composes implementation reports and persists them as
// markdown artifacts under <projectRoot>/reports/.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HendryAvila/sdd-kit/internal/compliance"
	"github.com/HendryAvila/sdd-kit/internal/render"
	"github.com/HendryAvila/sdd-kit/internal/task"
)

// ReportsDir is the subdirectory under the project root for rendered
// reports.
const ReportsDir = "reports"

// Report is the structured implementation report returned alongside the
// rendered artifact.
type Report struct {
	Title           string                `json:"title"`
	Summary         string                `json:"summary"`
	Progress        task.ProgressSnapshot `json:"progress"`
	Highlights      []string              `json:"highlights"`
	Blockers        []string              `json:"blockers"`
	ComplianceDelta []compliance.Finding  `json:"complianceDelta"`
	Recommendations []string              `json:"recommendations"`
}

// Params carries everything Compose needs; the template comes from the
// caller's registry so overrides apply.
type Params struct {
	ProjectName     string
	Progress        task.ProgressSnapshot
	Highlights      []string
	Blockers        []string
	ComplianceDelta []compliance.Finding
	Template        string
	ProjectRoot     string
}

// Compose builds the report, renders it through the template and writes
// the markdown artifact. The file name embeds the progress timestamp
// with ':' and '.' replaced so it is filesystem-safe everywhere.
func Compose(params Params) (Report, string, error) {
	summary := "持续推进中"
	if len(params.Highlights) > 0 {
		summary = params.Highlights[0]
	}

	rep := Report{
		Title:           fmt.Sprintf("%s 实施报告", params.ProjectName),
		Summary:         summary,
		Progress:        params.Progress,
		Highlights:      params.Highlights,
		Blockers:        params.Blockers,
		ComplianceDelta: params.ComplianceDelta,
		Recommendations: []string{
			"保持每日节奏会跟踪风险",
			"将最新规范版本同步至知识库",
		},
	}

	delta := make([]any, len(params.ComplianceDelta))
	for i, finding := range params.ComplianceDelta {
		delta[i] = map[string]any{
			"standard": string(finding.StandardID),
			"summary":  finding.Summary,
		}
	}

	content := render.Render(params.Template, map[string]any{
		"projectName":      params.ProjectName,
		"generatedAt":      params.Progress.Timestamp,
		"completedPercent": completedPercent(params.Progress),
		"remainingHours":   params.Progress.RemainingHours,
		"highlights":       params.Highlights,
		"blockers":         params.Blockers,
		"complianceDelta":  delta,
		"recommendations":  rep.Recommendations,
	})

	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(params.Progress.Timestamp)
	filePath := filepath.Join(params.ProjectRoot, ReportsDir, fmt.Sprintf("sdd-report-%s.md", stamp))

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return Report{}, "", fmt.Errorf("creating reports directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		return Report{}, "", fmt.Errorf("writing report: %w", err)
	}

	return rep, filePath, nil
}

// completedPercent is the header completion figure. It intentionally
// divides by completed+inProgress (floored at 1), not the total task
// count — the burndown notes carry the total-based percentage.
func completedPercent(progress task.ProgressSnapshot) int {
	denominator := progress.Completed + progress.InProgress
	if denominator < 1 {
		denominator = 1
	}
	return int(math.Round(float64(progress.Completed) / float64(denominator) * 100))
}
