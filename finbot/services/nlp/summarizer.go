package nlp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"finbot/finbot/utils/logging"

	"go.uber.org/zap"
)

// SummaryMarker is the literal token the summarizer script prints before the
// generated summary. A fragile wire format, kept isolated here as a
// compatibility shim for the legacy script.
const SummaryMarker = "Generated Summary Response:"

// ScriptSummarizer runs the external summarizer script with the accumulated
// text as a quoted argument and returns the raw stdout.
type ScriptSummarizer struct {
	PythonBin  string
	ScriptPath string
}

func NewScriptSummarizer(pythonBin, scriptPath string) *ScriptSummarizer {
	return &ScriptSummarizer{PythonBin: pythonBin, ScriptPath: scriptPath}
}

func (s *ScriptSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	defer logging.LogDuration(ctx, "nlp_script_summarize")()

	cmd := exec.CommandContext(ctx, s.PythonBin, s.ScriptPath, fmt.Sprintf("%q", text))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logging.ErrorLogger.Error("summarizer script failed",
			zap.Error(err),
			zap.String("stderr", stderr.String()),
		)
		return "", fmt.Errorf("summarizer exited with error: %w", err)
	}
	return stdout.String(), nil
}

// ExtractSummary pulls the compacted summary from raw summarizer output.
// When the marker is present, quotes and newlines are stripped and the text
// after the marker is taken; otherwise the raw output is used as-is.
func ExtractSummary(raw string) string {
	if !strings.Contains(raw, SummaryMarker) {
		return raw
	}
	cleaned := strings.ReplaceAll(raw, `"`, "")
	cleaned = strings.ReplaceAll(cleaned, "\n", "")
	parts := strings.SplitN(cleaned, SummaryMarker, 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
