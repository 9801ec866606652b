package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"finbot/finbot/utils/jsonutils"
	"finbot/finbot/utils/logging"

	"go.uber.org/zap"
)

// ScriptBackend answers queries by spawning the external NLP script and
// parsing its stdout. One process per request; nonzero exit is a hard error
// and nothing is retried.
type ScriptBackend struct {
	PythonBin  string
	ScriptPath string
	// Legacy passes the follow-up as a single argv instead of writing the
	// JSON context to stdin.
	Legacy bool
}

func NewScriptBackend(pythonBin, scriptPath string) *ScriptBackend {
	return &ScriptBackend{PythonBin: pythonBin, ScriptPath: scriptPath}
}

func (b *ScriptBackend) Answer(ctx context.Context, tc TurnContext) (Answer, error) {
	defer logging.LogDuration(ctx, "nlp_script_answer")()

	var cmd *exec.Cmd
	if b.Legacy {
		cmd = exec.CommandContext(ctx, b.PythonBin, b.ScriptPath, tc.FollowUp)
	} else {
		payload, err := json.Marshal(tc)
		if err != nil {
			return Answer{}, err
		}
		cmd = exec.CommandContext(ctx, b.PythonBin, b.ScriptPath)
		cmd.Stdin = bytes.NewReader(payload)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logging.ErrorLogger.Error("nlp script failed",
			zap.Error(err),
			zap.String("stderr", stderr.String()),
		)
		return Answer{}, fmt.Errorf("error processing query: %w", err)
	}

	answer, err := ParseAnswer(stdout.String())
	if err != nil {
		logging.ErrorLogger.Error("nlp script output unparseable",
			zap.Error(err),
			zap.String("stdout", stdout.String()),
		)
		return Answer{}, err
	}
	return answer, nil
}

// tokensUsedRe strips the wrapper's trailing token accounting fragment that
// the script sometimes echoes into the answer text.
var tokensUsedRe = regexp.MustCompile(`,\s*tokens_used=\S*`)

// ParseAnswer locates the JSON envelope in raw script output and pulls out
// the resolved query and answer text. The script wraps its answer either as
// {"resolved_query": ..., "response": "..."} or, in the older shape, as
// {"response": {"query": ..., "answer": ...}}.
func ParseAnswer(raw string) (Answer, error) {
	envelope := jsonutils.ExtractJSON(raw)
	if envelope == "" {
		return Answer{}, fmt.Errorf("no JSON object in script output")
	}

	var flat struct {
		ResolvedQuery string          `json:"resolved_query"`
		Response      json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal([]byte(envelope), &flat); err != nil {
		return Answer{}, fmt.Errorf("malformed script output: %w", err)
	}

	var text string
	if err := json.Unmarshal(flat.Response, &text); err != nil {
		var nested struct {
			Query  string `json:"query"`
			Answer string `json:"answer"`
		}
		if err := json.Unmarshal(flat.Response, &nested); err != nil {
			return Answer{}, fmt.Errorf("malformed script response field: %w", err)
		}
		text = nested.Answer
		if flat.ResolvedQuery == "" {
			flat.ResolvedQuery = nested.Query
		}
	}

	return Answer{
		ResolvedQuery: flat.ResolvedQuery,
		Response:      SanitizeAnswerText(text),
	}, nil
}

// SanitizeAnswerText removes wrapper artifacts and newline-normalizes the
// answer before it is persisted or returned.
func SanitizeAnswerText(s string) string {
	s = strings.TrimPrefix(s, "{response=")
	s = tokensUsedRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Split(s, "\n"), " ")
	return strings.TrimSpace(s)
}
