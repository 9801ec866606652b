package memory

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"finbot/finbot/services/nlp"
	"finbot/finbot/sources/psql/dao"
	"finbot/finbot/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SpecificQueryFallback is returned for memory queries that name neither the
// latest session nor the complete history. There is no per-fact retrieval;
// the fixed fallback is the documented behavior.
const SpecificQueryFallback = "I cannot find anything related to this query!"

var summaryStripRe = regexp.MustCompile(`['"\r\n\\/]`)
var responseStripRe = regexp.MustCompile(`['"\r\n\\]`)

// Resolution is the outcome of resolving a memory query. ResolvedText is
// what the user sees; Response is an audit label naming the query type.
type Resolution struct {
	QueryType     QueryType `json:"query_type"`
	OriginalQuery string    `json:"original_query"`
	ResolvedText  string    `json:"resolved_query"`
	Response      string    `json:"response"`
}

// Resolver answers memory queries from stored session summaries.
type Resolver struct {
	sessions   *dao.SessionDAO
	summarizer nlp.Summarizer
}

func NewResolver(sessions *dao.SessionDAO, summarizer nlp.Summarizer) *Resolver {
	return &Resolver{sessions: sessions, summarizer: summarizer}
}

// Resolve classifies the follow-up and produces the answer text for it.
func (r *Resolver) Resolve(ctx context.Context, followUp string, sessionID uuid.UUID, userID int) (Resolution, error) {
	queryType := Classify(followUp)
	logging.AppLogger.Info("long term memory processing",
		zap.String("query_type", string(queryType)),
		zap.String("session_id", sessionID.String()),
	)

	var resolved string
	switch queryType {
	case QueryLatestSession:
		session, err := r.sessions.GetSessionByID(ctx, sessionID)
		if err != nil {
			return Resolution{}, err
		}
		resolved = session.SessionSummary

	case QueryCompleteHistory:
		sessions, err := r.sessions.ListSessionsForUser(ctx, userID)
		if err != nil {
			return Resolution{}, err
		}
		var all strings.Builder
		for _, s := range sessions {
			all.WriteString(summaryStripRe.ReplaceAllString(strings.TrimSpace(s.SessionSummary), ""))
		}
		// Summary-of-summaries mode: the result is returned, never persisted.
		raw, err := r.summarizer.Summarize(ctx, all.String())
		if err != nil {
			return Resolution{}, err
		}
		cleaned := strings.TrimSpace(raw)
		cleaned = strings.ReplaceAll(cleaned, `"`, "")
		cleaned = strings.ReplaceAll(cleaned, "\n", "")
		parts := strings.SplitN(cleaned, nlp.SummaryMarker, 2)
		if len(parts) == 2 {
			resolved = parts[1]
		}

	default:
		resolved = SpecificQueryFallback
	}

	return Resolution{
		QueryType:     queryType,
		OriginalQuery: followUp,
		ResolvedText:  resolved,
		Response:      fmt.Sprintf("Processed as %s query", queryType),
	}, nil
}

// SanitizeResolved prepares resolved text for persistence on an LTM turn.
func SanitizeResolved(s string) string {
	return strings.TrimSpace(responseStripRe.ReplaceAllString(s, ""))
}
