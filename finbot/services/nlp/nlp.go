package nlp

import "context"

// TurnContext is the conversational context handed to the question-answering
// backend: the previous turn's query/response plus the new follow-up. Both
// previous fields are empty on the first turn of a session.
type TurnContext struct {
	Query    string `json:"query"`
	Response string `json:"response"`
	FollowUp string `json:"follow_up"`
}

// Answer is the backend's reply. ResolvedQuery is the standalone restatement
// of the follow-up, persisted so the next turn can use it as context.
type Answer struct {
	ResolvedQuery string `json:"resolved_query"`
	Response      string `json:"response"`
}

// Backend produces an answer for one turn. The concrete implementation
// spawns an external process; it is an adapter, not core logic.
type Backend interface {
	Answer(ctx context.Context, tc TurnContext) (Answer, error)
}

// Summarizer compacts accumulated answer text. Returns the raw process
// output; callers extract the summary with ExtractSummary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
