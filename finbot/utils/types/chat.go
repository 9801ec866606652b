package types

type ChatRequest struct {
	Query string `json:"query"`
}

// ChatAnswer is the user-visible result of one turn.
type ChatAnswer struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}
