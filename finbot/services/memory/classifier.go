package memory

import (
	"regexp"
	"strings"
)

// QueryType is the classification of a long-term-memory query.
type QueryType string

const (
	QueryNone            QueryType = "NONE"
	QueryLatestSession   QueryType = "LATEST_SESSION"
	QueryCompleteHistory QueryType = "COMPLETE_HISTORY"
	QuerySpecific        QueryType = "SPECIFIC_QUERY"
)

// Patterns asking about the current/most recent session.
var latestSessionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)last (session|conversation|chat)`),
	regexp.MustCompile(`(?i)previous (session|conversation|chat)`),
	regexp.MustCompile(`(?i)recent (session|conversation|chat)`),
	regexp.MustCompile(`(?i)what did we just (discuss|talk about)`),
	regexp.MustCompile(`(?i)what did you just (tell|say)`),
	regexp.MustCompile(`(?i)what were we just (discussing|talking about)`),
	regexp.MustCompile(`(?i)(summarize|recap) (this|our) (session|conversation|chat)`),
	regexp.MustCompile(`(?i)what did we discuss in this (session|conversation|chat)`),
}

// Patterns asking about everything across all sessions.
var completeHistoryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)all (our|the) (sessions|conversations|chats)`),
	regexp.MustCompile(`(?i)complete (history|summary)`),
	regexp.MustCompile(`(?i)everything we('ve| have) discussed`),
	regexp.MustCompile(`(?i)full (history|summary)`),
	regexp.MustCompile(`(?i)(summarize|recap) all`),
	regexp.MustCompile(`(?i)all past (sessions|conversations|chats)`),
	regexp.MustCompile(`(?i)entire (history|conversation)`),
	regexp.MustCompile(`(?i)from the (beginning|start)`),
	regexp.MustCompile(`(?i)all previous (sessions|conversations|chats)`),
}

// Generic markers of referring back to the conversation.
var generalMemoryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)you (said|told|mentioned)`),
	regexp.MustCompile(`(?i)we (talked|discussed|spoke)`),
	regexp.MustCompile(`(?i)what did you (say|tell|mention)`),
	regexp.MustCompile(`(?i)remember`),
	regexp.MustCompile(`(?i)previous`),
	regexp.MustCompile(`(?i)last time`),
	regexp.MustCompile(`(?i)earlier`),
	regexp.MustCompile(`(?i)before`),
	regexp.MustCompile(`(?i)already`),
}

// Composite phrases that on their own mark a memory query.
var compositeIndicators = []string{
	"what did",
	"you mentioned",
	"tell me again",
	"you said",
	"we talked about",
	"going back to",
	"as you said",
	"like you mentioned",
	"can you summarize",
	"give me a summary",
	"tell me about our",
	"what have we",
	"show me all",
	"tell me everything",
	"from the start",
}

// Contextual keywords; two or more present at once marks a memory query.
var contextualKeywords = []string{
	"told", "said", "mentioned",
	"ago", "previously", "last", "earlier",
	"recall", "remember",
	"session", "conversation", "chat", "discussed", "talking",
	"summary", "history", "recap",
}

// Generic "question about X" shapes; one of these plus at least one
// contextual keyword marks a memory query.
var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^what.+about.+\?`),
	regexp.MustCompile(`(?i)^how.+about.+\?`),
	regexp.MustCompile(`(?i)^when.+about.+\?`),
	regexp.MustCompile(`(?i)^why.+about.+\?`),
	regexp.MustCompile(`(?i)^tell me.+about.+\?`),
	regexp.MustCompile(`(?i)^show me.+about.+\?`),
	regexp.MustCompile(`(?i)^can you.+tell.+about.+\?`),
}

// IsMemoryQuery reports whether the query refers to prior conversation
// rather than asking a fresh question. Checks run in order; the first hit
// wins. Pure function, no side effects.
func IsMemoryQuery(query string) bool {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	for _, pattern := range latestSessionPatterns {
		if pattern.MatchString(queryLower) {
			return true
		}
	}
	for _, pattern := range completeHistoryPatterns {
		if pattern.MatchString(queryLower) {
			return true
		}
	}
	for _, pattern := range generalMemoryPatterns {
		if pattern.MatchString(queryLower) {
			return true
		}
	}

	for _, phrase := range compositeIndicators {
		if strings.Contains(queryLower, phrase) {
			return true
		}
	}

	contextMatches := 0
	for _, keyword := range contextualKeywords {
		if strings.Contains(queryLower, keyword) {
			contextMatches++
		}
	}
	if contextMatches >= 2 {
		return true
	}

	if contextMatches > 0 {
		for _, pattern := range questionPatterns {
			if pattern.MatchString(query) {
				return true
			}
		}
	}

	return false
}

// Classify decides which kind of memory query this is. Latest-session
// patterns are tried first, then complete-history; anything else that still
// passes the IsMemoryQuery gate is a specific query with no dedicated
// retrieval. Non-memory queries classify as QueryNone.
func Classify(query string) QueryType {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	for _, pattern := range latestSessionPatterns {
		if pattern.MatchString(queryLower) {
			return QueryLatestSession
		}
	}
	for _, pattern := range completeHistoryPatterns {
		if pattern.MatchString(queryLower) {
			return QueryCompleteHistory
		}
	}
	if IsMemoryQuery(query) {
		return QuerySpecific
	}
	return QueryNone
}
