package controllers

import (
	"context"
	"errors"

	"finbot/finbot/services/memory"
	"finbot/finbot/services/nlp"
	"finbot/finbot/sources/psql/dao"
	"finbot/finbot/sources/psql/models"
	"finbot/finbot/utils/logging"
	"finbot/finbot/utils/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyQuery rejects requests with no query text before anything is
// persisted.
var ErrEmptyQuery = errors.New("query is required")

// ChatController orchestrates one turn: memory queries are answered from
// stored summaries, everything else goes to the NLP backend. Only the
// answer-producing path can fail the request; summary accumulation afterward
// is best-effort.
type ChatController struct {
	users       *dao.UserDAO
	sessions    *dao.SessionDAO
	turns       *dao.ChatTurnDAO
	backend     nlp.Backend
	resolver    *memory.Resolver
	accumulator *memory.Accumulator
}

func NewChatController(
	users *dao.UserDAO,
	sessions *dao.SessionDAO,
	turns *dao.ChatTurnDAO,
	backend nlp.Backend,
	resolver *memory.Resolver,
	accumulator *memory.Accumulator,
) *ChatController {
	return &ChatController{
		users:       users,
		sessions:    sessions,
		turns:       turns,
		backend:     backend,
		resolver:    resolver,
		accumulator: accumulator,
	}
}

func (c *ChatController) AskQuery(ctx context.Context, providerID string, sessionID uuid.UUID, query string) (types.ChatAnswer, error) {
	defer logging.LogDuration(ctx, "chat_ask_query")()

	if query == "" {
		return types.ChatAnswer{}, ErrEmptyQuery
	}

	// Users are provisioned via identity-provider webhooks, never on first
	// use; an unknown caller fails the request.
	user, err := c.users.GetUserByProviderID(ctx, providerID)
	if err != nil {
		return types.ChatAnswer{}, err
	}

	if memory.IsMemoryQuery(query) {
		return c.answerFromMemory(ctx, user, sessionID, query)
	}

	previousQuery, previousResponse := "", ""
	if prev, err := c.turns.GetLatestContextTurn(ctx, sessionID); err == nil {
		previousQuery = prev.Query
		previousResponse = prev.Response
	} else if !errors.Is(err, dao.ErrNotFound) {
		return types.ChatAnswer{}, err
	}

	answer, err := c.backend.Answer(ctx, nlp.TurnContext{
		Query:    previousQuery,
		Response: previousResponse,
		FollowUp: query,
	})
	if err != nil {
		return types.ChatAnswer{}, err
	}

	turn := &models.ChatTurn{
		SessionID:     sessionID,
		UserID:        user.ID,
		Query:         query,
		Response:      answer.Response,
		ResolvedQuery: answer.ResolvedQuery,
		IsLTM:         false,
	}
	if _, err := c.turns.SaveTurn(ctx, turn); err != nil {
		return types.ChatAnswer{}, err
	}

	c.accumulator.Accumulate(ctx, sessionID, answer.Response, query)

	return types.ChatAnswer{Query: query, Response: answer.Response}, nil
}

// answerFromMemory resolves the query against stored session summaries and
// persists the turn flagged so it never seeds later context. No NLP call, no
// summary accumulation.
func (c *ChatController) answerFromMemory(ctx context.Context, user *models.User, sessionID uuid.UUID, query string) (types.ChatAnswer, error) {
	resolution, err := c.resolver.Resolve(ctx, query, sessionID, user.ID)
	if err != nil {
		return types.ChatAnswer{}, err
	}
	logging.AppLogger.Info("memory query resolved",
		zap.String("query_type", string(resolution.QueryType)),
		zap.String("audit", resolution.Response),
	)

	response := memory.SanitizeResolved(resolution.ResolvedText)
	turn := &models.ChatTurn{
		SessionID:     sessionID,
		UserID:        user.ID,
		Query:         query,
		Response:      response,
		ResolvedQuery: "",
		IsLTM:         true,
	}
	if _, err := c.turns.SaveTurn(ctx, turn); err != nil {
		return types.ChatAnswer{}, err
	}

	return types.ChatAnswer{Query: query, Response: response}, nil
}

func (c *ChatController) GetAllChatsForSession(ctx context.Context, sessionID uuid.UUID) ([]models.ChatTurn, error) {
	return c.turns.ListTurnsForSession(ctx, sessionID)
}

// DeleteAllChatsForSession clears a session's turns and resets its summary
// bookkeeping so accumulation starts over.
func (c *ChatController) DeleteAllChatsForSession(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := c.sessions.GetSessionByID(ctx, sessionID); err != nil {
		return err
	}
	if err := c.turns.DeleteTurnsForSession(ctx, sessionID); err != nil {
		return err
	}
	return c.sessions.ResetSummaryState(ctx, sessionID)
}
