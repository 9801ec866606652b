package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"finbot/finbot/services/memory"
	"finbot/finbot/services/nlp"
	"finbot/finbot/sources/psql"
	"finbot/finbot/sources/psql/dao"
	"finbot/finbot/sources/psql/models"
	"finbot/finbot/utils/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- Helpers ---

type testEnv struct {
	db       *gorm.DB
	users    *dao.UserDAO
	sessions *dao.SessionDAO
	turns    *dao.ChatTurnDAO
	backend  *fakeBackend
	ctrl     *ChatController
	user     *models.User
	session  *models.Session
}

type fakeBackend struct {
	lastContext nlp.TurnContext
	answer      nlp.Answer
	err         error
	calls       int
}

func (f *fakeBackend) Answer(ctx context.Context, tc nlp.TurnContext) (nlp.Answer, error) {
	f.calls++
	f.lastContext = tc
	return f.answer, f.err
}

type fakeSummarizer struct {
	output string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return f.output, nil
}

func setupChatEnv(t *testing.T) *testEnv {
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := psql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	users := dao.NewUserDAO(db)
	sessions := dao.NewSessionDAO(db)
	turns := dao.NewChatTurnDAO(db)

	ctx := context.Background()
	user, err := users.CreateUser(ctx, "user_abc", "asha", "asha@example.com", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	session, err := sessions.CreateSession(ctx, user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	backend := &fakeBackend{answer: nlp.Answer{
		ResolvedQuery: "resolved follow-up",
		Response:      "backend answer",
	}}
	summarizer := &fakeSummarizer{output: "compacted"}
	resolver := memory.NewResolver(sessions, summarizer)
	accumulator := memory.NewAccumulator(sessions, turns, summarizer, 5, 5)
	ctrl := NewChatController(users, sessions, turns, backend, resolver, accumulator)

	return &testEnv{
		db:       db,
		users:    users,
		sessions: sessions,
		turns:    turns,
		backend:  backend,
		ctrl:     ctrl,
		user:     user,
		session:  session,
	}
}

// --- Tests ---

func TestAskQuery_EmptyQuery(t *testing.T) {
	env := setupChatEnv(t)
	_, err := env.ctrl.AskQuery(context.Background(), env.user.ProviderID, env.session.ID, "")
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
	if env.backend.calls != 0 {
		t.Errorf("backend should not run on an empty query")
	}
}

func TestAskQuery_UnknownUser(t *testing.T) {
	env := setupChatEnv(t)
	_, err := env.ctrl.AskQuery(context.Background(), "user_never_provisioned", env.session.ID, "What is a savings account?")
	if !errors.Is(err, dao.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unprovisioned user, got %v", err)
	}
}

func TestAskQuery_OrdinaryTurn(t *testing.T) {
	env := setupChatEnv(t)
	ctx := context.Background()

	answer, err := env.ctrl.AskQuery(ctx, env.user.ProviderID, env.session.ID, "What is the savings rate?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer.Response != "backend answer" {
		t.Errorf("Response = %q", answer.Response)
	}

	// First turn of the session: empty context.
	if env.backend.lastContext.Query != "" || env.backend.lastContext.Response != "" {
		t.Errorf("expected empty context for first turn, got %+v", env.backend.lastContext)
	}
	if env.backend.lastContext.FollowUp != "What is the savings rate?" {
		t.Errorf("FollowUp = %q", env.backend.lastContext.FollowUp)
	}

	turns, _ := env.turns.ListTurnsForSession(ctx, env.session.ID)
	if len(turns) != 1 {
		t.Fatalf("expected 1 persisted turn, got %d", len(turns))
	}
	if turns[0].IsLTM {
		t.Errorf("ordinary turn must not be flagged LTM")
	}
	if turns[0].ResolvedQuery != "resolved follow-up" {
		t.Errorf("ResolvedQuery = %q", turns[0].ResolvedQuery)
	}

	// The accumulator ran: count 1, summary holds the answer, title derived.
	session, _ := env.sessions.GetSessionByID(ctx, env.session.ID)
	if session.SummaryCount != 1 {
		t.Errorf("SummaryCount = %d, want 1", session.SummaryCount)
	}
	if session.SessionSummary != "backend answer" {
		t.Errorf("SessionSummary = %q", session.SessionSummary)
	}
	if session.SessionTitle == "" {
		t.Errorf("expected a derived session title")
	}
}

func TestAskQuery_BackendFailure(t *testing.T) {
	env := setupChatEnv(t)
	env.backend.err = errors.New("script exited with code 1")

	_, err := env.ctrl.AskQuery(context.Background(), env.user.ProviderID, env.session.ID, "What is a fixed deposit?")
	if err == nil {
		t.Fatalf("expected backend failure to surface")
	}

	// Nothing persisted on the failed path.
	turns, _ := env.turns.ListTurnsForSession(context.Background(), env.session.ID)
	if len(turns) != 0 {
		t.Errorf("expected no persisted turns after backend failure, got %d", len(turns))
	}
}

func TestAskQuery_MemoryPath(t *testing.T) {
	env := setupChatEnv(t)
	ctx := context.Background()
	env.sessions.UpdateSummaryState(ctx, env.session.ID, 2, "we discussed loan eligibility")

	answer, err := env.ctrl.AskQuery(ctx, env.user.ProviderID, env.session.ID, "What did we discuss last session?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer.Response != "we discussed loan eligibility" {
		t.Errorf("Response = %q", answer.Response)
	}
	if env.backend.calls != 0 {
		t.Errorf("memory path must not call the NLP backend")
	}

	turns, _ := env.turns.ListTurnsForSession(ctx, env.session.ID)
	if len(turns) != 1 {
		t.Fatalf("expected 1 persisted turn, got %d", len(turns))
	}
	if !turns[0].IsLTM {
		t.Errorf("memory turn must be flagged LTM")
	}
	if turns[0].ResolvedQuery != "" {
		t.Errorf("memory turns never carry a resolved query, got %q", turns[0].ResolvedQuery)
	}

	// Memory path skips accumulation.
	session, _ := env.sessions.GetSessionByID(ctx, env.session.ID)
	if session.SummaryCount != 2 {
		t.Errorf("SummaryCount = %d, accumulation must not run on the memory path", session.SummaryCount)
	}
}

func TestAskQuery_ContextSkipsMemoryTurns(t *testing.T) {
	env := setupChatEnv(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	seed := []models.ChatTurn{
		{SessionID: env.session.ID, UserID: env.user.ID, Query: "ordinary A", Response: "answer A", CreatedAt: base},
		{SessionID: env.session.ID, UserID: env.user.ID, Query: "memory B", Response: "summary text", IsLTM: true, CreatedAt: base.Add(time.Minute)},
		{SessionID: env.session.ID, UserID: env.user.ID, Query: "ordinary C", Response: "answer C", CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range seed {
		if _, err := env.turns.SaveTurn(ctx, &seed[i]); err != nil {
			t.Fatalf("seed turn: %v", err)
		}
	}

	if _, err := env.ctrl.AskQuery(ctx, env.user.ProviderID, env.session.ID, "What about processing fees?"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if env.backend.lastContext.Query != "ordinary C" || env.backend.lastContext.Response != "answer C" {
		t.Errorf("context should come from the newest ordinary turn, got %+v", env.backend.lastContext)
	}
}

func TestDeleteAllChatsForSession(t *testing.T) {
	env := setupChatEnv(t)
	ctx := context.Background()

	if _, err := env.ctrl.AskQuery(ctx, env.user.ProviderID, env.session.ID, "What is the savings rate?"); err != nil {
		t.Fatalf("ask: %v", err)
	}

	if err := env.ctrl.DeleteAllChatsForSession(ctx, env.session.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	turns, _ := env.turns.ListTurnsForSession(ctx, env.session.ID)
	if len(turns) != 0 {
		t.Errorf("expected 0 turns after clear, got %d", len(turns))
	}
	session, _ := env.sessions.GetSessionByID(ctx, env.session.ID)
	if session.SummaryCount != 0 || session.SessionSummary != "" || session.SessionTitle != "" {
		t.Errorf("summary state not reset: %+v", session)
	}
}
