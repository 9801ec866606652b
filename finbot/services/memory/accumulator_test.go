package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"finbot/finbot/sources/psql/dao"
)

func TestAccumulator_AppendsUntilThreshold(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	sessions := dao.NewSessionDAO(db)
	turns := dao.NewChatTurnDAO(db)
	summarizer := &fakeSummarizer{output: "unused"}
	acc := NewAccumulator(sessions, turns, summarizer, 5, 5)

	ctx := context.Background()
	session, err := sessions.CreateSession(ctx, user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	answers := []string{"first answer", "second answer", "third answer", "fourth answer"}
	for i, answer := range answers {
		acc.Accumulate(ctx, session.ID, answer, fmt.Sprintf("query %d", i+1))

		got, err := sessions.GetSessionByID(ctx, session.ID)
		if err != nil {
			t.Fatalf("get session: %v", err)
		}
		if got.SummaryCount != i+1 {
			t.Errorf("after turn %d: SummaryCount = %d, want %d", i+1, got.SummaryCount, i+1)
		}
	}

	got, _ := sessions.GetSessionByID(ctx, session.ID)
	want := "first answer second answer third answer fourth answer"
	if got.SessionSummary != want {
		t.Errorf("SessionSummary = %q, want %q", got.SessionSummary, want)
	}
	if summarizer.calls != 0 {
		t.Errorf("summarizer should not run before the threshold, got %d calls", summarizer.calls)
	}
}

func TestAccumulator_RolloverAtThreshold(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	sessions := dao.NewSessionDAO(db)
	turns := dao.NewChatTurnDAO(db)
	summarizer := &fakeSummarizer{
		output: "thinking...\nGenerated Summary Response: \"a compact overview\"\n",
	}
	acc := NewAccumulator(sessions, turns, summarizer, 5, 5)

	ctx := context.Background()
	session, err := sessions.CreateSession(ctx, user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	for i := 1; i <= 5; i++ {
		acc.Accumulate(ctx, session.ID, fmt.Sprintf("answer %d", i), fmt.Sprintf("query %d", i))
	}

	if summarizer.calls != 1 {
		t.Fatalf("expected exactly one rollover, summarizer ran %d times", summarizer.calls)
	}
	wantInput := "answer 1 answer 2 answer 3 answer 4 answer 5"
	if summarizer.lastInput != wantInput {
		t.Errorf("summarizer input = %q, want %q", summarizer.lastInput, wantInput)
	}

	got, _ := sessions.GetSessionByID(ctx, session.ID)
	if got.SummaryCount != 0 {
		t.Errorf("SummaryCount after rollover = %d, want 0", got.SummaryCount)
	}
	if got.SessionSummary != " a compact overview" {
		t.Errorf("SessionSummary after rollover = %q", got.SessionSummary)
	}
}

func TestAccumulator_RolloverWithoutMarkerKeepsRaw(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	sessions := dao.NewSessionDAO(db)
	turns := dao.NewChatTurnDAO(db)
	summarizer := &fakeSummarizer{output: "plain compacted text"}
	acc := NewAccumulator(sessions, turns, summarizer, 5, 5)

	ctx := context.Background()
	session, _ := sessions.CreateSession(ctx, user.ID)

	for i := 1; i <= 5; i++ {
		acc.Accumulate(ctx, session.ID, fmt.Sprintf("answer %d", i), "q")
	}

	got, _ := sessions.GetSessionByID(ctx, session.ID)
	if got.SessionSummary != "plain compacted text" {
		t.Errorf("SessionSummary = %q, want raw summarizer output", got.SessionSummary)
	}
}

func TestAccumulator_TitleOnFirstTurn(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	sessions := dao.NewSessionDAO(db)
	turns := dao.NewChatTurnDAO(db)
	acc := NewAccumulator(sessions, turns, &fakeSummarizer{}, 5, 5)

	ctx := context.Background()
	session, _ := sessions.CreateSession(ctx, user.ID)

	acc.Accumulate(ctx, session.ID, "some answer", "fixed deposit interest rates")

	got, _ := sessions.GetSessionByID(ctx, session.ID)
	if got.SessionTitle != "Fixed Deposit Interest Rates" {
		t.Errorf("SessionTitle = %q", got.SessionTitle)
	}

	// Later turns never touch the title.
	acc.Accumulate(ctx, session.ID, "another answer", "completely different topic words")
	got, _ = sessions.GetSessionByID(ctx, session.ID)
	if got.SessionTitle != "Fixed Deposit Interest Rates" {
		t.Errorf("SessionTitle changed on a later turn: %q", got.SessionTitle)
	}
}

func TestAccumulator_SwallowsFailures(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	sessions := dao.NewSessionDAO(db)
	turns := dao.NewChatTurnDAO(db)
	summarizer := &fakeSummarizer{err: errors.New("summarizer exploded")}
	acc := NewAccumulator(sessions, turns, summarizer, 1, 5)

	ctx := context.Background()
	session, _ := sessions.CreateSession(ctx, user.ID)

	// Threshold of 1 forces a rollover attempt that fails; the call must
	// not panic or surface the error.
	acc.Accumulate(ctx, session.ID, "answer", "query")

	got, _ := sessions.GetSessionByID(ctx, session.ID)
	if got.SummaryCount != 1 {
		t.Errorf("SummaryCount = %d, want the pre-rollover value 1", got.SummaryCount)
	}
}

func TestAccumulator_ConcurrentTurnsSerialize(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	sessions := dao.NewSessionDAO(db)
	turns := dao.NewChatTurnDAO(db)
	acc := NewAccumulator(sessions, turns, &fakeSummarizer{output: "rolled"}, 100, 5)

	ctx := context.Background()
	session, _ := sessions.CreateSession(ctx, user.ID)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			acc.Accumulate(ctx, session.ID, fmt.Sprintf("answer %d", n), "q")
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	got, _ := sessions.GetSessionByID(ctx, session.ID)
	if got.SummaryCount != 10 {
		t.Errorf("SummaryCount = %d, want 10 (lost update)", got.SummaryCount)
	}
}
