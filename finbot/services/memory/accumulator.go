package memory

import (
	"context"
	"sync"

	"finbot/finbot/services/nlp"
	"finbot/finbot/sources/psql/dao"
	"finbot/finbot/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Accumulator maintains each session's running summary. Every ordinary turn
// appends its answer text until the counter hits the threshold, at which
// point the text is compacted through the summarizer and the counter resets,
// in the same call. Updates for one session are serialized through a
// per-session mutex; concurrent turns on different sessions don't contend.
type Accumulator struct {
	sessions   *dao.SessionDAO
	turns      *dao.ChatTurnDAO
	summarizer nlp.Summarizer
	threshold  int
	titleWords int

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewAccumulator(sessions *dao.SessionDAO, turns *dao.ChatTurnDAO, summarizer nlp.Summarizer, threshold, titleWords int) *Accumulator {
	return &Accumulator{
		sessions:   sessions,
		turns:      turns,
		summarizer: summarizer,
		threshold:  threshold,
		titleWords: titleWords,
		locks:      make(map[uuid.UUID]*sync.Mutex),
	}
}

func (a *Accumulator) sessionLock(sessionID uuid.UUID) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	lock, ok := a.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[sessionID] = lock
	}
	return lock
}

// Accumulate runs after an ordinary turn has been persisted and answered.
// It is best-effort bookkeeping: any failure is logged and swallowed, never
// surfaced to the caller whose answer already went out.
func (a *Accumulator) Accumulate(ctx context.Context, sessionID uuid.UUID, answerText, queryText string) {
	lock := a.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := a.accumulate(ctx, sessionID, answerText, queryText); err != nil {
		logging.ErrorLogger.Error("summary accumulation failed",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
		)
	}
}

func (a *Accumulator) accumulate(ctx context.Context, sessionID uuid.UUID, answerText, queryText string) error {
	session, err := a.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return err
	}

	count := session.SummaryCount
	summary := session.SessionSummary

	if count < a.threshold {
		count++
		if summary == "" {
			summary = answerText
		} else {
			summary = summary + " " + answerText
		}

		if count == 1 {
			if err := a.maybeSetTitle(ctx, sessionID, queryText); err != nil {
				logging.ErrorLogger.Error("session title generation failed",
					zap.Error(err),
					zap.String("session_id", sessionID.String()),
				)
			}
		}

		if err := a.sessions.UpdateSummaryState(ctx, sessionID, count, summary); err != nil {
			return err
		}
	}

	// Rollover fires in the same call the counter reaches the threshold,
	// never deferred to a later turn.
	if count == a.threshold {
		raw, err := a.summarizer.Summarize(ctx, summary)
		if err != nil {
			return err
		}
		compacted := nlp.ExtractSummary(raw)
		return a.sessions.UpdateSummaryState(ctx, sessionID, 0, compacted)
	}
	return nil
}

// maybeSetTitle derives the session title from the first query, skipped once
// the session already has enough turns to have been titled before.
func (a *Accumulator) maybeSetTitle(ctx context.Context, sessionID uuid.UUID, queryText string) error {
	total, err := a.turns.CountTurnsForSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if total >= int64(a.threshold) {
		return nil
	}
	return a.sessions.SetSessionTitle(ctx, sessionID, ExtractTitle(queryText, a.titleWords))
}
