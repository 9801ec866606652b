package controllers

import (
	"context"

	"finbot/finbot/sources/psql/dao"
	"finbot/finbot/sources/psql/models"
)

type SessionController struct {
	users    *dao.UserDAO
	sessions *dao.SessionDAO
	turns    *dao.ChatTurnDAO
}

func NewSessionController(users *dao.UserDAO, sessions *dao.SessionDAO, turns *dao.ChatTurnDAO) *SessionController {
	return &SessionController{users: users, sessions: sessions, turns: turns}
}

func (c *SessionController) CreateSession(ctx context.Context, providerID string) (*models.Session, error) {
	user, err := c.users.GetUserByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return c.sessions.CreateSession(ctx, user.ID)
}

func (c *SessionController) ListSessions(ctx context.Context, providerID string) ([]models.Session, error) {
	user, err := c.users.GetUserByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return c.sessions.ListSessionsForUser(ctx, user.ID)
}

// DeleteAllSessionsForUser clears the caller's entire history: every turn,
// then every session. Two statements, no cross-table transaction.
func (c *SessionController) DeleteAllSessionsForUser(ctx context.Context, providerID string) error {
	user, err := c.users.GetUserByProviderID(ctx, providerID)
	if err != nil {
		return err
	}
	if err := c.turns.DeleteTurnsForUser(ctx, user.ID); err != nil {
		return err
	}
	return c.sessions.DeleteSessionsForUser(ctx, user.ID)
}
