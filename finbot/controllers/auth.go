package controllers

import (
	"context"
	"time"

	"finbot/finbot/config"
	"finbot/finbot/sources/psql/dao"

	"github.com/golang-jwt/jwt/v5"
)

type AuthController struct {
	userDAO *dao.UserDAO
	cfg     config.Config
}

func NewAuthController(userDAO *dao.UserDAO, cfg config.Config) *AuthController {
	return &AuthController{
		userDAO: userDAO,
		cfg:     cfg,
	}
}

// Login issues a JWT for an already-provisioned user. Users come in through
// the identity-provider webhook, never on first login.
func (c *AuthController) Login(ctx context.Context, username string) (string, error) {
	user, err := c.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"user_id":     user.ID,
		"provider_id": user.ProviderID,
		"exp":         time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}
