package controllers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"finbot/finbot/sources/psql/dao"
	"finbot/finbot/utils/logging"
	"finbot/finbot/utils/types"

	"go.uber.org/zap"
)

var ErrBadSignature = errors.New("webhook verification failed")

// WebhookController syncs the User table with identity-provider lifecycle
// events. Payloads are signed with the svix scheme: HMAC-SHA256 over
// "{id}.{timestamp}.{body}" keyed by the base64 secret after the whsec_
// prefix.
type WebhookController struct {
	users  *dao.UserDAO
	secret string
}

func NewWebhookController(users *dao.UserDAO, secret string) *WebhookController {
	return &WebhookController{users: users, secret: secret}
}

func (c *WebhookController) VerifySignature(payload []byte, msgID, timestamp, signatures string) error {
	secret, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(c.secret, "whsec_"))
	if err != nil {
		return fmt.Errorf("malformed webhook secret: %w", err)
	}

	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, versioned := range strings.Fields(signatures) {
		parts := strings.SplitN(versioned, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		if hmac.Equal([]byte(parts[1]), []byte(expected)) {
			return nil
		}
	}
	return ErrBadSignature
}

func (c *WebhookController) HandleEvent(ctx context.Context, evt types.UserEvent) error {
	switch evt.Type {
	case "user.created":
		var imageURL *string
		if evt.Data.ProfileImgURL != "" {
			imageURL = &evt.Data.ProfileImgURL
		}
		user, err := c.users.CreateUser(ctx, evt.Data.ID, evt.DisplayName(), evt.Email(), imageURL)
		if err != nil {
			return err
		}
		logging.AppLogger.Info("new user created", zap.String("provider_id", user.ProviderID))

	case "user.updated":
		var imageURL *string
		if evt.Data.ProfileImgURL != "" {
			imageURL = &evt.Data.ProfileImgURL
		}
		user, err := c.users.UpsertUserByProviderID(ctx, evt.Data.ID, evt.DisplayName(), evt.Email(), imageURL)
		if err != nil {
			return err
		}
		logging.AppLogger.Info("user updated", zap.String("provider_id", user.ProviderID))

	case "user.deleted":
		// DAO cascades to the user's sessions and turns.
		user, err := c.users.DeleteUserByProviderID(ctx, evt.Data.ID)
		if errors.Is(err, dao.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		logging.AppLogger.Info("user deleted", zap.String("provider_id", user.ProviderID))
	}
	return nil
}
