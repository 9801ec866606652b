package dao

import (
	"context"
	"errors"

	"finbot/finbot/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatTurnDAO struct {
	DB *gorm.DB
}

func NewChatTurnDAO(db *gorm.DB) *ChatTurnDAO {
	return &ChatTurnDAO{DB: db}
}

func (dao *ChatTurnDAO) SaveTurn(ctx context.Context, turn *models.ChatTurn) (*models.ChatTurn, error) {
	if err := dao.DB.WithContext(ctx).Create(turn).Error; err != nil {
		return nil, err
	}
	return turn, nil
}

// GetLatestContextTurn returns the newest ordinary (is_ltm = false) turn of a
// session. Memory-path turns never seed the context for the next question.
// Returns ErrNotFound when the session has no ordinary turns yet.
func (dao *ChatTurnDAO) GetLatestContextTurn(ctx context.Context, sessionID uuid.UUID) (*models.ChatTurn, error) {
	var turn models.ChatTurn
	err := dao.DB.WithContext(ctx).
		Where("session_id = ? AND is_ltm = ?", sessionID, false).
		Order("created_at DESC").
		First(&turn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

func (dao *ChatTurnDAO) ListTurnsForSession(ctx context.Context, sessionID uuid.UUID) ([]models.ChatTurn, error) {
	var turns []models.ChatTurn
	err := dao.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&turns).Error
	if err != nil {
		return nil, err
	}
	return turns, nil
}

func (dao *ChatTurnDAO) CountTurnsForSession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := dao.DB.WithContext(ctx).
		Model(&models.ChatTurn{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (dao *ChatTurnDAO) DeleteTurnsForSession(ctx context.Context, sessionID uuid.UUID) error {
	return dao.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.ChatTurn{}).Error
}

func (dao *ChatTurnDAO) DeleteTurnsForUser(ctx context.Context, userID int) error {
	return dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.ChatTurn{}).Error
}
