package dao

import (
	"context"
	"errors"

	"finbot/finbot/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionDAO struct {
	DB *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{DB: db}
}

func (dao *SessionDAO) CreateSession(ctx context.Context, userID int) (*models.Session, error) {
	session := models.Session{UserID: userID}
	if err := dao.DB.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (dao *SessionDAO) GetSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := dao.DB.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessionsForUser returns the user's sessions in creation order, the
// order complete-history summaries are concatenated in.
func (dao *SessionDAO) ListSessionsForUser(ctx context.Context, userID int) ([]models.Session, error) {
	var sessions []models.Session
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateSummaryState writes the counter and running summary in one UPDATE.
// Callers serialize per session; see memory.Accumulator.
func (dao *SessionDAO) UpdateSummaryState(ctx context.Context, id uuid.UUID, count int, summary string) error {
	res := dao.DB.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"summary_count":   count,
			"session_summary": summary,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (dao *SessionDAO) SetSessionTitle(ctx context.Context, id uuid.UUID, title string) error {
	res := dao.DB.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Update("session_title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetSummaryState clears the accumulated summary bookkeeping, used when a
// session's turns are deleted.
func (dao *SessionDAO) ResetSummaryState(ctx context.Context, id uuid.UUID) error {
	res := dao.DB.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"summary_count":   0,
			"session_summary": "",
			"session_title":   "",
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (dao *SessionDAO) DeleteSessionsForUser(ctx context.Context, userID int) error {
	return dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Session{}).Error
}
