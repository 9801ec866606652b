package dao

import (
	"context"
	"errors"

	"finbot/finbot/sources/psql/models"

	"gorm.io/gorm"
)

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

func (dao *UserDAO) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) GetUserByProviderID(ctx context.Context, providerID string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("provider_id = ?", providerID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) CreateUser(ctx context.Context, providerID, username, email string, imageURL *string) (*models.User, error) {
	user := models.User{
		ProviderID: providerID,
		Username:   username,
		Email:      email,
		ImageURL:   imageURL,
	}
	if err := dao.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertUserByProviderID updates the user's profile fields, creating the user
// if the provider id is unknown. Mirrors the identity provider's
// user.updated event semantics.
func (dao *UserDAO) UpsertUserByProviderID(ctx context.Context, providerID, username, email string, imageURL *string) (*models.User, error) {
	user, err := dao.GetUserByProviderID(ctx, providerID)
	if errors.Is(err, ErrNotFound) {
		return dao.CreateUser(ctx, providerID, username, email, imageURL)
	}
	if err != nil {
		return nil, err
	}
	user.Username = username
	user.Email = email
	user.ImageURL = imageURL
	if err := dao.DB.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUserByProviderID removes the user and cascades to their sessions and
// chat turns. Each delete is a separate statement, matching the best-effort
// persistence model (no cross-table transaction).
func (dao *UserDAO) DeleteUserByProviderID(ctx context.Context, providerID string) (*models.User, error) {
	user, err := dao.GetUserByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := dao.DB.WithContext(ctx).Where("user_id = ?", user.ID).Delete(&models.ChatTurn{}).Error; err != nil {
		return nil, err
	}
	if err := dao.DB.WithContext(ctx).Where("user_id = ?", user.ID).Delete(&models.Session{}).Error; err != nil {
		return nil, err
	}
	if err := dao.DB.WithContext(ctx).Delete(&models.User{}, user.ID).Error; err != nil {
		return nil, err
	}
	return user, nil
}
