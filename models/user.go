package models

import (
	"context"
	"errors"
	"time"

	"github.com/takabooks/shops_backend/utils"
	"gorm.io/gorm"
)

// User mirrors the external identity provider's account. The uid is the
// provider's id, not a generated document id.
type User struct {
	Uid         string    `gorm:"primaryKey;size:128" json:"uid"`
	Email       string    `gorm:"index;size:255;not null" json:"email"`
	DisplayName string    `gorm:"size:100" json:"display_name"`
	PhotoURL    string    `gorm:"size:512" json:"photo_url"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastLogin   time.Time `json:"last_login"`
}

type NewUser struct {
	Uid         string `json:"uid" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

// UpsertUser creates the user record on first sign-in and refreshes the
// display fields and lastLogin on every later one.
func (r *Repository) UpsertUser(ctx context.Context, input *NewUser) (*User, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	now := time.Now()
	var existing User
	err := r.store.db.WithContext(ctx).Where("uid = ?", input.Uid).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user := User{
			Uid:         input.Uid,
			Email:       input.Email,
			DisplayName: input.DisplayName,
			PhotoURL:    input.PhotoURL,
			LastLogin:   now,
		}
		createErr := r.store.db.WithContext(ctx).Create(&user).Error
		if createErr == nil {
			return &user, nil
		}
		if !utils.IsDuplicateEntry(createErr) {
			return nil, utils.StoreError("create user", createErr)
		}
		// lost the first-sign-in race; fall through to the update path
	} else if err != nil {
		return nil, utils.StoreError("get user", err)
	}

	patch := map[string]any{
		"email":      input.Email,
		"last_login": now,
	}
	if input.DisplayName != "" {
		patch["display_name"] = input.DisplayName
	}
	if input.PhotoURL != "" {
		patch["photo_url"] = input.PhotoURL
	}
	if err := r.store.db.WithContext(ctx).Model(&User{}).Where("uid = ?", input.Uid).Updates(patch).Error; err != nil {
		return nil, utils.StoreError("update user", err)
	}

	var user User
	if err := r.store.db.WithContext(ctx).Where("uid = ?", input.Uid).First(&user).Error; err != nil {
		return nil, utils.StoreError("get user", err)
	}
	return &user, nil
}

// GetUser returns nil when the uid is unknown.
func (r *Repository) GetUser(ctx context.Context, uid string) (*User, error) {
	if err := utils.RequireField("uid", uid); err != nil {
		return nil, err
	}
	var user User
	err := r.store.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.StoreError("get user", err)
	}
	return &user, nil
}
