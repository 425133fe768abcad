package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/takabooks/shops_backend/config"
	"github.com/takabooks/shops_backend/utils"
)

// Activity is the append-only audit trail. Rows are never updated or
// deleted; they survive the deletion of the documents they reference.
type Activity struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	Type      ActivityType     `gorm:"type:enum('new','update','restock','sale','delete');not null" json:"type"`
	Text      string           `gorm:"type:text;not null" json:"text"`
	UserId    string           `gorm:"index;size:128;not null" json:"user_id"`
	UserName  string           `gorm:"size:100" json:"user_name"`
	ShopId    *string          `gorm:"size:36" json:"shop_id"`
	ProductId *string          `gorm:"size:36" json:"product_id"`
	SaleId    *string          `gorm:"size:36" json:"sale_id"`
	Amount    *decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

type NewActivity struct {
	Type      ActivityType
	Text      string
	ShopId    *string
	ProductId *string
	SaleId    *string
	Amount    *decimal.Decimal
}

// LogActivity appends one audit entry with a server-assigned timestamp,
// attributing it to the context user. The trail is best-effort: failures are
// logged and swallowed so they never fail the triggering mutation.
func (r *Repository) LogActivity(ctx context.Context, input *NewActivity) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		config.LogError(r.logger, "activity", "LogActivity", "missing user id in context", input.Type, utils.ValidationError("user id is required in context"))
		return
	}
	userName, _ := utils.GetUserNameFromContext(ctx)

	if !input.Type.IsValid() {
		config.LogError(r.logger, "activity", "LogActivity", "invalid activity type", input.Type, utils.ValidationError("unknown activity type %q", input.Type))
		return
	}

	activity := Activity{
		Type:      input.Type,
		Text:      input.Text,
		UserId:    userId,
		UserName:  userName,
		ShopId:    input.ShopId,
		ProductId: input.ProductId,
		SaleId:    input.SaleId,
		Amount:    input.Amount,
	}
	if err := CreateEntity(ctx, r.store, &activity); err != nil {
		data := map[string]any{"text": input.Text}
		if correlationId, ok := utils.GetCorrelationIdFromContext(ctx); ok {
			data["correlationId"] = correlationId
		}
		config.LogError(r.logger, "activity", "LogActivity", "failed to append activity", data, err)
	}
}

// GetRecentActivities lists a user's latest audit entries, newest first.
func (r *Repository) GetRecentActivities(ctx context.Context, userId string, limit int) ([]*Activity, error) {
	if err := utils.RequireField("user id", userId); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	var activities []*Activity
	err := r.store.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, utils.StoreError("query activities", err)
	}
	return activities, nil
}
