package contract

import (
	"context"

	"kb-assistant-be/internal/entity"
)

type TurnLogRepository interface {
	Create(ctx context.Context, log *entity.TurnLog) error
	FindRecentByUserId(ctx context.Context, userId string, limit int) ([]*entity.TurnLog, error)
}
