package implementation

import (
	"context"

	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/mapper"
	"kb-assistant-be/internal/model"
	"kb-assistant-be/internal/repository/contract"

	"gorm.io/gorm"
)

type TurnLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TurnLogMapper
}

func NewTurnLogRepository(db *gorm.DB) contract.TurnLogRepository {
	return &TurnLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewTurnLogMapper(),
	}
}

func (r *TurnLogRepositoryImpl) Create(ctx context.Context, log *entity.TurnLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *TurnLogRepositoryImpl) FindRecentByUserId(ctx context.Context, userId string, limit int) ([]*entity.TurnLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []*model.TurnLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.TurnLog, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
