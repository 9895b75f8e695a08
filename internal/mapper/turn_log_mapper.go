package mapper

import (
	"encoding/json"

	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type TurnLogMapper struct{}

func NewTurnLogMapper() *TurnLogMapper {
	return &TurnLogMapper{}
}

func (m *TurnLogMapper) ToModel(e *entity.TurnLog) *model.TurnLog {
	if e == nil {
		return nil
	}

	var routed datatypes.JSON
	if len(e.RoutedCollections) > 0 {
		if raw, err := json.Marshal(e.RoutedCollections); err == nil {
			routed = raw
		}
	}

	return &model.TurnLog{
		Id:                e.Id,
		UserId:            e.UserId,
		Outcome:           e.Outcome,
		RoutedCollections: routed,
		CandidateCount:    e.CandidateCount,
		SelectedCount:     e.SelectedCount,
		ElapsedMs:         e.ElapsedMs,
		CreatedAt:         e.CreatedAt,
	}
}

func (m *TurnLogMapper) ToEntity(e *model.TurnLog) *entity.TurnLog {
	if e == nil {
		return nil
	}

	var routed []string
	if len(e.RoutedCollections) > 0 {
		_ = json.Unmarshal(e.RoutedCollections, &routed)
	}

	return &entity.TurnLog{
		Id:                e.Id,
		UserId:            e.UserId,
		Outcome:           e.Outcome,
		RoutedCollections: routed,
		CandidateCount:    e.CandidateCount,
		SelectedCount:     e.SelectedCount,
		ElapsedMs:         e.ElapsedMs,
		CreatedAt:         e.CreatedAt,
	}
}
