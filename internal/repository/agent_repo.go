package repository

import (
	"context"

	"salesdesk-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AgentRepository interface {
	Create(ctx context.Context, agent *model.Agent) error
	Update(ctx context.Context, agent *model.Agent) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Agent, error)
	FindByCode(ctx context.Context, code string) (*model.Agent, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Agent, int64, error)
	AddOrderAggregate(ctx context.Context, id uuid.UUID, orderDelta int, amountDelta decimal.Decimal) error
	RecomputeAggregates(ctx context.Context, id uuid.UUID) error
}

type agentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *model.Agent) error {
	return GetDB(ctx, r.db).Create(agent).Error
}

func (r *agentRepository) Update(ctx context.Context, agent *model.Agent) error {
	return GetDB(ctx, r.db).Save(agent).Error
}

func (r *agentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Agent{}).Error
}

func (r *agentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Agent, error) {
	var agent model.Agent
	if err := GetDB(ctx, r.db).First(&agent, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) FindByCode(ctx context.Context, code string) (*model.Agent, error) {
	var agent model.Agent
	if err := GetDB(ctx, r.db).Where("code = ?", code).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) List(ctx context.Context, page, limit int, search string) ([]model.Agent, int64, error) {
	var agents []model.Agent
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Agent{})
	if search != "" {
		db = db.Where("name ILIKE ? OR code ILIKE ? OR region ILIKE ?", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&agents).Error; err != nil {
		return nil, 0, err
	}

	return agents, total, nil
}

func (r *agentRepository) AddOrderAggregate(ctx context.Context, id uuid.UUID, orderDelta int, amountDelta decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Agent{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_orders": gorm.Expr("total_orders + ?", orderDelta),
			"total_amount": gorm.Expr("total_amount + ?", amountDelta),
		}).Error
}

func (r *agentRepository) RecomputeAggregates(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Exec(`
		UPDATE agents SET
			total_orders = (SELECT COUNT(*) FROM orders WHERE agent_id = ? AND status = ?),
			total_amount = (SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE agent_id = ? AND status = ?)
		WHERE id = ?
	`, id, model.OrderStatusActive, id, model.OrderStatusActive, id).Error
}
