package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateAgentRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
	Region        string `json:"region"`
}

type UpdateAgentRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
	Region        string `json:"region"`
	IsActive      *bool  `json:"is_active"`
}

type AgentResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Region        string `json:"region"`
	IsActive      bool   `json:"is_active"`
	TotalOrders   int    `json:"total_orders"`
	TotalAmount   string `json:"total_amount"`
	CreatedAt     string `json:"created_at"`
}

// --- Interface ---

type AgentService interface {
	GetAgents(ctx context.Context, page, limit int, search string) ([]AgentResponse, int64, error)
	GetAgent(ctx context.Context, id string) (AgentResponse, error)
	CreateAgent(ctx context.Context, userID string, req CreateAgentRequest) (AgentResponse, error)
	UpdateAgent(ctx context.Context, userID string, id string, req UpdateAgentRequest) (AgentResponse, error)
	DeleteAgent(ctx context.Context, userID string, id string) error
	RecomputeAggregates(ctx context.Context, id string) (AgentResponse, error)
}

type agentService struct {
	agentRepo repository.AgentRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewAgentService(
	agentRepo repository.AgentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) AgentService {
	return &agentService{
		agentRepo: agentRepo,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

// --- Implementation ---

func (s *agentService) GetAgents(ctx context.Context, page, limit int, search string) ([]AgentResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	agents, total, err := s.agentRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AgentResponse, 0, len(agents))
	for i := range agents {
		res = append(res, toAgentResponse(&agents[i]))
	}

	return res, total, nil
}

func (s *agentService) GetAgent(ctx context.Context, id string) (AgentResponse, error) {
	agentID, err := uuid.Parse(id)
	if err != nil {
		return AgentResponse{}, fmt.Errorf("invalid agent id: %w", err)
	}

	agent, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AgentResponse{}, fmt.Errorf("agent %s: %w", id, ErrNotFound)
		}
		return AgentResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toAgentResponse(agent), nil
}

func (s *agentService) CreateAgent(ctx context.Context, userID string, req CreateAgentRequest) (AgentResponse, error) {
	if _, err := s.agentRepo.FindByCode(ctx, req.Code); err == nil {
		return AgentResponse{}, fmt.Errorf("agent code %s: %w", req.Code, ErrConflict)
	}

	agent := model.Agent{
		Code:          req.Code,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Region:        req.Region,
		IsActive:      true,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.agentRepo.Create(txCtx, &agent); createErr != nil {
			return fmt.Errorf("failed to create agent: %w", createErr)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateAgent,
			EntityID:   agent.ID.String(),
			EntityName: agent.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})

	if err != nil {
		return AgentResponse{}, err
	}

	return toAgentResponse(&agent), nil
}

func (s *agentService) UpdateAgent(ctx context.Context, userID string, id string, req UpdateAgentRequest) (AgentResponse, error) {
	agentID, err := uuid.Parse(id)
	if err != nil {
		return AgentResponse{}, fmt.Errorf("invalid agent id: %w", err)
	}

	agent, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AgentResponse{}, fmt.Errorf("agent %s: %w", id, ErrNotFound)
		}
		return AgentResponse{}, fmt.Errorf("database error: %w", err)
	}

	agent.Name = req.Name
	agent.ContactPerson = req.ContactPerson
	agent.Phone = req.Phone
	agent.Email = req.Email
	agent.Address = req.Address
	agent.Region = req.Region
	if req.IsActive != nil {
		agent.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.agentRepo.Update(txCtx, agent); updateErr != nil {
			return fmt.Errorf("failed to update agent: %w", updateErr)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateAgent,
			EntityID:   agent.ID.String(),
			EntityName: agent.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})

	if err != nil {
		return AgentResponse{}, err
	}

	return toAgentResponse(agent), nil
}

func (s *agentService) DeleteAgent(ctx context.Context, userID string, id string) error {
	agentID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid agent id: %w", err)
	}

	agent, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("agent %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.agentRepo.Delete(txCtx, agentID); deleteErr != nil {
			return fmt.Errorf("failed to delete agent: %w", deleteErr)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeleteAgent,
			EntityID:   agent.ID.String(),
			EntityName: agent.Name,
			Details:    `{"deleted": true}`,
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
}

func (s *agentService) RecomputeAggregates(ctx context.Context, id string) (AgentResponse, error) {
	agentID, err := uuid.Parse(id)
	if err != nil {
		return AgentResponse{}, fmt.Errorf("invalid agent id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.agentRepo.RecomputeAggregates(txCtx, agentID)
	})
	if err != nil {
		return AgentResponse{}, fmt.Errorf("failed to recompute aggregates: %w", err)
	}

	return s.GetAgent(ctx, id)
}

func toAgentResponse(a *model.Agent) AgentResponse {
	return AgentResponse{
		ID:            a.ID.String(),
		Code:          a.Code,
		Name:          a.Name,
		ContactPerson: a.ContactPerson,
		Phone:         a.Phone,
		Email:         a.Email,
		Address:       a.Address,
		Region:        a.Region,
		IsActive:      a.IsActive,
		TotalOrders:   a.TotalOrders,
		TotalAmount:   a.TotalAmount.StringFixed(2),
		CreatedAt:     a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
