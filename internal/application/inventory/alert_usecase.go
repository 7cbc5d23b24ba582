package inventory

import (
	"context"
	"strconv"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	"github.com/jhoicas/inventory-predictor/internal/domain/repository"
)

// AlertUseCase consultas sobre alertas. La resolución la decide únicamente el ledger.
type AlertUseCase struct {
	alerts repository.StockAlertRepository
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(alerts repository.StockAlertRepository) *AlertUseCase {
	return &AlertUseCase{alerts: alerts}
}

// List alertas más recientes primero.
func (uc *AlertUseCase) List(ctx context.Context, f dto.AlertFilter) (*dto.AlertListResponse, error) {
	f.DefaultPage()
	filter := repository.StockAlertFilter{
		ProductID: f.ProductID,
		Limit:     f.PageSize,
		Offset:    f.Offset(),
	}
	if f.Resolved != "" {
		b, err := strconv.ParseBool(f.Resolved)
		if err != nil {
			return nil, domain.NewValidationError("resolved", "debe ser true o false")
		}
		filter.Resolved = &b
	}
	if f.Severity != "" {
		sev := entity.AlertSeverity(f.Severity)
		switch sev {
		case entity.AlertSeverityLow, entity.AlertSeverityMedium, entity.AlertSeverityHigh, entity.AlertSeverityCritical:
			filter.Severity = sev
		default:
			return nil, domain.NewValidationError("severity", "valor desconocido")
		}
	}
	list, total, err := uc.alerts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, ToAlertResponse(a))
	}
	return &dto.AlertListResponse{Items: items, Page: dto.NewPageResponse(f.PageRequest, total)}, nil
}

// GetByID obtiene una alerta.
func (uc *AlertUseCase) GetByID(ctx context.Context, id string) (*dto.AlertResponse, error) {
	a, err := uc.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToAlertResponse(a)
	return &resp, nil
}

// MarkRead marca la alerta como leída (idempotente).
func (uc *AlertUseCase) MarkRead(ctx context.Context, id string) (*dto.AlertResponse, error) {
	if err := uc.alerts.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}
