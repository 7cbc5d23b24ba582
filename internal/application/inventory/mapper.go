package inventory

import (
	"github.com/jhoicas/inventory-predictor/internal/application/dto"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
)

// ToItemResponse convierte la entidad a DTO de salida.
func ToItemResponse(i *entity.InventoryItem) dto.InventoryItemResponse {
	out := dto.InventoryItemResponse{
		ID:                   i.ID,
		ProductCode:          i.ProductCode,
		ProductName:          i.ProductName,
		Category:             i.Category,
		CurrentStock:         i.CurrentStock,
		MinimumStock:         i.MinimumStock,
		MaximumStock:         i.MaximumStock,
		ReorderPoint:         i.ReorderPoint,
		OptimalOrderQuantity: i.OptimalOrderQuantity,
		Unit:                 i.Unit,
		UnitPrice:            i.UnitPrice,
		StockValue:           i.StockValue(),
		Location:             i.Location,
		Supplier:             i.Supplier,
		LeadTimeDays:         i.LeadTimeDays,
		LastRestocked:        i.LastRestocked,
		Status:               string(i.Status),
		IsActive:             i.IsActive,
		Version:              i.Version,
		CreatedAt:            i.CreatedAt,
		UpdatedAt:            i.UpdatedAt,
	}
	if i.DaysOfStockRemaining.Valid {
		days := i.DaysOfStockRemaining.Decimal
		out.DaysOfStockRemaining = &days
	}
	return out
}

// ToItemResponses convierte una lista; nunca devuelve nil.
func ToItemResponses(items []*entity.InventoryItem) []dto.InventoryItemResponse {
	out := make([]dto.InventoryItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, ToItemResponse(i))
	}
	return out
}

// ToAlertResponse convierte la alerta a DTO.
func ToAlertResponse(a *entity.StockAlert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:                a.ID,
		ProductID:         a.ProductID,
		ProductCode:       a.ProductCode,
		ProductName:       a.ProductName,
		Type:              string(a.Type),
		Severity:          string(a.Severity),
		Message:           a.Message,
		Location:          a.Location,
		CurrentStock:      a.CurrentStock,
		ThresholdValue:    a.ThresholdValue,
		RecommendedAction: a.RecommendedAction,
		IsRead:            a.IsRead,
		IsResolved:        a.IsResolved,
		CreatedAt:         a.CreatedAt,
		ResolvedAt:        a.ResolvedAt,
	}
}

// ToSaleResponse convierte la transacción a DTO.
func ToSaleResponse(t *entity.SalesTransaction) dto.SalesTransactionResponse {
	return dto.SalesTransactionResponse{
		ID:              t.ID,
		ProductID:       t.ProductID,
		ProductCode:     t.ProductCode,
		ProductName:     t.ProductName,
		Quantity:        t.Quantity,
		UnitPrice:       t.UnitPrice,
		TotalAmount:     t.TotalAmount,
		TransactionDate: t.TransactionDate,
		Location:        t.Location,
		Channel:         t.Channel,
		CustomerID:      t.CustomerID,
		PaymentMethod:   t.PaymentMethod,
		ExternalRef:     t.ExternalRef,
		Type:            t.Type,
		Notes:           t.Notes,
	}
}

func toMovementResponse(o *MovementOutcome) dto.MovementResponse {
	out := dto.MovementResponse{
		Item:            ToItemResponse(&o.Result.Item),
		PreviousStatus:  string(o.Result.PrevStatus),
		StatusChanged:   o.Result.StatusChanged,
		AlertTransition: string(o.Result.Transition),
	}
	switch {
	case o.Result.Alert != nil:
		a := ToAlertResponse(o.Result.Alert)
		out.Alert = &a
	case o.ResolvedAlert != nil:
		a := ToAlertResponse(o.ResolvedAlert)
		out.Alert = &a
	}
	return out
}
