package prediction

import (
	"github.com/jhoicas/inventory-predictor/internal/application/dto"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
)

// ToPredictionResponse convierte el pronóstico a DTO.
func ToPredictionResponse(p *entity.PredictionResult) dto.PredictionResponse {
	out := dto.PredictionResponse{
		ProductID:                p.ProductID,
		ProductCode:              p.ProductCode,
		ProductName:              p.ProductName,
		PredictionDate:           p.PredictionDate,
		AverageDailyDemand:       p.AverageDailyDemand,
		PredictedDemand7Days:     p.PredictedDemand7Days,
		PredictedDemand14Days:    p.PredictedDemand14Days,
		PredictedDemand30Days:    p.PredictedDemand30Days,
		CurrentStock:             p.CurrentStock,
		DaysUntilStockOut:        p.DaysUntilStockOut,
		EstimatedStockOutDate:    p.EstimatedStockOutDate,
		StockOutProbability:      p.StockOutProbability,
		RecommendedOrderQuantity: p.RecommendedOrderQuantity,
		Insights:                 p.Insights,
		Trend:                    string(p.Trend),
	}
	if out.Insights == nil {
		out.Insights = []string{}
	}
	for _, d := range p.DemandForecast {
		out.DemandForecast = append(out.DemandForecast, dto.DailyDemandDTO{Date: d.Date, Quantity: d.Quantity})
	}
	return out
}

// ToPredictionResponses convierte una lista; nunca devuelve nil.
func ToPredictionResponses(list []entity.PredictionResult) []dto.PredictionResponse {
	out := make([]dto.PredictionResponse, 0, len(list))
	for i := range list {
		out = append(out, ToPredictionResponse(&list[i]))
	}
	return out
}

// ToReorderResponses convierte recomendaciones a DTO.
func ToReorderResponses(list []entity.ReorderRecommendation) []dto.ReorderRecommendationResponse {
	out := make([]dto.ReorderRecommendationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ReorderRecommendationResponse{
			ProductID:                r.ProductID,
			ProductCode:              r.ProductCode,
			ProductName:              r.ProductName,
			CurrentStock:             r.CurrentStock,
			RecommendedOrderQuantity: r.RecommendedOrderQuantity,
			RecommendedOrderDate:     r.RecommendedOrderDate,
			Urgency:                  r.Urgency,
			EstimatedCost:            r.EstimatedCost,
			Reason:                   r.Reason,
			DaysUntilStockOut:        r.DaysUntilStockOut,
			Unit:                     r.Unit,
		})
	}
	return out
}
