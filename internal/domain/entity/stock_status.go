package entity

// StockStatus clasificación del nivel de stock respecto al mínimo.
type StockStatus string

const (
	StockStatusOutOfStock    StockStatus = "OutOfStock"
	StockStatusCriticallyLow StockStatus = "CriticallyLow"
	StockStatusLow           StockStatus = "Low"
	StockStatusOptimal       StockStatus = "Optimal"
	StockStatusHigh          StockStatus = "High"
	StockStatusOverstocked   StockStatus = "Overstocked"
)

// IsCritical indica si el estado pertenece a la banda que abre alertas.
func (s StockStatus) IsCritical() bool {
	return s == StockStatusOutOfStock || s == StockStatusCriticallyLow
}

// ParseStockStatus valida un estado recibido como texto (filtros HTTP).
func ParseStockStatus(s string) (StockStatus, bool) {
	switch st := StockStatus(s); st {
	case StockStatusOutOfStock, StockStatusCriticallyLow, StockStatusLow,
		StockStatusOptimal, StockStatusHigh, StockStatusOverstocked:
		return st, true
	}
	return "", false
}
