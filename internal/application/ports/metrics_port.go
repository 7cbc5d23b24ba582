package ports

// LedgerMetrics contadores del ledger. La implementación nula es válida.
type LedgerMetrics interface {
	MovementApplied(kind string)
	StatusChanged(from, to string)
	AlertTransition(transition string)
	SaleRecorded(transactionType string)
}
