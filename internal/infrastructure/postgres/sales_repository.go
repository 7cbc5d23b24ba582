package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	"github.com/jhoicas/inventory-predictor/internal/domain/repository"
)

var _ repository.SalesTransactionRepository = (*SalesTransactionRepo)(nil)

const salesColumns = `id, product_id, product_code, product_name, quantity, unit_price, total_amount,
	transaction_date, location, channel, COALESCE(customer_id, ''), COALESCE(payment_method, ''),
	COALESCE(external_ref, ''), transaction_type, notes`

// SalesTransactionRepo ventas y devoluciones sobre PostgreSQL.
type SalesTransactionRepo struct {
	q Querier
}

// NewSalesTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesTransactionRepository(q Querier) *SalesTransactionRepo {
	return &SalesTransactionRepo{q: q}
}

// Create registra una transacción.
func (r *SalesTransactionRepo) Create(ctx context.Context, t *entity.SalesTransaction) error {
	query := `
		INSERT INTO sales_transactions (id, product_id, product_code, product_name, quantity, unit_price,
			total_amount, transaction_date, location, channel, customer_id, payment_method, external_ref,
			transaction_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ProductID, t.ProductCode, t.ProductName, t.Quantity, t.UnitPrice,
		t.TotalAmount, t.TransactionDate, t.Location, t.Channel, nullIfEmpty(t.CustomerID),
		nullIfEmpty(t.PaymentMethod), nullIfEmpty(t.ExternalRef), t.Type, t.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert sales transaction: %w", err)
	}
	return nil
}

// List transacciones más recientes primero, con total sin paginar.
func (r *SalesTransactionRepo) List(ctx context.Context, f repository.SalesFilter) ([]*entity.SalesTransaction, int, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.Location != "" {
		add("location = $%d", f.Location)
	}
	if f.From != nil {
		add("transaction_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("transaction_date <= $%d", *f.To)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales_transactions`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM sales_transactions%s ORDER BY transaction_date DESC, id LIMIT $%d OFFSET $%d`,
		salesColumns, clause, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.SalesTransaction
	for rows.Next() {
		var t entity.SalesTransaction
		if err := rows.Scan(
			&t.ID, &t.ProductID, &t.ProductCode, &t.ProductName, &t.Quantity, &t.UnitPrice, &t.TotalAmount,
			&t.TransactionDate, &t.Location, &t.Channel, &t.CustomerID, &t.PaymentMethod,
			&t.ExternalRef, &t.Type, &t.Notes,
		); err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &t)
	}
	return list, total, rows.Err()
}
