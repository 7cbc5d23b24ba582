package kusto_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-predictor/internal/infrastructure/kusto"
)

// ──────────────────────────────────────────────────────────────────────────────
// Literales y sustitución de parámetros
// ──────────────────────────────────────────────────────────────────────────────

func TestLiteral(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"Nairobi", `"Nairobi"`},
		{`say "hi"\`, `"say \"hi\"\\"`},
		{42, "42"},
		{int64(7), "7"},
		{2.5, "2.5"},
		{true, "true"},
		{decimal.RequireFromString("12.50"), "12.5"},
		{time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), "datetime(2026-03-01T10:30:00Z)"},
		{90 * 24 * time.Hour, "90d"},
		{90 * time.Minute, "5400s"},
		{[]string{"a", "b"}, `dynamic(["a", "b"])`},
		{nil, "null"},
	}
	for _, tc := range cases {
		got, err := kusto.Literal(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := kusto.Literal(struct{}{})
	assert.Error(t, err)
}

func TestBind_NombresConPrefijoComun(t *testing.T) {
	got, err := kusto.Bind(`where id == @productId or id in (@productIds)`, map[string]any{
		"productId":  "p1",
		"productIds": []string{"p2"},
	})
	require.NoError(t, err)
	assert.Equal(t, `where id == "p1" or id in (dynamic(["p2"]))`, got)
}

func TestBind_ValorConArrobaNoSeReinterpreta(t *testing.T) {
	got, err := kusto.Bind(`T | where id == @productId | where d > ago(@window)`, map[string]any{
		"productId": "abc@window",
		"window":    7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, `T | where id == "abc@window" | where d > ago(7d)`, got)
}

func TestBind_ParametroDesconocidoQuedaIntacto(t *testing.T) {
	got, err := kusto.Bind(`where a == @a and b == @b`, map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, `where a == 1 and b == @b`, got)
}

func TestBind_ValorNoSoportado(t *testing.T) {
	_, err := kusto.Bind(`where a == @a`, map[string]any{"a": struct{}{}})
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cliente HTTP
// ──────────────────────────────────────────────────────────────────────────────

const oneTable = `{"Tables":[{"TableName":"Table_0",
	"Columns":[{"ColumnName":"product_id","DataType":"String"},{"ColumnName":"total_quantity","DataType":"Decimal"}],
	"Rows":[["p1", 270],["p2", 45.5]]}]}`

func TestQuery_EnviaCSLYDevuelvePrimeraTabla(t *testing.T) {
	var got struct {
		DB  string `json:"db"`
		CSL string `json:"csl"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/rest/query", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(oneTable))
	}))
	defer srv.Close()

	c, err := kusto.NewClient(kusto.Options{Endpoint: srv.URL + "/", Database: "inventory", Token: "secret"})
	require.NoError(t, err)

	rows, err := c.Query(context.Background(), "T | where loc == @loc", map[string]any{"loc": "Mombasa_Store"})
	require.NoError(t, err)

	assert.Equal(t, "inventory", got.DB)
	assert.Equal(t, `T | where loc == "Mombasa_Store"`, got.CSL)
	require.Len(t, rows, 2)
	assert.Equal(t, "p1", rows[0]["product_id"])
	assert.Equal(t, json.Number("45.5"), rows[1]["total_quantity"])
}

func TestQuery_ErrorDelServicio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BadRequest","message":"Syntax error"}}`))
	}))
	defer srv.Close()

	c, err := kusto.NewClient(kusto.Options{Endpoint: srv.URL, Database: "inventory"})
	require.NoError(t, err)

	_, err = c.Query(context.Background(), "bad", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Syntax error")
}

func TestNewClient_RequiereEndpoint(t *testing.T) {
	_, err := kusto.NewClient(kusto.Options{Database: "inventory"})
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Adaptador de analítica
// ──────────────────────────────────────────────────────────────────────────────

type stubQuerier struct {
	csl    string
	params map[string]any
	rows   []kusto.Row
}

func (s *stubQuerier) Query(_ context.Context, csl string, params map[string]any) ([]kusto.Row, error) {
	s.csl, s.params = csl, params
	return s.rows, nil
}

func TestAnalytics_PromedioPorVentana(t *testing.T) {
	q := &stubQuerier{rows: []kusto.Row{
		{"product_id": "p1", "total_quantity": json.Number("270")},
		{"product_id": "p2", "total_quantity": json.Number("45")},
	}}
	a := kusto.NewAnalytics(q)

	got, err := a.AverageDailyDemand(context.Background(), []string{"p1", "p2", "p3"}, 90*24*time.Hour)
	require.NoError(t, err)
	assert.True(t, got["p1"].Equal(decimal.NewFromInt(3)))
	assert.True(t, got["p2"].Equal(decimal.RequireFromString("0.5")))
	_, ok := got["p3"]
	assert.False(t, ok)
	assert.Contains(t, q.csl, `transaction_type == "Sale"`)
	assert.Equal(t, []string{"p1", "p2", "p3"}, q.params["productIds"])
}

func TestAnalytics_DemandaDiaria(t *testing.T) {
	q := &stubQuerier{rows: []kusto.Row{
		{"day": "2026-05-01T00:00:00Z", "quantity_sold": json.Number("12")},
		{"day": "2026-05-02T00:00:00Z", "quantity_sold": json.Number("7.5")},
	}}
	got, err := kusto.NewAnalytics(q).DailyDemand(context.Background(), "p1", 90*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), got[1].Date)
	assert.True(t, got[1].Quantity.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, strings.Contains(q.csl, "bin(transaction_date, 1d)"))
}
