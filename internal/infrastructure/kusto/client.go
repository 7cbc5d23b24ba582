// Package kusto consulta un clúster Kusto (Fabric Eventhouse / Azure Data Explorer) vía su API REST.
package kusto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/jhoicas/inventory-predictor/pkg/logger"
)

const (
	queryPath      = "/v1/rest/query"
	maxResponse    = 8 << 20
	defaultTimeout = 30 * time.Second
)

// Row fila del primer resultado, indexada por nombre de columna.
type Row map[string]any

// Options configuración del cliente.
type Options struct {
	Endpoint   string  // https://<cluster>.kusto.windows.net
	Database   string
	Token      string  // bearer; vacío = sin cabecera Authorization
	QPS        float64 // <= 0 sin límite
	Timeout    time.Duration
	HTTPClient *http.Client
	Log        *logger.Logger
}

// Client ejecuta consultas KQL parametrizadas.
type Client struct {
	endpoint   string
	database   string
	token      string
	limiter    *rate.Limiter
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente. Endpoint y Database son obligatorios.
func NewClient(opts Options) (*Client, error) {
	if opts.Endpoint == "" || opts.Database == "" {
		return nil, fmt.Errorf("kusto: endpoint y database son obligatorios")
	}
	c := &Client{
		endpoint:   strings.TrimRight(opts.Endpoint, "/"),
		database:   opts.Database,
		token:      opts.Token,
		httpClient: opts.HTTPClient,
		log:        opts.Log,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	if opts.QPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.QPS), 1)
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	return c, nil
}

type queryRequest struct {
	DB  string `json:"db"`
	CSL string `json:"csl"`
}

type queryResult struct {
	Tables []struct {
		TableName string `json:"TableName"`
		Columns   []struct {
			ColumnName string `json:"ColumnName"`
			DataType   string `json:"DataType"`
		} `json:"Columns"`
		Rows [][]any `json:"Rows"`
	} `json:"Tables"`
}

type errorResult struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Query sustituye los parámetros @nombre en csl y devuelve las filas de la primera tabla.
// Los números llegan como json.Number.
func (c *Client) Query(ctx context.Context, csl string, params map[string]any) ([]Row, error) {
	text, err := Bind(csl, params)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("kusto: límite de consultas: %w", err)
	}

	body, err := json.Marshal(queryRequest{DB: c.database, CSL: text})
	if err != nil {
		return nil, fmt.Errorf("kusto: serializar request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+queryPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("kusto: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("kusto: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("kusto: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return nil, fmt.Errorf("kusto: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var er errorResult
		if jsonErr := json.Unmarshal(raw, &er); jsonErr == nil && er.Error != nil {
			return nil, fmt.Errorf("kusto: %s: %s", er.Error.Code, er.Error.Message)
		}
		return nil, fmt.Errorf("kusto: HTTP %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var result queryResult
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("kusto: deserializar respuesta: %w", err)
	}

	c.log.Debug().Dur("elapsed", time.Since(start)).Int("tables", len(result.Tables)).Msg("consulta kusto")

	if len(result.Tables) == 0 {
		return []Row{}, nil
	}
	table := result.Tables[0]
	rows := make([]Row, 0, len(table.Rows))
	for _, values := range table.Rows {
		row := make(Row, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(values) {
				row[col.ColumnName] = values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var paramPattern = regexp.MustCompile(`@[A-Za-z_][A-Za-z0-9_]*`)

// Bind reemplaza cada @nombre del texto por el literal KQL de params[nombre] en una sola pasada:
// los literales ya insertados no se vuelven a examinar. Los @nombre sin parámetro quedan intactos.
func Bind(csl string, params map[string]any) (string, error) {
	var bindErr error
	out := paramPattern.ReplaceAllStringFunc(csl, func(token string) string {
		v, ok := params[token[1:]]
		if !ok || bindErr != nil {
			return token
		}
		lit, err := Literal(v)
		if err != nil {
			bindErr = fmt.Errorf("kusto: parámetro %q: %w", token[1:], err)
			return token
		}
		return lit
	})
	if bindErr != nil {
		return "", bindErr
	}
	return out, nil
}

// Literal formatea un valor Go como literal KQL.
func Literal(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case string:
		return quote(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case decimal.Decimal:
		return x.String(), nil
	case time.Time:
		return "datetime(" + x.UTC().Format("2006-01-02T15:04:05Z") + ")", nil
	case time.Duration:
		if x%(24*time.Hour) == 0 {
			return fmt.Sprintf("%dd", int64(x/(24*time.Hour))), nil
		}
		return fmt.Sprintf("%ds", int64(x/time.Second)), nil
	case []string:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = quote(s)
		}
		return "dynamic([" + strings.Join(parts, ", ") + "])", nil
	default:
		return "", fmt.Errorf("tipo no soportado %T", v)
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
