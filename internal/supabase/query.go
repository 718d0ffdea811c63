package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// From starts a query builder for a table.
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{
		client: c,
		table:  table,
		params: url.Values{},
	}
}

// QueryBuilder builds PostgREST queries.
type QueryBuilder struct {
	client *Client
	table  string
	params url.Values
	orders []string
	single bool
}

// Select specifies columns to select.
func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.params.Set("select", columns)
	return q
}

// Eq adds an equality filter.
func (q *QueryBuilder) Eq(column string, value any) *QueryBuilder {
	q.params.Add(column, fmt.Sprintf("eq.%v", value))
	return q
}

// In adds an IN filter.
func (q *QueryBuilder) In(column string, values []string) *QueryBuilder {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	q.params.Add(column, "in.("+strings.Join(quoted, ",")+")")
	return q
}

// Order adds an ORDER BY clause.
func (q *QueryBuilder) Order(column string, ascending bool) *QueryBuilder {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	q.orders = append(q.orders, column+"."+dir)
	return q
}

// Limit sets the LIMIT.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Single expects exactly one row; zero rows fail with PGRST116.
func (q *QueryBuilder) Single() *QueryBuilder {
	q.single = true
	return q
}

func (q *QueryBuilder) url() string {
	params := url.Values{}
	for k, v := range q.params {
		params[k] = v
	}
	if len(q.orders) > 0 {
		params.Set("order", strings.Join(q.orders, ","))
	}
	reqURL := fmt.Sprintf("%s/rest/v1/%s", q.client.baseURL, q.table)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	return reqURL
}

// Execute executes a SELECT query.
func (q *QueryBuilder) Execute(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.url(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return q.client.do(req)
}

// Insert inserts rows and returns the stored representation.
func (q *QueryBuilder) Insert(ctx context.Context, data any) (*Response, error) {
	return q.write(ctx, http.MethodPost, data, "return=representation")
}

// Upsert inserts rows, merging on the onConflict columns.
func (q *QueryBuilder) Upsert(ctx context.Context, data any, onConflict string) (*Response, error) {
	if onConflict != "" {
		q.params.Set("on_conflict", onConflict)
	}
	return q.write(ctx, http.MethodPost, data, "resolution=merge-duplicates,return=representation")
}

// Update patches every row matching the filters.
func (q *QueryBuilder) Update(ctx context.Context, data any) (*Response, error) {
	return q.write(ctx, http.MethodPatch, data, "return=representation")
}

// Delete removes every row matching the filters.
func (q *QueryBuilder) Delete(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, q.url(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Prefer", "return=representation")
	return q.client.do(req)
}

func (q *QueryBuilder) write(ctx context.Context, method string, data any, prefer string) (*Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.url(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", prefer)
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return q.client.do(req)
}
