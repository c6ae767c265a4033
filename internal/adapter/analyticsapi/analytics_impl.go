package analyticsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/user/linkstats/internal/entity"
	"github.com/user/linkstats/pkg/metrics"
)

// Timestamps exchanged with the pipes API use this layout, in UTC.
const pipeTimeLayout = "2006-01-02 15:04:05"

// maxErrorBody bounds how much of a failed response ends up in the error.
const maxErrorBody = 512

var tracer = otel.Tracer("github.com/user/linkstats/internal/adapter/analyticsapi")

// AnalyticsRepoImpl implements repository.AnalyticsRepository against an HTTP
// pipes API: GET {baseURL}/v0/pipes/{endpoint}.json returning {"data": [...]}.
type AnalyticsRepoImpl struct {
	baseURL string
	token   string
	client  *http.Client
	now     func() time.Time
}

// NewAnalyticsRepo creates a new instance of AnalyticsRepoImpl.
func NewAnalyticsRepo(baseURL, token string, timeout time.Duration) *AnalyticsRepoImpl {
	return &AnalyticsRepoImpl{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// Query fetches the rows of one endpoint.
func (r *AnalyticsRepoImpl) Query(ctx context.Context, req entity.AnalyticsRequest) ([]entity.Row, error) {
	ctx, span := tracer.Start(ctx, "analytics.query")
	defer span.End()
	span.SetAttributes(
		attribute.String("analytics.endpoint", string(req.Endpoint)),
		attribute.String("workspace.id", req.WorkspaceID),
	)

	endpointURL := fmt.Sprintf("%s/v0/pipes/%s.json?%s", r.baseURL, url.PathEscape(string(req.Endpoint)), r.params(req).Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build analytics request: %w", err)
	}
	if r.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := r.client.Do(httpReq)
	if err != nil {
		metrics.ObserveAnalyticsRequest(string(req.Endpoint), "error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("analytics request for %s failed: %w", req.Endpoint, err)
	}
	defer resp.Body.Close()
	metrics.ObserveAnalyticsRequest(string(req.Endpoint), strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := fmt.Errorf("analytics provider returned status %d for %s: %s", resp.StatusCode, req.Endpoint, strings.TrimSpace(string(body)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	rows, err := decodeRows(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode %s response: %w", req.Endpoint, err)
	}
	if req.Endpoint == entity.EndpointTimeseries {
		parseTimestamps(rows, "start")
	}

	span.SetAttributes(attribute.Int("analytics.rows", len(rows)))
	slog.Debug("Analytics query finished", "endpoint", req.Endpoint, "workspace_id", req.WorkspaceID, "rows", len(rows))
	return rows, nil
}

// params builds the pipe parameters: scope, time window and filters.
func (r *AnalyticsRepoImpl) params(req entity.AnalyticsRequest) url.Values {
	start, end, granularity := req.Query.Range(r.now())

	params := url.Values{}
	params.Set("workspaceId", req.WorkspaceID)
	if req.LinkID != "" {
		params.Set("linkId", req.LinkID)
	}
	params.Set("start", start.Format(pipeTimeLayout))
	params.Set("end", end.Format(pipeTimeLayout))
	params.Set("granularity", string(granularity))

	timezone := req.Query.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	params.Set("timezone", timezone)

	for key, value := range req.Query.Filters() {
		params.Set(key, value)
	}
	return params
}

// decodeRows reads {"data": [...]} keeping each object's key order.
func decodeRows(body io.Reader) ([]entity.Row, error) {
	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, err
	}

	rows := make([]entity.Row, 0, len(envelope.Data))
	for i, raw := range envelope.Data {
		row, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeObject(raw json.RawMessage) (entity.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var row entity.Row
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		row = append(row, entity.Field{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return row, nil
}

// parseTimestamps converts string values of key into UTC times where they parse.
func parseTimestamps(rows []entity.Row, key string) {
	for _, row := range rows {
		for i := range row {
			if row[i].Key != key {
				continue
			}
			s, ok := row[i].Value.(string)
			if !ok {
				continue
			}
			if t, err := parseTime(s); err == nil {
				row[i].Value = t
			}
		}
	}
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.ParseInLocation(pipeTimeLayout, s, time.UTC)
}
