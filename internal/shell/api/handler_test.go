package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artpar/paramcheck/internal/core/domain"
	"github.com/artpar/paramcheck/internal/core/validation"
	"github.com/artpar/paramcheck/internal/shell/api/openapi"
	"github.com/artpar/paramcheck/internal/shell/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func newTestHandler() (*Handler, *metrics.Collector) {
	m := metrics.NewCollector(metrics.Config{Enabled: true, Namespace: "paramcheck"}, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(nil, m, logger, openapi.WithVersion("test"), openapi.WithServer("https://params.example.test")), m
}

// jsonBody encodes v as a JSON request body.
func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, json.NewEncoder(buf).Encode(v))
	return buf
}

// parseResponse parses a JSON response body into the given type.
func parseResponse[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var result T
	require.NoError(t, json.NewDecoder(body).Decode(&result))
	return result
}

func serve(h *Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)
	return w
}

// =============================================================================
// Health Endpoint Tests
// =============================================================================

func TestHealth_Success(t *testing.T) {
	h, _ := newTestHandler()

	w := serve(h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	resp := parseResponse[HealthResponse](t, w.Body)
	assert.Equal(t, "healthy", resp.Status)
}

// =============================================================================
// Validate Endpoint Tests
// =============================================================================

func TestValidate_Success(t *testing.T) {
	h, _ := newTestHandler()

	body := jsonBody(t, ValidateRequest{Parameters: []domain.Parameter{
		{Name: "replicas", Type: domain.TypeNumber, Value: 3, Required: true, Options: domain.Options{MinValue: 1, MaxValue: 10}},
		{Name: "hostname", Type: domain.TypeString, Value: "test string"},
	}})

	w := serve(h, http.MethodPost, "/api/v1/parameters/validate", body)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse[ValidateResponse](t, w.Body)
	assert.True(t, strings.HasPrefix(resp.ID, "rpt_"))
	assert.True(t, resp.Valid)
	assert.Zero(t, resp.ErrorCount)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "replicas", resp.Results[0].Name)
	assert.Empty(t, resp.Results[0].Errors)
}

func TestValidate_Invalid(t *testing.T) {
	h, _ := newTestHandler()

	body := strings.NewReader(`{"parameters":[
		{"name":"ratio","type":"number","value":"10.3","options":{"maxValue":10}},
		{"name":"tags","type":"list","value":"val1,,val2"},
		{"name":"debug","type":"bool","value":" ","required":true}
	]}`)

	w := serve(h, http.MethodPost, "/api/v1/parameters/validate", body)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse[ValidateResponse](t, w.Body)
	assert.False(t, resp.Valid)
	assert.Equal(t, 4, resp.ErrorCount)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, []string{"Value should be less than 10."}, resp.Results[0].Errors)
	assert.Equal(t, []string{validation.MsgFormat}, resp.Results[1].Errors)
	assert.Equal(t, []string{validation.MsgRequired, validation.MsgFormat}, resp.Results[2].Errors)
}

func TestValidate_EmptySet(t *testing.T) {
	h, _ := newTestHandler()

	w := serve(h, http.MethodPost, "/api/v1/parameters/validate", strings.NewReader(`{"parameters":[]}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(mustField(t, w.Body.Bytes(), "results")))
}

func TestValidate_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler()

	w := serve(h, http.MethodPost, "/api/v1/parameters/validate", strings.NewReader("{not json"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := parseResponse[ErrorResponse](t, w.Body)
	assert.Equal(t, "validation_error", resp.Code)
	assert.Equal(t, "invalid JSON", resp.Error)
}

func TestValidate_MethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler()

	w := serve(h, http.MethodGet, "/api/v1/parameters/validate", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// =============================================================================
// Validate One Endpoint Tests
// =============================================================================

func TestValidateOne(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantValid  bool
		wantErrors []string
	}{
		{"valid string", `{"type":"string","value":"test string"}`, true, []string{}},
		{"bad list", `{"type":"list","value":"val1,,val2"}`, false, []string{validation.MsgFormat}},
		{"required blank", `{"type":"string","value":"","required":true}`, false, []string{validation.MsgRequired}},
		{"below min", `{"type":"number","value":0,"options":{"minValue":1}}`, false, []string{"Value should be greater than 1."}},
		{"unknown type", `{"type":"text","value":"  "}`, true, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()

			w := serve(h, http.MethodPost, "/api/v1/parameters/validate-one", strings.NewReader(tt.body))

			require.Equal(t, http.StatusOK, w.Code)
			resp := parseResponse[ValidateOneResponse](t, w.Body)
			assert.Equal(t, tt.wantValid, resp.Valid)
			assert.Equal(t, tt.wantErrors, resp.Errors)
			assert.NotEmpty(t, resp.ID)
		})
	}
}

func TestValidateOne_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler()

	w := serve(h, http.MethodPost, "/api/v1/parameters/validate-one", strings.NewReader(`{"type":`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseResponse[ErrorResponse](t, w.Body)
	assert.Equal(t, "validation_error", resp.Code)
}

func TestValidate_NonScalarValue(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		want string
	}{
		{
			name: "sequence value in set",
			path: "/api/v1/parameters/validate",
			body: `{"parameters":[{"name":"ok","type":"string","value":"a"},{"name":"tags","type":"list","value":["a",""]}]}`,
			want: `parameter tags: value: `,
		},
		{
			name: "unnamed mapping bound in set",
			path: "/api/v1/parameters/validate",
			body: `{"parameters":[{"type":"number","value":1,"options":{"minValue":{"v":1}}}]}`,
			want: `parameter #0: minValue: `,
		},
		{
			name: "mapping value",
			path: "/api/v1/parameters/validate-one",
			body: `{"name":"host","type":"string","value":{"k":"v"}}`,
			want: `parameter host: value: `,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()

			w := serve(h, http.MethodPost, tt.path, strings.NewReader(tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseResponse[ErrorResponse](t, w.Body)
			assert.Equal(t, "validation_error", resp.Code)
			assert.True(t, strings.HasPrefix(resp.Error, tt.want), "error %q", resp.Error)
			assert.Contains(t, resp.Error, domain.ErrParameterInvalidValue.Error())
		})
	}
}

func TestValidateOne_LargeIntegerBoundStaysExact(t *testing.T) {
	h, _ := newTestHandler()

	body := strings.NewReader(`{"type":"number","value":"1","options":{"minValue":12345678901234567890}}`)
	w := serve(h, http.MethodPost, "/api/v1/parameters/validate-one", body)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse[ValidateOneResponse](t, w.Body)
	assert.Equal(t, []string{"Value should be greater than 12345678901234567890."}, resp.Errors)
}

// =============================================================================
// Metrics and OpenAPI Tests
// =============================================================================

func TestMetrics_RecordsValidations(t *testing.T) {
	h, _ := newTestHandler()

	serve(h, http.MethodPost, "/api/v1/parameters/validate-one", strings.NewReader(`{"type":"bool","value":"maybe"}`))

	w := serve(h, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `paramcheck_parameters_validated_total{result="invalid",type="bool"} 1`)
	assert.Contains(t, w.Body.String(), `paramcheck_validation_duration_seconds_count{source="api"} 1`)
}

func TestMetrics_Disabled(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	w := serve(h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(h, http.MethodPost, "/api/v1/parameters/validate-one", strings.NewReader(`{"type":"string","value":"x"}`))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOpenAPI(t *testing.T) {
	h, _ := newTestHandler()

	w := serve(h, http.MethodGet, "/openapi.json", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Info struct {
			Version string `json:"version"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "test", doc.Info.Version)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://params.example.test", doc.Servers[0].URL)
	assert.Contains(t, doc.Paths, "/api/v1/parameters/validate")
	assert.Contains(t, doc.Paths, "/api/v1/parameters/validate-one")
	assert.Contains(t, doc.Paths, "/health")
	assert.Contains(t, doc.Paths, "/metrics")
}

func mustField(t *testing.T, data []byte, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	return m[key]
}
