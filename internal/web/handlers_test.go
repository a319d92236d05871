package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chetan-316/visualcraft/internal/config"
	"github.com/Chetan-316/visualcraft/internal/session"
)

func newTestServer(maxPayload int64) *Server {
	cfg := &config.Config{}
	cfg.Server.RequestTimeout = time.Minute
	cfg.Upload.MaxPayloadSize = maxPayload
	cfg.Upload.PreviewRows = 5
	cfg.Rate.Enabled = false
	return NewServer(session.NewStore(), cfg)
}

func doJSON(t *testing.T, s *Server, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func csvPayload(csv string) string {
	return "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte(csv))
}

// uploadCSV uploads a file and returns the session cookies for follow-ups.
func uploadCSV(t *testing.T, s *Server, csv string) []*http.Cookie {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/upload", uploadRequest{Content: csvPayload(csv), Filename: "test.csv"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleUpload(t *testing.T) {
	s := newTestServer(5 << 20)

	rec := doJSON(t, s, http.MethodPost, "/api/upload",
		uploadRequest{Content: csvPayload("region,sales\nNorth,100\nSouth,250\n"), Filename: "sales.csv"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"region", "sales"}, resp.Columns)
	assert.Equal(t, []string{"sales"}, resp.Numeric)
	assert.Equal(t, []string{"region"}, resp.Categorical)
	assert.Equal(t, 2, resp.Rows)
	require.Len(t, resp.Preview, 3) // header + 2 rows

	// Session cookie assigned
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, sessionCookie, cookies[0].Name)
}

func TestHandleUpload_Invalid(t *testing.T) {
	s := newTestServer(5 << 20)

	tests := []struct {
		name       string
		content    string
		wantStatus int
		wantCode   string
	}{
		{"missing separator", base64.StdEncoding.EncodeToString([]byte("a,b\n1,2\n")), http.StatusBadRequest, "FILE001"},
		{"empty content", "", http.StatusBadRequest, "FILE001"},
		{"bad base64", "data:text/csv;base64,???", http.StatusBadRequest, "FILE003"},
		{"header only", csvPayload("a,b\n"), http.StatusBadRequest, "FILE003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/upload", uploadRequest{Content: tt.content}, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestHandleUpload_PayloadTooLarge(t *testing.T) {
	s := newTestServer(64)

	content := csvPayload("a,b\n" + strings.Repeat("1,2\n", 100))
	rec := doJSON(t, s, http.MethodPost, "/api/upload", uploadRequest{Content: content}, nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "FILE002", decodeError(t, rec).Code)
}

func TestHandleUpload_FailureClearsSession(t *testing.T) {
	s := newTestServer(5 << 20)

	cookies := uploadCSV(t, s, "a,b\n1,2\n")

	// A bad follow-up upload clears the previously loaded table
	rec := doJSON(t, s, http.MethodPost, "/api/upload", uploadRequest{Content: "no-separator"}, cookies)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/columns", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp columnsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Columns, "stale columns served after a failed upload")
}

func TestHandleColumns(t *testing.T) {
	s := newTestServer(5 << 20)

	// Fresh session: empty lists, kinds still advertised
	rec := doJSON(t, s, http.MethodGet, "/api/columns", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp columnsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Columns)
	assert.Len(t, resp.Kinds, 5)

	cookies := uploadCSV(t, s, "region,sales\nNorth,100\n")
	rec = doJSON(t, s, http.MethodGet, "/api/columns", nil, cookies)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"region", "sales"}, resp.Columns)
}

func TestHandleChart(t *testing.T) {
	s := newTestServer(5 << 20)
	cookies := uploadCSV(t, s, "region,sales\nNorth,100\nSouth,250\n")

	rec := doJSON(t, s, http.MethodPost, "/api/chart",
		chartRequest{Kind: "bar", X: "region", Y: "sales"}, cookies)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("X-Chart-Error"))
}

func TestHandleChart_EmptySelection(t *testing.T) {
	s := newTestServer(5 << 20)
	cookies := uploadCSV(t, s, "a,b\n1,2\n")

	rec := doJSON(t, s, http.MethodPost, "/api/chart", chartRequest{Kind: "bar"}, cookies)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleChart_NoTable(t *testing.T) {
	s := newTestServer(5 << 20)

	rec := doJSON(t, s, http.MethodPost, "/api/chart",
		chartRequest{Kind: "bar", X: "a", Y: "b"}, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleChart_UnknownKind(t *testing.T) {
	s := newTestServer(5 << 20)
	cookies := uploadCSV(t, s, "a,b\n1,2\n")

	rec := doJSON(t, s, http.MethodPost, "/api/chart",
		chartRequest{Kind: "histogram", X: "a", Y: "b"}, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "CHART001", decodeError(t, rec).Code)
}

func TestHandleChart_BuildFailureRendersPlaceholder(t *testing.T) {
	s := newTestServer(5 << 20)
	cookies := uploadCSV(t, s, "x,y\n1,apple\n2,banana\n")

	rec := doJSON(t, s, http.MethodPost, "/api/chart",
		chartRequest{Kind: "scatter", X: "x", Y: "y"}, cookies)

	// Fail-soft: still a 200 with a drawable placeholder
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("X-Chart-Error"), "non-numeric")

	// The failed build must not populate the chart slot
	rec = doJSON(t, s, http.MethodGet, "/api/export/png", nil, cookies)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EXP002", decodeError(t, rec).Code)
}

func TestHandleExport_CSV(t *testing.T) {
	s := newTestServer(5 << 20)
	const csv = "region,sales\nNorth,100\nSouth,250\n"
	cookies := uploadCSV(t, s, csv)

	rec := doJSON(t, s, http.MethodGet, "/api/export/csv", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="data.csv"`)
	assert.Equal(t, csv, rec.Body.String())
}

func TestHandleExport_Prerequisites(t *testing.T) {
	s := newTestServer(5 << 20)

	// No table at all
	rec := doJSON(t, s, http.MethodGet, "/api/export/csv", nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EXP001", decodeError(t, rec).Code)

	rec = doJSON(t, s, http.MethodGet, "/api/export/pdf", nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EXP001", decodeError(t, rec).Code)

	// Table but no chart
	cookies := uploadCSV(t, s, "a,b\nx,1\n")
	rec = doJSON(t, s, http.MethodGet, "/api/export/png", nil, cookies)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EXP002", decodeError(t, rec).Code)

	rec = doJSON(t, s, http.MethodGet, "/api/export/pdf", nil, cookies)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EXP002", decodeError(t, rec).Code)
}

func TestHandleExport_PNGAndPDF(t *testing.T) {
	s := newTestServer(5 << 20)
	cookies := uploadCSV(t, s, "region,sales\nNorth,100\nSouth,250\n")

	rec := doJSON(t, s, http.MethodPost, "/api/chart",
		chartRequest{Kind: "bar", X: "region", Y: "sales"}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/export/png", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}))

	rec = doJSON(t, s, http.MethodGet, "/api/export/pdf", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="report.pdf"`)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestHandleExport_UnknownFormat(t *testing.T) {
	s := newTestServer(5 << 20)

	rec := doJSON(t, s, http.MethodGet, "/api/export/xlsx", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMapError_Fallback(t *testing.T) {
	msg := MapError(assert.AnError)
	assert.Equal(t, "ERR000", msg.Code)
}
