package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Chetan-316/visualcraft/internal/chartbuild"
	"github.com/Chetan-316/visualcraft/internal/dataset"
	"github.com/Chetan-316/visualcraft/internal/export"
	"github.com/Chetan-316/visualcraft/internal/logging"
)

// handleIndex serves the single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// uploadRequest is the JSON body of an upload: the file content as a
// data-URI string plus the client-side filename for logging.
type uploadRequest struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// uploadResponse feeds the column dropdowns and the preview table.
type uploadResponse struct {
	Columns     []string   `json:"columns"`
	Numeric     []string   `json:"numeric"`
	Categorical []string   `json:"categorical"`
	Rows        int        `json:"rows"`
	Preview     [][]string `json:"preview"`
}

// handleUpload loads an uploaded payload into the session: decode, parse,
// classify, store. A failed upload clears the session's table so stale
// dropdowns are never served against a rejected file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sctx := sessionFrom(r)

	// Encoded payload limit plus headroom for the JSON envelope
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxPayloadSize+64*1024)

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sctx.ClearTable()
		s.respondError(w, r, fmt.Errorf("%w: %v", dataset.ErrMalformedUpload, err), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		sctx.ClearTable()
		s.respondError(w, r, fmt.Errorf("%w: empty content", dataset.ErrMalformedUpload), http.StatusBadRequest)
		return
	}

	table, err := dataset.Load(req.Content, s.cfg.Upload.MaxPayloadSize)
	if err != nil {
		sctx.ClearTable()
		s.respondError(w, r, err, uploadStatus(err))
		return
	}

	class := table.Classify()
	sctx.SetTable(table, class)

	logging.FromContext(r.Context()).Info("dataset loaded",
		"filename", req.Filename,
		"rows", table.NumRows(),
		"columns", table.NumCols(),
	)

	writeJSON(w, uploadResponse{
		Columns:     table.Columns(),
		Numeric:     class.Numeric,
		Categorical: class.Categorical,
		Rows:        table.NumRows(),
		Preview:     table.HeadRecords(s.cfg.Upload.PreviewRows),
	})
}

// uploadStatus picks the HTTP status for a load failure.
func uploadStatus(err error) int {
	if errors.Is(err, dataset.ErrPayloadTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// columnsResponse describes the current dataset for the dropdowns, plus the
// supported chart kinds.
type columnsResponse struct {
	Columns     []string          `json:"columns"`
	Numeric     []string          `json:"numeric"`
	Categorical []string          `json:"categorical"`
	Kinds       []chartbuild.Kind `json:"kinds"`
}

// handleColumns returns the current columns and classification. With no
// dataset loaded the lists are empty rather than an error; the dropdowns
// simply stay blank.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	resp := columnsResponse{
		Columns:     []string{},
		Numeric:     []string{},
		Categorical: []string{},
		Kinds:       chartbuild.Kinds(),
	}

	if table, class, ok := sessionFrom(r).Table(); ok {
		resp.Columns = table.Columns()
		resp.Numeric = class.Numeric
		resp.Categorical = class.Categorical
	}

	writeJSON(w, resp)
}

// chartRequest is the user's chart selection.
type chartRequest struct {
	Kind string `json:"kind"`
	X    string `json:"x"`
	Y    string `json:"y"`
}

// handleChart builds a chart from the session table and responds with its
// PNG. Build failures respond with a rendered placeholder image instead of
// an error status, so the UI always has something to display; the session's
// last good chart is left intact for export.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	sctx := sessionFrom(r)

	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid chart request: %w", err), http.StatusBadRequest)
		return
	}

	table, _, ok := sctx.Table()
	if !ok {
		// Nothing uploaded yet: same empty state as no selection
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if req.Kind == "" {
		req.Kind = string(chartbuild.KindBar)
	}
	kind, err := chartbuild.ParseKind(req.Kind)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result := chartbuild.Build(table, chartbuild.Spec{Kind: kind, X: req.X, Y: req.Y})
	switch result.State {
	case chartbuild.StateEmpty:
		w.WriteHeader(http.StatusNoContent)

	case chartbuild.StateFailed:
		logging.FromContext(r.Context()).Warn("chart build failed",
			"kind", req.Kind, "x", req.X, "y", req.Y, "reason", result.Message)
		s.writeErrorChart(w, r, result.Message)

	case chartbuild.StateRendered:
		var buf bytes.Buffer
		if err := result.Chart.RenderPNG(&buf); err != nil {
			logging.FromContext(r.Context()).Warn("chart render failed",
				"kind", req.Kind, "x", req.X, "y", req.Y, "error", err)
			s.writeErrorChart(w, r, err.Error())
			return
		}
		sctx.SetChart(result.Chart)
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}
}

// writeErrorChart responds with the failure placeholder image. The message
// also travels in a header so the UI can show it as text.
func (s *Server) writeErrorChart(w http.ResponseWriter, r *http.Request, message string) {
	var buf bytes.Buffer
	if err := chartbuild.RenderErrorPNG(message, &buf); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("X-Chart-Error", message)
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// handleExport serves the current dataset or chart as a download artifact.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sctx := sessionFrom(r)

	var (
		artifact *export.Artifact
		err      error
	)
	switch format := chi.URLParam(r, "format"); format {
	case "csv":
		artifact, err = export.CSV(sctx)
	case "png":
		artifact, err = export.PNG(sctx)
	case "pdf":
		artifact, err = export.PDF(sctx)
	default:
		s.respondError(w, r, fmt.Errorf("unknown export format %q", format), http.StatusNotFound)
		return
	}

	if err != nil {
		if errors.Is(err, export.ErrNoData) || errors.Is(err, export.ErrNoChart) {
			s.respondError(w, r, err, http.StatusConflict)
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("export complete",
		"filename", artifact.Filename, "bytes", len(artifact.Data))

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.Filename))
	w.Write(artifact.Data)
}
