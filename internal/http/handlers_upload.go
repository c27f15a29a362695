package http

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/csv"
)

// handleUpload accepts a multipart CSV statement and answers with the
// provisional transaction rows for client preview. The uploaded file is
// spooled to a temp file that is always removed before returning.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		respondError(w, r, core.Invalid("file", "invalid or oversized multipart request"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, core.Invalid("file", "missing file field"))
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		respondError(w, r, core.Invalid("file", "only CSV files are supported"))
		return
	}

	tmp, err := os.CreateTemp(s.cfg.UploadDir, "upload-*.csv")
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil {
			slog.WarnContext(r.Context(), "Temp upload cleanup failed", "path", tmp.Name(), "error", err)
		}
	}()

	if _, err := io.Copy(tmp, file); err != nil {
		respondError(w, r, err)
		return
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		respondError(w, r, err)
		return
	}

	rows, err := csv.ParseStatement(tmp)
	if err != nil {
		respondError(w, r, core.Invalid("file", "cannot parse CSV: "+err.Error()))
		return
	}

	slog.InfoContext(r.Context(), "CSV upload parsed",
		"filename", header.Filename, "rows", len(rows))
	writeJSON(w, r, http.StatusOK, map[string]any{"transactions": rows})
}
