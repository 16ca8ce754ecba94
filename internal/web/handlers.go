package web

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
	"github.com/JonMunkholm/bubblemigrate/internal/links"
	"github.com/JonMunkholm/bubblemigrate/internal/logging"
	"github.com/JonMunkholm/bubblemigrate/internal/sheet"
	"github.com/go-chi/chi/v5"
)

// TableResponse describes one registered table kind.
type TableResponse struct {
	Kind            string   `json:"kind"`
	Group           string   `json:"group"`
	Label           string   `json:"label"`
	RequiredColumns []string `json:"required_columns"`
	IDColumns       []string `json:"id_columns"`
	FileColumns     []string `json:"file_columns,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tables": core.TableCount(),
	})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	defs := core.All()

	out := make([]TableResponse, 0, len(defs))
	for _, def := range defs {
		t := TableResponse{
			Kind:            def.Info.Kind,
			Group:           def.Info.Group,
			Label:           def.Info.Label,
			RequiredColumns: def.RequiredColumns,
		}
		for _, id := range def.IDColumns {
			t.IDColumns = append(t.IDColumns, id.Target)
		}
		for _, a := range def.Attachments {
			t.FileColumns = append(t.FileColumns, a.Column)
		}
		out = append(out, t)
	}

	writeJSON(w, http.StatusOK, out)
}

// handleFormat reformats an uploaded CSV as the table kind in the path and
// returns the formatted CSV.
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	if _, ok := core.Get(kind); !ok {
		s.respondError(w, r, &core.UnknownTableKindError{Kind: kind})
		return
	}

	body, closeBody, err := s.uploadedFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer closeBody()

	var out bytes.Buffer
	rows, err := s.formatter.FormatCSV(r.Context(), body, &out, kind)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("formatted upload", "kind", kind, "rows", rows)
	writeCSV(w, kind+"_formatted.csv", rows, out.Bytes())
}

// handleRewrite points the bubble.io links of an uploaded CSV at the mirror
// base URL. The base may be overridden with the "base" query parameter.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	if base == "" {
		base = s.cfg.Storage.RewriteBaseURL
	}

	body, closeBody, err := s.uploadedFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer closeBody()

	sh, err := sheet.ReadCSV(body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if len(links.FileColumns(sh)) == 0 {
		s.respondError(w, r, links.ErrNoFileColumns)
		return
	}

	converted := links.Rewrite(sh, base)

	var out bytes.Buffer
	if err := sheet.WriteCSV(&out, sh); err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("rewrote links", "converted", converted)
	w.Header().Set("X-Converted-Count", strconv.Itoa(converted))
	writeCSV(w, "converted.csv", len(sh.Rows), out.Bytes())
}

// uploadedFile returns the request's CSV: the "file" part of a multipart
// form, or the raw body otherwise. The size is capped by MaxUploadSize.
func (s *Server) uploadedFile(w http.ResponseWriter, r *http.Request) (io.Reader, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, func() {}, nil
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, err
	}
	return file, func() { file.Close() }, nil
}

func writeCSV(w http.ResponseWriter, filename string, rows int, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("X-Row-Count", strconv.Itoa(rows))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
