package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gridimport/domain/core"
	"gridimport/domain/table"
	"gridimport/internal/errors"

	"github.com/go-chi/chi/v5"
)

const (
	multipartMemory = 8 << 20
	defaultPageSize = 50
	maxPageSize     = 500
)

type uploadResponse struct {
	ID       core.ImportID `json:"id"`
	Warnings []string      `json:"warnings"`
	Tables   []table.Table `json:"tables"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Error: message})
}

func writeAppError(w http.ResponseWriter, status int, err *errors.AppError) {
	writeError(w, status, err.Code, err.Error())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload parses a multipart "file" field and stores the result
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.uploads.TryAcquire(1) {
		writeAppError(w, http.StatusTooManyRequests, errors.Busy("too many imports in progress, retry later"))
		return
	}
	defer s.uploads.Release(1)

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			writeAppError(w, http.StatusRequestEntityTooLarge, errors.FileTooLarge(s.config.MaxUploadBytes))
			return
		}
		writeAppError(w, http.StatusBadRequest, errors.InvalidInput("expected a multipart form: "+err.Error()))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAppError(w, http.StatusBadRequest, errors.InvalidInput(`missing form field "file"`))
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !s.importer.Supports(filename) {
		writeAppError(w, http.StatusUnsupportedMediaType,
			errors.UnsupportedFormat(core.NewUnsupportedFormatError(filename, strings.ToLower(filepath.Ext(filename)))))
		return
	}

	path, err := s.spool(file, filename)
	if err != nil {
		s.logger.Error("[API] failed to spool upload %s: %v", filename, err)
		writeAppError(w, http.StatusInternalServerError, errors.InternalError("failed to store upload"))
		return
	}
	defer os.Remove(path)

	rec, err := s.importer.Import(r.Context(), path, filename)
	if err != nil {
		s.writeImportError(w, filename, rec != nil, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{ID: rec.ID, Warnings: rec.Warnings, Tables: rec.Tables})
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// spool copies an upload to a temporary file, keeping its extension
func (s *Server) spool(src io.Reader, filename string) (string, error) {
	dst, err := os.CreateTemp(s.config.UploadDir, "upload-*"+strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

// writeImportError maps a failed import to a status. parsed is true when
// the file reached the reader, so the failure came from its content.
func (s *Server) writeImportError(w http.ResponseWriter, filename string, parsed bool, err error) {
	switch {
	case stderrors.Is(err, core.ErrUnsupportedFormat):
		writeAppError(w, http.StatusUnsupportedMediaType, errors.UnsupportedFormat(err))
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		writeAppError(w, http.StatusServiceUnavailable, errors.Busy("import cancelled"))
	case parsed || core.IsInputError(err):
		writeAppError(w, http.StatusUnprocessableEntity, errors.UnreadableFile(filename, err))
	default:
		s.logger.Error("[API] import of %s failed: %v", filename, err)
		writeAppError(w, http.StatusInternalServerError, errors.InternalError("import failed"))
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil || limit <= 0 {
		writeAppError(w, http.StatusBadRequest, errors.InvalidInput("limit must be a positive integer"))
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		writeAppError(w, http.StatusBadRequest, errors.InvalidInput("offset must be a non-negative integer"))
		return
	}

	summaries, err := s.importer.List(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("[API] list imports: %v", err)
		writeAppError(w, http.StatusInternalServerError, errors.InternalError("failed to list imports"))
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.importID(w, r)
	if !ok {
		return
	}
	rec, err := s.importer.Get(r.Context(), id)
	if err != nil {
		s.writeLookupError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.importID(w, r)
	if !ok {
		return
	}
	page, err := s.importer.Report(r.Context(), id)
	if err != nil {
		s.writeLookupError(w, id, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func (s *Server) importID(w http.ResponseWriter, r *http.Request) (core.ImportID, bool) {
	id, err := core.ParseImportID(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, http.StatusBadRequest, errors.InvalidInput(err.Error()))
		return "", false
	}
	return id, true
}

func (s *Server) writeLookupError(w http.ResponseWriter, id core.ImportID, err error) {
	if core.IsNotFoundError(err) {
		writeAppError(w, http.StatusNotFound, errors.NotFound("import "+id.String()))
		return
	}
	s.logger.Error("[API] load import %s: %v", id, err)
	writeAppError(w, http.StatusInternalServerError, errors.InternalError("failed to load import"))
}
