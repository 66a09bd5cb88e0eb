package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/bmexport/internal/bookmark"
	"github.com/dgallion1/bmexport/internal/export"
	"github.com/dgallion1/bmexport/internal/parser"
	"github.com/dgallion1/bmexport/internal/pipeline"
	"github.com/go-chi/chi/v5/middleware"
)

// uploadError carries the HTTP status for a rejected upload.
type uploadError struct {
	status int
	msg    string
}

func (e *uploadError) Error() string { return e.msg }

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		formError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	conv, format, err := s.requestOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	records, err := s.parseUpload(conv, file, filename)
	if err != nil {
		uploadFailed(w, err)
		return
	}

	s.log.Info("converted upload",
		"file", filename,
		"bookmarks", len(records),
		"request_id", middleware.GetReqID(r.Context()),
	)
	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".csv"
	s.writeRecords(w, format, name, records)
}

func (s *Server) handleBatchConvert(w http.ResponseWriter, r *http.Request) {
	maxBody := s.cfg.MaxUploadBytes*int64(s.cfg.MaxBatchFiles) + 10*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		formError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	conv, format, err := s.requestOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(files) > s.cfg.MaxBatchFiles {
		jsonError(w, fmt.Sprintf("too many files (max %d)", s.cfg.MaxBatchFiles), http.StatusBadRequest)
		return
	}

	// Each upload is parsed on its own; results are concatenated in upload order.
	var all []bookmark.Bookmark
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		records, err := s.parseFileHeader(conv, fh, filename)
		if err != nil {
			uploadFailed(w, fmt.Errorf("%s: %w", filename, err))
			return
		}
		all = append(all, records...)
	}

	s.log.Info("converted batch upload",
		"files", len(files),
		"bookmarks", len(all),
		"request_id", middleware.GetReqID(r.Context()),
	)
	s.writeRecords(w, format, filepath.Base(s.cfg.BatchOutputFile), all)
}

// requestOptions reads the optional exclude_root and format form values.
func (s *Server) requestOptions(r *http.Request) (*pipeline.Converter, string, error) {
	conv := s.converter
	if v := r.FormValue("exclude_root"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, "", fmt.Errorf("invalid exclude_root: %q", v)
		}
		conv = conv.WithExcludeRoot(b)
	}

	format := strings.ToLower(r.FormValue("format"))
	switch format {
	case "":
		format = "csv"
	case "csv", "json":
	default:
		return nil, "", fmt.Errorf("unsupported format: %q", format)
	}
	return conv, format, nil
}

func (s *Server) parseFileHeader(conv *pipeline.Converter, fh *multipart.FileHeader, filename string) ([]bookmark.Bookmark, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, &uploadError{status: http.StatusBadRequest, msg: "failed to open file"}
	}
	defer f.Close()
	return s.parseUpload(conv, f, filename)
}

func (s *Server) parseUpload(conv *pipeline.Converter, file io.Reader, filename string) ([]bookmark.Bookmark, error) {
	if !parser.IsSupportedExtension(filename) {
		return nil, &uploadError{
			status: http.StatusBadRequest,
			msg:    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
		}
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, &uploadError{status: http.StatusInternalServerError, msg: "failed to read file"}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, &uploadError{
			status: http.StatusRequestEntityTooLarge,
			msg:    fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes),
		}
	}

	records, err := conv.ParseReader(bytes.NewReader(data), filename)
	if err != nil {
		return nil, &uploadError{status: http.StatusBadRequest, msg: "parse: " + err.Error()}
	}
	return records, nil
}

func (s *Server) writeRecords(w http.ResponseWriter, format, filename string, records []bookmark.Bookmark) {
	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
		if err := export.WriteJSON(w, records); err != nil {
			s.log.Error("write json response", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteCSV(w, records, s.converter.CSVOptions()); err != nil {
		s.log.Error("write csv response", "error", err)
	}
}

func uploadFailed(w http.ResponseWriter, err error) {
	var ue *uploadError
	if errors.As(err, &ue) {
		jsonError(w, err.Error(), ue.status)
		return
	}
	jsonError(w, err.Error(), http.StatusInternalServerError)
}

func formError(w http.ResponseWriter, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", tooBig.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
