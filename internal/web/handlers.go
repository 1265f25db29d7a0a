package web

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sheet2db/internal/core"
	"github.com/JonMunkholm/sheet2db/internal/logging"
	"github.com/JonMunkholm/sheet2db/internal/workbook"
)

// planTable is one entry of the plan response.
type planTable struct {
	Sheet     string                  `json:"sheet"`
	Table     string                  `json:"table"`
	Rows      int                     `json:"rows"`
	Columns   []core.ColumnDefinition `json:"columns"`
	CreateSQL string                  `json:"createSql"`
	InsertSQL string                  `json:"insertSql"`
}

type planResponse struct {
	File   string      `json:"file"`
	Tables []planTable `json:"tables"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Imports limiterStatus `json:"imports"`
}

type importResponse struct {
	File string `json:"file"`
	core.Summary
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Imports: s.limiter.status()})
}

// handlePlan infers tables from an uploaded workbook and returns the
// definitions and SQL without touching a database.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	wb, filename, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	plans, err := core.Plan(wb)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := planResponse{File: filename, Tables: make([]planTable, 0, len(plans))}
	for _, p := range plans {
		resp.Tables = append(resp.Tables, planTable{
			Sheet:     p.Definition.SheetName,
			Table:     p.Definition.TableName,
			Rows:      len(p.Sheet.Rows),
			Columns:   p.Definition.Columns,
			CreateSQL: p.CreateSQL,
			InsertSQL: p.InsertSQL,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleImport reads an uploaded workbook and imports every sheet into the
// configured database. The form field "replace" drops existing tables first.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	wb, filename, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	replace, _ := strconv.ParseBool(r.FormValue("replace"))
	logger := logging.WithFields(r.Context(), "file", filename, "replace", replace)

	if err := s.limiter.acquire(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	defer s.limiter.release()

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	conn, err := s.open(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn("close database connection", "error", err)
		}
	}()

	im := core.NewImporter(conn, core.WithLogger(logger), core.WithReplace(replace))
	summary, err := im.Import(ctx, wb)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{File: filename, Summary: summary})
}

// readUpload enforces the size limit and parses the "file" form field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.Workbook, string, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			return core.Workbook{}, "", errFileTooBig
		}
		return core.Workbook{}, "", errInvalidForm
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.Workbook{}, "", errNoFile
	}
	defer file.Close()

	wb, err := readWorkbook(r.Context(), file)
	if err != nil {
		return core.Workbook{}, header.Filename, err
	}
	return wb, header.Filename, nil
}

func readWorkbook(ctx context.Context, file multipart.File) (core.Workbook, error) {
	return workbook.Read(file, workbook.WithLogger(logging.FromContext(ctx)))
}
