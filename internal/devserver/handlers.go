package devserver

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sheetdesk/sheetdesk/internal/api"
	"github.com/sheetdesk/sheetdesk/internal/core"
	"github.com/sheetdesk/sheetdesk/internal/logging"
)

// maxUploadBytes caps bulk upload request bodies.
const maxUploadBytes = 100 << 20

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	def, ok := entityFromURL(r)
	if !ok {
		writeFailure(w, http.StatusNotFound, "unknown entity", nil)
		return
	}
	writeData(w, s.store.List(def.Kind))
}

func (s *Server) handleListSub(w http.ResponseWriter, r *http.Request) {
	def, ok := entityFromURL(r)
	if !ok {
		writeFailure(w, http.StatusNotFound, "unknown entity", nil)
		return
	}
	sub := chi.URLParam(r, "sub")
	rows, ok := s.store.ListSub(def.Kind, sub)
	if !ok {
		writeFailure(w, http.StatusNotFound, fmt.Sprintf("unknown subresource %q", sub), nil)
		return
	}
	writeData(w, rows)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	def, ok := entityFromURL(r)
	if !ok {
		writeFailure(w, http.StatusNotFound, "unknown entity", nil)
		return
	}

	fields, err := decodeFields(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}

	rec := s.store.Create(def, fields)
	logging.FromContext(r.Context()).Info("record created",
		"entity", def.Kind, "id", rec.String(def.PrimaryKey))
	writeData(w, rec)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	def, ok := entityFromURL(r)
	if !ok {
		writeFailure(w, http.StatusNotFound, "unknown entity", nil)
		return
	}
	id := chi.URLParam(r, "id")

	fields, err := decodeFields(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}

	if err := s.store.Update(def, id, fields); err != nil {
		writeFailure(w, http.StatusNotFound, err.Error(), nil)
		return
	}
	logging.FromContext(r.Context()).Info("record updated", "entity", def.Kind, "id", id)
	writeMessage(w, fmt.Sprintf("%s updated", def.Label))
}

// handleBulk ingests a bulk sheet. The dev server reads the upload as CSV
// regardless of the spreadsheet MIME type the client sends; the header row
// must match the entity's form field keys. Row failures are collected into
// the envelope's errors list, and rows before the first failure are kept,
// matching the production backend's partial-ingest behavior.
func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	sheet := core.SheetKind(chi.URLParam(r, "sheet"))
	def, ok := core.Get(core.EntityKind(sheet))
	if !ok {
		writeFailure(w, http.StatusNotFound, fmt.Sprintf("unknown sheet %q", sheet), nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "missing file", nil)
		return
	}
	defer file.Close()

	rows, rowErrs, err := parseSheet(def, file)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	s.store.Append(def.Kind, rows)
	logger := logging.WithFields(r.Context(), "sheet", sheet)
	if len(rowErrs) > 0 {
		logger.Warn("bulk upload partially rejected",
			"accepted", len(rows), "rejected", len(rowErrs))
		writeFailure(w, http.StatusBadRequest, "sheet contains invalid rows", rowErrs)
		return
	}
	logger.Info("bulk upload complete", "rows", len(rows))
	writeMessage(w, fmt.Sprintf("%d rows imported", len(rows)))
}

// parseSheet reads the upload as CSV and converts valid data rows into
// records. The first row must be the header with the entity's field keys.
func parseSheet(def core.EntityDefinition, file io.Reader) ([]core.Record, []string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("sheet is empty or unreadable")
	}
	want := make([]string, len(def.Fields))
	for i, spec := range def.Fields {
		want[i] = spec.Key
	}
	if len(header) != len(want) {
		return nil, nil, fmt.Errorf("header has %d columns, expected %d", len(header), len(want))
	}
	for i := range want {
		if strings.TrimSpace(header[i]) != want[i] {
			return nil, nil, fmt.Errorf("header column %d is %q, expected %q", i+1, header[i], want[i])
		}
	}

	var (
		rows    []core.Record
		rowErrs []string
	)
	for line := 2; ; line++ {
		raw, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: %v", line, err))
			continue
		}
		if len(raw) != len(want) {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: expected %d columns, got %d", line, len(want), len(raw)))
			continue
		}

		fields := make(map[string]string, len(want))
		empty := true
		for i, key := range want {
			val := strings.TrimSpace(raw[i])
			fields[key] = val
			if val != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		if fields[want[0]] == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: missing %s", line, want[0]))
			continue
		}

		rec := core.Record{}
		for _, spec := range def.Fields {
			rec[spec.RecordKey()] = fields[spec.Key]
		}
		rows = append(rows, rec)
	}
	return rows, rowErrs, nil
}

// handleTemplate serves the import template for an entity: a CSV with the
// form field keys as the header row.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	def, ok := entityFromURL(r)
	if !ok {
		writeFailure(w, http.StatusNotFound, "unknown entity", nil)
		return
	}

	header := make([]string, len(def.Fields))
	for i, spec := range def.Fields {
		header[i] = spec.Key
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", string(def.Kind)+"-template.csv"))
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		logging.FromContext(r.Context()).Error("template write failed", "error", err)
		return
	}
	writer.Flush()
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	writeData(w, s.store.States())
}

func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	writeData(w, s.store.Districts(r.URL.Query().Get("stateId")))
}

func (s *Server) handleBlocks(w http.ResponseWriter, r *http.Request) {
	writeData(w, s.store.Blocks(r.URL.Query().Get("districtId")))
}

func entityFromURL(r *http.Request) (core.EntityDefinition, bool) {
	return core.Get(core.EntityKind(chi.URLParam(r, "entity")))
}

func decodeFields(r *http.Request) (map[string]string, error) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// writeData writes a success envelope carrying a data payload.
func writeData(w http.ResponseWriter, data any) {
	writeEnvelope(w, http.StatusOK, api.Response{Success: true, Data: mustMarshal(data)})
}

// writeMessage writes a success envelope with only a message.
func writeMessage(w http.ResponseWriter, message string) {
	writeEnvelope(w, http.StatusOK, api.Response{Success: true, Message: message})
}

// writeFailure writes a failure envelope with an optional errors list.
func writeFailure(w http.ResponseWriter, status int, message string, errs []string) {
	writeEnvelope(w, status, api.Response{Success: false, Message: message, Errors: errs})
}

func writeEnvelope(w http.ResponseWriter, status int, envelope api.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		// Headers are already sent; nothing left to do but log.
		slog.Error("envelope encode failed", "error", err)
	}
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
