package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rshade/metallca/internal/lca"
	"github.com/rshade/metallca/internal/report"
)

// errorBody is the failure half of every response.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type calculateResponse struct {
	Success      bool                `json:"success"`
	EnhancedData *lca.EnhancedRecord `json:"enhanced_data,omitempty"`
	Results      *lca.Comparison     `json:"results,omitempty"`
	Error        *errorBody          `json:"error,omitempty"`
}

type reportRequest struct {
	Input    lca.InputRecord `json:"input"`
	Mass     *float64        `json:"mass,omitempty"`
	MassUnit string          `json:"mass_unit,omitempty"`
}

type tablesResponse struct {
	Metals        []lca.Metal     `json:"metals"`
	Routes        []lca.Route     `json:"routes"`
	EndOfLife     []lca.EndOfLife `json:"end_of_life"`
	Reference     lca.TableSet    `json:"reference"`
	MaxJitter     float64         `json:"max_jitter"`
	DefaultJitter float64         `json:"default_jitter"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.version})
}

func (h *handler) getTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tablesResponse{
		Metals:        lca.Metals(),
		Routes:        lca.Routes(),
		EndOfLife:     lca.EndOfLifeOptions(),
		Reference:     h.tables.Snapshot(),
		MaxJitter:     lca.MaxJitter,
		DefaultJitter: lca.DefaultJitter,
	})
}

func (h *handler) calculate(w http.ResponseWriter, r *http.Request) {
	var input lca.InputRecord
	if err := h.decode(w, r, &input); err != nil {
		writeFailure(w, r, err)
		return
	}

	a, err := h.assessor.Assess(r.Context(), input)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, calculateResponse{
		Success:      true,
		EnhancedData: &a.Enhanced,
		Results:      &a.Results,
	})
}

func (h *handler) createReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := h.decode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	mass := 1.0
	if req.Mass != nil {
		mass = *req.Mass
	}
	if err := report.ValidateMass(mass, req.MassUnit); err != nil {
		writeFailure(w, r, err)
		return
	}

	a, err := h.assessor.Assess(r.Context(), req.Input)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	rep, err := report.New(a, "", report.WithMass(mass, req.MassUnit))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if err = h.store.Save(rep); err != nil {
		writeFailure(w, r, err)
		return
	}

	w.Header().Set("Location", "/reports/"+rep.ID)
	writeJSON(w, http.StatusCreated, rep)
}

func (h *handler) listReports(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.List()
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": summaries})
}

func (h *handler) getReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *handler) getReportMarkdown(w http.ResponseWriter, r *http.Request) {
	rep, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err = report.RenderMarkdown(w, rep); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to write markdown report")
	}
}

func (h *handler) deleteReport(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(chi.URLParam(r, "id")); err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON body of at most maxBodyBytes. Malformed bodies are
// reported as validation errors.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &lca.ValidationError{Field: "body", Err: fmt.Errorf("malformed JSON: %w", err)}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeFailure maps err onto a status code and the {success:false} envelope.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	kind := lca.ErrorKind(err)
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, report.ErrNotFound):
		kind, status = "not_found", http.StatusNotFound
	case errors.Is(err, report.ErrInvalidID):
		kind, status = lca.KindValidation, http.StatusBadRequest
	case kind == lca.KindValidation:
		status = http.StatusBadRequest
	case kind == lca.KindDivision:
		status = http.StatusUnprocessableEntity
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		message = "internal error"
	}

	writeJSON(w, status, calculateResponse{
		Success: false,
		Error:   &errorBody{Kind: kind, Message: message},
	})
}
