package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/application/area"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
)

// AreaHandler handles the incident-area catalog endpoints.
type AreaHandler struct {
	svc area.Service
}

func NewAreaHandler(svc area.Service) *AreaHandler { return &AreaHandler{svc: svc} }

func (h *AreaHandler) List(w http.ResponseWriter, r *http.Request) {
	areas, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, areas)
}

func (h *AreaHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (h *AreaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.IncidentAreaInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusCreated, a)
}

func (h *AreaHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in domain.IncidentAreaInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (h *AreaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "incident area deleted")
}
