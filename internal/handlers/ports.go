package handlers

import (
	"net/http"
	"strings"
)

// HandleListPorts returns the seeded port reference data, optionally
// filtered by a search query
func (h *Handler) HandleListPorts(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	ports, err := h.DB.Ports().List(r.Context(), search)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ports)
}

// HandleGetPort returns a single port by UN/LOCODE
func (h *Handler) HandleGetPort(w http.ResponseWriter, r *http.Request) {
	locode := strings.TrimPrefix(r.URL.Path, "/api/v1/ports/")
	if locode == "" {
		h.handleValidationError(w, "Port locode is required")
		return
	}

	port, err := h.DB.Ports().GetByLocode(r.Context(), locode)
	if err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Port not found")
			return
		}
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, port)
}

// HandleListShips returns the seeded ship profiles
func (h *Handler) HandleListShips(w http.ResponseWriter, r *http.Request) {
	ships, err := h.DB.Ships().List(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ships)
}

// HandleMapLayer proxies an environmental overlay (weather, currents,
// piracy zones) from the optimizer without reshaping the GeoJSON
func (h *Handler) HandleMapLayer(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/map/layers/")
	if name == "" {
		h.handleValidationError(w, "Layer name is required")
		return
	}

	layer, err := h.Optimizer.GetMapLayer(r.Context(), name)
	if err != nil {
		h.handleOptimizerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(layer)
}
