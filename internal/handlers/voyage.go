package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

type setRouteRequest struct {
	OriginLocode      string `json:"origin_locode"`
	DestinationLocode string `json:"destination_locode"`
}

type selectRouteRequest struct {
	RouteID string `json:"route_id"`
}

// HandleMountSession creates a fresh planning session, disposing any
// existing one along with its map surface
func (h *Handler) HandleMountSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.Sessions.Mount(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, session.Status())
}

// HandleSessionStatus returns the snapshot the frontend polls for phase
// and job progress
func (h *Handler) HandleSessionStatus(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions.Current()
	if session == nil {
		h.handleNotFound(w, "No active session")
		return
	}
	h.writeJSON(w, http.StatusOK, session.Status())
}

// HandleUnmountSession tears down the current session
func (h *Handler) HandleUnmountSession(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Unmount()
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetRoute updates the origin/destination pair. Changing either
// endpoint abandons any running optimization and restores the preview arc.
func (h *Handler) HandleSetRoute(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions.Current()
	if session == nil {
		h.handleNotFound(w, "No active session")
		return
	}

	var req setRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleValidationError(w, "Invalid JSON in request body")
		return
	}
	if req.OriginLocode != "" && req.OriginLocode == req.DestinationLocode {
		h.handleValidationError(w, "Origin and destination must differ")
		return
	}

	if err := session.SetPorts(r.Context(), req.OriginLocode, req.DestinationLocode); err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Unknown port locode")
			return
		}
		h.handleInternalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, session.Status())
}

// HandleOptimize submits the optimization job and begins polling
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions.Current()
	if session == nil {
		h.handleNotFound(w, "No active session")
		return
	}

	var params SubmitParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		h.handleValidationError(w, "Invalid JSON in request body")
		return
	}
	if params.ShipID == "" {
		h.handleValidationError(w, "ship_id is required")
		return
	}
	if params.Weights != nil {
		wt := params.Weights
		for _, v := range []float64{wt.Fuel, wt.Time, wt.Risk, wt.Emissions, wt.Comfort} {
			if v < 0 {
				h.handleValidationError(w, "Objective weights must be non-negative")
				return
			}
		}
	}

	ack, err := session.Submit(r.Context(), params)
	if err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Unknown ship")
			return
		}
		h.handleOptimizerError(w, err)
		return
	}

	log.Printf("[VOYAGE] Optimization submitted: job_id=%s algorithm=%s", ack.JobID, params.Algorithm)
	h.writeJSON(w, http.StatusAccepted, ack)
}

// HandleCancelJob cancels the running optimization and returns the
// resulting session snapshot
func (h *Handler) HandleCancelJob(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions.Current()
	if session == nil {
		h.handleNotFound(w, "No active session")
		return
	}

	session.CancelJob(r.Context())
	h.writeJSON(w, http.StatusOK, session.Status())
}

// HandleSessionRoutes returns the Pareto set once the job completed.
// htmx requests get the rendered card list instead of JSON.
func (h *Handler) HandleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions.Current()
	if session == nil {
		h.handleNotFound(w, "No active session")
		return
	}

	routes := session.Routes()
	if routes == nil {
		h.handleNotFound(w, "No routes available yet")
		return
	}

	if h.isHTMX(r) {
		h.renderPartial(w, "route_list.html", map[string]interface{}{
			"Routes":     routes.Routes,
			"SelectedID": session.Status().SelectedRouteID,
		})
		return
	}
	h.writeJSON(w, http.StatusOK, routes)
}

// HandleSelectRoute switches the highlighted solution. Unknown route ids
// are ignored, so the response reflects whatever selection survives.
func (h *Handler) HandleSelectRoute(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions.Current()
	if session == nil {
		h.handleNotFound(w, "No active session")
		return
	}

	var req selectRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleValidationError(w, "Invalid JSON in request body")
		return
	}
	if req.RouteID == "" {
		h.handleValidationError(w, "route_id is required")
		return
	}

	session.SelectRoute(req.RouteID)
	h.writeJSON(w, http.StatusOK, session.Status())
}

// HandleExplainRoute proxies the optimizer's explanation payload without
// reshaping it
func (h *Handler) HandleExplainRoute(w http.ResponseWriter, r *http.Request) {
	routeID := strings.TrimPrefix(r.URL.Path, "/api/v1/routes/")
	routeID = strings.TrimSuffix(routeID, "/explain")
	if routeID == "" {
		h.handleValidationError(w, "Route ID is required")
		return
	}

	explanation, err := h.Optimizer.GetExplanation(r.Context(), routeID)
	if err != nil {
		h.handleOptimizerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(explanation)
}

// HandleListVoyages returns past optimization runs, newest first
func (h *Handler) HandleListVoyages(w http.ResponseWriter, r *http.Request) {
	voyages, err := h.DB.Voyages().List(r.Context(), 50)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, voyages)
}
