package handlers

import (
	"net/http"
)

// HandleIndexPage handles GET /
func (h *Handler) HandleIndexPage(w http.ResponseWriter, r *http.Request) {
	ports, err := h.DB.Ports().List(r.Context(), "")
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	ships, err := h.DB.Ships().List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := map[string]interface{}{
		"Title":      "Voyage Planner",
		"ActivePage": "home",
		"Ports":      ports,
		"Ships":      ships,
		"WeightRows": defaultWeightRows(),
		"TileURL":    h.Config.TileURL(),
	}

	h.renderTemplate(w, "index.html", data)
}

// HandleHistoryPage handles GET /history
func (h *Handler) HandleHistoryPage(w http.ResponseWriter, r *http.Request) {
	voyages, err := h.DB.Voyages().List(r.Context(), 50)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := map[string]interface{}{
		"Title":      "Voyage History",
		"ActivePage": "history",
		"Voyages":    voyages,
	}

	h.renderTemplate(w, "history.html", data)
}

type weightRow struct {
	Key     string
	Label   string
	Default float64
}

func defaultWeightRows() []weightRow {
	return []weightRow{
		{Key: "fuel", Label: "Fuel", Default: 0.3},
		{Key: "time", Label: "Time", Default: 0.25},
		{Key: "risk", Label: "Risk", Default: 0.2},
		{Key: "emissions", Label: "Emissions", Default: 0.15},
		{Key: "comfort", Label: "Comfort", Default: 0.1},
	}
}
