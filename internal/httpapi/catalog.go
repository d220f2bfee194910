package httpapi

import (
	"net/http"

	"storefront/internal/filter"
)

type filtersRequest struct {
	Criteria []filter.Criterion `json:"criteria"`
}

type filtersResponse struct {
	Active map[string][]string `json:"active"`
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *handler) products(w http.ResponseWriter, r *http.Request) {
	grid, err := h.sf.Grid(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

// listCategories returns the category filters with display names and live
// counts.
func (h *handler) listCategories(w http.ResponseWriter, r *http.Request) {
	grid, err := h.sf.Grid(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.categories.List(grid.Counts))
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.sf.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// setFilters replaces the checked criteria. The grid follows after the
// filter delay, so the response only carries the new active state.
func (h *handler) setFilters(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if !decode(w, r, &req) {
		return
	}

	state, err := h.sf.SetActiveCriteria(r.Context(), req.Criteria)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, filtersResponse{Active: state.Map()})
}

func (h *handler) clearFilters(w http.ResponseWriter, r *http.Request) {
	if err := h.sf.ClearFilters(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	h.products(w, r)
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.sf.Search(r.Context(), req.Query); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
