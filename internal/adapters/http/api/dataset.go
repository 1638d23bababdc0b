// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// DatasetHandler serves public dataset information.
type DatasetHandler struct {
	info DatasetInfo
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(info DatasetInfo) *DatasetHandler {
	return &DatasetHandler{info: info}
}

// HandleGetDataset handles GET /dataset requests.
func (h *DatasetHandler) HandleGetDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.info)
}
