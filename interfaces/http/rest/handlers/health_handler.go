package handlers

import (
	"net/http"

	"pipeline-builder/pkg/common"
	"pipeline-builder/pkg/utils"
)

// Health handles GET /health
func Health(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": utils.NowRFC3339(),
	})
}
