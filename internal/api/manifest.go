package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tracerlab/spectrack/internal/manifest"
	"github.com/tracerlab/spectrack/pkg/handlers"
)

// exportManifest is the file-download endpoint. It requires a numeric
// shipment record id and streams the rendered CSV; failures return a JSON
// error body instead of a file.
func (h *handler) exportManifest(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, manifest.ErrMissingShipmentID)
		return
	}

	if _, err := strconv.Atoi(id); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: %q is not numeric", manifest.ErrMissingShipmentID, id))
		return
	}

	s, err := h.resolveScope(r)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	if err := h.activate(r, s); err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	_, byRole, err := h.fieldConfigs(r, s)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	export, err := h.domain.Manifest.Export(r.Context(), s.config, id, byRole)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Content)
}
