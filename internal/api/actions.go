package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/fieldconfig"
	"github.com/tracerlab/spectrack/internal/host"
	"github.com/tracerlab/spectrack/internal/moduleconfig"
	"github.com/tracerlab/spectrack/internal/specimens"
	"github.com/tracerlab/spectrack/pkg/handlers"
)

// actionRequest carries the union of inputs across all dispatch actions.
// GET requests populate it from query parameters, POST requests from the
// JSON body.
type actionRequest struct {
	Action           string               `json:"action"`
	ID               string               `json:"id"`
	Search           string               `json:"search"`
	SearchValue      string               `json:"search_value"`
	IncludeSpecimens bool                 `json:"include_specimens"`
	SpecimenRecordID string               `json:"specimen_record_id"`
	ShipmentRecordID string               `json:"shipment_record_id"`
	BoxRecordID      string               `json:"box_record_id"`
	SpecimenName     string               `json:"specimen_name"`
	CSID             string               `json:"csid"`
	CUID             string               `json:"cuid"`
	Specimen         host.FieldMap        `json:"specimen"`
	Config           *moduleconfig.Config `json:"config"`
}

type handler struct {
	domain *Domain
	logger *slog.Logger
}

func newHandler(domain *Domain, logger *slog.Logger) *handler {
	return &handler{
		domain: domain,
		logger: logger,
	}
}

// action is the single dispatch endpoint: the action field selects the
// behavior. Every success body carries an errors array.
func (h *handler) action(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAction(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if req.Action == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingAction)
		return
	}

	s, err := h.resolveScope(r)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	// Config-dashboard actions run without activation so errored
	// configurations can still be inspected and repaired.
	switch req.Action {
	case "initialize-config-dashboard":
		h.initializeConfigDashboard(w, r, s)
		return
	case "save-module-config":
		h.saveModuleConfig(w, r, s, req)
		return
	}

	if err := h.activate(r, s); err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	switch req.Action {
	case "initialize-box-dashboard":
		h.initializeBoxDashboard(w, r, s, req)
	case "initialize-shipment-dashboard":
		h.initializeShipmentDashboard(w, r, s, req)
	case "get-report-data", "get-specimen-report-data":
		h.reportData(w, r, s, req.Action == "get-specimen-report-data")
	case "search-box-list":
		h.boxList(w, r, s, req)
	case "get-box-list":
		h.availableBoxList(w, r, s)
	case "search-plate":
		h.searchPlate(w, r, s, req)
	case "get-specimen":
		h.getSpecimen(w, r, s, req)
	case "search-specimen":
		h.searchSpecimen(w, r, s, req)
	case "save-specimen":
		h.saveSpecimen(w, r, s, req)
	case "delete-specimen":
		h.deleteSpecimen(w, r, s, req)
	case "search-shipments":
		h.searchShipments(w, r, s)
	case "complete-shipment":
		h.completeShipment(w, r, s, req)
	case "update-box-shipment":
		h.updateBoxShipment(w, r, s, req)
	case "validate-csid":
		h.validateCSID(w, r, s, req)
	case "validate-cuid":
		h.validateCUID(w, r, s, req)
	default:
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: %s", errUnknownAction, req.Action))
	}
}

func decodeAction(r *http.Request) (*actionRequest, error) {
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		return &actionRequest{
			Action:           q.Get("action"),
			ID:               q.Get("id"),
			Search:           q.Get("search"),
			SearchValue:      q.Get("search_value"),
			IncludeSpecimens: q.Get("include_specimens") == "true",
			SpecimenRecordID: q.Get("specimen_record_id"),
			ShipmentRecordID: q.Get("shipment_record_id"),
			BoxRecordID:      q.Get("box_record_id"),
			SpecimenName:     q.Get("specimen_name"),
			CSID:             q.Get("csid"),
			CUID:             q.Get("cuid"),
		}, nil
	}

	req := &actionRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}

	return req, nil
}

func (h *handler) initializeConfigDashboard(w http.ResponseWriter, r *http.Request, s *scope) {
	blob, byRole, err := h.fieldConfigs(r, s)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"projects": s.registry.Configurations(),
		"state":    blob,
		"metadata": byRole,
		"errors":   s.config.Errors,
	})
}

func (h *handler) saveModuleConfig(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	if req.Config == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: config payload is required", moduleconfig.ErrInvalidPayload))
		return
	}

	if err := h.domain.ModuleConfig.Save(r.Context(), s.config.BoxProjectID, req.Config); err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"errors": []string{},
	})
}

func (h *handler) initializeBoxDashboard(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	_, byRole, err := h.fieldConfigs(r, s)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	response := map[string]any{
		"config": map[string]any{
			"configuration": s.config,
			"fields":        byRole,
		},
		"errors": []string{},
	}

	if req.ID != "" {
		plate, err := h.domain.Boxes.Get(r.Context(), s.config, req.ID)
		if err != nil {
			handlers.RespondError(w, h.logger, statusFor(err), err)
			return
		}

		specimens, err := h.domain.Boxes.Specimens(r.Context(), s.config, req.ID)
		if err != nil {
			handlers.RespondError(w, h.logger, statusFor(err), err)
			return
		}

		response["plate"] = plate
		response["specimens"] = specimens
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}

func (h *handler) initializeShipmentDashboard(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	_, byRole, err := h.fieldConfigs(r, s)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	fields, err := h.domain.Shipments.Fields(r.Context(), s.config)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	response := map[string]any{
		"config": map[string]any{
			"configuration": s.config,
			"fields":        byRole,
		},
		"shipment_details": fields,
		"errors":           []string{},
	}

	if req.ID != "" {
		shipment, err := h.domain.Shipments.Get(r.Context(), s.config, req.ID)
		if err != nil {
			handlers.RespondError(w, h.logger, statusFor(err), err)
			return
		}

		boxes, err := h.domain.Shipments.Boxes(r.Context(), s.config, req.ID)
		if err != nil {
			handlers.RespondError(w, h.logger, statusFor(err), err)
			return
		}

		response["shipment"] = shipment
		response["boxes"] = boxes
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}

func (h *handler) reportData(w http.ResponseWriter, r *http.Request, s *scope, specimenOnly bool) {
	_, byRole, err := h.fieldConfigs(r, s)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	if specimenOnly {
		byRole = map[string][]fieldconfig.FieldConfig{
			configuration.RoleSpecimen: byRole[configuration.RoleSpecimen],
		}
	}

	report, err := h.domain.Reports.Build(r.Context(), s.config, byRole)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"config":    s.config,
		"fields":    report.Fields,
		"data":      report.Rows,
		"datetime":  report.GeneratedAt,
		"timestamp": report.Timestamp,
		"errors":    []string{},
	})
}

func (h *handler) boxList(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	search := req.Search
	if search == "" {
		search = req.SearchValue
	}

	list, err := h.domain.Boxes.List(r.Context(), s.config, search)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"boxes":  list,
		"errors": []string{},
	})
}

// availableBoxList returns only the boxes still accepting specimens. The
// search variant is the one that includes closed boxes.
func (h *handler) availableBoxList(w http.ResponseWriter, r *http.Request, s *scope) {
	list, err := h.domain.Boxes.Available(r.Context(), s.config)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"boxes":  list,
		"errors": []string{},
	})
}

func (h *handler) searchPlate(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	plate, specimens, err := h.domain.Boxes.SearchPlate(r.Context(), s.config, req.SearchValue, req.IncludeSpecimens)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	response := map[string]any{
		"plate":  plate,
		"errors": []string{},
	}

	if req.IncludeSpecimens {
		response["specimens"] = specimens
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}

func (h *handler) getSpecimen(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	specimen, box, err := h.domain.Specimens.Get(r.Context(), s.config, req.SpecimenRecordID)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"specimen": specimen,
		"box":      box,
		"errors":   []string{},
	})
}

// searchResponse flattens the match payload into the response body.
type searchResponse struct {
	*specimens.MatchResult
	Errors []string `json:"errors"`
}

func (h *handler) searchSpecimen(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	result, err := h.domain.Specimens.Search(r.Context(), s.config, req.SearchValue)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, searchResponse{
		MatchResult: result,
		Errors:      []string{},
	})
}

func (h *handler) saveSpecimen(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	saved, err := h.domain.Specimens.Save(r.Context(), s.config, req.Specimen)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"specimen": saved,
		"errors":   []string{},
	})
}

func (h *handler) deleteSpecimen(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	recordID := req.SpecimenRecordID
	if recordID == "" {
		recordID = req.ID
	}

	if err := h.domain.Specimens.Delete(r.Context(), s.config, recordID); err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"deleted": true,
		"errors":  []string{},
	})
}

func (h *handler) searchShipments(w http.ResponseWriter, r *http.Request, s *scope) {
	list, err := h.domain.Shipments.List(r.Context(), s.config)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"shipments": list,
		"config":    s.config,
		"errors":    []string{},
	})
}

func (h *handler) completeShipment(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	recordID := req.ShipmentRecordID
	if recordID == "" {
		recordID = req.ID
	}

	if err := h.domain.Shipments.Complete(r.Context(), s.config, recordID); err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"errors":  []string{},
	})
}

func (h *handler) updateBoxShipment(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	if err := h.domain.Shipments.AssignBox(r.Context(), s.config, req.BoxRecordID, req.ShipmentRecordID); err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"errors":  []string{},
	})
}

func (h *handler) validateCSID(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	result, err := h.domain.Specimens.ValidateCSID(r.Context(), s.config, req.SpecimenName, req.CSID)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *handler) validateCUID(w http.ResponseWriter, r *http.Request, s *scope, req *actionRequest) {
	result, err := h.domain.Specimens.ValidateCUID(r.Context(), s.config, req.CUID)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
