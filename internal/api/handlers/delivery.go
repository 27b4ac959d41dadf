package handlers

import (
	"net/http"
	"storefront-delivery-service/internal/api/dto"
	"storefront-delivery-service/internal/deliverymap"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/services"
	"strconv"
	"strings"
)

// DeliveryHandler serves the geocode proxy and the delivery range checks.
type DeliveryHandler struct {
	Geocoder    ports.Geocoder
	Assessor    *services.DeliveryAssessor
	StoreName   string
	DefaultZoom int
	MaxResults  int
	MinChars    int
}

func (h *DeliveryHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, http.StatusBadRequest, "q is required")
		return
	}

	limit := h.MaxResults
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 10 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 10")
			return
		}
		limit = n
	}

	cands, err := h.Geocoder.Search(r.Context(), q, limit, h.MinChars)
	if err != nil {
		writeServiceError(w, r, "geocode search", err)
		return
	}

	res := dto.GeocodeSearchResponse{
		Query:      q,
		Candidates: make([]dto.CandidateResponse, 0, len(cands)),
	}
	for _, c := range cands {
		res.Candidates = append(res.Candidates, dto.NewCandidateResponse(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *DeliveryHandler) Assess(w http.ResponseWriter, r *http.Request) {
	var req dto.AssessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	radius := h.Assessor.RadiusMeters
	switch {
	case req.Lat != nil && req.Lng != nil:
		a, err := h.Assessor.AssessCoordinates(r.Context(), domain.Coordinates{Lat: *req.Lat, Lon: *req.Lng})
		if err != nil {
			writeServiceError(w, r, "assess coordinates", err)
			return
		}
		writeJSON(w, r, http.StatusOK, dto.NewAssessmentResponse(a, radius))

	case strings.TrimSpace(req.Address) != "":
		a, err := h.Assessor.AssessAddress(r.Context(), req.Address)
		if err != nil {
			writeServiceError(w, r, "assess address", err)
			return
		}
		writeJSON(w, r, http.StatusOK, dto.NewAddressAssessmentResponse(a, radius))

	default:
		writeError(w, r, http.StatusBadRequest, "either lat and lng or address is required")
	}
}

func (h *DeliveryHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.DeliveryConfigResponse{
		StoreName:    h.StoreName,
		Lat:          h.Assessor.Store.Lat,
		Lng:          h.Assessor.Store.Lon,
		RadiusMeters: h.Assessor.RadiusMeters,
		DefaultZoom:  h.DefaultZoom,
		MinZoom:      deliverymap.MinZoom,
		MaxZoom:      deliverymap.MaxZoom,
	})
}
