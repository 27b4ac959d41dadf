package dto

import (
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/services"
)

type CandidateResponse struct {
	DisplayText string  `json:"displayText"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

func NewCandidateResponse(c domain.AddressCandidate) CandidateResponse {
	return CandidateResponse{DisplayText: c.DisplayText, Lat: c.Coordinates.Lat, Lng: c.Coordinates.Lon}
}

type GeocodeSearchResponse struct {
	Query      string              `json:"query"`
	Candidates []CandidateResponse `json:"candidates"`
}

// AssessRequest carries either a point or a free-text address.
type AssessRequest struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address"`
}

type AssessmentResponse struct {
	DistanceMeters int                `json:"distanceMeters"`
	DistanceKm     string             `json:"distanceKm"`
	InRange        bool               `json:"inRange"`
	ETAMinutes     *int               `json:"etaMinutes"`
	RadiusMeters   float64            `json:"radiusMeters"`
	Candidate      *CandidateResponse `json:"candidate,omitempty"`
}

func NewAssessmentResponse(a domain.DeliveryAssessment, radius float64) AssessmentResponse {
	return AssessmentResponse{
		DistanceMeters: a.RoundedMeters(),
		DistanceKm:     a.Kilometers(),
		InRange:        a.InRange,
		ETAMinutes:     a.ETAMinutes,
		RadiusMeters:   radius,
	}
}

type DeliveryConfigResponse struct {
	StoreName    string  `json:"storeName"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radiusMeters"`
	DefaultZoom  int     `json:"defaultZoom"`
	MinZoom      int     `json:"minZoom"`
	MaxZoom      int     `json:"maxZoom"`
}

type RunStopResponse struct {
	OrderID    string  `json:"orderId"`
	Address    string  `json:"address"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	LegMeters  int     `json:"legMeters"`
	LegMinutes *int    `json:"legMinutes"`
}

type DeliveryRunResponse struct {
	Stops        []RunStopResponse `json:"stops"`
	TotalMeters  int               `json:"totalMeters"`
	TotalMinutes int               `json:"totalMinutes"`
	Complete     bool              `json:"complete"`
}

func NewDeliveryRunResponse(run *domain.DeliveryRun) DeliveryRunResponse {
	res := DeliveryRunResponse{
		Stops:        make([]RunStopResponse, 0, len(run.Stops)),
		TotalMeters:  run.TotalMeters,
		TotalMinutes: run.TotalMinutes,
		Complete:     run.Complete,
	}
	for _, s := range run.Stops {
		res.Stops = append(res.Stops, RunStopResponse{
			OrderID:    s.OrderID,
			Address:    s.Address,
			Lat:        s.Coordinates.Lat,
			Lng:        s.Coordinates.Lon,
			LegMeters:  s.LegMeters,
			LegMinutes: s.LegMinutes,
		})
	}
	return res
}

func NewAddressAssessmentResponse(a services.AddressAssessment, radius float64) AssessmentResponse {
	res := NewAssessmentResponse(a.Assessment, radius)
	c := NewCandidateResponse(a.Candidate)
	res.Candidate = &c
	return res
}
