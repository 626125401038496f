package controllers

import (
	"net/http"
	"statekeeper/internal/events"
	"statekeeper/internal/models"
)

type EventsController struct {
	service events.ServiceInterface
}

func NewEventsController(service events.ServiceInterface) *EventsController {
	return &EventsController{service: service}
}

type conversionResponse struct {
	Conversions []models.ConversionResult `json:"conversions"`
}

func (ec *EventsController) Phase(w http.ResponseWriter, r *http.Request) {
	eventID, ok := requireParam(w, r, "event")
	if !ok {
		return
	}
	info, err := ec.service.Phase(eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (ec *EventsController) ConvertExpired(w http.ResponseWriter, r *http.Request) {
	results, err := ec.service.ConvertExpired(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []models.ConversionResult{}
	}
	writeJSON(w, http.StatusOK, conversionResponse{Conversions: results})
}
