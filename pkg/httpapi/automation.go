package httpapi

import (
	"errors"
	"net/http"

	"github.com/brightnest/bookingcore/pkg/dispatch"
	"github.com/brightnest/bookingcore/pkg/validator"
)

type triggerBooking struct {
	ID            string `json:"id"`
	ServiceType   string `json:"serviceType"`
	ScheduledDate string `json:"scheduledDate"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	Address       string `json:"address"`
}

// triggerRequest covers both automation entry points: firing a trigger
// against a booking, and a direct templated send to one recipient
// (action "send_template").
type triggerRequest struct {
	Trigger    string            `json:"trigger,omitempty"`
	Booking    *triggerBooking   `json:"booking,omitempty"`
	CustomData map[string]string `json:"customData,omitempty"`

	Action     string            `json:"action,omitempty"`
	TemplateID string            `json:"templateId,omitempty"`
	To         string            `json:"to,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
}

func (a *API) handleAutomationTrigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Action == "send_template" {
		a.handleSendTemplate(w, r, req)
		return
	}

	if req.Trigger == "" {
		respondError(w, http.StatusBadRequest, "trigger is required")
		return
	}

	data := map[string]string{}
	if b := req.Booking; b != nil {
		data["booking_id"] = b.ID
		data["service_type"] = b.ServiceType
		data["scheduled_date"] = b.ScheduledDate
		data["customer_name"] = b.CustomerName
		data["customer_email"] = b.CustomerEmail
		data["customer_phone"] = b.CustomerPhone
		data["address"] = b.Address
	}
	for k, v := range req.CustomData {
		data[k] = v
	}

	msgs, err := a.dispatcher.Resolve(dispatch.Trigger(req.Trigger), data)
	if err != nil {
		switch {
		case errors.Is(err, dispatch.ErrUnknownTrigger):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, dispatch.ErrUnknownTemplate):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to resolve trigger")
		}
		return
	}

	results, summary := a.dispatcher.SendBulk(r.Context(), msgs, dispatch.BulkOptions{})
	respondJSON(w, http.StatusOK, map[string]any{
		"trigger": req.Trigger,
		"results": results,
		"summary": summary,
	})
}

func (a *API) handleSendTemplate(w http.ResponseWriter, r *http.Request, req triggerRequest) {
	if err := validator.Apply(
		validator.Required("templateId", req.TemplateID),
		validator.Required("to", req.To),
	); err != nil {
		verrs := validator.ExtractValidationErrors(err)
		respondFieldErrors(w, verrs.FieldMap())
		return
	}

	subject, body, err := a.dispatcher.Templates().Render(req.TemplateID, req.Data)
	if err != nil {
		if errors.Is(err, dispatch.ErrUnknownTemplate) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg := dispatch.Message{Channel: dispatch.ChannelSMS, To: req.To, Body: body}
	if validator.Apply(validator.ValidEmail("to", req.To)) == nil {
		msg.Channel = dispatch.ChannelEmail
		msg.Subject = subject
	}

	// Transport failures are recovered into the result, never the status.
	result := a.dispatcher.Send(r.Context(), msg)
	respondJSON(w, http.StatusOK, result)
}

func (a *API) handleAutomationConfig(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")

	resp := map[string]any{}
	total, enabled := a.dispatcher.Rules().Counts()

	switch kind {
	case "templates":
		resp["templates"] = a.dispatcher.Templates().All()
	case "rules":
		resp["rules"] = a.dispatcher.Rules().All()
		resp["totalRules"] = total
		resp["enabledRules"] = enabled
	case "":
		resp["templates"] = a.dispatcher.Templates().All()
		resp["rules"] = a.dispatcher.Rules().All()
		resp["totalRules"] = total
		resp["enabledRules"] = enabled
	default:
		respondError(w, http.StatusBadRequest, "type must be templates or rules")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
