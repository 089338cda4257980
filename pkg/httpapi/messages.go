package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/brightnest/bookingcore/pkg/dispatch"
	"github.com/brightnest/bookingcore/pkg/validator"
)

// maxBulkMessages bounds one bulk request. Larger campaigns belong in
// multiple requests so each stays within the provider rate envelope.
const maxBulkMessages = 100

type smsItem struct {
	To             string `json:"to"`
	Message        string `json:"message"`
	From           string `json:"from,omitempty"`
	StatusCallback string `json:"statusCallback,omitempty"`
}

func (i smsItem) toMessage() dispatch.Message {
	return dispatch.Message{
		Channel:        dispatch.ChannelSMS,
		To:             i.To,
		Body:           i.Message,
		From:           i.From,
		StatusCallback: i.StatusCallback,
	}
}

// sendSMSRequest is either a single send (To/Message set) or a bulk
// send (Messages set); the two shapes are mutually exclusive.
type sendSMSRequest struct {
	smsItem
	Messages            []smsItem `json:"messages,omitempty"`
	BatchSize           int       `json:"batchSize,omitempty"`
	DelayBetweenBatches int       `json:"delayBetweenBatches,omitempty"` // milliseconds
}

func (a *API) handleSendSMS(w http.ResponseWriter, r *http.Request) {
	var req sendSMSRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if len(req.Messages) > 0 {
		a.handleSendSMSBulk(w, r, req)
		return
	}

	msg := req.toMessage()
	if err := msg.Validate(); err != nil {
		if verrs := validator.ExtractValidationErrors(err); len(verrs) > 0 {
			respondFieldErrors(w, verrs.FieldMap())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Transport failures are recovered into the result, never the status:
	// callers read success from the body.
	result := a.dispatcher.Send(r.Context(), msg)
	respondJSON(w, http.StatusOK, result)
}

type bulkSMSResponse struct {
	Results []dispatch.Result `json:"results"`
	Summary dispatch.Summary  `json:"summary"`
}

func (a *API) handleSendSMSBulk(w http.ResponseWriter, r *http.Request, req sendSMSRequest) {
	if err := validator.Apply(
		validator.Between("messages", len(req.Messages), 1, maxBulkMessages),
		validator.Between("batchSize", orDefault(req.BatchSize, dispatch.DefaultBatchSize), 1, dispatch.MaxBatchSize),
		validator.Between("delayBetweenBatches", req.DelayBetweenBatches, 0, int(dispatch.MaxBatchDelay/time.Millisecond)),
	); err != nil {
		verrs := validator.ExtractValidationErrors(err)
		respondFieldErrors(w, verrs.FieldMap())
		return
	}

	msgs := make([]dispatch.Message, len(req.Messages))
	for i, item := range req.Messages {
		msgs[i] = item.toMessage()
	}

	results, summary := a.dispatcher.SendBulk(r.Context(), msgs, dispatch.BulkOptions{
		BatchSize:           req.BatchSize,
		DelayBetweenBatches: time.Duration(req.DelayBetweenBatches) * time.Millisecond,
	})
	respondJSON(w, http.StatusOK, bulkSMSResponse{Results: results, Summary: summary})
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func (a *API) handleSMSStatus(w http.ResponseWriter, r *http.Request) {
	sid := r.URL.Query().Get("messageSid")
	if sid == "" {
		respondError(w, http.StatusBadRequest, "messageSid is required")
		return
	}

	status, err := a.dispatcher.Status(r.Context(), sid)
	if errors.Is(err, dispatch.ErrStatusNotFound) {
		respondError(w, http.StatusNotFound, "message not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to look up message status")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"messageSid": sid, "status": status})
}
