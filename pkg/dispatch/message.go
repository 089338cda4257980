package dispatch

import (
	"github.com/brightnest/bookingcore/pkg/validator"
)

// Channel identifies an outbound transport.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// MaxSMSLength is the longest accepted SMS body (provider segment limit).
const MaxSMSLength = 1600

// Message is a single outbound message bound to one channel.
type Message struct {
	Channel Channel `json:"channel"`
	To      string  `json:"to"`
	Subject string  `json:"subject,omitempty"` // email only
	Body    string  `json:"body"`
	From    string  `json:"from,omitempty"`

	// StatusCallback is an optional URL the provider reports delivery
	// progress to. Passed through to the transport untouched.
	StatusCallback string `json:"status_callback,omitempty"`
}

// Validate rejects malformed messages before any send is attempted, so a
// bad item has no partial side effect.
func (m Message) Validate() error {
	rules := []validator.Rule{
		validator.Required("to", m.To),
		validator.Required("body", m.Body),
	}
	switch m.Channel {
	case ChannelSMS:
		rules = append(rules,
			validator.ValidPhone("to", m.To),
			validator.MaxLen("body", m.Body, MaxSMSLength),
		)
	case ChannelEmail:
		rules = append(rules, validator.ValidEmail("to", m.To))
	default:
		rules = append(rules, validator.OneOf("channel", m.Channel, ChannelSMS, ChannelEmail))
	}
	return validator.Apply(rules...)
}

// Result is the per-recipient outcome of a send. Error is a recovered,
// human-readable failure; it is never propagated as a call-level error.
type Result struct {
	To        string `json:"to"`
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Summary aggregates the outcomes of a bulk send.
type Summary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Summarize computes aggregate counts over per-item results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	return s
}
