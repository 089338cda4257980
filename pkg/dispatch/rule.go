package dispatch

// Trigger names a business event that can fire automation rules.
type Trigger string

const (
	TriggerBookingCreated  Trigger = "booking_created"
	TriggerServiceReminder Trigger = "service_reminder"
	TriggerCrewArrival     Trigger = "crew_arrival"
	TriggerServiceComplete Trigger = "service_complete"
	TriggerPaymentReceived Trigger = "payment_received"
	TriggerCustom          Trigger = "custom"
)

// Valid reports whether t is a known trigger.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerBookingCreated, TriggerServiceReminder, TriggerCrewArrival,
		TriggerServiceComplete, TriggerPaymentReceived, TriggerCustom:
		return true
	}
	return false
}

// Rule maps a trigger to a message template and the channels it goes out
// on. Rules are read-only configuration; this core never mutates them.
type Rule struct {
	ID         string    `json:"id"`
	Trigger    Trigger   `json:"trigger"`
	TemplateID string    `json:"template_id"`
	Channels   []Channel `json:"channels"`
	Enabled    bool      `json:"enabled"`
}

// RuleSet is an immutable collection of automation rules.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet creates a rule set from the given rules.
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// Match returns the enabled rules configured for the trigger.
func (rs *RuleSet) Match(t Trigger) []Rule {
	var out []Rule
	for _, r := range rs.rules {
		if r.Enabled && r.Trigger == t {
			out = append(out, r)
		}
	}
	return out
}

// All returns every rule, enabled or not.
func (rs *RuleSet) All() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Counts returns the total and enabled rule counts.
func (rs *RuleSet) Counts() (total, enabled int) {
	total = len(rs.rules)
	for _, r := range rs.rules {
		if r.Enabled {
			enabled++
		}
	}
	return total, enabled
}

// DefaultRules wires every standard trigger to its stock template over
// both channels. The custom trigger has no default rule; it only fires
// rules an operator configures explicitly.
func DefaultRules() *RuleSet {
	return NewRuleSet(
		Rule{ID: "rule-booking-confirmation", Trigger: TriggerBookingCreated, TemplateID: "booking_confirmation", Channels: []Channel{ChannelSMS, ChannelEmail}, Enabled: true},
		Rule{ID: "rule-payment-receipt", Trigger: TriggerPaymentReceived, TemplateID: "payment_receipt", Channels: []Channel{ChannelEmail}, Enabled: true},
		Rule{ID: "rule-service-reminder", Trigger: TriggerServiceReminder, TemplateID: "service_reminder", Channels: []Channel{ChannelSMS}, Enabled: true},
		Rule{ID: "rule-crew-arrival", Trigger: TriggerCrewArrival, TemplateID: "crew_arrival", Channels: []Channel{ChannelSMS}, Enabled: true},
		Rule{ID: "rule-service-complete", Trigger: TriggerServiceComplete, TemplateID: "service_complete", Channels: []Channel{ChannelSMS, ChannelEmail}, Enabled: true},
	)
}
