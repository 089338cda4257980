package dispatch

import (
	"fmt"
	"strings"
	"text/template"
)

// Template is a renderable message body. Subject is used by the email
// channel and ignored by SMS.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// Catalog holds the registered templates.
type Catalog struct {
	templates map[string]Template
}

// NewCatalog creates a catalog from the given templates.
func NewCatalog(templates ...Template) *Catalog {
	c := &Catalog{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		c.templates[t.ID] = t
	}
	return c
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (Template, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// All returns every registered template.
func (c *Catalog) All() []Template {
	out := make([]Template, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	return out
}

// Render executes the template against booking/customer fields.
// Missing keys render as empty strings rather than failing: templates
// routinely reference optional fields like address.
func (c *Catalog) Render(id string, data map[string]string) (subject, body string, err error) {
	t, ok := c.templates[id]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}

	body, err = renderText(t.ID+":body", t.Body, data)
	if err != nil {
		return "", "", err
	}
	if t.Subject != "" {
		subject, err = renderText(t.ID+":subject", t.Subject, data)
		if err != nil {
			return "", "", err
		}
	}
	return subject, body, nil
}

func renderText(name, text string, data map[string]string) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("dispatch: parse template %s: %w", name, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("dispatch: render template %s: %w", name, err)
	}
	return sb.String(), nil
}

// DefaultTemplates returns the stock templates for the standard triggers.
func DefaultTemplates() *Catalog {
	return NewCatalog(
		Template{
			ID:      "booking_confirmation",
			Name:    "Booking confirmation",
			Subject: "Your {{.service_type}} booking is confirmed",
			Body:    "Hi {{.customer_name}}, your {{.service_type}} booking is confirmed for {{.scheduled_date}}. We'll see you at {{.address}}.",
		},
		Template{
			ID:      "payment_receipt",
			Name:    "Payment receipt",
			Subject: "Payment received",
			Body:    "Hi {{.customer_name}}, we've received your payment for the {{.service_type}} service on {{.scheduled_date}}. Thank you!",
		},
		Template{
			ID:   "service_reminder",
			Name: "Service reminder",
			Body: "Reminder: your {{.service_type}} service is scheduled for {{.scheduled_date}}.",
		},
		Template{
			ID:   "crew_arrival",
			Name: "Crew arrival",
			Body: "Hi {{.customer_name}}, our crew is on the way for your {{.service_type}} service.",
		},
		Template{
			ID:      "service_complete",
			Name:    "Service complete",
			Subject: "Your {{.service_type}} service is complete",
			Body:    "Hi {{.customer_name}}, your {{.service_type}} service is complete. Thanks for choosing us!",
		},
	)
}
