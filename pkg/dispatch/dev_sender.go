package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SentMessage is a message recorded by the dev sender, with the id it
// was assigned and the delivery status it reports.
type SentMessage struct {
	ID      string
	Message Message
	Status  string
}

// DevSender records messages in memory instead of delivering them. It
// serves local development and tests, and doubles as the status
// provider for everything it "sent".
type DevSender struct {
	mu   sync.Mutex
	sent []SentMessage
	byID map[string]int

	// FailFor makes Send fail for the listed recipients. Tests use it to
	// exercise partial-failure paths.
	FailFor map[string]error
}

// NewDevSender creates an empty in-memory sender.
func NewDevSender() *DevSender {
	return &DevSender{byID: make(map[string]int)}
}

// Send records the message and returns a generated provider-style id.
func (s *DevSender) Send(_ context.Context, msg Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.FailFor[msg.To]; ok {
		return "", err
	}

	id := "SM" + strings.ReplaceAll(uuid.NewString(), "-", "")
	s.sent = append(s.sent, SentMessage{ID: id, Message: msg, Status: "delivered"})
	s.byID[id] = len(s.sent) - 1
	return id, nil
}

// Status reports the delivery status of a recorded message.
func (s *DevSender) Status(ctx context.Context, messageID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[messageID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrStatusNotFound, messageID)
	}
	return s.sent[idx].Status, nil
}

// Sent returns a copy of everything recorded so far.
func (s *DevSender) Sent() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SentMessage, len(s.sent))
	copy(out, s.sent)
	return out
}
