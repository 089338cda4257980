package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Bulk send bounds. Batches keep provider rate limits honest; the delay
// spaces batches out.
const (
	DefaultBatchSize = 10
	MaxBatchSize     = 20
	MaxBatchDelay    = 10 * time.Second
)

// BulkOptions tunes batching for SendBulk. Zero values take defaults;
// out-of-range values are clamped.
type BulkOptions struct {
	BatchSize           int
	DelayBetweenBatches time.Duration
}

func (o BulkOptions) normalize() BulkOptions {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.BatchSize > MaxBatchSize {
		o.BatchSize = MaxBatchSize
	}
	if o.DelayBetweenBatches < 0 {
		o.DelayBetweenBatches = 0
	}
	if o.DelayBetweenBatches > MaxBatchDelay {
		o.DelayBetweenBatches = MaxBatchDelay
	}
	return o
}

// Dispatcher resolves triggers through rules and templates into
// messages and sends them through per-channel senders.
type Dispatcher struct {
	senders   map[Channel]Sender
	rules     *RuleSet
	templates *Catalog
	log       *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSender registers the sender for a channel.
func WithSender(ch Channel, s Sender) Option {
	return func(d *Dispatcher) {
		d.senders[ch] = s
	}
}

// WithRules replaces the default rule set.
func WithRules(rs *RuleSet) Option {
	return func(d *Dispatcher) {
		d.rules = rs
	}
}

// WithTemplates replaces the default template catalog.
func WithTemplates(c *Catalog) Option {
	return func(d *Dispatcher) {
		d.templates = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// New creates a Dispatcher with the stock rules and templates. Senders
// are registered per channel via WithSender; a channel without a sender
// fails at send time with ErrNoSender.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		senders:   make(map[Channel]Sender),
		rules:     DefaultRules(),
		templates: DefaultTemplates(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Rules exposes the configured rule set.
func (d *Dispatcher) Rules() *RuleSet { return d.rules }

// Templates exposes the configured template catalog.
func (d *Dispatcher) Templates() *Catalog { return d.templates }

// Resolve expands a trigger into concrete messages: enabled rules for
// the trigger, each rendered once per configured channel. Channels
// whose recipient field is absent from data are skipped, not errors;
// webhook payloads often carry only one contact method.
func (d *Dispatcher) Resolve(trigger Trigger, data map[string]string) ([]Message, error) {
	if !trigger.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTrigger, trigger)
	}

	var msgs []Message
	for _, rule := range d.rules.Match(trigger) {
		subject, body, err := d.templates.Render(rule.TemplateID, data)
		if err != nil {
			return nil, err
		}
		for _, ch := range rule.Channels {
			to := recipientFor(ch, data)
			if to == "" {
				continue
			}
			msg := Message{Channel: ch, To: to, Body: body}
			if ch == ChannelEmail {
				msg.Subject = subject
			}
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

func recipientFor(ch Channel, data map[string]string) string {
	switch ch {
	case ChannelSMS:
		return data["customer_phone"]
	case ChannelEmail:
		return data["customer_email"]
	}
	return ""
}

// Send validates and delivers one message. Failures are folded into the
// Result; Send itself never returns an error.
func (d *Dispatcher) Send(ctx context.Context, msg Message) Result {
	if err := msg.Validate(); err != nil {
		return Result{To: msg.To, Success: false, Error: err.Error()}
	}

	sender, ok := d.senders[msg.Channel]
	if !ok {
		return Result{To: msg.To, Success: false, Error: fmt.Sprintf("%s: %s", ErrNoSender, msg.Channel)}
	}

	id, err := sender.Send(ctx, msg)
	if err != nil {
		d.log.WarnContext(ctx, "message send failed",
			slog.String("channel", string(msg.Channel)),
			slog.String("error", err.Error()))
		return Result{To: msg.To, Success: false, Error: err.Error()}
	}
	return Result{To: msg.To, Success: true, MessageID: id}
}

// SendBulk delivers messages in fixed-size batches with an optional
// delay between batches. Items within a batch go out concurrently. One
// Result comes back per input, in input order; a failed item never
// aborts its siblings. Cancellation is honored between batches only:
// on cancel, the remaining unsent items get a failure result and the
// summary still covers every input.
func (d *Dispatcher) SendBulk(ctx context.Context, msgs []Message, opts BulkOptions) ([]Result, Summary) {
	opts = opts.normalize()
	results := make([]Result, len(msgs))

	for start := 0; start < len(msgs); start += opts.BatchSize {
		if start > 0 {
			if cancelled := waitBetweenBatches(ctx, opts.DelayBetweenBatches); cancelled {
				for i := start; i < len(msgs); i++ {
					results[i] = Result{To: msgs[i].To, Success: false, Error: "send cancelled"}
				}
				return results, Summarize(results)
			}
		}

		end := min(start+opts.BatchSize, len(msgs))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = d.Send(ctx, msgs[i])
			}(i)
		}
		wg.Wait()
	}

	return results, Summarize(results)
}

func waitBetweenBatches(ctx context.Context, delay time.Duration) (cancelled bool) {
	if delay <= 0 {
		return ctx.Err() != nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return true
	case <-timer.C:
		return ctx.Err() != nil
	}
}

// Fire resolves a trigger and sends the resulting messages, logging a
// per-trigger summary. Individual send failures are captured in results
// and do not surface as an error; only an unknown trigger or a broken
// template does.
func (d *Dispatcher) Fire(ctx context.Context, trigger string, data map[string]string) error {
	msgs, err := d.Resolve(Trigger(trigger), data)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}

	results, summary := d.SendBulk(ctx, msgs, BulkOptions{})
	d.log.InfoContext(ctx, "automation trigger dispatched",
		slog.String("trigger", trigger),
		slog.Int("total", summary.Total),
		slog.Int("successful", summary.Successful),
		slog.Int("failed", summary.Failed))
	for _, r := range results {
		if !r.Success {
			d.log.WarnContext(ctx, "automation message failed",
				slog.String("trigger", trigger),
				slog.String("error", r.Error))
		}
	}
	return nil
}

// Status looks the message id up across every sender that can report
// delivery status.
func (d *Dispatcher) Status(ctx context.Context, messageID string) (string, error) {
	for _, s := range d.senders {
		sp, ok := s.(StatusProvider)
		if !ok {
			continue
		}
		status, err := sp.Status(ctx, messageID)
		if err == nil {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrStatusNotFound, messageID)
}
