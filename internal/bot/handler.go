package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cityhospital/carebot/internal/menu"
	"github.com/cityhospital/carebot/internal/metrics"
	"github.com/cityhospital/carebot/internal/sentry"
	"github.com/cityhospital/carebot/internal/store"
	"github.com/cityhospital/carebot/internal/whatsapp"
)

const DefaultSendTimeout = 5 * time.Second

// Sender delivers one outbound message. *whatsapp.Client implements it.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to, header, body string, buttons []whatsapp.Button) error
	SendList(ctx context.Context, to, header, body, buttonText string, sections []whatsapp.Section) error
}

// Recorder receives one audit entry per handled message.
type Recorder interface {
	Record(d store.Delivery) error
}

// Handler turns one inbound message into exactly one reply. It keeps no
// per-user state; every message is handled on its own.
type Handler struct {
	classifier  *menu.Classifier
	builder     *menu.Builder
	sender      Sender
	journal     Recorder
	metrics     *metrics.Metrics
	log         *slog.Logger
	sendTimeout time.Duration
}

type Option func(*Handler)

func WithJournal(r Recorder) Option {
	return func(h *Handler) { h.journal = r }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

func WithSendTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.sendTimeout = d
		}
	}
}

func NewHandler(classifier *menu.Classifier, builder *menu.Builder, sender Sender, opts ...Option) *Handler {
	h := &Handler{
		classifier:  classifier,
		builder:     builder,
		sender:      sender,
		log:         slog.Default(),
		sendTimeout: DefaultSendTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With("component", "bot")
	return h
}

// Resolve classifies msg and builds its reply without sending anything.
// Button and list replies are routed by selection id; everything else by
// the normalized display text.
func (h *Handler) Resolve(msg whatsapp.Inbound) (menu.Classification, menu.Response) {
	var c menu.Classification
	if msg.IsSelection() {
		c = h.classifier.ClassifySelection(msg.SelectionID)
	} else {
		c = h.classifier.Classify(menu.Normalize(msg.DisplayText()))
	}
	return c, h.builder.Build(c, msg.ProfileName)
}

// HandleMessage resolves and sends the reply for msg. Send failures are
// logged, counted and journaled; they are never returned to the caller.
func (h *Handler) HandleMessage(ctx context.Context, msg whatsapp.Inbound) {
	c, resp := h.Resolve(msg)
	h.metrics.RecordClassification(c.Kind.String())

	log := h.log.With(
		"from", msg.From,
		"message_id", msg.MessageID,
		"intent", c.String(),
		"response", string(resp.Kind),
	)
	if msg.IsSelection() {
		log = log.With("selection_id", msg.SelectionID, "selection_type", msg.SelectionType())
	}

	delivery := store.Delivery{
		MessageID:    msg.MessageID,
		From:         msg.From,
		Intent:       c.Kind.String(),
		Code:         c.Code,
		ResponseKind: string(resp.Kind),
		ReceivedAt:   time.Now().UTC(),
	}

	if msg.From == "" {
		log.WarnContext(ctx, "Message has no sender, reply skipped")
		delivery.Status = store.StatusSkipped
		h.record(ctx, delivery)
		return
	}

	start := time.Now()
	err := h.send(ctx, msg.From, resp)
	elapsed := time.Since(start)
	reason := whatsapp.FailureReason(err)
	h.metrics.RecordSend(string(resp.Kind), reason, elapsed)

	switch {
	case err == nil:
		delivery.Status = store.StatusSent
		log.InfoContext(ctx, "Reply sent", "duration", elapsed)
	case errors.Is(err, whatsapp.ErrNotConfigured):
		delivery.Status = store.StatusFailed
		delivery.Error = err.Error()
		log.WarnContext(ctx, "Reply not sent, outbound is not configured")
	default:
		delivery.Status = store.StatusFailed
		delivery.Error = err.Error()
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "reason", reason, "duration", elapsed)
		sentry.CaptureException(ctx, fmt.Errorf("sending %s reply: %w", resp.Kind, err))
	}
	h.record(ctx, delivery)
}

func (h *Handler) send(ctx context.Context, to string, resp menu.Response) error {
	if h.sender == nil {
		return whatsapp.ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, h.sendTimeout)
	defer cancel()

	switch resp.Kind {
	case menu.ButtonResponse:
		return h.sender.SendButtons(ctx, to, resp.Header, resp.Body, toWAButtons(resp.Buttons))
	case menu.ListResponse:
		if resp.List == nil {
			return fmt.Errorf("%w: list response without list", whatsapp.ErrInvalidMessage)
		}
		return h.sender.SendList(ctx, to, resp.Header, resp.Body, resp.List.ButtonText, toWASections(resp.List.Sections))
	default:
		return h.sender.SendText(ctx, to, resp.Body)
	}
}

func (h *Handler) record(ctx context.Context, d store.Delivery) {
	if h.journal == nil {
		return
	}
	if err := h.journal.Record(d); err != nil {
		h.log.WarnContext(ctx, "Failed to journal delivery", "error", err, "message_id", d.MessageID)
	}
}

func toWAButtons(buttons []menu.ButtonOption) []whatsapp.Button {
	wa := make([]whatsapp.Button, len(buttons))
	for i, b := range buttons {
		wa[i] = whatsapp.Button{
			Type:  "reply",
			Reply: whatsapp.ButtonReply{ID: b.ID, Title: b.Title},
		}
	}
	return wa
}

func toWASections(sections []menu.ListSection) []whatsapp.Section {
	wa := make([]whatsapp.Section, len(sections))
	for i, s := range sections {
		rows := make([]whatsapp.SectionRow, len(s.Rows))
		for j, r := range s.Rows {
			rows[j] = whatsapp.SectionRow{ID: r.ID, Title: r.Title, Description: r.Description}
		}
		wa[i] = whatsapp.Section{Title: s.Title, Rows: rows}
	}
	return wa
}
