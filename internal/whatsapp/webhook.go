package whatsapp

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/cityhospital/carebot/internal/metrics"
	"github.com/cityhospital/carebot/internal/sentry"
)

const maxWebhookBodyBytes = 1 << 20

// MessageHandler is called once per webhook delivery that carries a user message.
type MessageHandler func(ctx context.Context, msg Inbound)

type WebhookHandler struct {
	verifyToken string
	onMessage   MessageHandler
	log         *slog.Logger
	metrics     *metrics.Metrics
}

func NewWebhookHandler(verifyToken string, onMessage MessageHandler, log *slog.Logger, m *metrics.Metrics) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookHandler{
		verifyToken: verifyToken,
		onMessage:   onMessage,
		log:         log.With("component", "whatsapp.webhook"),
		metrics:     m,
	}
}

// HandleVerify handles the GET webhook verification from Meta.
// Success echoes hub.challenge with 200; anything else is a bare 403.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/get-started#webhook-verification
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "subscribe" && h.verifyToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) == 1 {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	h.log.WarnContext(r.Context(), "Webhook verification rejected", "mode", mode)
	w.WriteHeader(http.StatusForbidden)
}

// HandleIncoming processes incoming webhook POST notifications. It always
// answers 200 so Meta does not redeliver a payload this service cannot use.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/webhooks/components
func (h *WebhookHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	// Dispatch runs to completion even if Meta drops the connection.
	ctx := context.WithoutCancel(r.Context())

	defer func() {
		if rec := recover(); rec != nil {
			h.log.ErrorContext(ctx, "Webhook dispatch panicked", "panic", rec, "stack", string(debug.Stack()))
			sentry.Recover(ctx, rec)
			h.metrics.RecordWebhookEvent(metrics.OutcomePanic)
		}
		w.WriteHeader(http.StatusOK)
	}()

	var payload WebhookPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)).Decode(&payload); err != nil {
		h.log.WarnContext(ctx, "Failed to decode webhook payload", "error", err)
		h.metrics.RecordWebhookEvent(metrics.OutcomeInvalid)
		return
	}

	msg, ok := payload.FirstMessage()
	if !ok {
		h.log.DebugContext(ctx, "Webhook delivery without message", "object", payload.Object)
		h.metrics.RecordWebhookEvent(metrics.OutcomeIgnored)
		return
	}

	h.metrics.RecordWebhookEvent(metrics.OutcomeMessage)
	h.onMessage(ctx, msg)
}
