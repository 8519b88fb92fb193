package webhook

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driving"
	"github.com/custodia-labs/searchsync/internal/logger"
)

// SecretHeader carries the optional shared secret.
const SecretHeader = "X-Webhook-Secret"

// maxBodyBytes bounds how much of a request body is read.
const maxBodyBytes = 1 << 20

var webhookLog = logger.Named("webhook")

// Handler accepts CMS change notifications and enqueues them.
type Handler struct {
	queue     driving.TaskQueue
	validator *PayloadValidator

	mu     sync.RWMutex
	secret string
}

// NewHandler creates a webhook handler. An empty secret disables the check.
func NewHandler(queue driving.TaskQueue, validator *PayloadValidator, secret string) *Handler {
	return &Handler{queue: queue, validator: validator, secret: secret}
}

// SetSecret replaces the shared secret. Used when the config file is reloaded.
func (h *Handler) SetSecret(secret string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.secret = secret
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	// The sender only ever sees 200; outcomes are logged.
	defer w.WriteHeader(http.StatusOK)

	if !h.authorised(r.Header.Get(SecretHeader)) {
		webhookLog.Warn("dropped request from %s: secret mismatch", r.RemoteAddr)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		webhookLog.Warn("failed to read body: %v", err)
		return
	}

	event, err := h.validator.Decode(body)
	if err != nil {
		webhookLog.Debug("ignored malformed payload: %v", err)
		return
	}

	task, err := h.queue.Enqueue(r.Context(), event)
	switch {
	case errors.Is(err, domain.ErrUnroutable):
		webhookLog.Debug("ignored %s: %v", event, err)
	case err != nil:
		webhookLog.Error("failed to enqueue %s: %v", event, err)
	default:
		webhookLog.Info("accepted %s as task %s", event, task.ID)
	}
}

func (h *Handler) authorised(got string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}
