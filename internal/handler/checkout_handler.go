package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fotuneb/bot-e-commerce/internal/checkout"
	"github.com/fotuneb/bot-e-commerce/internal/model"

	"github.com/rs/zerolog"
)

// TextInput carries free-text dialogue input from the dispatch layer.
type TextInput struct {
	Text string `json:"text"`
}

// CheckoutHandler exposes the checkout dialogue to the dispatch layer.
type CheckoutHandler struct {
	manager *checkout.Manager
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(manager *checkout.Manager, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		manager: manager,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Start handles POST /api/checkout/start requests.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	h.manager.Start(userID)

	writeJSON(w, http.StatusOK, map[string]string{
		"state":  checkout.StateCollectingName.String(),
		"prompt": "Please send your name",
	})
}

// SubmitName handles POST /api/checkout/name requests.
func (h *CheckoutHandler) SubmitName(w http.ResponseWriter, r *http.Request) {
	userID, input, ok := h.textInput(w, r)
	if !ok {
		return
	}

	if err := h.manager.SubmitName(userID, input.Text); err != nil {
		h.writeIgnoredOrError(w, userID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"state":  checkout.StateCollectingPhone.String(),
		"prompt": "Now send your phone number",
	})
}

// SubmitPhone handles POST /api/checkout/phone requests.
func (h *CheckoutHandler) SubmitPhone(w http.ResponseWriter, r *http.Request) {
	userID, input, ok := h.textInput(w, r)
	if !ok {
		return
	}

	if err := h.manager.SubmitPhone(userID, input.Text); err != nil {
		h.writeIgnoredOrError(w, userID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"state":  checkout.StateCollectingAddress.String(),
		"prompt": "Send the delivery address",
	})
}

// SubmitAddress handles POST /api/checkout/address requests. On success it
// returns the confirmation summary.
func (h *CheckoutHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	userID, input, ok := h.textInput(w, r)
	if !ok {
		return
	}

	summary, err := h.manager.SubmitAddress(userID, input.Text)
	if err != nil {
		h.writeIgnoredOrError(w, userID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"state":   checkout.StateAwaitingConfirmation.String(),
		"summary": summary,
	})
}

// Confirm handles POST /api/checkout/confirm requests.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.manager.Confirm(r.Context(), userID)
	if err != nil {
		h.writeIgnoredOrError(w, userID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"orderNumber": order.OrderNumber,
	})
}

// Cancel handles POST /api/checkout/cancel requests.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	h.manager.Cancel(userID)

	writeJSON(w, http.StatusOK, map[string]string{"state": checkout.StateIdle.String()})
}

// textInput reads the shopper identity and the free-text payload.
func (h *CheckoutHandler) textInput(w http.ResponseWriter, r *http.Request) (int64, *TextInput, bool) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return 0, nil, false
	}

	var input TextInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", h.logger)
		return 0, nil, false
	}

	return userID, &input, true
}

// writeIgnoredOrError maps checkout errors to responses. An out-of-state
// action is deliberately ignored rather than failed.
func (h *CheckoutHandler) writeIgnoredOrError(w http.ResponseWriter, userID int64, err error) {
	if errors.Is(err, model.ErrStateMismatch) {
		h.logger.Debug().Int64("user_id", userID).Msg("checkout action ignored: state mismatch")
		writeJSON(w, http.StatusOK, map[string]bool{"ignored": true})
		return
	}

	writeDomainError(w, err, h.logger)
}
