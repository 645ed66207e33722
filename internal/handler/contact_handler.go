package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/showcase/backend/internal/service"
	"github.com/showcase/backend/internal/view"
)

const maxContactBody = 64 << 10 // 64 KB

// ContactHandler handles contact form submission.
type ContactHandler struct {
	contactService service.ContactService
	views          *view.Builder
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService, views *view.Builder) *ContactHandler {
	return &ContactHandler{contactService: contactService, views: views}
}

// Submit handles POST /api/contacts.
// name, email and message are required; id, created_at and is_read in the
// body are ignored.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	in, err := view.DecodeContactInput(http.MaxBytesReader(w, r.Body, maxContactBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	msg, err := h.contactService.Submit(r.Context(), in)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, validationResponse{Error: "invalid_input", Fields: verr.Fields})
			return
		}
		slog.ErrorContext(r.Context(), "contact submission failed", "error", err)
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}

	writeJSON(w, http.StatusCreated, h.views.ContactEcho(msg))
}
