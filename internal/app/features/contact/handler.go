// internal/app/features/contact/handler.go
//
// Contact-form relay: a browser form posts JSON here and the content
// goes out as email to the back-office inbox.
package contact

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sevakendra/regdesk/internal/app/system/htmlsanitize"
	"github.com/sevakendra/regdesk/internal/app/system/inputval"
	"github.com/sevakendra/regdesk/internal/app/system/mailer"
)

type Handler struct {
	Sender mailer.Sender
	// To is the inbox the relay delivers to.
	To  string
	Log *zap.Logger
}

func NewHandler(sender mailer.Sender, to string, log *zap.Logger) *Handler {
	return &Handler{Sender: sender, To: to, Log: log}
}

type contactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// ServeContact handles the POST. Validation failures are specific;
// transport failures are a generic 500 so SMTP details never reach the
// client.
func (h *Handler) ServeContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	data := mailer.ContactData{
		Name:     htmlsanitize.Strip(req.Name),
		Email:    req.Email,
		Category: htmlsanitize.Strip(req.Category),
		Message:  htmlsanitize.Strip(req.Message),
	}
	if data.Message == "" {
		writeError(w, http.StatusBadRequest, "message is empty")
		return
	}

	err := h.Sender.Send(r.Context(), mailer.BuildContactEmail(h.To, data))
	if err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			h.Log.Error("contact relay has no mail transport")
		} else {
			h.Log.Error("contact relay send failed", zap.Error(err))
		}
		writeError(w, http.StatusInternalServerError, "message could not be sent")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "sent"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
