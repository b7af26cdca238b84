// internal/app/features/accounts/handler.go
//
// Admin-triggered account provisioning. Batch creation and deletion of
// identity-provider accounts, with a local profile document per created
// account and an audit record per run.
package accounts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	userstore "github.com/sevakendra/regdesk/internal/app/store/users"
	"github.com/sevakendra/regdesk/internal/app/system/identity"
	"github.com/sevakendra/regdesk/internal/app/system/inputval"
	"github.com/sevakendra/regdesk/internal/app/system/normalize"
)

// AuditCollection receives one summary document per provisioning run.
const AuditCollection = "provisioning_log"

type Handler struct {
	Idp   identity.Admin
	Users *userstore.Store
	Audit docs.Collection
	// JWTSecret, when set, requires a valid HS256 bearer token on every
	// request. Empty means the deployment gates access upstream.
	JWTSecret string
	Log       *zap.Logger

	now func() time.Time
}

func NewHandler(idp identity.Admin, users *userstore.Store, audit docs.Collection, jwtSecret string, log *zap.Logger) *Handler {
	return &Handler{
		Idp:       idp,
		Users:     users,
		Audit:     audit,
		JWTSecret: jwtSecret,
		Log:       log,
		now:       time.Now,
	}
}

type createItem struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

type itemResult struct {
	Identifier string `json:"identifier,omitempty"`
	Email      string `json:"email"`
	OK         bool   `json:"ok"`
	UID        string `json:"uid,omitempty"`
	Error      string `json:"error,omitempty"`
}

type batchResponse struct {
	RunID   string       `json:"runId"`
	Created int          `json:"created"`
	Failed  int          `json:"failed"`
	Results []itemResult `json:"results"`
}

// ServeBatchCreate handles POST with a JSON list of accounts to create.
// Each item succeeds or fails on its own; an already-registered email is
// an item failure, never a request failure.
func (h *Handler) ServeBatchCreate(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	var items []createItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON list of accounts")
		return
	}
	if len(items) == 0 {
		writeError(w, http.StatusBadRequest, "no accounts in request")
		return
	}

	resp := batchResponse{RunID: uuid.NewString()}
	for _, item := range items {
		res := h.createOne(r, item)
		if res.OK {
			resp.Created++
		} else {
			resp.Failed++
		}
		resp.Results = append(resp.Results, res)
	}

	if err := h.Audit.Replace(r.Context(), resp.RunID, docs.Document{
		"runAt":     h.now().UTC(),
		"requested": len(items),
		"created":   resp.Created,
		"failed":    resp.Failed,
	}); err != nil {
		// The audit record is best-effort; the accounts already exist.
		h.Log.Error("provisioning audit write failed",
			zap.String("runId", resp.RunID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) createOne(r *http.Request, item createItem) itemResult {
	res := itemResult{Identifier: item.Identifier, Email: item.Email}

	email := normalize.Email(item.Email)
	if !inputval.IsValidEmail(email) {
		res.Error = "invalid email address"
		return res
	}

	if _, err := h.Idp.GetUserByEmail(r.Context(), email); err == nil {
		res.Error = "email already registered"
		return res
	} else if !errors.Is(err, identity.ErrUserNotFound) {
		h.Log.Error("account lookup failed", zap.String("email", email), zap.Error(err))
		res.Error = "account lookup failed"
		return res
	}

	user, err := h.Idp.CreateUser(r.Context(), identity.NewUser{
		Email: email,
		Name:  normalize.Name(item.Name),
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			res.Error = "email already registered"
			return res
		}
		h.Log.Error("account create failed", zap.String("email", email), zap.Error(err))
		res.Error = "account creation failed"
		return res
	}

	if err := h.Users.Create(r.Context(), user.UID, email, item.Name); err != nil {
		h.Log.Error("profile write failed",
			zap.String("uid", user.UID), zap.String("email", email), zap.Error(err))
	}

	res.OK = true
	res.UID = user.UID
	return res
}

type deleteRequest struct {
	Email string `json:"email"`
}

// ServeDeleteByEmail handles POST {"email": ...}: the identity account
// and every local profile under that email are removed. 404 when no
// account exists.
func (h *Handler) ServeDeleteByEmail(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON with an email")
		return
	}
	email := normalize.Email(req.Email)
	if !inputval.IsValidEmail(email) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	user, err := h.Idp.GetUserByEmail(r.Context(), email)
	if errors.Is(err, identity.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "no account for that email")
		return
	}
	if err != nil {
		h.Log.Error("account lookup failed", zap.String("email", email), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "account lookup failed")
		return
	}

	if err := h.Idp.DeleteUser(r.Context(), user.UID); err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		h.Log.Error("account delete failed", zap.String("uid", user.UID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "account deletion failed")
		return
	}
	removed, err := h.Users.DeleteByEmail(r.Context(), email)
	if err != nil {
		h.Log.Error("profile delete failed", zap.String("email", email), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"email":           email,
		"uid":             user.UID,
		"profilesRemoved": removed,
	})
}

// authorized enforces the bearer credential when a secret is configured.
func (h *Handler) authorized(w http.ResponseWriter, r *http.Request) bool {
	if h.JWTSecret == "" {
		return true
	}
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if raw == "" || raw == r.Header.Get("Authorization") {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return false
	}
	_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid bearer token")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
