package accounts_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/sevakendra/regdesk/internal/app/features/accounts"
	userstore "github.com/sevakendra/regdesk/internal/app/store/users"
	"github.com/sevakendra/regdesk/internal/testutil"
)

func newTestRouter(t *testing.T, secret string) (chi.Router, *testutil.FakeIdentity, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	idp := testutil.NewFakeIdentity()
	h := accounts.NewHandler(idp, userstore.New(store),
		store.Collection(accounts.AuditCollection), secret, zap.NewNop())
	r := chi.NewRouter()
	accounts.MountRoutes(r, h)
	return r, idp, store
}

func postJSON(r chi.Router, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBatchCreate(t *testing.T) {
	r, idp, store := newTestRouter(t, "")

	body := `[
		{"email":"asha@example.org","name":"Asha Patel","identifier":"UKAA0001"},
		{"email":"not-an-email","name":"Bad","identifier":"UKAA0002"},
		{"email":"asha@example.org","name":"Asha Again","identifier":"UKAA0003"}
	]`
	rec := postJSON(r, "/accounts/batch-create", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		RunID   string `json:"runId"`
		Created int    `json:"created"`
		Failed  int    `json:"failed"`
		Results []struct {
			Identifier string `json:"identifier"`
			OK         bool   `json:"ok"`
			UID        string `json:"uid"`
			Error      string `json:"error"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response JSON: %v", err)
	}
	if resp.Created != 1 || resp.Failed != 2 {
		t.Fatalf("created=%d failed=%d, want 1/2", resp.Created, resp.Failed)
	}
	if !resp.Results[0].OK || resp.Results[0].UID == "" {
		t.Errorf("first item should succeed: %+v", resp.Results[0])
	}
	if resp.Results[1].OK || resp.Results[1].Error != "invalid email address" {
		t.Errorf("second item = %+v", resp.Results[1])
	}
	if resp.Results[2].OK || resp.Results[2].Error != "email already registered" {
		t.Errorf("third item = %+v", resp.Results[2])
	}

	if len(idp.Users()) != 1 {
		t.Errorf("idp holds %d users, want 1", len(idp.Users()))
	}
	if store.Count("users") != 1 {
		t.Errorf("profile collection holds %d docs, want 1", store.Count("users"))
	}
	if resp.RunID == "" || store.Count(accounts.AuditCollection) != 1 {
		t.Errorf("audit record missing (runId=%q)", resp.RunID)
	}
}

func TestBatchCreateRejectsBadBody(t *testing.T) {
	r, _, _ := newTestRouter(t, "")
	if rec := postJSON(r, "/accounts/batch-create", `{"not":"a list"}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("non-list body: status = %d", rec.Code)
	}
	if rec := postJSON(r, "/accounts/batch-create", `[]`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("empty list: status = %d", rec.Code)
	}
}

func TestDeleteByEmail(t *testing.T) {
	r, _, store := newTestRouter(t, "")
	postJSON(r, "/accounts/batch-create",
		`[{"email":"asha@example.org","name":"Asha"}]`, nil)
	if store.Count("users") != 1 {
		t.Fatalf("setup: profile not created")
	}

	rec := postJSON(r, "/accounts/delete", `{"email":"Asha@Example.org"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if store.Count("users") != 0 {
		t.Errorf("profile survived deletion")
	}

	rec = postJSON(r, "/accounts/delete", `{"email":"asha@example.org"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestBearerRequiredWhenConfigured(t *testing.T) {
	r, _, _ := newTestRouter(t, "shhh")

	rec := postJSON(r, "/accounts/delete", `{"email":"a@b.co"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	rec = postJSON(r, "/accounts/delete", `{"email":"a@b.co"}`,
		map[string]string{"Authorization": "Bearer garbage"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", rec.Code)
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("shhh"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	rec = postJSON(r, "/accounts/delete", `{"email":"a@b.co"}`,
		map[string]string{"Authorization": "Bearer " + tok})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("good token: status = %d, want 404 (no such account)", rec.Code)
	}
}

func TestPreflight(t *testing.T) {
	r, _, _ := newTestRouter(t, "")
	req := httptest.NewRequest("OPTIONS", "/accounts/batch-create", nil)
	req.Header.Set("Origin", "https://admin.example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
