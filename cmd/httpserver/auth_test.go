//go:build integration

package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/koinsave/ledger/internal/domain"
	"github.com/koinsave/ledger/internal/integrationtest"
	"github.com/koinsave/ledger/pkg/randompkg"
	"github.com/koinsave/ledger/pkg/web"
)

func TestRegisterAndLoginAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	email := randompkg.Email()
	password := randompkg.String(10)
	fullName := randompkg.Name()

	register := func(t *testing.T) *httptest.ResponseRecorder {
		t.Helper()

		body, err := json.Marshal(gin.H{
			"email":           email,
			"password":        password,
			"full_name":       fullName,
			"initial_balance": "100",
		})
		if err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}

		req, err := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("Creating request error: %v", err)
		}

		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		return w
	}

	w := register(t)
	if w.Code != http.StatusOK {
		t.Fatalf("Register status code: got %v, want %v, body: %v", w.Code, http.StatusOK, w.Body.String())
	}

	// Registering the same email twice conflicts.
	w = register(t)
	if w.Code != http.StatusConflict {
		t.Fatalf("Duplicate register status code: got %v, want %v", w.Code, http.StatusConflict)
	}

	var res web.Response
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	if res.Error != domain.ErrEmailAlreadyExists.Error() {
		t.Errorf(`res.Error=%q, want %q`, res.Error, domain.ErrEmailAlreadyExists.Error())
	}

	login := func(t *testing.T, password string) *httptest.ResponseRecorder {
		t.Helper()

		body, err := json.Marshal(gin.H{
			"email":    email,
			"password": password,
		})
		if err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}

		req, err := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("Creating request error: %v", err)
		}

		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		return w
	}

	w = login(t, "wrongpassword")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Wrong password status code: got %v, want %v", w.Code, http.StatusUnauthorized)
	}

	w = login(t, password)
	if w.Code != http.StatusOK {
		t.Fatalf("Login status code: got %v, want %v, body: %v", w.Code, http.StatusOK, w.Body.String())
	}

	var loginRes struct {
		Data struct {
			Auth domain.AuthGrant `json:"auth"`
		} `json:"data"`
	}

	if err := json.NewDecoder(w.Body).Decode(&loginRes); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	grant := loginRes.Data.Auth
	if grant.AccessToken == "" {
		t.Error("AccessToken is empty")
	}

	if grant.Email != email {
		t.Errorf("Email=%v, want %v", grant.Email, email)
	}

	// Deactivate the account and verify login is refused afterwards.
	req, err := http.NewRequest(http.MethodPost, "/accounts/deactivate", nil)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+grant.AccessToken)

	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Deactivate status code: got %v, want %v", w.Code, http.StatusOK)
	}

	w = login(t, password)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Inactive login status code: got %v, want %v", w.Code, http.StatusUnauthorized)
	}

	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	if res.Error != domain.ErrAccountInactive.Error() {
		t.Errorf(`res.Error=%q, want %q`, res.Error, domain.ErrAccountInactive.Error())
	}
}
