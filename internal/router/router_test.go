package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vetcare-api/internal/adapters/auth/jwt"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/router"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	tokens, err := jwt.NewService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Tokens: tokens,
		Admin: &users.RegisterInput{
			Username: "root",
			Email:    "root@vetcare.test",
			Password: "rootpass123",
		},
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_BookingAndCancel(t *testing.T) {
	ts := newServer(t)

	adminTok := login(t, ts.URL, "root", "rootpass123")
	vetTok := registerUser(t, ts.URL, "drvet")
	ownerTok := registerUser(t, ts.URL, "milo_owner")

	// 1) Admin convierte a drvet en VET
	vetID := me(t, ts.URL, vetTok).ID
	{
		st, body := doReq(t, ts.URL, "PUT", "/api/users/"+vetID+"/roles", adminTok, map[string]any{"role": "ROLE_VET"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 updating role, got %d body=%s", st, body)
		}
	}

	// 2) Owner (todavía USER) registra su primera mascota y pasa a OWNER
	var petID string
	{
		st, body := doReq(t, ts.URL, "POST", "/api/pets/new-pet", ownerTok, map[string]any{
			"name": "Milo",
			"type": "DOG",
			"sex":  "MALE",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 creating pet, got %d body=%s", st, body)
		}
		petID = decodeID(t, body)
		if roles := me(t, ts.URL, ownerTok).Roles; len(roles) != 1 || roles[0] != "OWNER" {
			t.Fatalf("expected roles [OWNER] after first pet, got %v", roles)
		}
	}

	// 3) Vet publica un slot para mañana
	var slotID string
	{
		day := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
		st, body := doReq(t, ts.URL, "POST", "/api/slots/add-slot", vetTok, map[string]any{
			"date":      day,
			"startTime": "10:00",
			"endTime":   "10:30",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 creating slot, got %d body=%s", st, body)
		}
		slotID = decodeID(t, body)
	}

	// start >= end no se persiste
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/slots/add-slot", vetTok, map[string]any{
			"date":      "2030-01-01",
			"startTime": "11:00",
			"endTime":   "10:00",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for inverted slot, got %d", st)
		}
	}

	// 4) Owner reserva; un segundo intento sobre el mismo slot es 409
	var appointmentID string
	{
		st, body := doReq(t, ts.URL, "POST", "/api/appointments/new-appointment", ownerTok, map[string]any{
			"pet":         petID,
			"slot":        slotID,
			"description": "cough",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 booking, got %d body=%s", st, body)
		}
		appointmentID = decodeID(t, body)

		st, body = doReq(t, ts.URL, "POST", "/api/appointments/new-appointment", ownerTok, map[string]any{
			"pet":  petID,
			"slot": slotID,
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 double booking, got %d body=%s", st, body)
		}
	}

	// 5) Owner no puede cancelar; el vet sí, con motivo en texto plano
	{
		st, _ := doRaw(t, ts.URL, "DELETE", "/api/appointments/cancel-appointment/"+appointmentID, ownerTok, "text/plain", []byte("nope"))
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 owner cancel, got %d", st)
		}

		st, body := doRaw(t, ts.URL, "DELETE", "/api/appointments/cancel-appointment/"+appointmentID, vetTok, "text/plain", []byte("vet is sick"))
		if st != http.StatusOK {
			t.Fatalf("expected 200 cancel, got %d body=%s", st, body)
		}
		if string(body) != "Appointment "+appointmentID+" canceled" {
			t.Fatalf("unexpected cancel body %q", body)
		}

		st, _ = doRaw(t, ts.URL, "DELETE", "/api/appointments/cancel-appointment/"+appointmentID, vetTok, "text/plain", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 cancelling twice, got %d", st)
		}
	}

	// 6) El slot vuelve a estar disponible y el dueño recibió el aviso
	{
		st, body := doReq(t, ts.URL, "GET", "/api/slots/"+slotID, ownerTok, nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"isAvailable":true`) {
			t.Fatalf("expected slot available again, got %d body=%s", st, body)
		}

		st, body = doReq(t, ts.URL, "GET", "/api/notifications/mine", ownerTok, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 notifications, got %d", st)
		}
		var items []struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(body, &items); err != nil {
			t.Fatalf("decode notifications: %v", err)
		}
		if len(items) != 1 || items[0].Content != "Your appointment has been cancelled by vet cause: vet is sick" {
			t.Fatalf("unexpected notifications %s", body)
		}
	}
}

func TestHTTP_ClinicsAndTreatments(t *testing.T) {
	ts := newServer(t)

	adminTok := login(t, ts.URL, "root", "rootpass123")
	vetTok := registerUser(t, ts.URL, "drhouse")
	ownerTok := registerUser(t, ts.URL, "luna_owner")

	vetID := me(t, ts.URL, vetTok).ID
	if st, body := doReq(t, ts.URL, "PUT", "/api/users/"+vetID+"/roles", adminTok, map[string]any{"role": "ROLE_VET"}); st != http.StatusOK {
		t.Fatalf("expected 200 updating role, got %d body=%s", st, body)
	}

	// Solo ADMIN da de alta clínicas
	if st, _ := doReq(t, ts.URL, "POST", "/api/clinics", ownerTok, map[string]any{"name": "Norte"}); st != http.StatusForbidden {
		t.Fatalf("expected 403 owner creating clinic, got %d", st)
	}
	if st, body := doReq(t, ts.URL, "POST", "/api/clinics", adminTok, map[string]any{"name": "Norte", "email": "norte@vetcare.test"}); st != http.StatusCreated {
		t.Fatalf("expected 201 creating clinic, got %d body=%s", st, body)
	}

	st, body := doReq(t, ts.URL, "POST", "/api/pets/new-pet", ownerTok, map[string]any{"name": "Luna", "type": "CAT", "sex": "FEMALE"})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 creating pet, got %d body=%s", st, body)
	}
	petID := decodeID(t, body)

	if st, _ := doReq(t, ts.URL, "POST", "/api/treatments/save", ownerTok, map[string]any{"pet": petID, "name": "drops"}); st != http.StatusForbidden {
		t.Fatalf("expected 403 owner prescribing, got %d", st)
	}
	st, body = doReq(t, ts.URL, "POST", "/api/treatments/save", vetTok, map[string]any{"pet": petID, "name": "drops", "duration": "7 days"})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 saving treatment, got %d body=%s", st, body)
	}
	treatmentID := decodeID(t, body)

	st, body = doReq(t, ts.URL, "GET", "/api/treatments/active-by-pet/"+petID, ownerTok, nil)
	if st != http.StatusOK || !strings.Contains(string(body), treatmentID) {
		t.Fatalf("expected active treatment for owner, got %d body=%s", st, body)
	}

	if st, body := doReq(t, ts.URL, "PUT", "/api/treatments/complete/"+treatmentID, vetTok, nil); st != http.StatusOK || !strings.Contains(string(body), `"isCompleted":true`) {
		t.Fatalf("expected completed treatment, got %d body=%s", st, body)
	}
	st, body = doReq(t, ts.URL, "GET", "/api/treatments/active-by-pet/"+petID, ownerTok, nil)
	if st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected no active treatments, got %d body=%s", st, body)
	}
}

func TestHTTP_AuthGuards(t *testing.T) {
	ts := newServer(t)
	ownerTok := registerUser(t, ts.URL, "someone")

	if st, _ := doReq(t, ts.URL, "GET", "/api/pets/user-pets", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/pets/user-pets", "garbage", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/sectors", ownerTok, nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 on sectors for non staff, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/quarantines/all", ownerTok, nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 on quarantines for non staff, got %d", st)
	}

	// login con password incorrecta
	st, body := doReq(t, ts.URL, "POST", "/api/users/login", "", map[string]any{"username": "someone", "password": "wrong-pass"})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 bad login, got %d", st)
	}
	var e struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Path    string `json:"path"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Status != 401 || e.Path != "/api/users/login" {
		t.Fatalf("unexpected error body %s", body)
	}

	// username repetido
	st, _ = doReq(t, ts.URL, "POST", "/api/users/register", "", map[string]any{
		"username": "SOMEONE",
		"email":    "other@vetcare.test",
		"password": "secret123",
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 duplicate username, got %d", st)
	}
}

// -------------------------
// helpers
// -------------------------

type meResponse struct {
	ID    string   `json:"id"`
	Roles []string `json:"roles"`
}

func registerUser(t *testing.T, baseURL, username string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/api/users/register", "", map[string]any{
		"username": username,
		"email":    username + "@vetcare.test",
		"password": "secret123",
	})
	if st != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d body=%s", username, st, body)
	}
	return decodeToken(t, body)
}

func login(t *testing.T, baseURL, username, password string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/api/users/login", "", map[string]any{
		"username": username,
		"password": password,
	})
	if st != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d body=%s", username, st, body)
	}
	return decodeToken(t, body)
}

func me(t *testing.T, baseURL, token string) meResponse {
	t.Helper()
	st, body := doReq(t, baseURL, "GET", "/api/users/me", token, nil)
	if st != http.StatusOK {
		t.Fatalf("me: expected 200, got %d body=%s", st, body)
	}
	var out meResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	return out
}

func decodeToken(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Token == "" {
		t.Fatalf("expected token in %s", body)
	}
	return out.Token
}

func decodeID(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.ID == "" {
		t.Fatalf("expected id in %s", body)
	}
	return out.ID
}

func doReq(t *testing.T, baseURL, method, path, token string, payload any) (int, []byte) {
	t.Helper()
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = b
	}
	return doRaw(t, baseURL, method, path, token, "application/json", body)
}

func doRaw(t *testing.T, baseURL, method, path, token, contentType string, body []byte) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	out, _ := io.ReadAll(res.Body)
	return res.StatusCode, out
}
