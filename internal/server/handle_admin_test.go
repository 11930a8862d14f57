package server

import (
	"net/http"
	"testing"
)

func TestAdminLoginGoodCredentials(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/login",
		AdminLoginRequest{Email: "Admin@Tennis.Test", Password: testAdminPassword}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "admin_session" && c.Value != "" && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Error("expected HttpOnly admin_session cookie to be set")
	}

	resp := decode[AdminMeResponse](t, w)
	if resp.Email != testAdminEmail {
		t.Errorf("expected email %s, got %q", testAdminEmail, resp.Email)
	}
}

func TestAdminLoginRejected(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  AdminLoginRequest
		want int
	}{
		{"wrong password", AdminLoginRequest{Email: testAdminEmail, Password: "wrong"}, http.StatusUnauthorized},
		{"unknown email", AdminLoginRequest{Email: "nobody@example.com", Password: testAdminPassword}, http.StatusUnauthorized},
		{"missing password", AdminLoginRequest{Email: testAdminEmail}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/admin/login", tt.req, nil)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestAdminMe(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/api/admin/me", nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/admin/me", nil, env.login(t))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decode[AdminMeResponse](t, w); resp.Email != testAdminEmail {
		t.Errorf("expected email %s, got %q", testAdminEmail, resp.Email)
	}
}

func TestAdminLogout(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	if w := env.do(t, http.MethodPost, "/api/admin/logout", nil, cookies); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}

	// Session should be invalid now.
	if w := env.do(t, http.MethodGet, "/api/admin/me", nil, cookies); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/players", RegisterPlayerRequest{Name: "Late"}, cookies); w.Code != http.StatusUnauthorized {
		t.Errorf("write after logout: expected 401, got %d", w.Code)
	}
}

func TestWritesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/tournament"},
		{http.MethodPost, "/api/tournament/playoffs"},
		{http.MethodPost, "/api/tournament/results/group"},
		{http.MethodPost, "/api/tournament/results/playoff"},
		{http.MethodPost, "/api/players"},
		{http.MethodPut, "/api/players/Masha"},
		{http.MethodDelete, "/api/players/Masha"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := env.do(t, rt.method, rt.path, nil, nil)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}
