package render

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"raktar/internal/service"
	"raktar/internal/store"
	"raktar/web"
)

func newTestRenderer(t *testing.T) (*Renderer, *scs.SessionManager) {
	t.Helper()
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates sub FS: %v", err)
	}
	sm := scs.New()
	renderer, err := New(templatesFS, sm)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return renderer, sm
}

// withSession runs fn inside a request that carries session context, the way
// handlers see requests behind LoadAndSave.
func withSession(t *testing.T, sm *scs.SessionManager, fn http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sm.LoadAndSave(fn).ServeHTTP(rec, req)
	return rec
}

func TestRender_Login(t *testing.T) {
	renderer, sm := newTestRenderer(t)

	rec := withSession(t, sm, func(w http.ResponseWriter, r *http.Request) {
		if err := renderer.Render(w, r, "login", TemplateData{Title: "Login"}); err != nil {
			t.Errorf("Render error: %v", err)
		}
	})

	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Login</title>") {
		t.Error("title not rendered")
	}
	if strings.Contains(body, "flash") {
		t.Error("flash block rendered without a flash message")
	}
}

func TestRender_FlashIsConsumed(t *testing.T) {
	renderer, sm := newTestRenderer(t)

	rec := withSession(t, sm, func(w http.ResponseWriter, r *http.Request) {
		renderer.SetFlash(r, "User created: bob", "success")
		if err := renderer.Render(w, r, "login", TemplateData{Title: "Login"}); err != nil {
			t.Errorf("Render error: %v", err)
		}
		if err := renderer.Render(w, r, "login", TemplateData{Title: "Login"}); err != nil {
			t.Errorf("second Render error: %v", err)
		}
	})

	body := rec.Body.String()
	if strings.Count(body, "User created: bob") != 1 {
		t.Error("flash message should render exactly once")
	}
	if !strings.Contains(body, "flash-success") {
		t.Error("flash type class missing")
	}
}

func TestRender_Dashboard(t *testing.T) {
	renderer, sm := newTestRenderer(t)

	data := service.DashboardData{
		Categories: []service.CategoryGroup{{
			Category: store.Category{ID: 1, Name: "Pékáru"},
			Products: []store.Product{{ID: 1, Name: "Liszt", Quantity: 0.5, MinLevel: 1}},
		}},
		Uncategorized: []store.Product{{ID: 2, Name: "Olaj", Quantity: 10, MinLevel: 2}},
		TotalQuantity: 10.5,
		LowStockCount: 1,
	}
	user := store.User{ID: 1, Username: "admin", Role: "admin"}

	rec := withSession(t, sm, func(w http.ResponseWriter, r *http.Request) {
		if err := renderer.Render(w, r, "index", TemplateData{
			Title: "Stock Room",
			User:  &user,
			Data:  data,
		}); err != nil {
			t.Errorf("Render error: %v", err)
		}
	})

	body := rec.Body.String()
	for _, want := range []string{"Pékáru", "Liszt", "Olaj", "admin"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	// Quantities are shown with a decimal comma
	if !strings.Contains(body, "10,5") {
		t.Error("total quantity not formatted with decimal comma")
	}
	// Whole numbers keep an explicit zero fraction
	if !strings.Contains(body, "10,0") {
		t.Error("whole-number quantity not rendered as 10,0")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	renderer, sm := newTestRenderer(t)

	withSession(t, sm, func(w http.ResponseWriter, r *http.Request) {
		if err := renderer.Render(w, r, "nonexistent", TemplateData{}); err == nil {
			t.Error("expected error for unknown template")
		}
	})
}
