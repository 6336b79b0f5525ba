package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todecor/internal/domain"
)

func TestListProducts(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/products", nil), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"slug":"vase-artisanal"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/products/missing-slug", nil), nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateMessage(t *testing.T) {
	f := newFixture(t)

	body := `{"name":"Nour","email":"nour@example.com","message":"Livraison possible à Sfax ?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(req, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if len(f.messages.messages) != 1 || f.messages.messages[0].Name != "Nour" {
		t.Fatalf("message not stored: %+v", f.messages.messages)
	}
}

func TestCreateMessage_MissingFields(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"name":"Nour"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestListTestimonials_OnlyApproved(t *testing.T) {
	f := newFixture(t)
	f.testimonials.testimonials = []domain.Testimonial{
		{ID: "t1", Author: "Nour", Rating: 5, IsApproved: true},
		{ID: "t2", Author: "Sami", Rating: 4},
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/testimonials", nil), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"Nour"`) || strings.Contains(body, `"Sami"`) {
		t.Fatalf("expected only approved testimonials, got %s", body)
	}
}

func TestCreateTestimonial_RatingBounds(t *testing.T) {
	f := newFixture(t)

	body := `{"author":"Nour","body":"Superbe qualité","rating":9}`
	req := httptest.NewRequest(http.MethodPost, "/api/testimonials", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}
