package httpserver

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todecor/internal/domain"
)

func TestAdmin_ForbiddenForNonAdmin(t *testing.T) {
	f := newFixture(t)
	f.identity.user = &domain.User{ID: "u1", Email: "user@example.com"}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := f.do(req, nil)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdmin_UnauthorizedWithoutToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil), nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func asAdmin(f *fixture, req *http.Request) *http.Request {
	f.identity.user = &domain.User{ID: "admin", Email: "admin@example.com"}
	f.identity.admin = true
	req.Header.Set("Authorization", "Bearer tok")
	return req
}

func TestAdminCreateProduct(t *testing.T) {
	f := newFixture(t)

	body := `{"name":"Miroir doré","slug":"miroir-dore","price":"240.5","category":"miroirs"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(asAdmin(f, req), nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if len(f.products.created) != 1 || f.products.created[0].Slug != "miroir-dore" {
		t.Fatalf("unexpected created products: %+v", f.products.created)
	}
	if !f.products.created[0].Price.Equal(dec("240.5")) {
		t.Fatalf("unexpected price: %s", f.products.created[0].Price)
	}
}

func TestAdminUpdateOrderStatus_UnknownStatusRejected(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/o1/status", strings.NewReader(`{"status":"teleported"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(asAdmin(f, req), nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	f.orders.orders = []domain.Order{{ID: "o1", UserID: "u1", Status: domain.OrderStatusPending}}

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/o1/status", strings.NewReader(`{"status":"shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(asAdmin(f, req), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if f.orders.statuses["o1"] != domain.OrderStatusShipped {
		t.Fatalf("status not updated: %+v", f.orders.statuses)
	}
}

func TestAdminOrderInvoice_RendersHTML(t *testing.T) {
	f := newFixture(t)
	f.orders.orders = []domain.Order{{
		ID:          "o1",
		UserID:      "u1",
		OrderNumber: "CMD-1700000000000",
		TotalAmount: dec("300"),
		VATAmount:   dec("57"),
		Status:      domain.OrderStatusPending,
		Lines: []domain.OrderLine{
			{ID: "l1", OrderID: "o1", ProductID: "p1", Quantity: 3, UnitPrice: dec("100")},
		},
	}}

	rec := f.do(asAdmin(f, httptest.NewRequest(http.MethodGet, "/api/admin/orders/o1/invoice", nil)), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("expected an HTML response, got %q", got)
	}
	body := rec.Body.String()
	for _, want := range []string{"FACTURE", "CMD-1700000000000", "Vase artisanal", "357.00"} {
		if !strings.Contains(body, want) {
			t.Fatalf("invoice missing %q:\n%s", want, body)
		}
	}
}

func TestAdminUpload(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "vase.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("jpegbytes")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := f.do(asAdmin(f, req), nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "/uploads/products/vase.jpg") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAdminApproveTestimonial(t *testing.T) {
	f := newFixture(t)
	f.testimonials.testimonials = []domain.Testimonial{{ID: "t1", Author: "Nour", Rating: 5}}

	rec := f.do(asAdmin(f, httptest.NewRequest(http.MethodPost, "/api/admin/testimonials/t1/approve", nil)), nil)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rec.Code, rec.Body.String())
	}
	if len(f.testimonials.approved) != 1 || f.testimonials.approved[0] != "t1" {
		t.Fatalf("approve not recorded: %+v", f.testimonials.approved)
	}
}
