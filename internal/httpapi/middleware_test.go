package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDGeneratesUUID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected a uuid request id, got %q", seen)
	}
	if got := rr.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("response header %q does not match context id %q", got, seen)
	}
}

func TestRequestIDHonorsInbound(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetRequestID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set("X-Request-Id", "proxy-supplied")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)

	if seen != "proxy-supplied" {
		t.Fatalf("expected inbound id to be kept, got %q", seen)
	}
	if got := rr.Header().Get("X-Request-Id"); got != "proxy-supplied" {
		t.Fatalf("unexpected response header: %q", got)
	}
}

func TestRecovererWritesErrorEnvelope(t *testing.T) {
	h := Recoverer(nil, true)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if code := errorCode(t, rr); code != "internal_error" {
		t.Fatalf("unexpected error code: %s", code)
	}
}

func TestStatusRecorderDefaultsTo200(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: rr, status: http.StatusOK}

	if _, err := rec.Write([]byte("ok")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if rec.status != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.status)
	}
	if rec.bytes != 2 {
		t.Fatalf("unexpected byte count: %d", rec.bytes)
	}
}
