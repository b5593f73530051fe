package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(CheckResponse{OK: req.Level == 0 && req.Answer == "vr204"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	ok, err := c.Verify(context.Background(), 0, "vr204")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("expected accepted answer")
	}

	ok, err = c.Verify(context.Background(), 1, "vr204")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("expected rejected answer")
	}
}

func TestClientErrorsOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Verify(context.Background(), 0, "vr204"); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestClientErrorsOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Verify(context.Background(), 0, "vr204"); err == nil {
		t.Error("expected error on malformed response")
	}
}

func TestClientErrorsOnUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Verify(context.Background(), 0, "vr204"); err == nil {
		t.Error("expected error when the verifier is down")
	}
}
