package httpds

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestRemote(url string, maxRetries int) *Remote {
	r := NewRemote(Config{URL: url, MaxRetries: maxRetries})
	r.sleep = func(time.Duration) {} // no real backoff in tests
	return r
}

func TestOpenSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "company,total\nCasper,78\n")
	}))
	defer srv.Close()

	rc, err := newTestRemote(srv.URL, 0).Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	b, _ := io.ReadAll(rc)
	if !strings.HasPrefix(string(b), "company,total") {
		t.Fatalf("got %q", b)
	}
}

func TestOpenRetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	rc, err := newTestRemote(srv.URL, 3).Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	if got := calls.Load(); got != 3 {
		t.Fatalf("server calls = %d, want 3", got)
	}
}

func TestOpenRetriesOn429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	if _, err := newTestRemote(srv.URL, 1).Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
}

func TestOpenExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestRemote(srv.URL, 2).Open(context.Background())
	if err == nil {
		t.Fatal("want error after retries exhausted")
	}
	if !strings.Contains(err.Error(), "retries exhausted") {
		t.Fatalf("err = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("server calls = %d, want 3 (initial + 2 retries)", got)
	}
}

func TestOpenTerminal4xxDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestRemote(srv.URL, 3).Open(context.Background())
	if err == nil {
		t.Fatal("want error for 404")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("server calls = %d, want 1 (no retries on terminal status)", got)
	}
}

func TestOpenCanceledContextStopsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r := newTestRemote(srv.URL, 5)
	r.sleep = func(time.Duration) { cancel() }

	_, err := r.Open(ctx)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
