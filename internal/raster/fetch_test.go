package raster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testFetcher() *Fetcher {
	return &Fetcher{
		client:  http.DefaultClient,
		retries: 3,
		delay:   time.Millisecond,
	}
}

func TestFetcherReturnsBody(t *testing.T) {
	payload := []byte("tiff bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	body, err := testFetcher().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(body) != string(payload) {
		t.Errorf("Fetch body = %q, want %q", body, payload)
	}
}

func TestFetcherNon2xxIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testFetcher().Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrUpstreamFetch) {
		t.Fatalf("error = %v, want ErrUpstreamFetch", err)
	}
}

func TestFetcherRetriesUntilSuccess(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "try again", http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	body, err := testFetcher().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error after retries: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("Fetch body = %q, want %q", body, "ok")
	}
	if attempts != 3 {
		t.Errorf("server saw %d attempts, want 3", attempts)
	}
}

func TestFetcherGivesUpAfterRetries(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := testFetcher().Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrUpstreamFetch) {
		t.Fatalf("error = %v, want ErrUpstreamFetch", err)
	}
	if attempts != 3 {
		t.Errorf("server saw %d attempts, want 3", attempts)
	}
}

func TestFetcherRespectsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &Fetcher{client: http.DefaultClient, retries: 3, delay: time.Minute}
	if _, err := fetcher.Fetch(ctx, server.URL); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
