package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRobotsChecker_Allowed(t *testing.T) {
	var fetches atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		fmt.Fprint(w, "User-agent: *\nDisallow: /private/\nCrawl-delay: 2\n")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	checker := NewRobotsChecker("abyssal-tome/0.1", 5*time.Second)
	ctx := context.Background()

	allowed, delay, err := checker.Allowed(ctx, server.URL+"/api/public/cards/")
	if err != nil {
		t.Fatalf("Allowed failed: %v", err)
	}
	if !allowed {
		t.Error("Expected the public path to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("Expected 2s crawl delay, got %v", delay)
	}

	allowed, _, err = checker.Allowed(ctx, server.URL+"/private/secret")
	if err != nil {
		t.Fatalf("Allowed failed: %v", err)
	}
	if allowed {
		t.Error("Expected the private path to be disallowed")
	}

	// Both checks share one cached robots.txt fetch per host.
	if got := fetches.Load(); got != 1 {
		t.Errorf("Expected 1 robots.txt fetch, got %d", got)
	}
}

func TestRobotsChecker_UnreachableAllowsByDefault(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL + "/anything"
	server.Close() // connection refused from here on

	checker := NewRobotsChecker("abyssal-tome/0.1", time.Second)
	allowed, _, err := checker.Allowed(context.Background(), url)
	if err != nil {
		t.Fatalf("Allowed failed: %v", err)
	}
	if !allowed {
		t.Error("Expected unreachable robots.txt to allow")
	}
}

func TestRobotsChecker_MissingFileAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker("abyssal-tome/0.1", time.Second)
	allowed, _, err := checker.Allowed(context.Background(), server.URL+"/anything")
	if err != nil {
		t.Fatalf("Allowed failed: %v", err)
	}
	if !allowed {
		t.Error("Expected a missing robots.txt to allow")
	}
}
