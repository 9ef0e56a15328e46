// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package imagegen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateRequestShape(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte("png bytes"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.seedFn = func() int { return 42 }

	url, err := client.Generate(context.Background(), "a red fox in snow", "flux")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if gotPath != "/prompt/a%20red%20fox%20in%20snow" && gotPath != "/prompt/a red fox in snow" {
		t.Errorf("path = %q", gotPath)
	}
	for _, want := range []string{"model=flux", "seed=42", "width=1024", "height=1024", "nologo=true"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
	if !strings.HasPrefix(url, server.URL) {
		t.Errorf("resolved URL = %q", url)
	}
}

func TestGenerateFollowsRedirect(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image"))
	}))
	defer final.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/stored/image.png", http.StatusFound)
	}))
	defer redirecting.Close()

	client := NewClient(redirecting.URL)
	url, err := client.Generate(context.Background(), "prompt", "flux")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if url != final.URL+"/stored/image.png" {
		t.Errorf("resolved URL = %q, want redirect target", url)
	}
}

func TestGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Generate(context.Background(), "prompt", "flux"); err == nil {
		t.Error("expected error for HTTP 503")
	}
}
