package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestBodyParserJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/income", strings.NewReader(`{"amount":"12.34","date":"2024-06-01"}`))
	r.Header.Set("Content-Type", "application/json")

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !p.IsJSON() {
		t.Fatal("expected JSON detection")
	}
	if got := p.Get("amount"); got != "12.34" {
		t.Fatalf("amount = %q", got)
	}
	if got := p.Get("missing"); got != "" {
		t.Fatalf("missing = %q, want empty", got)
	}
}

func TestRequestBodyParserJSONNumbers(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/income", strings.NewReader(`{"amount":42.5}`))
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := p.Get("amount"); got != "42.5" {
		t.Fatalf("amount = %q, want 42.5", got)
	}
}

func TestRequestBodyParserForm(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader("category=rent&amount=850"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.IsJSON() {
		t.Fatal("form body detected as JSON")
	}
	if got := p.Get("category"); got != "rent" {
		t.Fatalf("category = %q", got)
	}
}

func TestRequestBodyParserMalformedJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/income", strings.NewReader(`{"amount":`))
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestRequestBodyParserEmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/income", nil)
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatalf("parse empty body: %v", err)
	}
	if got := p.Get("amount"); got != "" {
		t.Fatalf("amount = %q, want empty", got)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"a\x00b", "ab"},
		{"line\nbreak", "line\nbreak"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPathID(t *testing.T) {
	id, rest, err := pathID("/api/goals/42/contribute", "/api/goals/")
	if err != nil || id != 42 || rest != "contribute" {
		t.Fatalf("pathID = %d, %q, %v", id, rest, err)
	}

	id, rest, err = pathID("/api/income/7", "/api/income/")
	if err != nil || id != 7 || rest != "" {
		t.Fatalf("pathID = %d, %q, %v", id, rest, err)
	}

	for _, path := range []string{"/api/income/", "/api/income/abc", "/api/income/-1", "/api/income/0"} {
		if _, _, err := pathID(path, "/api/income/"); err == nil {
			t.Errorf("pathID(%q) accepted invalid id", path)
		}
	}
}
