package codec

import (
	"errors"
	"testing"

	"github.com/corehost-labs/hostbridge/internal/domain"
)

func jsonResponse(code int, body string) domain.Response {
	return domain.Response{
		StatusCode: code,
		Headers:    domain.Header{"content-type": "application/json"},
		Body:       []byte(body),
	}
}

func TestDecodeResponseJSON(t *testing.T) {
	r := DecodeResponse(jsonResponse(200, `{"name":"test"}`))

	if r.DecodeErr != nil {
		t.Fatalf("unexpected decode error: %v", r.DecodeErr)
	}
	if !r.IsJSON() || !r.IsText() {
		t.Fatal("expected a JSON, textual result")
	}
	if r.Status != "200 OK" {
		t.Fatalf("unexpected status %q", r.Status)
	}

	var v struct {
		Name string `json:"name"`
	}
	if err := r.JSON(&v); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if v.Name != "test" {
		t.Fatalf("expected name=test, got %q", v.Name)
	}
}

func TestDecodeResponseBadJSON(t *testing.T) {
	r := DecodeResponse(jsonResponse(200, `{"name":`))

	if r.DecodeErr == nil {
		t.Fatal("expected a decode error for truncated JSON")
	}
	if !errors.Is(r.DecodeErr, domain.ErrDecode) {
		t.Fatalf("decode error must wrap ErrDecode, got %v", r.DecodeErr)
	}
	// Raw bytes stay retrievable.
	if string(r.Bytes()) != `{"name":` {
		t.Fatalf("raw bytes lost: %q", r.Bytes())
	}
	if err := r.JSON(&struct{}{}); !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("JSON on a failed decode must report ErrDecode, got %v", err)
	}
}

func TestDecodeResponseBadUTF8(t *testing.T) {
	r := DecodeResponse(domain.Response{
		StatusCode: 200,
		Headers:    domain.Header{"content-type": "text/plain"},
		Body:       []byte{0xff, 0xfe, 0x01},
	})

	if !errors.Is(r.DecodeErr, domain.ErrDecode) {
		t.Fatalf("expected ErrDecode for invalid UTF-8, got %v", r.DecodeErr)
	}
	if r.Text() != "" {
		t.Fatal("Text must be empty on decode failure")
	}
	if len(r.Bytes()) != 3 {
		t.Fatal("raw bytes must survive decode failure")
	}
}

func TestDecodeResponseBinary(t *testing.T) {
	body := []byte{0x89, 'P', 'N', 'G'}
	r := DecodeResponse(domain.Response{
		StatusCode: 200,
		Headers:    domain.Header{"content-type": "image/png"},
		Body:       body,
	})

	if r.DecodeErr != nil {
		t.Fatalf("binary body must not produce a decode error: %v", r.DecodeErr)
	}
	if r.IsText() || r.IsJSON() {
		t.Fatal("binary body must stay opaque")
	}
	if string(r.Bytes()) != string(body) {
		t.Fatal("body bytes must be preserved exactly")
	}
}

func TestDecodeResponseTextWithCharset(t *testing.T) {
	r := DecodeResponse(domain.Response{
		StatusCode: 200,
		Headers:    domain.Header{"content-type": "text/html; charset=utf-8"},
		Body:       []byte("<html></html>"),
	})
	if !r.IsText() || r.Text() != "<html></html>" {
		t.Fatalf("expected textual result, got %+v", r)
	}
	if r.IsJSON() {
		t.Fatal("html is not JSON")
	}
}

func TestDecodeResponseNoContentType(t *testing.T) {
	r := DecodeResponse(domain.Response{StatusCode: 204, Headers: domain.Header{}})
	if r.IsText() {
		t.Fatal("missing content type must stay opaque")
	}
	if r.Status != "204 No Content" {
		t.Fatalf("unexpected status %q", r.Status)
	}
}

func TestStatusText(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{200, "OK"},
		{302, "Found"},
		{404, "Not Found"},
		{500, "Internal Server Error"},
		{599, "Unknown Status"},
		{123, "Unknown Status"},
	}
	for _, tc := range cases {
		if got := StatusText(tc.code); got != tc.want {
			t.Fatalf("StatusText(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}
