package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
)

type loginBody struct {
	Username  string `json:"username" validate:"required,min=3"`
	AccessKey string `json:"access_key" validate:"required"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"marcus","access_key":"secret"}`))
	var body loginBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Username != "marcus" {
		t.Fatalf("unexpected username: %s", body.Username)
	}
}

func TestDecodeJSONBodyRejectsUnknownField(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"marcus","access_key":"secret","role":"admin"}`))
	var body loginBody
	err := DecodeJSONBody(req, &body)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyFieldMessages(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"ab"}`))
	var body loginBody
	err := DecodeJSONBody(req, &body)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %#v", typed.Details())
	}
	if details["username"] != "minimum 3" {
		t.Fatalf("unexpected username message: %q", details["username"])
	}
	if details["access_key"] != "champ obligatoire" {
		t.Fatalf("unexpected access_key message: %q", details["access_key"])
	}
}

func TestParseQueryIntBounds(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	if _, err := ParseQueryInt(req, "limit", 20, 1, 100); err == nil {
		t.Fatal("expected out of range error")
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	if _, err := ParseQueryInt(req, "limit", 20, 1, 100); err == nil {
		t.Fatal("expected numeric parse error")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	v, err := ParseQueryInt(req, "limit", 20, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 20 {
		t.Fatalf("expected default 20 got %d", v)
	}
}

func TestParsePathUUID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	parsed, err := ParsePathUUID(id.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: %s != %s", parsed, id)
	}

	if _, err := ParsePathUUID("not-a-uuid"); err == nil {
		t.Fatal("expected error for malformed id")
	}
	if _, err := ParsePathUUID(""); err == nil {
		t.Fatal("expected error for empty id")
	}
}
