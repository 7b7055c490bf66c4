package gemini

import (
	"context"
	"errors"
	"testing"
)

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  AIzaXYZ  ":   "AIzaXYZ",
		`"AIzaXYZ"`:     "AIzaXYZ",
		`'AIzaXYZ'`:     "AIzaXYZ",
		" \"AIzaXYZ\"\n": "AIzaXYZ",
		"":              "",
	}
	for in, want := range cases {
		if got := NormalizeKey(in); got != want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := (Config{}).Validate(); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("Validate() error = %v, want ErrMissingKey", err)
	}
	if err := (Config{APIKey: "sk-1234567890abcdef"}).Validate(); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("Validate() error = %v, want ErrInvalidKey", err)
	}
	if err := (Config{APIKey: `"AIzaSyExample"`}).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestMaskKey(t *testing.T) {
	t.Parallel()

	if got := MaskKey("AIzaSyA1234567890WXYZ"); got != "AIzaSyA123...WXYZ" {
		t.Fatalf("MaskKey() = %q", got)
	}
	if got := MaskKey("short"); got != "short" {
		t.Fatalf("MaskKey() = %q", got)
	}
}

func TestNewClientRejectsBadKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(context.Background(), Config{APIKey: "nope"}); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("NewClient() error = %v, want ErrInvalidKey", err)
	}
}
