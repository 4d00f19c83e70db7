package secure

import (
	"bytes"
	"errors"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	expected := []byte("OPENAI_API_KEY=sk-secret")
	src := append([]byte(nil), expected...)

	p := Protect(src)
	defer p.Destroy()

	err := p.With(func(data []byte) error {
		if !bytes.Equal(data, expected) {
			t.Errorf("With() exposed %q, want %q", data, expected)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}
}

func TestPayloadWipesSource(t *testing.T) {
	src := []byte("TOKEN=abcdef123456")
	Protect(src)

	if bytes.Contains(src, []byte("abcdef")) {
		t.Error("source slice still holds plaintext after Protect()")
	}
}

func TestPayloadWithPropagatesError(t *testing.T) {
	p := Protect([]byte("x"))
	defer p.Destroy()

	sentinel := errors.New("parse failed")
	if err := p.With(func([]byte) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Errorf("With() error = %v, want %v", err, sentinel)
	}
}

func TestPayloadDestroyIsIdempotent(t *testing.T) {
	p := Protect([]byte("secret"))
	p.Destroy()
	p.Destroy()

	err := p.With(func(data []byte) error {
		if len(data) != 0 {
			t.Errorf("destroyed payload exposed %d bytes", len(data))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With() after Destroy() error = %v", err)
	}
}
