package schema_test

import (
	"errors"
	"testing"

	"github.com/d4rkang3l/json-crdt/schema"
)

type counter struct {
	N int
}

func TestConstructUsesDefault(t *testing.T) {
	s := schema.New[counter]("counter", func() (counter, error) {
		return counter{N: 0}, nil
	})
	v, err := s.Construct()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.N != 0 {
		t.Fatalf("expected zero counter, got %+v", v)
	}
}

func TestConstructNilDefaultErrors(t *testing.T) {
	s := schema.Schema[counter]{ID: "counter"}
	_, err := s.Construct()
	if err == nil {
		t.Fatalf("expected an error for a nil Default")
	}
	var ce *schema.ConstructionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a *ConstructionError, got %T", err)
	}
}

func TestConstructPropagatesConstructorError(t *testing.T) {
	wantErr := errors.New("boom")
	s := schema.New[counter]("counter", func() (counter, error) {
		return counter{}, wantErr
	})
	_, err := s.Construct()
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped %v, got %v", wantErr, err)
	}
}
