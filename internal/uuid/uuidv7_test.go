package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	a, b := New(), New()
	if a == b {
		t.Fatal("expected distinct ids")
	}
	if !IsValid(a) {
		t.Errorf("expected valid uuid, got %s", a)
	}
	if a[14] != '7' {
		t.Errorf("expected version 7, got %s", a)
	}
	if a > b {
		t.Errorf("expected time-ordered ids: %s then %s", a, b)
	}
}

func TestParse(t *testing.T) {
	id := New()
	got, err := Parse(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != id {
		t.Errorf("expected canonical %s, got %s", id, got)
	}
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid input")
	}
	if IsValid("") {
		t.Error("empty string must not be valid")
	}
}
