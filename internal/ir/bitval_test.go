package ir

import "testing"

func TestNewBitValRejectsValueWiderThanWidth(t *testing.T) {
	if _, err := NewBitVal(2, 4); err == nil {
		t.Fatal("expected an error: 4 does not fit in 2 bits")
	}
	if _, err := NewBitVal(2, 3); err != nil {
		t.Fatalf("3 fits in 2 bits, got unexpected error: %v", err)
	}
}

func TestNewBitValRejectsNegativeWidth(t *testing.T) {
	if _, err := NewBitVal(-1, 0); err == nil {
		t.Fatal("expected an error for negative width")
	}
}

func TestBitValStringFormat(t *testing.T) {
	bv, err := NewBitVal(8, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := bv.String(), "8'd42"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
