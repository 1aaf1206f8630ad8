package model

import (
	"errors"
	"testing"
)

func TestNewDrawRejectsMalformed(t *testing.T) {
	cases := map[string][]int{
		"short":        {1, 2, 3},
		"duplicate":    {1, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14},
		"out of range": {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 26},
		"zero":         {0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	}
	for name, numbers := range cases {
		_, err := NewDraw(numbers)
		var invalid *InvalidDrawError
		if !errors.As(err, &invalid) {
			t.Fatalf("%s: expected InvalidDrawError, got %v", name, err)
		}
	}
}

func TestNewDrawSortsNumbers(t *testing.T) {
	d, err := NewDraw([]int{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1})
	if err != nil {
		t.Fatalf("NewDraw failed: %v", err)
	}
	if d.String() != "01 02 03 04 05 06 07 08 09 10 11 12 13 14 15" {
		t.Fatalf("unexpected draw: %s", d)
	}
	if !d.Contains(7) || d.Contains(16) {
		t.Fatalf("Contains mismatch")
	}
}

func TestParsePlay(t *testing.T) {
	p, err := ParsePlay([]int{20, 19, 18, 17, 16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5})
	if err != nil {
		t.Fatalf("ParsePlay failed: %v", err)
	}
	if len(p) != 16 || p[0] != 5 {
		t.Fatalf("unexpected play: %v", p)
	}
	if _, err := ParsePlay([]int{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short play")
	}
}

func TestBetPrice(t *testing.T) {
	if price, ok := BetPrice(15); !ok || price != 3.50 {
		t.Fatalf("unexpected price for 15: %v %v", price, ok)
	}
	if _, ok := BetPrice(21); ok {
		t.Fatalf("expected no price for 21 numbers")
	}
}
