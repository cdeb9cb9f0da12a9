package pixgen

import (
	"errors"
	"testing"

	"golang.org/x/exp/rand"
)

func TestRandomSelectAll(t *testing.T) {
	// selecting everything must yield exactly {0, ..., n-1} in some order
	for _, n := range []int{0, 1, 8, 100} {
		selected, err := RandomSelect(n, n, rand.NewSource(42))
		if err != nil {
			t.Fatalf("select %d of %d: %v", n, n, err)
		}
		if len(selected) != n {
			t.Fatalf("got %d indices, want %d", len(selected), n)
		}
		seen := make(map[int]bool)
		for _, idx := range selected {
			if idx < 0 || idx >= n {
				t.Errorf("index %d out of range [0, %d)", idx, n)
			}
			if seen[idx] {
				t.Errorf("index %d selected twice", idx)
			}
			seen[idx] = true
		}
	}
}

func TestRandomSelectTooMany(t *testing.T) {
	tests := []struct {
		name string
		n, k int
	}{
		{"more than available", 4, 10},
		{"one more than available", 8, 9},
		{"from empty", 0, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := RandomSelect(test.n, test.k, rand.NewSource(1))
			var argErr ArgumentError
			if !errors.As(err, &argErr) {
				t.Errorf("expected ArgumentError selecting %d of %d, got %v", test.k, test.n, err)
			}
		})
	}
}

func TestRandomSelectNegative(t *testing.T) {
	if _, err := RandomSelect(-1, 0, nil); err == nil {
		t.Error("expected error for negative n")
	}
	if _, err := RandomSelect(10, -1, nil); err == nil {
		t.Error("expected error for negative k")
	}
}

func TestRandomSelectSubset(t *testing.T) {
	selected, err := RandomSelect(1000, 100, rand.NewSource(7))
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) != 100 {
		t.Fatalf("got %d indices, want 100", len(selected))
	}
	seen := make(map[int]bool)
	for _, idx := range selected {
		if idx < 0 || idx >= 1000 {
			t.Errorf("index %d out of range [0, 1000)", idx)
		}
		if seen[idx] {
			t.Errorf("index %d selected twice", idx)
		}
		seen[idx] = true
	}
}

func TestRandomSelectReproducible(t *testing.T) {
	first, err := RandomSelect(500, 50, rand.NewSource(99))
	if err != nil {
		t.Fatal(err)
	}
	second, err := RandomSelect(500, 50, rand.NewSource(99))
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed diverged at position %d: %d vs %d", i, first[i], second[i])
		}
	}
}
