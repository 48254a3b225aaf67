package plane

import (
	"errors"
	"math"
	"testing"
)

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{name: "zero width", w: 0, h: 4},
		{name: "zero height", w: 4, h: 0},
		{name: "negative", w: -1, h: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.w, tt.h); !errors.Is(err, ErrInvalidSize) {
				t.Fatalf("expected ErrInvalidSize, got %v", err)
			}
		})
	}
}

func TestFromDataMismatch(t *testing.T) {
	if _, err := FromData(2, 2, []float64{1, 2, 3}); !errors.Is(err, ErrDataMismatch) {
		t.Fatalf("expected ErrDataMismatch, got %v", err)
	}
}

func TestAtSetRow(t *testing.T) {
	p, err := New(3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.Set(2, 1, 7)
	if p.At(2, 1) != 7 {
		t.Fatalf("At(2,1) = %v, want 7", p.At(2, 1))
	}
	if p.Row(1)[2] != 7 {
		t.Fatalf("Row(1)[2] = %v, want 7", p.Row(1)[2])
	}
}

func TestCloneIsDeep(t *testing.T) {
	p, _ := FromData(2, 1, []float64{1, 2})
	q := p.Clone()
	q.Set(0, 0, 9)

	if p.At(0, 0) != 1 {
		t.Fatal("clone mutation leaked into original")
	}
}

func TestSumAndScale(t *testing.T) {
	p, _ := FromData(2, 2, []float64{1, 2, 3, 4})
	if p.Sum() != 10 {
		t.Fatalf("Sum = %v, want 10", p.Sum())
	}

	p.Scale(0.5)
	if p.Sum() != 5 {
		t.Fatalf("Sum after Scale = %v, want 5", p.Sum())
	}
}

func TestWrapPad(t *testing.T) {
	p, _ := FromData(2, 2, []float64{
		1, 2,
		3, 4,
	})

	out, err := p.WrapPad(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []float64{
		4, 3, 4, 3,
		2, 1, 2, 1,
		4, 3, 4, 3,
		2, 1, 2, 1,
	}
	if out.W != 4 || out.H != 4 {
		t.Fatalf("dims = %dx%d, want 4x4", out.W, out.H)
	}
	for i := range expected {
		if out.Data[i] != expected[i] {
			t.Fatalf("Data[%d] = %v, want %v", i, out.Data[i], expected[i])
		}
	}
}

func TestWrapPadInvalid(t *testing.T) {
	p, _ := New(2, 2)
	if _, err := p.WrapPad(0); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

func TestCrop(t *testing.T) {
	p, _ := FromData(3, 3, []float64{
		0, 1, 2,
		3, 4, 5,
		6, 7, 8,
	})

	out, err := p.Crop(1, 1, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []float64{4, 5, 7, 8}
	for i := range expected {
		if out.Data[i] != expected[i] {
			t.Fatalf("Data[%d] = %v, want %v", i, out.Data[i], expected[i])
		}
	}

	if _, err := p.Crop(2, 2, 2, 2); !errors.Is(err, ErrRegionBounds) {
		t.Fatalf("expected ErrRegionBounds, got %v", err)
	}
}

func TestRollMovesSamples(t *testing.T) {
	p, _ := New(3, 3)
	p.Set(0, 0, 1)

	out := p.Roll(1, 2)
	if out.At(1, 2) != 1 {
		t.Fatal("positive roll misplaced the sample")
	}

	out = p.Roll(-1, -1)
	if out.At(2, 2) != 1 {
		t.Fatal("negative roll misplaced the sample")
	}
}

func TestRollRoundTrip(t *testing.T) {
	p, _ := FromData(3, 2, []float64{1, 2, 3, 4, 5, 6})

	out := p.Roll(2, 1).Roll(-2, -1)
	for i := range p.Data {
		if math.Abs(out.Data[i]-p.Data[i]) != 0 {
			t.Fatalf("Data[%d] = %v, want %v", i, out.Data[i], p.Data[i])
		}
	}
}

func TestEmbedTopLeft(t *testing.T) {
	p, _ := New(3, 3)
	k, _ := FromData(2, 2, []float64{1, 2, 3, 4})

	if err := p.EmbedTopLeft(k); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.At(0, 0) != 1 || p.At(1, 1) != 4 || p.At(2, 2) != 0 {
		t.Fatal("unexpected embed layout")
	}

	big, _ := New(4, 4)
	if err := p.EmbedTopLeft(big); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}
