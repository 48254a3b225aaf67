package main

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/cwbudde/algo-deblur/restore/core"
	"github.com/cwbudde/algo-deblur/restore/plane"
)

func TestParseROI(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    *roiRect
		wantErr bool
	}{
		{name: "empty selects full frame", spec: "", want: nil},
		{name: "valid region", spec: "10,20,30,40", want: &roiRect{x: 10, y: 20, w: 30, h: 40}},
		{name: "origin region", spec: "0,0,1,1", want: &roiRect{x: 0, y: 0, w: 1, h: 1}},
		{name: "malformed", spec: "10,20,30", wantErr: true},
		{name: "not numeric", spec: "a,b,c,d", wantErr: true},
		{name: "zero width", spec: "0,0,0,4", wantErr: true},
		{name: "negative height", spec: "0,0,4,-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseROI(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseROI(%q) = %+v, want error", tt.spec, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseROI(%q) failed: %v", tt.spec, err)
			}
			if tt.want == nil {
				if got != nil {
					t.Fatalf("parseROI(%q) = %+v, want nil", tt.spec, got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("parseROI(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestApplyROI(t *testing.T) {
	src, err := plane.FromData(4, 3, []float64{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
	})
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}

	t.Run("nil region passes through", func(t *testing.T) {
		got, err := applyROI(src, nil)
		if err != nil {
			t.Fatalf("applyROI failed: %v", err)
		}
		if got != src {
			t.Error("applyROI with nil region should return the input plane")
		}
	})

	t.Run("crops to region", func(t *testing.T) {
		got, err := applyROI(src, &roiRect{x: 1, y: 1, w: 2, h: 2})
		if err != nil {
			t.Fatalf("applyROI failed: %v", err)
		}
		want := []float64{5, 6, 9, 10}
		if got.W != 2 || got.H != 2 {
			t.Fatalf("crop size = %dx%d, want 2x2", got.W, got.H)
		}
		for i, v := range want {
			if got.Data[i] != v {
				t.Errorf("crop Data[%d] = %v, want %v", i, got.Data[i], v)
			}
		}
	})

	t.Run("out of bounds region", func(t *testing.T) {
		_, err := applyROI(src, &roiRect{x: 3, y: 0, w: 2, h: 2})
		if !errors.Is(err, plane.ErrRegionBounds) {
			t.Errorf("applyROI error = %v, want ErrRegionBounds", err)
		}
	})
}

func TestGrayPlane(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.White)
	img.Set(1, 0, color.Black)

	p := grayPlane(img)
	if p.W != 2 || p.H != 1 {
		t.Fatalf("plane size = %dx%d, want 2x1", p.W, p.H)
	}
	if !core.NearlyEqual(p.At(0, 0), 1, 1e-3) {
		t.Errorf("white pixel = %v, want 1", p.At(0, 0))
	}
	if !core.NearlyEqual(p.At(1, 0), 0, 1e-3) {
		t.Errorf("black pixel = %v, want 0", p.At(1, 0))
	}
}

func TestChannelPlanes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 0, B: 128, A: 255})

	chs := channelPlanes(img)
	want := [3]float64{1, 0, 128.0 / 255}
	for i, ch := range chs {
		if ch.W != 1 || ch.H != 1 {
			t.Fatalf("channel %d size = %dx%d, want 1x1", i, ch.W, ch.H)
		}
		if !core.NearlyEqual(ch.At(0, 0), want[i], 1e-3) {
			t.Errorf("channel %d = %v, want %v", i, ch.At(0, 0), want[i])
		}
	}
}

func TestDegToRad(t *testing.T) {
	tests := []struct {
		deg  float64
		want float64
	}{
		{deg: 0, want: 0},
		{deg: 135, want: 3 * math.Pi / 4},
		{deg: 180, want: 0},
		{deg: 225, want: math.Pi / 4},
		{deg: -45, want: 3 * math.Pi / 4},
	}

	for _, tt := range tests {
		if got := degToRad(tt.deg); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("degToRad(%v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}
