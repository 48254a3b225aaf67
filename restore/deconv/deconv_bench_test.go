package deconv

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-deblur/restore/plane"
)

func BenchmarkRestore(b *testing.B) {
	sizes := []struct {
		w, h int
	}{
		{128, 96},
		{256, 256},
		{640, 480},
	}

	params := Params{Model: Motion, Angle: 3 * math.Pi / 4, Diameter: 22, NoiseLevel: 0.00316}

	for _, size := range sizes {
		img, _ := plane.New(size.w, size.h)
		for i := range img.Data {
			img.Data[i] = 0.5 + 0.5*math.Sin(float64(i)*0.01)
		}

		b.Run(fmt.Sprintf("%dx%d", size.w, size.h), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = Restore(img, params)
			}
		})
	}
}
