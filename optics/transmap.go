package optics

import (
	"image"
	"image/png"
	"io"
)

// TransmissionMap is a rasterized transmission mask evaluated in the local
// XY plane of a surface: cols x rows samples of [0,1] transmittance, laid
// out row-major with the given stride (in samples, normally == cols),
// covering a rectangle of half-extents hx,hy centered at the local origin.
//
// Grounded on gazed-vu's load/png.go (png.Decode(r) populates an
// image.Image) and texture.go's raw-pixel-buffer handling; here the decoded
// image is collapsed once, at load time, into a flat float64 buffer so
// sampling during tracing never touches image.Image's per-pixel interface
// dispatch.
type TransmissionMap struct {
	Cols, Rows int
	Stride     int
	Samples    []float64 // row-major, transmittance in [0,1].
	Hx, Hy     float64
}

// LoadTransmissionMapPNG decodes a grayscale PNG from r and builds a
// TransmissionMap covering a rectangle of half-extents hx,hy. Pixel
// intensity is interpreted linearly: black (0) is fully opaque, white
// (max) is fully transparent.
func LoadTransmissionMapPNG(r io.Reader, hx, hy float64) (*TransmissionMap, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, err
	}
	return NewTransmissionMapFromImage(img, hx, hy), nil
}

// NewTransmissionMapFromImage builds a TransmissionMap directly from a
// decoded image, useful for tests that construct synthetic rasters without
// a PNG round-trip.
func NewTransmissionMapFromImage(img image.Image, hx, hy float64) *TransmissionMap {
	b := img.Bounds()
	cols, rows := b.Dx(), b.Dy()
	samples := make([]float64, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r16, g16, b16, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			gray := (0.299*float64(r16) + 0.587*float64(g16) + 0.114*float64(b16)) / 65535
			samples[y*cols+x] = gray
		}
	}
	return &TransmissionMap{Cols: cols, Rows: rows, Stride: cols, Samples: samples, Hx: hx, Hy: hy}
}

// Sample returns the transmittance at local-frame coordinates (x, y),
// nearest-neighbor, clamped to the raster edges; points outside the
// rectangle [-hx,hx] x [-hy,hy] are fully opaque.
func (m *TransmissionMap) Sample(x, y float64) float64 {
	if m == nil {
		return 1
	}
	if x < -m.Hx || x > m.Hx || y < -m.Hy || y > m.Hy {
		return 0
	}
	fx := (x + m.Hx) / (2 * m.Hx) * float64(m.Cols)
	fy := (y + m.Hy) / (2 * m.Hy) * float64(m.Rows)
	col := int(fx)
	row := int(fy)
	if col < 0 {
		col = 0
	}
	if col >= m.Cols {
		col = m.Cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= m.Rows {
		row = m.Rows - 1
	}
	return m.Samples[row*m.Stride+col]
}
