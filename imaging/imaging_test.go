package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/pthm-cable/gator/field"
)

func TestGrayscaleRamp(t *testing.T) {
	r := Grayscale()
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, r.At(0))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, r.At(1))
	assert.Equal(t, color.RGBA{128, 128, 128, 255}, r.At(0.5))
	assert.Equal(t, r.At(0), r.At(-3))
	assert.Equal(t, r.At(1), r.At(7))
	assert.Equal(t, r.At(0), r.At(float32(math.NaN())))
}

func TestNewRampEndpoints(t *testing.T) {
	r, err := NewRamp([]string{"#ff0000", "#00ff00", "#0000ff"})
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{255, 0, 0, 255}, r.At(0))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, r.At(1))
}

func TestNewRampSingleStop(t *testing.T) {
	r, err := NewRamp([]string{"#336699"})
	require.NoError(t, err)
	assert.Equal(t, r.At(0), r.At(1))
	assert.Equal(t, color.RGBA{0x33, 0x66, 0x99, 255}, r.At(0.3))
}

func TestNewRampEmptyIsGrayscale(t *testing.T) {
	r, err := NewRamp(nil)
	require.NoError(t, err)
	assert.Equal(t, Grayscale().At(0.25), r.At(0.25))
}

func TestNewRampBadHex(t *testing.T) {
	_, err := NewRamp([]string{"#000000", "chartreuse"})
	assert.Error(t, err)
}

func testField() *field.Field {
	f := field.New(4, 2, 2)
	for i := range f.Data {
		f.Data[i] = float32(i) / float32(len(f.Data)-1)
	}
	return f
}

func TestRender(t *testing.T) {
	f := testField()
	img := Render(f, 1, Grayscale())

	require.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	assert.Equal(t, Grayscale().At(f.At(0, 0, 1)), img.RGBAAt(0, 0))
	assert.Equal(t, Grayscale().At(f.At(3, 1, 1)), img.RGBAAt(3, 1))
}

func TestGray16(t *testing.T) {
	f := field.New(3, 1, 1)
	copy(f.Data, []float32{-1, 0.5, 2})
	img := Gray16(f, 0)

	assert.Equal(t, uint16(0), img.Gray16At(0, 0).Y)
	assert.Equal(t, uint16(32768), img.Gray16At(1, 0).Y)
	assert.Equal(t, uint16(65535), img.Gray16At(2, 0).Y)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"out/slice.png", FormatPNG, false},
		{"slice.TIF", FormatTIFF, false},
		{"slice.tiff", FormatTIFF, false},
		{"slice.bmp", FormatBMP, false},
		{"slice.jpg", "", true},
		{"slice", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, ".tiff", Ext("TIF"))
	assert.Empty(t, Ext("gif"))
}

func TestEncodeDecodes(t *testing.T) {
	img := Render(testField(), 0, Grayscale())

	decoders := map[string]func(*bytes.Buffer) (image.Image, error){
		FormatPNG:  func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) },
		FormatTIFF: func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) },
		FormatBMP:  func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) },
	}

	for format, decode := range decoders {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, img, format))

			got, err := decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, img.Bounds(), got.Bounds())

			r, g, b, _ := got.At(2, 1).RGBA()
			wr, wg, wb, _ := img.At(2, 1).RGBA()
			assert.Equal(t, []uint32{wr, wg, wb}, []uint32{r, g, b})
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1)), "webp")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Zero(t, buf.Len())
}
