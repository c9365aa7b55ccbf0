package raster

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	_ "golang.org/x/image/tiff"
)

var white = color.RGBA{255, 255, 255, 255}

func TestNewFrameBuffer(t *testing.T) {
	bg := color.RGBA{10, 20, 30, 255}
	fb := NewFrameBuffer(4, 3, bg)

	assert.Equal(t, image.Rect(0, 0, 4, 3), fb.Bounds())
	assert.Equal(t, bg, fb.GetPixel(0, 0))
	assert.Equal(t, bg, fb.GetPixel(3, 2))
	assert.Equal(t, color.RGBA{}, fb.GetPixel(4, 0))

	fb.SetPixel(1, 1, color.Black)
	fb.SetPixel(-1, 10, color.Black)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, fb.GetPixel(1, 1))
}

func TestNormalizeFormat(t *testing.T) {
	for in, want := range map[string]string{
		"png": "png", "PNG": "png", ".jpg": "jpeg", "jpeg": "jpeg",
		"gif": "gif", "bmp": "bmp", "tif": "tiff", "TIFF": "tiff",
	} {
		got, err := NormalizeFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := NormalizeFormat("webp")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, Formats(), "jpg")
}

func TestEncode_RoundTrip(t *testing.T) {
	fb := NewFrameBuffer(40, 30, white)
	for y := 6; y < 15; y++ {
		for x := 5; x < 16; x++ {
			fb.SetPixel(x, y, color.Black)
		}
	}

	for _, format := range []string{"png", "jpeg", "gif", "bmp", "tiff"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, fb.Encode(&buf, format, 300))

			img, decoded, err := image.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, format, decoded)
			assert.Equal(t, fb.Bounds(), img.Bounds())

			r, _, _, _ := img.At(0, 0).RGBA()
			assert.Greater(t, r, uint32(0xf000))
			r, _, _, _ = img.At(10, 10).RGBA()
			assert.Less(t, r, uint32(0x2000))
		})
	}

	err := fb.Encode(&bytes.Buffer{}, "webp", 300)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncodePNG_DPI(t *testing.T) {
	fb := NewFrameBuffer(8, 8, white)

	data, err := fb.EncodePNG(300)
	require.NoError(t, err)
	assert.InDelta(t, 300, ReadPHYs(data), 0.01)

	_, _, err = image.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	data, err = fb.EncodePNG(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ReadPHYs(data))
}

func TestEncode_DPI(t *testing.T) {
	fb := NewFrameBuffer(16, 12, white)

	var buf bytes.Buffer
	require.NoError(t, fb.Encode(&buf, "jpg", 300))
	assert.Equal(t, 300.0, ReadJFIFDensity(buf.Bytes()))
	img, _, err := image.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, fb.Bounds(), img.Bounds())

	buf.Reset()
	require.NoError(t, fb.Encode(&buf, "tiff", 150.5))
	assert.InDelta(t, 150.5, ReadTIFFResolution(buf.Bytes()), 0.001)
	img, _, err = image.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, fb.Bounds(), img.Bounds())

	// DPI 0 では解像度を書き込まない
	buf.Reset()
	require.NoError(t, fb.Encode(&buf, "jpeg", 0))
	assert.Equal(t, 0.0, ReadJFIFDensity(buf.Bytes()))

	assert.Equal(t, 0.0, ReadTIFFResolution([]byte("not a tiff")))
	assert.Equal(t, 0.0, ReadJFIFDensity([]byte{0xFF, 0xD8}))
}

func TestDrawText(t *testing.T) {
	f, err := opentype.Parse(goregular.TTF)
	require.NoError(t, err)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 40, DPI: 72})
	require.NoError(t, err)
	defer face.Close()

	fb := NewFrameBuffer(400, 100, white)
	rc := NewRasterContext(fb)

	text := &Text{X: 20, Y: 10, Content: "HIH"}
	end := rc.DrawText(face, text, color.Black)
	assert.Greater(t, end, 20)
	assert.InDelta(t, 20+rc.MeasureText(face, "HIH"), end, 1)

	bounds := rc.TextBounds(face, text)
	// 上端揃え: 大文字は行の上端より下、アセント内に収まる
	assert.GreaterOrEqual(t, bounds.Min.Y, 10)
	assert.LessOrEqual(t, bounds.Max.Y, 10+face.Metrics().Ascent.Ceil()+1)

	dark := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 400; x++ {
			if fb.GetPixel(x, y).R < 128 {
				dark++
				assert.True(t, image.Pt(x, y).In(bounds.Inset(-1)), "pixel (%d,%d) outside %v", x, y, bounds)
			}
		}
	}
	assert.Greater(t, dark, 50)

	// 空文字は何もしない
	assert.Equal(t, 5, rc.DrawText(face, &Text{X: 5, Y: 5}, color.Black))
}
