package transform

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery/internal/domain/model"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func TestTransform(t *testing.T) {
	tr := NewImageTransformer(Config{MaxDimension: 100})

	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"landscape is bounded by width", 400, 200, 100, 50},
		{"portrait is bounded by height", 200, 400, 50, 100},
		{"small image is not upscaled", 60, 40, 60, 40},
		{"square at the limit", 100, 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tr.Transform(context.Background(), pngBytes(t, tt.width, tt.height))
			require.NoError(t, err)

			assert.Equal(t, "image/jpeg", res.ContentType)
			assert.Equal(t, tt.wantW, res.Width)
			assert.Equal(t, tt.wantH, res.Height)

			decoded, err := imaging.Decode(bytes.NewReader(res.Data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, decoded.Bounds().Dx())
		})
	}
}

func TestTransformRejectsGarbage(t *testing.T) {
	tr := NewImageTransformer(Config{})

	_, err := tr.Transform(context.Background(), []byte("definitely not an image"))
	require.Error(t, err)
	assert.False(t, model.IsRetryable(err))

	_, err = tr.Transform(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, model.IsRetryable(err))
}

func TestTransformHonoursCancellation(t *testing.T) {
	tr := NewImageTransformer(Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Transform(ctx, pngBytes(t, 10, 10))
	require.Error(t, err)
	assert.True(t, model.IsRetryable(err))
}

// forgedPNG rewrites the IHDR of a tiny PNG so it declares w x h pixels.
func forgedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()

	data := pngBytes(t, 1, 1)

	// signature (8) + length (4) + "IHDR" (4), then width and height.
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	return data
}

func TestTransformRejectsOversizedImages(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		data func(t *testing.T) []byte
	}{
		{
			name: "forged header",
			cfg:  Config{},
			data: func(t *testing.T) []byte { return forgedPNG(t, 50000, 50000) },
		},
		{
			name: "above configured cap",
			cfg:  Config{MaxPixels: 100},
			data: func(t *testing.T) []byte { return pngBytes(t, 20, 20) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewImageTransformer(tt.cfg).Transform(context.Background(), tt.data(t))
			require.Error(t, err)
			assert.False(t, model.IsRetryable(err))
			assert.Contains(t, err.Error(), "exceeds")
		})
	}

	res, err := NewImageTransformer(Config{MaxPixels: 400}).Transform(context.Background(), pngBytes(t, 20, 20))
	require.NoError(t, err)
	assert.Equal(t, 20, res.Width)
}
