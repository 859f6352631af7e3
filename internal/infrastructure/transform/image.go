package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"gallery/internal/domain/entity"
	"gallery/internal/domain/model"
	"gallery/pkg/utils"
)

const (
	defaultMaxDimension = 1280
	defaultJPEGQuality  = 85
	defaultMaxPixels    = 50_000_000
	outputContentType   = "image/jpeg"
)

var errEmptyInput = errors.New("empty image payload")

// ImageTransformer bounds the longer edge of an image and re-encodes it as JPEG.
// Smaller images keep their size.
type ImageTransformer struct {
	maxDimension int
	quality      int
	maxPixels    int64
}

func NewImageTransformer(cfg Config) *ImageTransformer {
	t := &ImageTransformer{
		maxDimension: defaultMaxDimension,
		quality:      defaultJPEGQuality,
		maxPixels:    defaultMaxPixels,
	}

	if cfg.MaxDimension > 0 {
		t.maxDimension = cfg.MaxDimension
	}

	if cfg.JPEGQuality > 0 && cfg.JPEGQuality <= 100 {
		t.quality = cfg.JPEGQuality
	}

	if cfg.MaxPixels > 0 {
		t.maxPixels = cfg.MaxPixels
	}

	return t
}

func (t *ImageTransformer) Transform(ctx context.Context, data []byte) (entity.TransformResult, error) {
	if err := ctx.Err(); err != nil {
		return entity.TransformResult{}, model.Retryable(err)
	}

	if len(data) == 0 {
		return entity.TransformResult{}, model.Permanent(errEmptyInput)
	}

	detected := mimetype.Detect(data)
	if !utils.IsImageMimeType(detected.String()) {
		return entity.TransformResult{}, model.Permanent(
			fmt.Errorf("unsupported content type %s", detected.String()))
	}

	// the header is checked before decoding so a forged size cannot force a huge allocation.
	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return entity.TransformResult{}, model.Permanent(fmt.Errorf("read %s header: %w", detected.String(), err))
	}

	if pixels := int64(header.Width) * int64(header.Height); pixels > t.maxPixels {
		return entity.TransformResult{}, model.Permanent(
			fmt.Errorf("image is %dx%d, exceeds %d pixels", header.Width, header.Height, t.maxPixels))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return entity.TransformResult{}, model.Permanent(fmt.Errorf("decode %s: %w", detected.String(), err))
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	switch {
	case width >= height && width > t.maxDimension:
		img = imaging.Resize(img, t.maxDimension, 0, imaging.Lanczos)
	case height > width && height > t.maxDimension:
		img = imaging.Resize(img, 0, t.maxDimension, imaging.Lanczos)
	}

	if err := ctx.Err(); err != nil {
		return entity.TransformResult{}, model.Retryable(err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(t.quality)); err != nil {
		return entity.TransformResult{}, model.Permanent(fmt.Errorf("encode jpeg: %w", err))
	}

	out := img.Bounds()

	return entity.TransformResult{
		Data:        buf.Bytes(),
		ContentType: outputContentType,
		Width:       out.Dx(),
		Height:      out.Dy(),
	}, nil
}
