package transform

type Config struct {
	MaxDimension int `yaml:"max_dimension"`
	JPEGQuality  int `yaml:"jpeg_quality"`
	// MaxPixels caps width*height as declared by the image header.
	MaxPixels int64 `yaml:"max_pixels"`
}
