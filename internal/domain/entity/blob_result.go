package entity

type BlobUploadResult struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
	Size   int64  `json:"size"`
}

// TransformResult is the output of the image transformation step.
type TransformResult struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}
