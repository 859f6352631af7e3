package model

import "time"

// Object is the metadata record of one ingested media item.
type Object struct {
	ID           string    `bson:"_id" json:"id"`
	Title        string    `bson:"title,omitempty" json:"title,omitempty"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	OriginalName string    `bson:"original_name" json:"originalName"`
	MimeType     string    `bson:"mime_type" json:"mimeType"`
	Size         int64     `bson:"size" json:"size"`
	Width        *int      `bson:"width,omitempty" json:"width,omitempty"`
	Height       *int      `bson:"height,omitempty" json:"height,omitempty"`
	Bucket       string    `bson:"bucket,omitempty" json:"-"`
	BlobKey      string    `bson:"blob_key,omitempty" json:"blobKey,omitempty"`
	BlobURL      string    `bson:"blob_url,omitempty" json:"blobUrl,omitempty"`
	Status       Status    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasBlob reports whether the record points at a stored blob.
func (o *Object) HasBlob() bool {
	return o.BlobKey != ""
}

// ObjectUpdate is a partial mutation of an Object. Nil fields are left untouched.
// When FromStatuses is non-empty the update only applies while the stored status
// is one of them.
type ObjectUpdate struct {
	Title        *string
	Description  *string
	Status       *Status
	BlobKey      *string
	BlobURL      *string
	Width        *int
	Height       *int
	FromStatuses []Status
}

// StatusUpdate builds a guarded transition into next.
func StatusUpdate(next Status) ObjectUpdate {
	return ObjectUpdate{
		Status:       &next,
		FromStatuses: AllowedFrom(next),
	}
}

// IsEmpty reports whether the update changes no field.
func (u ObjectUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.BlobKey == nil && u.BlobURL == nil && u.Width == nil && u.Height == nil
}
