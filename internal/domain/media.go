package domain

import "io"

type Bucket string

const (
	BucketRoomMedia    Bucket = "room_media"
	BucketServiceMedia Bucket = "service_media"
	BucketGalleryMedia Bucket = "gallery_media"
)

func (b Bucket) Valid() bool {
	switch b {
	case BucketRoomMedia, BucketServiceMedia, BucketGalleryMedia:
		return true
	}
	return false
}

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// UploadFile is one file of an upload batch.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}
