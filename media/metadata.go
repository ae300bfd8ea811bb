package media

import (
	"io"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata holds provenance extracted from a registration photo's EXIF block
type Metadata struct {
	CameraMake  *string `json:"camera_make,omitempty"`
	CameraModel *string `json:"camera_model,omitempty"`
	TakenAt     *int64  `json:"taken_at,omitempty"`
}

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	// val string might have null chars at the end
	val := strings.Trim(strings.TrimRight(tag.String(), "\x00"), `"`)
	if val == "" {
		return nil
	}
	return &val
}

// ExtractMetadata reads EXIF provenance from an image stream. A missing or
// unparseable EXIF block is not an error; it returns nil.
func ExtractMetadata(r io.Reader) *Metadata {
	exifData, err := exif.Decode(r)
	if err != nil {
		return nil
	}

	meta := Metadata{
		CameraMake:  getString(exifData, exif.Make),
		CameraModel: getString(exifData, exif.Model),
	}

	if takenTime, err := exifData.DateTime(); err == nil {
		unix := takenTime.Unix()
		meta.TakenAt = &unix
	}

	if meta.CameraMake == nil && meta.CameraModel == nil && meta.TakenAt == nil {
		return nil
	}
	return &meta
}
