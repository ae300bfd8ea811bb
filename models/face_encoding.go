package models

import (
	"math"
)

// FaceEncoding represents one registered face encoding sample for a label.
// It corresponds to the 'face_encodings' table. Multiple rows may share a
// label (one person, several samples); rows are append-only.
type FaceEncoding struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Label        string `gorm:"not null;index" json:"label"`
	EncodingData []byte `gorm:"not null;column:encoding" json:"-"` // little-endian float32 vector as BLOB
	CreatedAt    int64  `gorm:"not null" json:"created_at"`        // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (FaceEncoding) TableName() string {
	return "face_encodings"
}

// GetEncoding converts the BLOB data to []float64
func (fe *FaceEncoding) GetEncoding() []float64 {
	if len(fe.EncodingData) == 0 {
		return nil
	}

	encoding := make([]float64, len(fe.EncodingData)/4) // 4 bytes per float32
	for i := 0; i < len(encoding); i++ {
		offset := i * 4
		bits := uint32(fe.EncodingData[offset]) |
			uint32(fe.EncodingData[offset+1])<<8 |
			uint32(fe.EncodingData[offset+2])<<16 |
			uint32(fe.EncodingData[offset+3])<<24
		encoding[i] = float64(math.Float32frombits(bits))
	}
	return encoding
}

// SetEncoding converts []float64 to BLOB data, storing float32 precision
func (fe *FaceEncoding) SetEncoding(encoding []float64) {
	if len(encoding) == 0 {
		fe.EncodingData = nil
		return
	}

	fe.EncodingData = make([]byte, len(encoding)*4) // 4 bytes per float32
	for i, val := range encoding {
		offset := i * 4
		bits := math.Float32bits(float32(val))
		fe.EncodingData[offset] = byte(bits)
		fe.EncodingData[offset+1] = byte(bits >> 8)
		fe.EncodingData[offset+2] = byte(bits >> 16)
		fe.EncodingData[offset+3] = byte(bits >> 24)
	}
}
