package types

import (
	"strconv"
)

// Image is one captured photo, held in memory for the life of a draft
type Image struct {
	// Original file name, used as the multipart file name
	Name        string
	ContentType string
	Data        []byte
	// Hex SHA-256 of Data, filled in when the file is read. Empty when the
	// image was built in memory.
	SHA256 string
}

func (i *Image) Size() int {
	if i == nil {
		return 0
	}
	return len(i.Data)
}

type Location struct {
	Latitude  float64 `json:"latitude"  validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Display formats are fixed to 6 decimal places
func (l Location) LatitudeString() string {
	return strconv.FormatFloat(l.Latitude, 'f', 6, 64)
}

func (l Location) LongitudeString() string {
	return strconv.FormatFloat(l.Longitude, 'f', 6, 64)
}

func (l Location) String() string {
	return l.LatitudeString() + "," + l.LongitudeString()
}

// Body returned by the submission endpoint. Every field is optional.
type QueryResponse struct {
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
}
