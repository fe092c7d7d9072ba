package polli

import (
	"encoding/base64"
	"mime"
	"strings"
)

// Image is a generated or fetched image.
type Image struct {
	Data        []byte
	ContentType string
	// Seed is the seed sent with a generation request, zero for fetches.
	Seed int
	// URL is the request URL without credentials.
	URL string
}

// Base64 returns the image encoded as standard base64.
func (i *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL returns the image as a data: URL.
func (i *Image) DataURL() string {
	return DataURL(i.ContentType, i.Data)
}

// Audio is synthesized speech.
type Audio struct {
	Data     []byte
	MimeType string
}

// Base64 returns the audio encoded as standard base64.
func (a *Audio) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Data)
}

// DataURL returns the audio as a data: URL.
func (a *Audio) DataURL() string {
	return DataURL(a.MimeType, a.Data)
}

// DataURL builds a base64 data: URL for data.
func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// MediaType strips parameters from a Content-Type header value, returning
// fallback when the header is empty or unparsable.
func MediaType(header, fallback string) string {
	if header == "" {
		return fallback
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return fallback
	}
	return strings.ToLower(mt)
}
