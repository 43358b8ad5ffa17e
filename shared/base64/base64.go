// Package base64 handles data URIs ("data:image/png;base64,....") sent in
// JSON bodies in place of multipart uploads.
package base64

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

var ErrNotDataURI = errors.New("value is not a base64 data uri")

func GetContentType(file string) string {
	end := strings.Index(file, base64Marker)
	if !strings.HasPrefix(file, dataPrefix) || end < len(dataPrefix) {
		return ""
	}

	return file[len(dataPrefix):end]
}

// Decode splits a data URI into its content type and raw bytes.
func Decode(dataURI string) (contentType string, data []byte, err error) {
	contentType = GetContentType(dataURI)
	if contentType == "" {
		return "", nil, ErrNotDataURI
	}

	payload := dataURI[strings.Index(dataURI, base64Marker)+len(base64Marker):]

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data uri: %w", err)
	}

	return contentType, data, nil
}

// Extension maps an image content type to a file extension.
func Extension(contentType string) string {
	_, ext, found := strings.Cut(contentType, "/")
	if !found || ext == "" {
		return ""
	}

	if ext == "jpeg" {
		ext = "jpg"
	}

	return "." + ext
}
