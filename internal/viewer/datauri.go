package viewer

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImagePrefix marks a response body as an image data URI
const ImagePrefix = "data:image"

// ErrNotImageURI is returned for sources that are not image data URIs
var ErrNotImageURI = errors.New("not an image data URI")

// IsImageURI reports whether s is treated as an image
func IsImageURI(s string) bool {
	return strings.HasPrefix(s, ImagePrefix)
}

// DecodeDataURI returns the media type and payload of a data URI
func DecodeDataURI(uri string) (string, []byte, error) {
	if !IsImageURI(uri) {
		return "", nil, ErrNotImageURI
	}
	rest := strings.TrimPrefix(uri, "data:")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing ','", ErrNotImageURI)
	}

	params := strings.Split(meta, ";")
	mediaType := params[0]
	isBase64 := false
	for _, p := range params[1:] {
		if p == "base64" {
			isBase64 = true
		}
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return "", nil, fmt.Errorf("failed to decode base64 payload: %w", err)
		}
		return mediaType, data, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to unescape payload: %w", err)
	}
	return mediaType, []byte(unescaped), nil
}

// DecodeImage decodes the raster image carried by a data URI
func DecodeImage(uri string) (image.Image, error) {
	_, data, err := DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
