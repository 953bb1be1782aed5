package filetype

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// ErrNotDataURI is returned by ParseDataURI for payloads without a data: header.
var ErrNotDataURI = errors.New("not a data URI")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sniff detects a media type from content, for uploads that declare none.
func Sniff(head []byte) string {
	return BaseMediaType(mimetype.Detect(head).String())
}

// DecodeText converts uploaded text to UTF-8. Valid UTF-8 passes through
// (minus a BOM); anything else goes through charset detection.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", fmt.Errorf("failed to detect charset: %w", err)
	}

	enc, name := charset.Lookup(result.Charset)
	if enc == nil {
		return "", fmt.Errorf("unsupported charset %q", result.Charset)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s text: %w", name, err)
	}
	return string(decoded), nil
}

// DataURI embeds data as a base64 data URI.
func DataURI(mediaType string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mediaType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mediaType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// IsDataURI reports whether s looks like a data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:") && strings.Contains(s, ",")
}

// ParseDataURI decodes a data URI into its media type and raw bytes.
// Both base64 and percent-encoded payloads are accepted.
func ParseDataURI(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, ErrNotDataURI
	}
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return "", nil, ErrNotDataURI
	}

	isBase64 := false
	params := strings.Split(header, ";")
	if n := len(params); n > 0 && strings.EqualFold(params[n-1], "base64") {
		isBase64 = true
		params = params[:n-1]
	}
	mediaType := "text/plain"
	if len(params) > 0 && params[0] != "" {
		mediaType = strings.ToLower(params[0])
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// tolerate unpadded payloads
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return "", nil, fmt.Errorf("failed to decode data URI: %w", err)
			}
		}
		return mediaType, data, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to unescape data URI: %w", err)
	}
	return mediaType, []byte(text), nil
}

// EncodeContent turns raw bytes into stored file content: a base64 data
// URI for media kinds, UTF-8 text for everything else. mediaType is used
// for the data URI when it agrees with kind.
func EncodeContent(kind Kind, mediaType string, data []byte) (string, error) {
	if !kind.IsMedia() {
		return DecodeText(data)
	}
	mediaType = BaseMediaType(mediaType)
	if mediaType == "" || Classify("", mediaType) != kind {
		mediaType = kind.MediaType()
	}
	return DataURI(mediaType, data), nil
}
