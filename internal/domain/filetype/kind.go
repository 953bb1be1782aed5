package filetype

import (
	"fmt"
	"strings"
)

// Kind is the semantic type of a workspace file.
type Kind uint8

const (
	Other Kind = iota
	HTML
	CSS
	JS
	JPG
	PNG
	MP4
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{HTML, CSS, JS, JPG, PNG, MP4, Other}

var kindNames = [...]string{
	Other: "other",
	HTML:  "html",
	CSS:   "css",
	JS:    "js",
	JPG:   "jpg",
	PNG:   "png",
	MP4:   "mp4",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// ParseKind maps a kind name ("html", "css", ...) to its Kind.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return Other, false
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid file kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name. Unknown names decode to Other so that
// persisted trees written by newer builds still load.
func (k *Kind) UnmarshalText(b []byte) error {
	*k, _ = ParseKind(string(b))
	return nil
}

// Extension returns the canonical extension including the dot, or "" for Other.
func (k Kind) Extension() string {
	switch k {
	case HTML:
		return ".html"
	case CSS:
		return ".css"
	case JS:
		return ".js"
	case JPG:
		return ".jpg"
	case PNG:
		return ".png"
	case MP4:
		return ".mp4"
	default:
		return ""
	}
}

// MediaType returns the canonical MIME type.
func (k Kind) MediaType() string {
	switch k {
	case HTML:
		return "text/html"
	case CSS:
		return "text/css"
	case JS:
		return "text/javascript"
	case JPG:
		return "image/jpeg"
	case PNG:
		return "image/png"
	case MP4:
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}

// IsCode reports whether the kind holds editable text.
func (k Kind) IsCode() bool {
	return k == HTML || k == CSS || k == JS
}

// IsMedia reports whether the kind holds an embedded binary payload.
func (k Kind) IsMedia() bool {
	return k.IsImage() || k.IsVideo()
}

// IsImage reports whether the kind previews as an image.
func (k Kind) IsImage() bool {
	return k == JPG || k == PNG
}

// IsVideo reports whether the kind previews as a video.
func (k Kind) IsVideo() bool {
	return k == MP4
}

// Icon returns the icon class the UI shows next to the file.
func (k Kind) Icon() string {
	switch k {
	case HTML, CSS, JS:
		return "fa-file-code file-icon-" + k.String()
	case JPG, PNG:
		return "fa-file-image file-icon-" + k.String()
	case MP4:
		return "fa-file-video file-icon-" + k.String()
	default:
		return "fa-file"
	}
}
