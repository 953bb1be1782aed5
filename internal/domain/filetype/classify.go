package filetype

import (
	"fmt"
	"mime"
	"path"
	"strconv"
	"strings"
)

// DefaultMaxBytes is the upload size ceiling.
const DefaultMaxBytes int64 = 5 * 1024 * 1024

var extensionKinds = map[string]Kind{
	"html": HTML,
	"css":  CSS,
	"js":   JS,
	"jpg":  JPG,
	"jpeg": JPG,
	"png":  PNG,
	"mp4":  MP4,
}

var mediaTypeKinds = map[string]Kind{
	"text/html":              HTML,
	"text/css":               CSS,
	"text/javascript":        JS,
	"application/javascript": JS,
	"image/jpeg":             JPG,
	"image/png":              PNG,
	"video/mp4":              MP4,
}

// Ext returns the lowercased trailing dot-segment of name without the dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// BaseMediaType strips parameters ("; charset=...") and lowercases.
func BaseMediaType(mediaType string) string {
	if mediaType == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
		return mt
	}
	base, _, _ := strings.Cut(mediaType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// Classify maps a filename and declared media type to a Kind. A recognized
// extension wins; the media type is consulted only when it does not.
func Classify(filename, mediaType string) Kind {
	if k, ok := extensionKinds[Ext(filename)]; ok {
		return k
	}
	if k, ok := mediaTypeKinds[BaseMediaType(mediaType)]; ok {
		return k
	}
	return Other
}

// Reason identifies which upload check failed.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonTooLarge    Reason = "size"
	ReasonUnsupported Reason = "type"
)

// Validation is the outcome of an upload check.
type Validation struct {
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
	Reason Reason `json:"reason,omitempty"`
}

// Validator checks uploads against a size ceiling and the supported set.
type Validator struct {
	MaxBytes int64
}

// Validate checks an upload with the default 5 MiB ceiling.
func Validate(size int64, filename, mediaType string) Validation {
	return Validator{MaxBytes: DefaultMaxBytes}.Validate(size, filename, mediaType)
}

// Validate rejects payloads above the ceiling, then payloads whose media
// type and extension are both outside the supported set.
func (v Validator) Validate(size int64, filename, mediaType string) Validation {
	limit := v.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if size > limit {
		return Validation{
			Error:  fmt.Sprintf("File size exceeds %s limit", limitLabel(limit)),
			Reason: ReasonTooLarge,
		}
	}

	_, typeOK := mediaTypeKinds[BaseMediaType(mediaType)]
	_, extOK := extensionKinds[Ext(filename)]
	if !typeOK && !extOK {
		return Validation{Error: "File type not supported", Reason: ReasonUnsupported}
	}

	return Validation{Valid: true}
}

func limitLabel(limit int64) string {
	const mib = 1024 * 1024
	if limit%mib == 0 {
		return strconv.FormatInt(limit/mib, 10) + "MB"
	}
	return FormatSize(limit)
}

// FormatSize renders a byte count the way the upload dialog lists files:
// "0 Bytes", "512 Bytes", "1.5 KB", "5 MB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + units[i]
}
