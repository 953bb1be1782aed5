package export

import (
	"fmt"
	"strings"
)

// Format is an archive container.
type Format string

const (
	Zip    Format = "zip"
	TarGz  Format = "tar.gz"
	TarZst Format = "tar.zst"
)

// Formats lists the supported formats.
var Formats = []Format{Zip, TarGz, TarZst}

// ParseFormat accepts a format name; empty selects zip.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zip":
		return Zip, nil
	case "tar.gz", "tgz", "gzip":
		return TarGz, nil
	case "tar.zst", "tzst", "zstd":
		return TarZst, nil
	}
	return "", fmt.Errorf("unsupported archive format %q", s)
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the media type served for the archive.
func (f Format) ContentType() string {
	switch f {
	case TarGz:
		return "application/gzip"
	case TarZst:
		return "application/zstd"
	default:
		return "application/zip"
	}
}
