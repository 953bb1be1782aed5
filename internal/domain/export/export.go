package export

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// ManifestName is the manifest entry at the archive root.
const ManifestName = "manifest.json"

// Options controls what goes into the archive.
type Options struct {
	Format     Format
	Exclude    []string // doublestar patterns matched against entry paths
	Minify     bool
	NoManifest bool
}

// Entry is one archive member.
type Entry struct {
	Path     string
	Data     []byte
	Kind     filetype.Kind
	Uploaded bool
}

// Manifest describes the archive contents.
type Manifest struct {
	Project    string          `json:"project"`
	ExportedAt time.Time       `json:"exportedAt"`
	Format     Format          `json:"format"`
	Files      []ManifestEntry `json:"files"`
}

// ManifestEntry describes one exported file.
type ManifestEntry struct {
	Path     string        `json:"path"`
	Kind     filetype.Kind `json:"type"`
	Size     int           `json:"size"`
	Uploaded bool          `json:"isUploaded,omitempty"`
}

// Result summarizes a written archive.
type Result struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// ValidatePatterns rejects malformed exclude globs.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

// Entries lists the archive members for a snapshot, folders then files in
// order. Duplicate paths get a numeric suffix.
func Entries(snap *workspace.Snapshot, opts Options) ([]Entry, error) {
	if snap == nil || snap.Project == nil {
		return nil, fmt.Errorf("no project to export")
	}
	if err := ValidatePatterns(opts.Exclude); err != nil {
		return nil, err
	}

	var min *minifier
	if opts.Minify {
		min = newMinifier()
	}

	seen := make(map[string]int)
	var entries []Entry
	for _, folder := range snap.Project.Folders {
		dir := cleanSegment(folder.Name, "folder")
		for _, f := range folder.Files {
			p := uniquePath(seen, dir+"/"+cleanSegment(f.Name, "file"))
			if excluded(p, opts.Exclude) {
				continue
			}

			data, err := fileBytes(f)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			if min != nil {
				data = min.apply(f.Kind, data)
			}
			entries = append(entries, Entry{Path: p, Data: data, Kind: f.Kind, Uploaded: f.IsUploaded})
		}
	}
	return entries, nil
}

// fileBytes decodes media data URIs to raw bytes and passes text through.
func fileBytes(f *workspace.File) ([]byte, error) {
	if f.Kind.IsMedia() && filetype.IsDataURI(f.Content) {
		_, data, err := filetype.ParseDataURI(f.Content)
		if err != nil {
			return nil, err
		}
		return data, nil
	}
	return []byte(f.Content), nil
}

func excluded(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

// cleanSegment makes a name usable as a single path element.
func cleanSegment(name, fallback string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return fallback
	}
	return name
}

func uniquePath(seen map[string]int, p string) string {
	n := seen[p]
	seen[p] = n + 1
	if n == 0 {
		return p
	}
	ext := path.Ext(p)
	candidate := strings.TrimSuffix(p, ext) + "-" + strconv.Itoa(n+1) + ext
	return uniquePath(seen, candidate)
}

// Filename is the download name: the project name plus the format
// extension.
func Filename(snap *workspace.Snapshot, format Format) string {
	name := "project"
	if snap != nil {
		name = cleanSegment(snap.Name, "project")
	}
	return name + format.Extension()
}

// BuildManifest describes entries.
func BuildManifest(snap *workspace.Snapshot, format Format, entries []Entry) Manifest {
	m := Manifest{
		Project:    snap.Name,
		ExportedAt: snap.Timestamp.UTC(),
		Format:     format,
		Files:      make([]ManifestEntry, 0, len(entries)),
	}
	for _, e := range entries {
		m.Files = append(m.Files, ManifestEntry{Path: e.Path, Kind: e.Kind, Size: len(e.Data), Uploaded: e.Uploaded})
	}
	return m
}

// Write streams the archive for snap to w.
func Write(ctx context.Context, w io.Writer, snap *workspace.Snapshot, opts Options) (*Result, error) {
	if opts.Format == "" {
		opts.Format = Zip
	}
	entries, err := Entries(snap, opts)
	if err != nil {
		return nil, err
	}
	if !opts.NoManifest {
		manifest, err := sonic.ConfigStd.MarshalIndent(BuildManifest(snap, opts.Format, entries), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		entries = append(entries, Entry{Path: ManifestName, Data: manifest})
	}

	cw := &countingWriter{w: w}
	modTime := snap.Timestamp
	if modTime.IsZero() {
		modTime = time.Now()
	}

	switch opts.Format {
	case Zip:
		err = writeZip(ctx, cw, entries, modTime)
	case TarGz:
		gz := gzip.NewWriter(cw)
		err = writeTar(ctx, gz, entries, modTime)
		if cerr := gz.Close(); err == nil {
			err = cerr
		}
	case TarZst:
		var zw *zstd.Encoder
		zw, err = zstd.NewWriter(cw)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		err = writeTar(ctx, zw, entries, modTime)
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	default:
		return nil, fmt.Errorf("unsupported archive format %q", opts.Format)
	}
	if err != nil {
		return nil, err
	}

	files := len(entries)
	if !opts.NoManifest {
		files--
	}
	return &Result{Files: files, Bytes: cw.n}, nil
}

func writeZip(ctx context.Context, w io.Writer, entries []Entry, modTime time.Time) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Path,
			Method:   zip.Deflate,
			Modified: modTime,
		})
		if err != nil {
			zw.Close()
			return fmt.Errorf("zip %s: %w", e.Path, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			zw.Close()
			return fmt.Errorf("zip %s: %w", e.Path, err)
		}
	}
	return zw.Close()
}

func writeTar(ctx context.Context, w io.Writer, entries []Entry, modTime time.Time) error {
	tw := tar.NewWriter(w)
	dirs := make(map[string]bool)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if dir := path.Dir(e.Path); dir != "." && !dirs[dir] {
			dirs[dir] = true
			if err := tw.WriteHeader(&tar.Header{
				Typeflag: tar.TypeDir,
				Name:     dir + "/",
				Mode:     0o755,
				ModTime:  modTime,
			}); err != nil {
				return fmt.Errorf("tar %s: %w", dir, err)
			}
		}
		if err := tw.WriteHeader(&tar.Header{
			Typeflag: tar.TypeReg,
			Name:     e.Path,
			Mode:     0o644,
			Size:     int64(len(e.Data)),
			ModTime:  modTime,
		}); err != nil {
			return fmt.Errorf("tar %s: %w", e.Path, err)
		}
		if _, err := tw.Write(e.Data); err != nil {
			return fmt.Errorf("tar %s: %w", e.Path, err)
		}
	}
	return tw.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
