package export

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

func snapshot() *workspace.Snapshot {
	return &workspace.Snapshot{
		Name:      "My Site",
		Timestamp: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
		Project: &workspace.Project{
			ID:   "project_1",
			Name: "My Site",
			Folders: []*workspace.Folder{
				{ID: "folder_1", Name: "Main", Files: []*workspace.File{
					{ID: "file_1", Name: "index.html", Kind: filetype.HTML, Content: "<html>\n  <body>  <p>hi</p>  </body>\n</html>"},
					{ID: "file_2", Name: "styles.css", Kind: filetype.CSS, Content: "body {\n  color: red;\n}\n"},
				}},
				{ID: "folder_2", Name: "assets", Files: []*workspace.File{
					{ID: "file_3", Name: "logo.png", Kind: filetype.PNG, Content: filetype.DataURI("image/png", pngBytes), IsUploaded: true},
					{ID: "file_4", Name: "logo.png", Kind: filetype.PNG, Content: ""},
				}},
			},
		},
	}
}

func readZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = b
	}
	return out
}

func readTar(t *testing.T, r io.Reader) map[string][]byte {
	t.Helper()
	tr := tar.NewReader(r)
	out := make(map[string][]byte)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if h.Typeflag != tar.TypeReg {
			continue
		}
		b, err := io.ReadAll(tr)
		require.NoError(t, err)
		out[h.Name] = b
	}
	return out
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Zip, "ZIP": Zip, "tar.gz": TarGz, "tgz": TarGz, "tar.zst": TarZst} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("rar")
	assert.Error(t, err)
}

func TestWriteZip(t *testing.T) {
	var buf bytes.Buffer
	res, err := Write(context.Background(), &buf, snapshot(), Options{Format: Zip})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Files)
	assert.Equal(t, int64(buf.Len()), res.Bytes)

	files := readZip(t, buf.Bytes())
	assert.Equal(t, "body {\n  color: red;\n}\n", string(files["Main/styles.css"]), "text is verbatim")
	assert.Equal(t, pngBytes, files["assets/logo.png"], "media is decoded")
	assert.Empty(t, files["assets/logo-2.png"], "duplicate name gets a suffix")
	require.Contains(t, files, ManifestName)

	var m Manifest
	require.NoError(t, sonic.Unmarshal(files[ManifestName], &m))
	assert.Equal(t, "My Site", m.Project)
	assert.Equal(t, Zip, m.Format)
	require.Len(t, m.Files, 4)
	assert.Equal(t, "Main/index.html", m.Files[0].Path)
	assert.Equal(t, filetype.PNG, m.Files[2].Kind)
	assert.Equal(t, len(pngBytes), m.Files[2].Size)
	assert.True(t, m.Files[2].Uploaded)
}

func TestWriteTarFormats(t *testing.T) {
	for _, format := range []Format{TarGz, TarZst} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			_, err := Write(context.Background(), &buf, snapshot(), Options{Format: format, NoManifest: true})
			require.NoError(t, err)

			var r io.Reader
			if format == TarGz {
				gz, err := gzip.NewReader(&buf)
				require.NoError(t, err)
				r = gz
			} else {
				zr, err := zstd.NewReader(&buf)
				require.NoError(t, err)
				defer zr.Close()
				r = zr
			}

			files := readTar(t, r)
			assert.Len(t, files, 4)
			assert.NotContains(t, files, ManifestName)
			assert.Equal(t, pngBytes, files["assets/logo.png"])
		})
	}
}

func TestExcludePatterns(t *testing.T) {
	entries, err := Entries(snapshot(), Options{Exclude: []string{"assets/**", "**/*.css"}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Main/index.html", entries[0].Path)

	_, err = Entries(snapshot(), Options{Exclude: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestMinify(t *testing.T) {
	entries, err := Entries(snapshot(), Options{Minify: true})
	require.NoError(t, err)

	assert.Equal(t, "body{color:red}", string(entries[1].Data))
	assert.NotContains(t, string(entries[0].Data), "\n")
	assert.Equal(t, pngBytes, entries[2].Data, "media is never minified")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "My Site.zip", Filename(snapshot(), Zip))
	assert.Equal(t, "a_b.tar.gz", Filename(&workspace.Snapshot{Name: "a/b"}, TarGz))
	assert.Equal(t, "project.tar.zst", Filename(&workspace.Snapshot{Name: " "}, TarZst))
}

func TestWriteRejectsMissingProject(t *testing.T) {
	_, err := Write(context.Background(), io.Discard, &workspace.Snapshot{}, Options{})
	assert.Error(t, err)
}

func TestWriteHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Write(ctx, io.Discard, snapshot(), Options{Format: TarGz})
	assert.ErrorIs(t, err, context.Canceled)
}
