package workspace

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func ingest(t *testing.T, m *Manager, name, mediaType string, body []byte) (*File, error) {
	t.Helper()
	id, err := m.IngestUpload(context.Background(), Upload{
		UploadInfo: UploadInfo{Name: name, Size: int64(len(body)), MediaType: mediaType},
		Body:       bytes.NewReader(body),
	})
	if err != nil {
		return nil, err
	}
	p, _ := m.CurrentProject()
	_, f := p.FindFile(id)
	require.NotNil(t, f)
	return f, nil
}

func TestValidateUpload(t *testing.T) {
	m, _ := newTestManager(t)

	v := m.ValidateUpload(UploadInfo{Name: "big.mp4", Size: 6 * 1024 * 1024, MediaType: "video/mp4"})
	assert.False(t, v.Valid)
	assert.Equal(t, "File size exceeds 5MB limit", v.Error)

	v = m.ValidateUpload(UploadInfo{Name: "doc.pdf", Size: 1024, MediaType: "application/pdf"})
	assert.False(t, v.Valid)
	assert.Equal(t, "File type not supported", v.Error)

	assert.True(t, m.ValidateUpload(UploadInfo{Name: "logo.png", Size: 1024, MediaType: "image/png"}).Valid)
}

func TestIngestText(t *testing.T) {
	m, _ := newTestManager(t)

	f, err := ingest(t, m, "page.html", "text/html", []byte("<h1>uploaded</h1>"))
	require.NoError(t, err)
	assert.Equal(t, "page.html", f.Name)
	assert.Equal(t, filetype.HTML, f.Kind)
	assert.Equal(t, "<h1>uploaded</h1>", f.Content)
	assert.True(t, f.IsUploaded)
}

func TestIngestStripsBOMAndDirectories(t *testing.T) {
	m, _ := newTestManager(t)

	f, err := ingest(t, m, `C:\site\css\main.css`, "", append([]byte{0xEF, 0xBB, 0xBF}, "body{}"...))
	require.NoError(t, err)
	assert.Equal(t, "main.css", f.Name)
	assert.Equal(t, "body{}", f.Content)
}

func TestIngestMediaAsDataURI(t *testing.T) {
	m, _ := newTestManager(t)

	f, err := ingest(t, m, "logo.png", "image/png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, filetype.PNG, f.Kind)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngHeader), f.Content)

	mediaType, data, err := filetype.ParseDataURI(f.Content)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mediaType)
	assert.Equal(t, pngHeader, data)
}

func TestIngestSniffsUndeclaredType(t *testing.T) {
	m, _ := newTestManager(t)

	f, err := ingest(t, m, "upload", "", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, filetype.PNG, f.Kind)
	assert.True(t, strings.HasPrefix(f.Content, "data:image/png;base64,"))
}

func TestIngestRejections(t *testing.T) {
	m, _ := newTestManager(t)
	m.WithUploadLimit(16)
	before := m.Tree()

	_, err := ingest(t, m, "big.js", "text/javascript", bytes.Repeat([]byte("x"), 17))
	assert.ErrorIs(t, err, ErrUploadTooLarge)
	assert.ErrorIs(t, err, ErrUploadInvalid)

	// a lying Size still cannot push more than the ceiling through
	_, err = m.IngestUpload(context.Background(), Upload{
		UploadInfo: UploadInfo{Name: "big.js", Size: 1},
		Body:       bytes.NewReader(bytes.Repeat([]byte("x"), 64)),
	})
	assert.ErrorIs(t, err, ErrUploadTooLarge)

	_, err = ingest(t, m, "doc.pdf", "application/pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ErrUploadInvalid)
	assert.NotErrorIs(t, err, ErrUploadTooLarge)

	_, err = ingest(t, m, "  ", "text/css", []byte("a"))
	assert.ErrorIs(t, err, ErrBlankName)

	_, err = m.IngestUpload(context.Background(), Upload{UploadInfo: UploadInfo{Name: "a.css"}, FolderID: "folder_missing", Body: strings.NewReader("a")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, before, m.Tree())
}

func TestIngestHonorsCancellation(t *testing.T) {
	m, _ := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.IngestUpload(ctx, Upload{UploadInfo: UploadInfo{Name: "a.css"}, Body: strings.NewReader("a")})
	assert.ErrorIs(t, err, context.Canceled)
}

// gatedReader blocks its first Read until release is closed.
type gatedReader struct {
	started chan struct{}
	release chan struct{}
	r       *strings.Reader
	once    bool
}

func newGatedReader(s string) *gatedReader {
	return &gatedReader{started: make(chan struct{}), release: make(chan struct{}), r: strings.NewReader(s)}
}

func (g *gatedReader) Read(p []byte) (int, error) {
	if !g.once {
		g.once = true
		close(g.started)
		<-g.release
	}
	return g.r.Read(p)
}

type ingestResult struct {
	id  string
	err error
}

func TestUploadLandsInFolderTargetedAtStart(t *testing.T) {
	m, _ := newTestManager(t)
	original, _ := m.CurrentFolder()
	other, err := m.CreateFolder("other")
	require.NoError(t, err)

	body := newGatedReader("body { color: red }")
	done := make(chan ingestResult, 1)
	go func() {
		id, err := m.IngestUpload(context.Background(), Upload{UploadInfo: UploadInfo{Name: "late.css"}, Body: body})
		done <- ingestResult{id, err}
	}()

	<-body.started
	require.True(t, m.SwitchFolder(other))
	close(body.release)

	res := <-done
	require.NoError(t, res.err)

	p, _ := m.CurrentProject()
	folder, f := p.FindFile(res.id)
	require.NotNil(t, f)
	assert.Equal(t, original.ID, folder.ID)
	assert.Equal(t, other, m.Tree().CurrentFolderID, "selection is not moved by the upload")
}

func TestUploadIntoDeletedFolderFails(t *testing.T) {
	m, _ := newTestManager(t)
	target, err := m.CreateFolder("doomed")
	require.NoError(t, err)

	body := newGatedReader("x")
	done := make(chan ingestResult, 1)
	go func() {
		id, err := m.IngestUpload(context.Background(), Upload{UploadInfo: UploadInfo{Name: "x.js"}, Body: body, FolderID: target})
		done <- ingestResult{id, err}
	}()

	<-body.started
	require.NoError(t, m.DeleteFolder(target))
	close(body.release)

	res := <-done
	assert.ErrorIs(t, res.err, ErrNotFound)
	assert.Empty(t, res.id)
}
