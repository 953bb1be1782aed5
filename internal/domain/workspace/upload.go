package workspace

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/shared/id"
	"go.uber.org/zap"
)

// UploadInfo is what the client declares before sending bytes.
type UploadInfo struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	MediaType string `json:"mediaType"`
}

// Upload is one file to ingest. FolderID optionally names a folder of the
// current project; empty means the current folder.
type Upload struct {
	UploadInfo
	Body     io.Reader
	FolderID string
}

// ValidateUpload checks size and type without touching the tree.
func (m *Manager) ValidateUpload(info UploadInfo) filetype.Validation {
	return m.validator.Validate(info.Size, info.Name, info.MediaType)
}

// IngestUpload reads an uploaded file into the folder that was targeted
// when ingestion started. Media is stored as a base64 data URI, text is
// decoded to UTF-8. Ingestions are serialized; a folder deleted while the
// body is being read fails the upload with ErrNotFound.
func (m *Manager) IngestUpload(ctx context.Context, up Upload) (string, error) {
	m.uploadMu.Lock()
	defer m.uploadMu.Unlock()

	name := path.Base(strings.ReplaceAll(strings.TrimSpace(up.Name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		m.recorder.RecordUpload(filetype.Other.String(), 0, false)
		return "", ErrBlankName
	}

	projectID, folderID, err := m.uploadTarget(up.FolderID)
	if err != nil {
		m.recorder.RecordUpload(filetype.Other.String(), 0, false)
		return "", err
	}

	if up.Size > 0 {
		if v := m.validator.Validate(up.Size, name, up.MediaType); !v.Valid {
			m.recorder.RecordUpload(filetype.Classify(name, up.MediaType).String(), up.Size, false)
			return "", rejectUpload(v)
		}
	}

	data, err := m.readUpload(ctx, up.Body)
	if err != nil {
		m.recorder.RecordUpload(filetype.Classify(name, up.MediaType).String(), up.Size, false)
		return "", err
	}

	mediaType := filetype.BaseMediaType(up.MediaType)
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = filetype.Sniff(data)
	}
	if v := m.validator.Validate(int64(len(data)), name, mediaType); !v.Valid {
		m.recorder.RecordUpload(filetype.Classify(name, mediaType).String(), int64(len(data)), false)
		return "", rejectUpload(v)
	}
	kind := filetype.Classify(name, mediaType)

	content, err := filetype.EncodeContent(kind, mediaType, data)
	if err != nil {
		m.recorder.RecordUpload(kind.String(), int64(len(data)), false)
		return "", fmt.Errorf("%w: %v", ErrUploadInvalid, err)
	}

	var created string
	err = m.mutate("upload", func(t *Tree) (Event, error) {
		p, _ := t.project(projectID)
		folder, _ := p.folder(folderID)
		if folder == nil {
			return Event{}, ErrNotFound
		}
		f := &File{
			ID:         id.NewFileID().String(),
			Name:       name,
			Kind:       kind,
			Content:    content,
			IsUploaded: true,
		}
		folder.Files = append(folder.Files, f)
		created = f.ID
		return Event{Type: EventUploaded, Scope: ScopeFile, ID: f.ID}, nil
	})
	m.recorder.RecordUpload(kind.String(), int64(len(data)), err == nil)
	if err != nil {
		m.logger.Warn("Upload target vanished during ingestion",
			zap.String("name", name),
			zap.String("folder_id", folderID))
		return "", err
	}

	m.logger.Info("Upload ingested",
		zap.String("file_id", created),
		zap.String("name", name),
		zap.String("kind", kind.String()),
		zap.Int("bytes", len(data)))
	return created, nil
}

// uploadTarget captures the project and folder an upload will land in.
func (m *Manager) uploadTarget(folderID string) (string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p := m.tree.currentProject()
	if p == nil {
		return "", "", ErrNoProject
	}
	if folderID == "" {
		folderID = m.tree.CurrentFolderID
		if folderID == "" {
			return "", "", ErrNoFolder
		}
	}
	if f, _ := p.folder(folderID); f == nil {
		return "", "", ErrNotFound
	}
	return p.ID, folderID, nil
}

// readUpload reads at most one byte past the ceiling so oversize bodies
// are detected without buffering them whole.
func (m *Manager) readUpload(ctx context.Context, body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, fmt.Errorf("%w: empty body", ErrUploadInvalid)
	}
	limit := m.validator.MaxBytes
	data, err := io.ReadAll(io.LimitReader(ctxReader{ctx: ctx, r: body}, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, rejectUpload(m.validator.Validate(int64(len(data)), "", ""))
	}
	return data, nil
}

func rejectUpload(v filetype.Validation) error {
	if v.Reason == filetype.ReasonTooLarge {
		return fmt.Errorf("%w: %s", ErrUploadTooLarge, v.Error)
	}
	return fmt.Errorf("%w: %s", ErrUploadInvalid, v.Error)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
