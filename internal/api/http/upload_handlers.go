package http

import (
	"errors"
	"net/http"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type validateUploadRequest struct {
	Name      string `json:"name" binding:"required,notblank"`
	Size      int64  `json:"size" binding:"gte=0"`
	MediaType string `json:"mediaType"`
}

type uploadedFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type failedUpload struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ValidateUpload checks a declared upload before any bytes are sent. The
// verdict is always 200; Valid and Error carry the outcome.
func (h *Handlers) ValidateUpload(c *gin.Context) {
	var req validateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.manager.ValidateUpload(workspace.UploadInfo{
		Name:      req.Name,
		Size:      req.Size,
		MediaType: req.MediaType,
	}))
}

// Upload ingests every "file" part of a multipart form into the folder
// named by the optional "folderId" field, else the current folder. Files
// are processed in order; one rejected file does not stop the rest. When
// nothing was accepted the first failure decides the status code.
func (h *Handlers) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxRequestBytes)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, workspace.ErrUploadTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart form: " + err.Error()})
		return
	}
	parts := form.File["file"]
	if len(parts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file parts in form"})
		return
	}

	span, ctx := h.tracer.StartSpan(c.Request.Context(), "workspace.upload")
	folderID := c.PostForm("folderId")

	uploaded := make([]uploadedFile, 0, len(parts))
	failed := make([]failedUpload, 0)
	var firstErr error

	for _, fh := range parts {
		body, err := fh.Open()
		if err == nil {
			var id string
			id, err = h.manager.IngestUpload(ctx, workspace.Upload{
				UploadInfo: workspace.UploadInfo{
					Name:      fh.Filename,
					Size:      fh.Size,
					MediaType: fh.Header.Get("Content-Type"),
				},
				Body:     body,
				FolderID: folderID,
			})
			body.Close()
			if err == nil {
				uploaded = append(uploaded, uploadedFile{ID: id, Name: fh.Filename})
				continue
			}
		}
		if firstErr == nil {
			firstErr = err
		}
		h.logger.Info("Upload rejected",
			zap.String("name", fh.Filename),
			zap.Int64("size", fh.Size),
			zap.Error(err))
		failed = append(failed, failedUpload{Name: fh.Filename, Error: err.Error()})
	}

	span.SetTag("upload.accepted", itoa(len(uploaded)))
	span.SetTag("upload.rejected", itoa(len(failed)))

	if len(uploaded) == 0 {
		h.tracer.End(span, firstErr)
		status := statusFor(firstErr)
		c.JSON(status, gin.H{"error": firstErr.Error(), "uploaded": uploaded, "failed": failed})
		return
	}
	h.tracer.End(span, nil)

	c.JSON(http.StatusCreated, gin.H{
		"uploaded": uploaded,
		"failed":   failed,
		"tree":     h.manager.Tree(),
	})
}
