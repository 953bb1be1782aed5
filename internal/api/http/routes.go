package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Reset replaces the workspace with the first-run tree.
func (h *Handlers) Reset(c *gin.Context) {
	h.respond(c, h.manager.Reset())
}

// Register mounts every API route on r. metrics serves /metrics when
// non-nil.
func (h *Handlers) Register(r gin.IRouter, metrics http.Handler) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	api := r.Group("/api")
	api.GET("/tree", h.Tree)
	api.GET("/stats", h.Stats)
	api.POST("/reset", h.Reset)

	api.POST("/projects", h.CreateProject)
	api.PUT("/projects/:id", h.RenameProject)
	api.DELETE("/projects/:id", h.DeleteProject)
	api.POST("/projects/:id/switch", h.SwitchProject)

	api.POST("/folders", h.CreateFolder)
	api.PUT("/folders/:id", h.RenameFolder)
	api.DELETE("/folders/:id", h.DeleteFolder)
	api.POST("/folders/:id/switch", h.SwitchFolder)

	api.POST("/files", h.CreateFile)
	api.PUT("/files/current/content", h.SetCurrentContent)
	api.PUT("/files/:id", h.RenameFile)
	api.DELETE("/files/:id", h.DeleteFile)
	api.POST("/files/:id/switch", h.SwitchFile)
	api.GET("/files/:id/diagnostics", h.Diagnostics)

	api.PUT("/upload-target", h.SetUploadTarget)
	api.DELETE("/upload-target", h.ClearUploadTarget)
	api.POST("/uploads/validate", h.ValidateUpload)
	api.POST("/uploads", h.Upload)

	api.GET("/preview", h.Preview)
	api.POST("/console", h.Console)
	api.GET("/export", h.Export)

	if h.hub != nil {
		api.GET("/stream", h.hub.HandleConnection)
	}
}
