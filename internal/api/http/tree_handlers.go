package http

import (
	"net/http"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/gin-gonic/gin"
)

type createRequest struct {
	Name   string `json:"name" binding:"required,notblank"`
	Switch bool   `json:"switch"`
}

type createFileRequest struct {
	Name   string `json:"name" binding:"required,notblank"`
	Kind   string `json:"kind" binding:"required,filekind"`
	Switch bool   `json:"switch"`
}

type renameRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

type contentRequest struct {
	Content *string `json:"content" binding:"required"`
}

type uploadTargetRequest struct {
	FolderID string `json:"folderId" binding:"required,notblank"`
}

// created answers a create call with the new id and the resulting tree.
func (h *Handlers) created(c *gin.Context, id string) {
	c.JSON(http.StatusCreated, gin.H{
		"id":   id,
		"tree": h.manager.Tree(),
	})
}

func (h *Handlers) ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tree": h.manager.Tree()})
}

// ============================================================================
// Projects
// ============================================================================

// CreateProject adds a project, optionally selecting it.
func (h *Handlers) CreateProject(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	id, err := h.manager.CreateProject(req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	if req.Switch {
		h.manager.SwitchProject(id)
	}
	h.created(c, id)
}

// RenameProject renames any project.
func (h *Handlers) RenameProject(c *gin.Context) {
	h.rename(c, workspace.ScopeProject)
}

// DeleteProject deletes a project unless it is the last one.
func (h *Handlers) DeleteProject(c *gin.Context) {
	h.respond(c, h.manager.DeleteProject(c.Param("id")))
}

// SwitchProject selects a project.
func (h *Handlers) SwitchProject(c *gin.Context) {
	h.switched(c, h.manager.SwitchProject(c.Param("id")))
}

// ============================================================================
// Folders
// ============================================================================

// CreateFolder adds a folder to the current project.
func (h *Handlers) CreateFolder(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	id, err := h.manager.CreateFolder(req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	if req.Switch {
		h.manager.SwitchFolder(id)
	}
	h.created(c, id)
}

// RenameFolder renames a folder of the current project.
func (h *Handlers) RenameFolder(c *gin.Context) {
	h.rename(c, workspace.ScopeFolder)
}

// DeleteFolder deletes a folder of the current project.
func (h *Handlers) DeleteFolder(c *gin.Context) {
	h.respond(c, h.manager.DeleteFolder(c.Param("id")))
}

// SwitchFolder selects a folder of the current project.
func (h *Handlers) SwitchFolder(c *gin.Context) {
	h.switched(c, h.manager.SwitchFolder(c.Param("id")))
}

// ============================================================================
// Files
// ============================================================================

// CreateFile adds a file to the pending upload folder or the current
// folder. With switch set the new file becomes current, moving the folder
// selection if the file landed elsewhere.
func (h *Handlers) CreateFile(c *gin.Context) {
	var req createFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	kind, _ := filetype.ParseKind(req.Kind)
	id, err := h.manager.CreateFile(req.Name, kind)
	if err != nil {
		h.fail(c, err)
		return
	}
	if req.Switch {
		h.selectFile(id)
	}
	h.created(c, id)
}

func (h *Handlers) selectFile(id string) {
	p, ok := h.manager.CurrentProject()
	if !ok {
		return
	}
	folder, _ := p.FindFile(id)
	if folder == nil {
		return
	}
	if cur, ok := h.manager.CurrentFolder(); !ok || cur.ID != folder.ID {
		h.manager.SwitchFolder(folder.ID)
	}
	h.manager.SwitchFile(id)
}

// RenameFile renames a file of the current folder, keeping its extension.
func (h *Handlers) RenameFile(c *gin.Context) {
	h.rename(c, workspace.ScopeFile)
}

// DeleteFile deletes a file of the current folder.
func (h *Handlers) DeleteFile(c *gin.Context) {
	h.respond(c, h.manager.DeleteFile(c.Param("id")))
}

// SwitchFile selects a file of the current folder.
func (h *Handlers) SwitchFile(c *gin.Context) {
	h.switched(c, h.manager.SwitchFile(c.Param("id")))
}

// SetCurrentContent replaces the text of the current code file.
func (h *Handlers) SetCurrentContent(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.manager.SetCurrentFileContent(*req.Content); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revision": h.manager.Stats().Revision})
}

// ============================================================================
// Upload target
// ============================================================================

// SetUploadTarget marks the folder the next created file goes to.
func (h *Handlers) SetUploadTarget(c *gin.Context) {
	var req uploadTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	h.respond(c, h.manager.SetPendingUploadFolder(req.FolderID))
}

// ClearUploadTarget forgets the pending upload folder.
func (h *Handlers) ClearUploadTarget(c *gin.Context) {
	h.manager.ClearPendingUploadFolder()
	h.ok(c)
}

// ============================================================================
// Shared
// ============================================================================

func (h *Handlers) rename(c *gin.Context, scope workspace.Scope) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	h.respond(c, h.manager.RenameItem(c.Param("id"), scope, req.Name))
}

func (h *Handlers) respond(c *gin.Context, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c)
}

// switched maps the boolean switch result: unknown ids are 404 and leave
// the selection untouched.
func (h *Handlers) switched(c *gin.Context, ok bool) {
	if !ok {
		h.fail(c, workspace.ErrNotFound)
		return
	}
	h.ok(c)
}
