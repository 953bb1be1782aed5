package http

import (
	"net/http"
	"strconv"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/preview"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/gin-gonic/gin"
)

// RevisionHeader carries the tree revision a preview was rendered from.
const RevisionHeader = "X-Workspace-Revision"

// Preview serves the composed document for the current selection.
func (h *Handlers) Preview(c *gin.Context) {
	doc := h.live.Render()
	c.Header(RevisionHeader, strconv.FormatUint(doc.Revision, 10))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc.HTML))
}

// Diagnostics reports syntax errors in a script file of any project.
// Other kinds always come back clean.
func (h *Handlers) Diagnostics(c *gin.Context) {
	id := c.Param("id")
	f := findFile(h.manager.Tree(), id)
	if f == nil {
		h.fail(c, workspace.ErrNotFound)
		return
	}
	diags := preview.Diagnose(f)
	if diags == nil {
		diags = []preview.Diagnostic{}
	}
	c.JSON(http.StatusOK, gin.H{
		"fileId":      f.ID,
		"name":        f.Name,
		"kind":        f.Kind,
		"diagnostics": diags,
	})
}

func findFile(t *workspace.Tree, id string) *workspace.File {
	for _, p := range t.Projects {
		if _, f := p.FindFile(id); f != nil {
			return f
		}
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
