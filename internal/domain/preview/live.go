package preview

import (
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"go.uber.org/zap"
)

// Document is one rendered preview and the tree revision it reflects.
type Document struct {
	HTML     string `json:"html"`
	Revision uint64 `json:"revision"`
}

// Live renders whatever the workspace currently has selected. The HTTP
// preview endpoint and the stream hub share one instance so they agree.
type Live struct {
	manager  *workspace.Manager
	composer *Composer
	inline   bool
	logger   *zap.Logger
}

// NewLive ties a composer to a manager. With inline set, project media
// referenced by name is embedded as data URIs.
func NewLive(m *workspace.Manager, c *Composer, inline bool, logger *zap.Logger) *Live {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Live{manager: m, composer: c, inline: inline, logger: logger}
}

// Render composes the current selection.
func (l *Live) Render() Document {
	sel := l.manager.Selected()
	if sel.Project == nil {
		return Document{HTML: Placeholder, Revision: sel.Revision}
	}

	doc := l.composer.Render(sel.Project, sel.File)
	if l.inline && (sel.File == nil || !sel.File.Kind.IsMedia()) {
		inlined, err := InlineAssets(doc, sel.Project)
		if err != nil {
			l.logger.Warn("Asset inlining failed, serving plain preview", zap.Error(err))
		} else {
			doc = inlined
		}
	}
	return Document{HTML: doc, Revision: sel.Revision}
}
