package preview

import (
	"strings"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/microcosm-cc/bluemonday"
)

// Placeholder is returned when a project has no HTML, CSS or JS content.
const Placeholder = "<!DOCTYPE html><html><body><p>No HTML content to preview</p></body></html>"

const shellTemplate = "<!DOCTYPE html>\n<html>\n<head>\n    <title>Preview</title>\n    %STYLE%\n</head>\n<body>\n    %SCRIPT%\n</body>\n</html>"

const (
	imageTemplate = "<!DOCTYPE html>\n<html>\n<head>\n    <title>%NAME%</title>\n    <style>\n        body { margin: 0; padding: 0; display: flex; justify-content: center; align-items: center; height: 100vh; }\n        img { max-width: 100%; max-height: 100%; }\n    </style>\n</head>\n<body>\n    <img src=\"%SRC%\" alt=\"%NAME%\">\n</body>\n</html>"
	videoTemplate = "<!DOCTYPE html>\n<html>\n<head>\n    <title>%NAME%</title>\n    <style>\n        body { margin: 0; padding: 0; display: flex; justify-content: center; align-items: center; height: 100vh; }\n        video { max-width: 100%; max-height: 100%; }\n    </style>\n</head>\n<body>\n    <video controls autoplay>\n        <source src=\"%SRC%\" type=\"video/mp4\">\n        Your browser does not support the video tag.\n    </video>\n</body>\n</html>"
)

var namePolicy = bluemonday.StrictPolicy()

// Sources are the representative contents picked from a project.
type Sources struct {
	HTML, CSS, JS string
}

// Collect walks folders then files in order; later files of a kind
// replace earlier ones.
func Collect(project *workspace.Project) Sources {
	var s Sources
	if project == nil {
		return s
	}
	for _, f := range project.Files() {
		switch f.Kind {
		case filetype.HTML:
			s.HTML = f.Content
		case filetype.CSS:
			s.CSS = f.Content
		case filetype.JS:
			s.JS = f.Content
		}
	}
	return s
}

// Compose renders the project's preview document. It is a pure function
// of the project's code files.
func Compose(project *workspace.Project) string {
	return ComposeSources(Collect(project))
}

// ComposeSources renders a document from already collected sources.
// Empty content counts as absent.
func ComposeSources(s Sources) string {
	html := s.HTML
	if html == "" && (s.CSS != "" || s.JS != "") {
		html = shell(s.CSS, s.JS)
	}
	if html == "" {
		return Placeholder
	}

	if s.CSS != "" && !strings.Contains(html, "<style>") && strings.Contains(html, "</head>") {
		html = strings.Replace(html, "</head>", "<style>"+s.CSS+"</style></head>", 1)
	}
	if s.JS != "" && !strings.Contains(html, "<script>") && strings.Contains(html, "</body>") {
		html = strings.Replace(html, "</body>", "<script>"+s.JS+"</script></body>", 1)
	}
	return html
}

func shell(css, js string) string {
	style, script := "", ""
	if css != "" {
		style = "<style>" + css + "</style>"
	}
	if js != "" {
		script = "<script>" + js + "</script>"
	}
	return strings.NewReplacer("%STYLE%", style, "%SCRIPT%", script).Replace(shellTemplate)
}

// ComposeMedia renders a standalone viewer for one image or video file.
// Non-media files yield "".
func ComposeMedia(f *workspace.File) string {
	if f == nil || !f.Kind.IsMedia() {
		return ""
	}
	tmpl := imageTemplate
	if f.Kind.IsVideo() {
		tmpl = videoTemplate
	}
	return strings.NewReplacer(
		"%NAME%", EscapeName(f.Name),
		"%SRC%", f.Content,
	).Replace(tmpl)
}

// EscapeName renders a file name safe for text and attribute positions.
func EscapeName(name string) string {
	return namePolicy.Sanitize(name)
}
