package workspace

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/shared/id"
	"github.com/lithammer/dedent"
)

const (
	DefaultProjectName = "My Project"
	DefaultFolderName  = "Main"
)

func block(s string) string {
	return strings.Trim(dedent.Dedent(s), "\n")
}

var welcomeHTML = block(`
	<!DOCTYPE html>
	<html>
	<head>
	    <title>My Project</title>
	    <link rel="stylesheet" href="styles.css">
	</head>
	<body>
	    <h1>Welcome to CodeCraft Pro!</h1>
	    <p>This is a powerful real-time code editor.</p>
	    <button id="demo-btn">Click Me</button>
	    <script src="script.js"></script>
	</body>
	</html>
	`)

var welcomeCSS = block(`
	body {
	    font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
	    margin: 0;
	    padding: 20px;
	    background-color: #f8f9fa;
	    color: #2d3436;
	}

	h1 {
	    color: #6c5ce7;
	}

	#demo-btn {
	    background-color: #6c5ce7;
	    color: white;
	    padding: 10px 20px;
	    border: none;
	    border-radius: 4px;
	    cursor: pointer;
	}
	`)

var welcomeJS = block(`
	document.getElementById('demo-btn').addEventListener('click', function() {
	    alert('Welcome to CodeCraft Pro!');
	});
	`)

var projectHTML = block(`
	<!DOCTYPE html>
	<html>
	<head>
	    <title>%[1]s</title>
	</head>
	<body>
	    <h1>%[1]s</h1>
	</body>
	</html>
	`)

// The empty body line keeps four spaces of indentation for the cursor.
const fileHTML = "<!DOCTYPE html>\n<html>\n<head>\n    <title>%s</title>\n</head>\n<body>\n    \n</body>\n</html>"

// DefaultTree returns the first-run workspace: one project with the three
// welcome files, the HTML file selected.
func DefaultTree() *Tree {
	html := &File{ID: id.NewFileID().String(), Name: "index.html", Kind: filetype.HTML, Content: welcomeHTML}
	css := &File{ID: id.NewFileID().String(), Name: "styles.css", Kind: filetype.CSS, Content: welcomeCSS}
	js := &File{ID: id.NewFileID().String(), Name: "script.js", Kind: filetype.JS, Content: welcomeJS}

	folder := &Folder{ID: id.NewFolderID().String(), Name: DefaultFolderName, Files: []*File{html, css, js}}
	project := &Project{ID: id.NewProjectID().String(), Name: DefaultProjectName, Folders: []*Folder{folder}}

	return &Tree{
		Projects:         []*Project{project},
		CurrentProjectID: project.ID,
		CurrentFolderID:  folder.ID,
		CurrentFileID:    html.ID,
	}
}

func newProject(name string) *Project {
	index := &File{
		ID:      id.NewFileID().String(),
		Name:    "index.html",
		Kind:    filetype.HTML,
		Content: fmt.Sprintf(projectHTML, name),
	}
	return &Project{
		ID:   id.NewProjectID().String(),
		Name: name,
		Folders: []*Folder{{
			ID:    id.NewFolderID().String(),
			Name:  DefaultFolderName,
			Files: []*File{index},
		}},
	}
}

// boilerplate seeds a file created from the UI; media kinds start empty.
func boilerplate(kind filetype.Kind, fullName string) string {
	switch kind {
	case filetype.HTML:
		return fmt.Sprintf(fileHTML, fullName)
	case filetype.CSS:
		return "/* " + fullName + " */"
	case filetype.JS:
		return "// " + fullName
	default:
		return ""
	}
}

// withExtension appends ext unless name already ends with it.
func withExtension(name, ext string) string {
	if ext == "" || strings.HasSuffix(name, ext) {
		return name
	}
	return name + ext
}
