package preview

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/storage"
	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(folders ...*workspace.Folder) *workspace.Project {
	return &workspace.Project{ID: "project_1", Name: "Test", Folders: folders}
}

func folder(name string, files ...*workspace.File) *workspace.Folder {
	return &workspace.Folder{ID: "folder_" + name, Name: name, Files: files}
}

func file(name string, kind filetype.Kind, content string) *workspace.File {
	return &workspace.File{ID: "file_" + name, Name: name, Kind: kind, Content: content}
}

func defaultProject() *workspace.Project {
	tree := workspace.DefaultTree()
	return tree.Projects[0]
}

func TestComposeDefaultProject(t *testing.T) {
	doc := Compose(defaultProject())

	assert.Contains(t, doc, "Welcome to CodeCraft Pro!")

	root, err := htmlquery.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	style := htmlquery.FindOne(root, "//head/style")
	require.NotNil(t, style, "css injected into head")
	assert.Contains(t, htmlquery.InnerText(style), "#6c5ce7")

	scripts := htmlquery.Find(root, "//body/script")
	require.Len(t, scripts, 2, "external script tag plus the injected one")
	assert.Contains(t, htmlquery.InnerText(scripts[1]), "demo-btn")
}

func TestComposeIsIdempotent(t *testing.T) {
	p := defaultProject()
	assert.Equal(t, Compose(p), Compose(p))
}

func TestComposeLastFileOfKindWins(t *testing.T) {
	p := project(
		folder("a", file("one.html", filetype.HTML, "<html><head></head><body>one</body></html>"),
			file("one.css", filetype.CSS, "p{color:red}")),
		folder("b", file("two.html", filetype.HTML, "<html><head></head><body>two</body></html>"),
			file("two.css", filetype.CSS, "p{color:blue}")),
	)

	doc := Compose(p)
	assert.Contains(t, doc, "two")
	assert.NotContains(t, doc, ">one<")
	assert.Contains(t, doc, "<style>p{color:blue}</style></head>")
	assert.NotContains(t, doc, "red")
}

func TestComposeShellWithoutHTML(t *testing.T) {
	p := project(folder("main", file("a.css", filetype.CSS, "h1{}"), file("a.js", filetype.JS, "go()")))

	want := "<!DOCTYPE html>\n<html>\n<head>\n    <title>Preview</title>\n    <style>h1{}</style>\n</head>\n<body>\n    <script>go()</script>\n</body>\n</html>"
	assert.Equal(t, want, Compose(p))
}

func TestComposeShellCSSOnly(t *testing.T) {
	p := project(folder("main", file("a.css", filetype.CSS, "h1{}")))

	want := "<!DOCTYPE html>\n<html>\n<head>\n    <title>Preview</title>\n    <style>h1{}</style>\n</head>\n<body>\n    \n</body>\n</html>"
	assert.Equal(t, want, Compose(p))
}

func TestComposePlaceholder(t *testing.T) {
	assert.Equal(t, Placeholder, Compose(project(folder("main"))))
	assert.Equal(t, Placeholder, Compose(project(folder("main", file("a.png", filetype.PNG, "data:image/png;base64,AA==")))))
	assert.Equal(t, Placeholder, Compose(nil))
}

func TestComposeSkipsWithoutMarkers(t *testing.T) {
	p := project(folder("main",
		file("frag.html", filetype.HTML, "<div>fragment</div>"),
		file("a.css", filetype.CSS, "div{}"),
		file("a.js", filetype.JS, "run()"),
	))

	assert.Equal(t, "<div>fragment</div>", Compose(p))
}

func TestComposeRespectsExistingTags(t *testing.T) {
	html := "<html><head><style>h1{}</style></head><body><script>x()</script></body></html>"
	p := project(folder("main",
		file("i.html", filetype.HTML, html),
		file("a.css", filetype.CSS, "p{}"),
		file("a.js", filetype.JS, "y()"),
	))

	assert.Equal(t, html, Compose(p))
}

func TestComposeMedia(t *testing.T) {
	img := file(`a"<b>.png`, filetype.PNG, "data:image/png;base64,AA==")
	doc := ComposeMedia(img)

	root, err := htmlquery.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	node := htmlquery.FindOne(root, "//img")
	require.NotNil(t, node)
	assert.Equal(t, "data:image/png;base64,AA==", htmlquery.SelectAttr(node, "src"))
	assert.NotContains(t, doc, "<b>")

	video := ComposeMedia(file("clip.mp4", filetype.MP4, "data:video/mp4;base64,AA=="))
	root, err = htmlquery.Parse(strings.NewReader(video))
	require.NoError(t, err)
	source := htmlquery.FindOne(root, "//video[@controls]/source")
	require.NotNil(t, source)
	assert.Equal(t, "video/mp4", htmlquery.SelectAttr(source, "type"))
	assert.Contains(t, video, "<title>clip.mp4</title>")

	assert.Empty(t, ComposeMedia(file("a.js", filetype.JS, "x")))
	assert.Empty(t, ComposeMedia(nil))
}

type countingObserver struct{ hits, misses int }

func (o *countingObserver) ObserveCompose(_ time.Duration, cached bool) {
	if cached {
		o.hits++
	} else {
		o.misses++
	}
}

func TestComposerCachesByContent(t *testing.T) {
	obs := &countingObserver{}
	c, err := NewComposer(4)
	require.NoError(t, err)
	c.WithObserver(obs)

	p := defaultProject()
	first := c.Render(p, p.Folders[0].Files[0])
	second := c.Render(p, p.Folders[0].Files[0])

	assert.Equal(t, Compose(p), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, obs.misses)
	assert.Equal(t, 1, obs.hits)

	p.Folders[0].Files[1].Content = "body{background:black}"
	third := c.Render(p, nil)
	assert.Contains(t, third, "background:black")
	assert.Equal(t, 2, obs.misses)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestComposerRendersSelectedMedia(t *testing.T) {
	c, err := NewComposer(0)
	require.NoError(t, err)

	img := file("logo.jpg", filetype.JPG, "data:image/jpeg;base64,AA==")
	p := project(folder("main", file("i.html", filetype.HTML, "<p>hi</p>"), img))

	assert.Equal(t, ComposeMedia(img), c.Render(p, img))
	assert.Equal(t, "<p>hi</p>", c.Render(p, p.Folders[0].Files[0]))
}

func TestInlineAssets(t *testing.T) {
	logo := file("logo.png", filetype.PNG, "data:image/png;base64,AA==")
	p := project(
		folder("Main", file("i.html", filetype.HTML, "")),
		folder("assets", logo),
	)

	doc := `<html><head></head><body><img src="./logo.png"><img src="assets/logo.png"><img src="https://x.test/logo.png"></body></html>`
	out, err := InlineAssets(doc, p)
	require.NoError(t, err)

	root, err := htmlquery.Parse(strings.NewReader(out))
	require.NoError(t, err)
	imgs := htmlquery.Find(root, "//img")
	require.Len(t, imgs, 3)
	assert.Equal(t, logo.Content, htmlquery.SelectAttr(imgs[0], "src"))
	assert.Equal(t, logo.Content, htmlquery.SelectAttr(imgs[1], "src"))
	assert.Equal(t, "https://x.test/logo.png", htmlquery.SelectAttr(imgs[2], "src"))
}

func TestInlineAssetsNoop(t *testing.T) {
	doc := "<p>no media</p>"
	out, err := InlineAssets(doc, defaultProject())
	require.NoError(t, err)
	assert.Equal(t, doc, out)

	p := project(folder("m", file("a.png", filetype.PNG, "data:image/png;base64,AA==")))
	out, err = InlineAssets(`<img src="other.png">`, p)
	require.NoError(t, err)
	assert.Equal(t, `<img src="other.png">`, out)
}

func TestDiagnose(t *testing.T) {
	assert.Empty(t, Diagnose(file("ok.js", filetype.JS, "const x = () => 1;\nx();")))
	assert.Empty(t, Diagnose(file("i.html", filetype.HTML, "<not js")))
	assert.Nil(t, Diagnose(nil))

	diags := Diagnose(file("bad.js", filetype.JS, "function (\n"))
	require.NotEmpty(t, diags)
	assert.GreaterOrEqual(t, diags[0].Line, 1)
	assert.NotEmpty(t, diags[0].Message)
}

func TestLiveFollowsSelection(t *testing.T) {
	m := workspace.Open(context.Background(), storage.NewAdapter(storage.NewMemory(), ""), nil)
	c, err := NewComposer(8)
	require.NoError(t, err)
	live := NewLive(m, c, true, nil)

	doc := live.Render()
	assert.Contains(t, doc.HTML, "Welcome to CodeCraft Pro!")
	assert.Equal(t, m.Stats().Revision, doc.Revision)

	_, err = m.IngestUpload(context.Background(), workspace.Upload{
		UploadInfo: workspace.UploadInfo{Name: "logo.png", MediaType: "image/png"},
		Body:       strings.NewReader("\x89PNG\r\n\x1a\n"),
	})
	require.NoError(t, err)
	require.NoError(t, m.SetCurrentFileContent(`<img src="logo.png">`))

	doc = live.Render()
	assert.Contains(t, doc.HTML, `src="data:image/png;base64,`)
	assert.Equal(t, m.Stats().Revision, doc.Revision)
}
