package preview

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/PuerkitoBio/goquery"
)

var assetSelectors = "img[src], video[src], source[src], audio[src]"

// InlineAssets replaces src attributes that name one of the project's
// media files ("logo.png", "./logo.png", "Main/logo.png") with the file's
// data URI, so the preview renders without a file server. A document with
// nothing to inline is returned untouched.
func InlineAssets(doc string, project *workspace.Project) (string, error) {
	assets := mediaIndex(project)
	if len(assets) == 0 {
		return doc, nil
	}

	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("failed to parse preview document: %w", err)
	}

	replaced := 0
	d.Find(assetSelectors).Each(func(i int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if content, ok := assets[assetKey(src)]; ok {
			s.SetAttr("src", content)
			replaced++
		}
	})
	if replaced == 0 {
		return doc, nil
	}

	out, err := d.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render preview document: %w", err)
	}
	return out, nil
}

func mediaIndex(project *workspace.Project) map[string]string {
	idx := make(map[string]string)
	if project == nil {
		return idx
	}
	for _, folder := range project.Folders {
		for _, f := range folder.Files {
			if !f.Kind.IsMedia() || f.Content == "" {
				continue
			}
			// first file of a name wins for bare references
			if _, ok := idx[f.Name]; !ok {
				idx[f.Name] = f.Content
			}
			idx[folder.Name+"/"+f.Name] = f.Content
		}
	}
	return idx
}

func assetKey(src string) string {
	src = strings.TrimSpace(src)
	if u, err := url.PathUnescape(src); err == nil {
		src = u
	}
	if strings.Contains(src, ":") {
		return "" // absolute URL or data URI
	}
	return strings.TrimPrefix(path.Clean("/"+src), "/")
}
