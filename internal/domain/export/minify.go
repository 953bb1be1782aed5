package export

import (
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

type minifier struct {
	m *minify.M
}

func newMinifier() *minifier {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("application/javascript", js.Minify)
	return &minifier{m: m}
}

// apply minifies code kinds. Content the minifier rejects is kept as is.
func (mn *minifier) apply(kind filetype.Kind, data []byte) []byte {
	var mediaType string
	switch kind {
	case filetype.HTML:
		mediaType = "text/html"
	case filetype.CSS:
		mediaType = "text/css"
	case filetype.JS:
		mediaType = "application/javascript"
	default:
		return data
	}
	out, err := mn.m.Bytes(mediaType, data)
	if err != nil {
		return data
	}
	return out
}
