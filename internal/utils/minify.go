package utils

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin/render"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// NewMinifier returns a minifier for HTML pages and the CSS/JS assets they
// embed.
func NewMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return m
}

// MinifiedHTML wraps an HTML renderer so every page is minified on the way out.
type MinifiedHTML struct {
	render.HTMLRender
	M *minify.M
}

func (r MinifiedHTML) Instance(name string, data any) render.Render {
	return minifiedRender{inner: r.HTMLRender.Instance(name, data), m: r.M}
}

type minifiedRender struct {
	inner render.Render
	m     *minify.M
}

func (r minifiedRender) Render(w http.ResponseWriter) error {
	bw := &bufferedWriter{ResponseWriter: w}
	if err := r.inner.Render(bw); err != nil {
		return err
	}
	return r.m.Minify("text/html", w, &bw.buf)
}

func (r minifiedRender) WriteContentType(w http.ResponseWriter) {
	r.inner.WriteContentType(w)
}

type bufferedWriter struct {
	http.ResponseWriter
	buf bytes.Buffer
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}
