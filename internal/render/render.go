// internal/render/render.go
package render

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
)

// Markdown converts produced template output to HTML.
func Markdown(text string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return "", errors.Wrap(err, "render: converting markdown")
	}
	return buf.String(), nil
}
