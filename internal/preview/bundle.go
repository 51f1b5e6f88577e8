// Package preview turns generation results into self-contained HTML documents
// that render inside a sandboxed iframe, and relays runtime errors trapped in
// the sandbox back to the session.
package preview

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"pixelforge/internal/generate"
)

var ErrNotPreviewable = errors.New("preview: result is not previewable")

var (
	cssLinkRe   = regexp.MustCompile(`(?i)<link[^>]*?href=["']?[^"']+\.css["']?[^>]*?>`)
	scriptTagRe = regexp.MustCompile(`(?i)<script[^>]*?src=["']?[^"']+\.js["']?[^>]*?></script>`)
)

// bundleFiles inlines the project's stylesheet and script into its index.html.
// The first tag referencing each sibling is spliced over; a document that
// never references the sibling gets it inserted before </head> (styles) or
// </body> (scripts). Missing siblings are tolerated; a missing index.html is
// not.
func bundleFiles(files []generate.GeneratedFile) (string, error) {
	var index, css, js *generate.GeneratedFile
	for i := range files {
		switch {
		case index == nil && strings.HasSuffix(files[i].Path, "index.html"):
			index = &files[i]
		case css == nil && strings.HasSuffix(files[i].Path, ".css"):
			css = &files[i]
		case js == nil && strings.HasSuffix(files[i].Path, ".js"):
			js = &files[i]
		}
	}
	if index == nil {
		return "", fmt.Errorf("%w: project has no index.html", ErrNotPreviewable)
	}

	html := index.Content
	if css != nil {
		block := "<style>" + css.Content + "</style>"
		if loc := cssLinkRe.FindStringIndex(html); loc != nil {
			html = html[:loc[0]] + block + html[loc[1]:]
		} else {
			html = strings.Replace(html, "</head>", block+"</head>", 1)
		}
	}
	if js != nil {
		block := "<script defer>" + js.Content + "</script>"
		if loc := scriptTagRe.FindStringIndex(html); loc != nil {
			html = html[:loc[0]] + block + html[loc[1]:]
		} else {
			html = strings.Replace(html, "</body>", block+"</body>", 1)
		}
	}
	return html, nil
}

// Document produces the final sandbox document for a result: the single
// document as-is, or the inlined three-file bundle. The error trap is always
// injected.
func Document(code generate.CodeOutput, mode generate.Mode, fw generate.Framework) (string, error) {
	if !generate.Previewable(code, mode, fw) {
		return "", ErrNotPreviewable
	}
	var html string
	switch code.Shape() {
	case generate.ShapeDocument:
		html = code.Document()
	case generate.ShapeFileList:
		bundled, err := bundleFiles(code.Files())
		if err != nil {
			return "", err
		}
		html = bundled
	}
	return injectErrorTrap(html), nil
}

var headTagRe = regexp.MustCompile(`(?i)<head[^>]*>`)

// injectErrorTrap places the trap script right after the opening head tag so
// it observes every later script; a document without a head gets wrapped in
// a minimal one.
func injectErrorTrap(html string) string {
	if loc := headTagRe.FindStringIndex(html); loc != nil {
		return html[:loc[1]] + errorTrapScript + html[loc[1]:]
	}
	return "<html><head>" + errorTrapScript + "</head><body>" + html + "</body></html>"
}
