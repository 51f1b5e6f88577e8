package preview

import (
	"errors"
	"strings"
	"testing"

	"pixelforge/internal/generate"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <h1>Hello</h1>
  <script src="script.js"></script>
</body>
</html>`

func threeFiles() []generate.GeneratedFile {
	return []generate.GeneratedFile{
		{Path: "index.html", Content: indexHTML},
		{Path: "style.css", Content: "h1 { color: red; }"},
		{Path: "script.js", Content: "console.log('ready');"},
	}
}

func TestBundleInlinesSiblings(t *testing.T) {
	html, err := bundleFiles(threeFiles())
	if err != nil {
		t.Fatalf("bundleFiles: %v", err)
	}
	if strings.Contains(html, `href="style.css"`) || strings.Contains(html, `src="script.js"`) {
		t.Fatalf("external references survived:\n%s", html)
	}
	if !strings.Contains(html, "<style>h1 { color: red; }</style>") {
		t.Fatal("css not inlined")
	}
	if !strings.Contains(html, "<script defer>console.log('ready');</script>") {
		t.Fatal("js not inlined")
	}
}

func TestBundleInsertsUnreferencedSiblings(t *testing.T) {
	// A document that never links its siblings still gets them, before the
	// closing head and body markers.
	files := []generate.GeneratedFile{
		{Path: "index.html", Content: "<html><head><title>x</title></head><body><p>hi</p></body></html>"},
		{Path: "style.css", Content: "body{color:red}"},
		{Path: "script.js", Content: "x=1"},
	}
	html, err := bundleFiles(files)
	if err != nil {
		t.Fatalf("bundleFiles: %v", err)
	}
	if !strings.Contains(html, "<style>body{color:red}</style></head>") {
		t.Fatalf("style not inserted before </head>:\n%s", html)
	}
	if !strings.Contains(html, "<script defer>x=1</script></body>") {
		t.Fatalf("script not inserted before </body>:\n%s", html)
	}
}

func TestBundleMatchesNestedPaths(t *testing.T) {
	files := []generate.GeneratedFile{
		{Path: "public/index.html", Content: `<html><head><link rel="stylesheet" href="css/main.css"></head><body></body></html>`},
		{Path: "css/main.css", Content: "p{margin:0}"},
	}
	html, err := bundleFiles(files)
	if err != nil {
		t.Fatalf("bundleFiles: %v", err)
	}
	if strings.Contains(html, "main.css") || !strings.Contains(html, "<style>p{margin:0}</style>") {
		t.Fatalf("nested stylesheet not spliced:\n%s", html)
	}
}

func TestBundleToleratesMissingSiblings(t *testing.T) {
	html, err := bundleFiles([]generate.GeneratedFile{{Path: "index.html", Content: indexHTML}})
	if err != nil {
		t.Fatalf("bundleFiles: %v", err)
	}
	// Without siblings the references stay untouched.
	if !strings.Contains(html, `href="style.css"`) {
		t.Fatal("link tag removed without a stylesheet to inline")
	}
}

func TestBundleRequiresIndex(t *testing.T) {
	_, err := bundleFiles([]generate.GeneratedFile{{Path: "style.css", Content: ""}})
	if !errors.Is(err, ErrNotPreviewable) {
		t.Fatalf("err = %v, want ErrNotPreviewable", err)
	}
}

func TestDocumentInjectsTrapAfterHead(t *testing.T) {
	code := generate.DocumentOutput("<!DOCTYPE html><html><head><title>x</title></head><body></body></html>")
	html, err := Document(code, generate.ModeImage, generate.FrameworkHTML)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	headAt := strings.Index(html, "<head>")
	trapAt := strings.Index(html, "previewError")
	titleAt := strings.Index(html, "<title>")
	if headAt < 0 || trapAt < headAt || trapAt > titleAt {
		t.Fatalf("trap not injected directly after <head>:\n%s", html)
	}
}

func TestDocumentInjectsTrapInsideAttributedHead(t *testing.T) {
	code := generate.DocumentOutput(`<!DOCTYPE html><html><head lang="en"><title>x</title></head><body></body></html>`)
	html, err := Document(code, generate.ModeImage, generate.FrameworkHTML)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Fatalf("document no longer starts with its doctype:\n%s", html)
	}
	headAt := strings.Index(html, `<head lang="en">`)
	trapAt := strings.Index(html, "previewError")
	titleAt := strings.Index(html, "<title>")
	if headAt < 0 || trapAt < headAt || trapAt > titleAt {
		t.Fatalf("trap not injected inside the attributed head:\n%s", html)
	}
}

func TestDocumentWrapsFragmentWithoutHead(t *testing.T) {
	code := generate.DocumentOutput("<div>bare</div>")
	html, err := Document(code, generate.ModeContent, generate.FrameworkReact)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if !strings.HasPrefix(html, "<html><head><script>") {
		t.Fatalf("fragment not wrapped with a synthesized head:\n%s", html)
	}
	if !strings.Contains(html, "<body><div>bare</div></body></html>") {
		t.Fatalf("fragment not placed in a synthesized body:\n%s", html)
	}
}

func TestTrapPostsPreviewErrorType(t *testing.T) {
	// The host page listens for exactly this message type.
	if !strings.Contains(errorTrapScript, "type: 'previewError'") {
		t.Fatalf("trap script does not post previewError messages:\n%s", errorTrapScript)
	}
}

func TestDocumentRejectsNonPreviewable(t *testing.T) {
	code := generate.FileListOutput([]generate.GeneratedFile{{Path: "src/App.tsx", Content: ""}})
	if _, err := Document(code, generate.ModeImage, generate.FrameworkReact); !errors.Is(err, ErrNotPreviewable) {
		t.Fatalf("err = %v, want ErrNotPreviewable", err)
	}
}

func TestViewportWidths(t *testing.T) {
	if ViewportDesktop.Width() != "100%" || ViewportTablet.Width() != "768px" || ViewportMobile.Width() != "375px" {
		t.Fatal("viewport widths drifted")
	}
	if _, err := ParseViewport("watch"); err == nil {
		t.Fatal("ParseViewport accepted an unknown preset")
	}
}
