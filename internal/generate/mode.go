package generate

import "fmt"

// Mode identifies which design input drives a generation. Exactly one mode is
// active at a time.
type Mode string

const (
	ModeImage   Mode = "image"
	ModeHTML    Mode = "html"
	ModeFigma   Mode = "figma"
	ModeURL     Mode = "url"
	ModeContent Mode = "content"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeImage, ModeHTML, ModeFigma, ModeURL, ModeContent:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown input mode %q", s)
}

// AdoptionMode controls how new content is merged into an HTML template.
type AdoptionMode string

const (
	AdoptionImprove AdoptionMode = "improve"
	AdoptionStrict  AdoptionMode = "strict"
)

// ImagePayload carries an uploaded design screenshot.
type ImagePayload struct {
	Data     []byte
	MIMEType string
}

// FigmaPayload carries the rendered node image plus its pruned node tree, as
// returned by the design source.
type FigmaPayload struct {
	Image ImagePayload
	Node  map[string]any
}

// ContentPayload carries an HTML template and the new content to apply to it.
type ContentPayload struct {
	Template string
	Content  string
	Adoption AdoptionMode
}

// Payload is the tagged union of per-mode inputs. At most one variant is
// populated at a time, mirroring the active Mode.
type Payload struct {
	Image   *ImagePayload
	HTML    string
	Figma   *FigmaPayload
	URL     string
	Content *ContentPayload
}
