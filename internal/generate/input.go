package generate

import "strings"

// Controller owns the active input mode and its payload, and enforces
// exclusivity between modes.
type Controller struct {
	mode    Mode
	payload Payload
	errMsg  string
}

func NewController() *Controller {
	return &Controller{mode: ModeImage}
}

func (c *Controller) Mode() Mode       { return c.mode }
func (c *Controller) Payload() Payload { return c.payload }

// SetMode activates a new input mode. Switching clears every other mode's
// payload fields and any surfaced error; re-selecting the current mode is a
// no-op.
func (c *Controller) SetMode(mode Mode) {
	if mode == c.mode {
		return
	}
	c.mode = mode
	c.payload = Payload{}
	c.errMsg = ""
}

func (c *Controller) SetImage(data []byte, mimeType string) {
	c.payload.Image = &ImagePayload{Data: data, MIMEType: mimeType}
}

func (c *Controller) SetHTML(html string) {
	c.payload.HTML = html
}

func (c *Controller) SetFigma(imp *FigmaPayload) {
	c.payload.Figma = imp
}

func (c *Controller) SetURL(url string) {
	c.payload.URL = strings.TrimSpace(url)
}

func (c *Controller) SetContent(template, content string, adoption AdoptionMode) {
	if adoption != AdoptionStrict {
		adoption = AdoptionImprove
	}
	c.payload.Content = &ContentPayload{Template: template, Content: content, Adoption: adoption}
}

func (c *Controller) SetError(msg string) { c.errMsg = msg }
func (c *Controller) Error() string       { return c.errMsg }

// Ready reports whether the active mode has sufficient payload to permit
// generation. No request may be built while Ready is false.
func (c *Controller) Ready() bool {
	return payloadReady(c.mode, c.payload)
}

func payloadReady(mode Mode, p Payload) bool {
	switch mode {
	case ModeImage:
		return p.Image != nil && len(p.Image.Data) > 0 && p.Image.MIMEType != ""
	case ModeHTML:
		return strings.TrimSpace(p.HTML) != ""
	case ModeFigma:
		return p.Figma != nil && len(p.Figma.Image.Data) > 0 && p.Figma.Node != nil
	case ModeURL:
		return strings.TrimSpace(p.URL) != ""
	case ModeContent:
		return p.Content != nil &&
			strings.TrimSpace(p.Content.Template) != "" &&
			strings.TrimSpace(p.Content.Content) != ""
	}
	return false
}
