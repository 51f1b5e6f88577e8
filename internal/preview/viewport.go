package preview

import "fmt"

// Viewport is a named preview width preset.
type Viewport string

const (
	ViewportDesktop Viewport = "desktop"
	ViewportTablet  Viewport = "tablet"
	ViewportMobile  Viewport = "mobile"
)

// Width returns the CSS width of the preset; desktop fills the container.
func (v Viewport) Width() string {
	switch v {
	case ViewportTablet:
		return "768px"
	case ViewportMobile:
		return "375px"
	}
	return "100%"
}

func ParseViewport(s string) (Viewport, error) {
	switch Viewport(s) {
	case ViewportDesktop, ViewportTablet, ViewportMobile:
		return Viewport(s), nil
	}
	return "", fmt.Errorf("unknown viewport %q", s)
}
