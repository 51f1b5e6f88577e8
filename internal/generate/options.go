package generate

import "fmt"

// Framework is the requested output stack.
type Framework string

const (
	FrameworkHTMLCSSJS Framework = "html-css-js"
	FrameworkHTML      Framework = "html"
	FrameworkReact     Framework = "react"
	FrameworkVue       Framework = "vue"
	FrameworkSvelte    Framework = "svelte"
	FrameworkAngular   Framework = "angular"
	FrameworkVanillaJS Framework = "vanillajs"
)

// Language is the scripting language choice for frameworks that have one.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
)

const DefaultModelID = "gemini-2.5-flash"

type frameworkInfo struct {
	display        string
	singleDocument bool
	languageChoice bool
	threeFiles     bool
}

var frameworks = map[Framework]frameworkInfo{
	FrameworkHTMLCSSJS: {display: "HTML + CSS + JS", threeFiles: true},
	FrameworkHTML:      {display: "HTML + Tailwind CSS", singleDocument: true},
	FrameworkReact:     {display: "React + Tailwind CSS", languageChoice: true},
	FrameworkVue:       {display: "Vue + Tailwind CSS", languageChoice: true},
	FrameworkSvelte:    {display: "Svelte + Tailwind CSS", languageChoice: true},
	FrameworkAngular:   {display: "Angular + Tailwind CSS", languageChoice: true},
	FrameworkVanillaJS: {display: "Vanilla JS + Tailwind CSS", singleDocument: true},
}

func ParseFramework(s string) (Framework, error) {
	if _, ok := frameworks[Framework(s)]; ok {
		return Framework(s), nil
	}
	return "", fmt.Errorf("unknown script framework %q", s)
}

// DisplayName is the human-readable framework name used in prompts.
func (f Framework) DisplayName() string {
	if info, ok := frameworks[f]; ok {
		return info.display
	}
	return string(f)
}

// HasLanguageChoice reports whether the framework distinguishes JavaScript
// from TypeScript. Markup-only stacks do not.
func (f Framework) HasLanguageChoice() bool {
	return frameworks[f].languageChoice
}

func (l Language) DisplayName() string {
	if l == LanguageTypeScript {
		return "TypeScript"
	}
	return "JavaScript"
}

// Options are the user-controlled generation knobs.
type Options struct {
	ModelID            string
	Framework          Framework
	Language           Language
	CustomInstructions string
}

// Normalize fills defaults and resets the language to JavaScript whenever the
// framework has no language choice.
func (o Options) Normalize() Options {
	if o.ModelID == "" {
		o.ModelID = DefaultModelID
	}
	if _, ok := frameworks[o.Framework]; !ok {
		o.Framework = FrameworkHTMLCSSJS
	}
	if o.Language != LanguageTypeScript {
		o.Language = LanguageJavaScript
	}
	if !o.Framework.HasLanguageChoice() {
		o.Language = LanguageJavaScript
	}
	return o
}

// OutputShape is the code shape the backend must return for a given mode and
// framework. URL cloning always yields a multi-file project; content adoption
// always yields a single document.
func OutputShape(mode Mode, fw Framework) Shape {
	switch mode {
	case ModeURL:
		return ShapeFileList
	case ModeContent:
		return ShapeDocument
	}
	if frameworks[fw].singleDocument {
		return ShapeDocument
	}
	return ShapeFileList
}

// Previewable reports whether a result can be rendered live: a single
// document from a directly renderable framework (or from content adoption),
// or the three-sibling-file project emitted by the html-css-js framework.
func Previewable(code CodeOutput, mode Mode, fw Framework) bool {
	switch code.Shape() {
	case ShapeDocument:
		return frameworks[fw].singleDocument || mode == ModeContent
	case ShapeFileList:
		return frameworks[fw].threeFiles
	}
	return false
}
