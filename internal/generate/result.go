package generate

// Shape is the structural form of generated code: one renderable document, or
// a multi-file project.
type Shape int

const (
	ShapeDocument Shape = iota + 1
	ShapeFileList
)

func (s Shape) String() string {
	switch s {
	case ShapeDocument:
		return "document"
	case ShapeFileList:
		return "file_list"
	}
	return "unknown"
}

// GeneratedFile is one file of a multi-file project. Paths are slash-separated
// and unique within one result.
type GeneratedFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// CodeOutput is a two-variant union: a single document string or an ordered
// file list. The zero value is neither; use DocumentOutput or FileListOutput.
type CodeOutput struct {
	shape Shape
	doc   string
	files []GeneratedFile
}

func DocumentOutput(doc string) CodeOutput {
	return CodeOutput{shape: ShapeDocument, doc: doc}
}

func FileListOutput(files []GeneratedFile) CodeOutput {
	return CodeOutput{shape: ShapeFileList, files: files}
}

func (c CodeOutput) Shape() Shape { return c.shape }

// Document returns the single-document variant; empty when the output is a
// file list.
func (c CodeOutput) Document() string { return c.doc }

// Files returns the file-list variant; nil when the output is a document.
func (c CodeOutput) Files() []GeneratedFile { return c.files }

func (c CodeOutput) IsZero() bool { return c.shape == 0 }

// Result is one complete, validated generation outcome. Narrative is the
// model's one-sentence summary of a refinement, absent on first generation.
type Result struct {
	Code        CodeOutput
	Suggestions []string
	Narrative   string
}

// Author identifies a conversation side.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// ChatMessage is one turn of the refinement conversation.
type ChatMessage struct {
	Author Author `json:"author"`
	Text   string `json:"text"`
}

// View selects which output surface the UI shows.
type View string

const (
	ViewCode    View = "code"
	ViewPreview View = "preview"
)
