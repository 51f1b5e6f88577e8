package generate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"pixelforge/internal/util/jsonutil"
)

// fencedBlock matches the first markdown code fence, with or without a
// language tag.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)```")

type envelope struct {
	Code        json.RawMessage `json:"code"`
	Suggestions json.RawMessage `json:"suggestions"`
	Response    json.RawMessage `json:"response,omitempty"`
}

type fileEntry struct {
	Path    *string `json:"path"`
	Content *string `json:"content"`
}

// ParseResult extracts and validates a Result from the backend's raw text.
// The first fenced block is decoded (the whole trimmed response when no fence
// is present). Validation is strict: any violation is a hard failure, never a
// best-effort guess.
func ParseResult(raw string, want Shape) (Result, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Result{}, ErrEmptyResponse
	}

	content := trimmed
	if m := fencedBlock.FindStringSubmatch(trimmed); m != nil {
		content = strings.TrimSpace(m[1])
	}

	var env envelope
	if err := jsonutil.UnmarshalLenient([]byte(content), &env); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if len(env.Code) == 0 {
		return Result{}, fmt.Errorf("%w: missing \"code\"", ErrSchemaViolation)
	}
	if len(env.Suggestions) == 0 {
		return Result{}, fmt.Errorf("%w: missing \"suggestions\"", ErrSchemaViolation)
	}

	code, err := parseCode(env.Code, want)
	if err != nil {
		return Result{}, err
	}

	var suggestions []string
	if err := json.Unmarshal(env.Suggestions, &suggestions); err != nil {
		return Result{}, fmt.Errorf("%w: \"suggestions\" must be an array of strings", ErrSchemaViolation)
	}

	var narrative string
	if len(env.Response) > 0 {
		if err := json.Unmarshal(env.Response, &narrative); err != nil {
			return Result{}, fmt.Errorf("%w: \"response\" must be a string", ErrSchemaViolation)
		}
	}

	return Result{Code: code, Suggestions: suggestions, Narrative: narrative}, nil
}

func parseCode(raw json.RawMessage, want Shape) (CodeOutput, error) {
	var doc string
	if err := json.Unmarshal(raw, &doc); err == nil {
		if want != ShapeDocument {
			return CodeOutput{}, fmt.Errorf("%w: got a single document, want a file list", ErrUnexpectedShape)
		}
		if strings.TrimSpace(doc) == "" {
			return CodeOutput{}, fmt.Errorf("%w: \"code\" is empty", ErrSchemaViolation)
		}
		return DocumentOutput(doc), nil
	}

	var entries []fileEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return CodeOutput{}, fmt.Errorf("%w: \"code\" is neither a string nor a file array", ErrSchemaViolation)
	}
	if want != ShapeFileList {
		return CodeOutput{}, fmt.Errorf("%w: got a file list, want a single document", ErrUnexpectedShape)
	}
	if len(entries) == 0 {
		return CodeOutput{}, fmt.Errorf("%w: file array is empty", ErrSchemaViolation)
	}

	files := make([]GeneratedFile, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.Path == nil || e.Content == nil {
			return CodeOutput{}, fmt.Errorf("%w: file entry %d lacks a path/content pair", ErrSchemaViolation, i)
		}
		path := strings.TrimSpace(*e.Path)
		if path == "" {
			return CodeOutput{}, fmt.Errorf("%w: file entry %d has an empty path", ErrSchemaViolation, i)
		}
		if _, dup := seen[path]; dup {
			return CodeOutput{}, fmt.Errorf("%w: duplicate file path %q", ErrSchemaViolation, path)
		}
		seen[path] = struct{}{}
		files = append(files, GeneratedFile{Path: path, Content: *e.Content})
	}
	return FileListOutput(files), nil
}

// EncodeEnvelope serializes a Result into the same JSON envelope the backend
// is asked to produce, so parsed results round-trip through ParseResult.
func (r Result) EncodeEnvelope() ([]byte, error) {
	out := map[string]any{
		"suggestions": r.Suggestions,
	}
	if r.Suggestions == nil {
		out["suggestions"] = []string{}
	}
	switch r.Code.Shape() {
	case ShapeDocument:
		out["code"] = r.Code.Document()
	case ShapeFileList:
		out["code"] = r.Code.Files()
	}
	if r.Narrative != "" {
		out["response"] = r.Narrative
	}
	return jsonutil.MarshalNoEscape(out)
}
