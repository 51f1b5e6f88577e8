package generate

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseResultFencedDocument(t *testing.T) {
	raw := "Here you go!\n```json\n{\"code\": \"<!DOCTYPE html><html></html>\", \"suggestions\": [\"Add a footer.\"]}\n```\nLet me know."
	res, err := ParseResult(raw, ShapeDocument)
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if res.Code.Shape() != ShapeDocument {
		t.Fatalf("shape = %v, want document", res.Code.Shape())
	}
	if res.Code.Document() != "<!DOCTYPE html><html></html>" {
		t.Fatalf("document = %q", res.Code.Document())
	}
	if len(res.Suggestions) != 1 || res.Suggestions[0] != "Add a footer." {
		t.Fatalf("suggestions = %v", res.Suggestions)
	}
}

func TestParseResultUnfenced(t *testing.T) {
	raw := `{"code": [{"path": "index.html", "content": "<h1>hi</h1>"}], "suggestions": []}`
	res, err := ParseResult(raw, ShapeFileList)
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	files := res.Code.Files()
	if len(files) != 1 || files[0].Path != "index.html" {
		t.Fatalf("files = %v", files)
	}
}

func TestParseResultEmptyResponse(t *testing.T) {
	if _, err := ParseResult("   \n\t ", ShapeDocument); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestParseResultMalformedEnvelope(t *testing.T) {
	raw := "```json\n{\"code\": \"<html>\", \n```"
	if _, err := ParseResult(raw, ShapeDocument); !errors.Is(err, ErrMalformedEnvelope) {
		t.Fatalf("err = %v, want ErrMalformedEnvelope", err)
	}
}

func TestParseResultSchemaViolations(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want Shape
	}{
		"missing code":        {`{"suggestions": []}`, ShapeDocument},
		"missing suggestions": {`{"code": "<html></html>"}`, ShapeDocument},
		"bad suggestions":     {`{"code": "<html></html>", "suggestions": [1, 2]}`, ShapeDocument},
		"entry without path":  {`{"code": [{"content": "x"}], "suggestions": []}`, ShapeFileList},
		"empty file array":    {`{"code": [], "suggestions": []}`, ShapeFileList},
		"duplicate paths": {
			`{"code": [{"path": "a.js", "content": "1"}, {"path": "a.js", "content": "2"}], "suggestions": []}`,
			ShapeFileList,
		},
	}
	for name, tc := range cases {
		if _, err := ParseResult(tc.raw, tc.want); !errors.Is(err, ErrSchemaViolation) {
			t.Errorf("%s: err = %v, want ErrSchemaViolation", name, err)
		}
	}
}

func TestParseResultShapeMismatch(t *testing.T) {
	doc := `{"code": "<html></html>", "suggestions": []}`
	if _, err := ParseResult(doc, ShapeFileList); !errors.Is(err, ErrUnexpectedShape) {
		t.Fatalf("document vs file list: err = %v, want ErrUnexpectedShape", err)
	}
	files := `{"code": [{"path": "index.html", "content": ""}], "suggestions": []}`
	if _, err := ParseResult(files, ShapeDocument); !errors.Is(err, ErrUnexpectedShape) {
		t.Fatalf("file list vs document: err = %v, want ErrUnexpectedShape", err)
	}
}

func TestParseResultNarrative(t *testing.T) {
	raw := `{"code": "<html></html>", "suggestions": ["a"], "response": "Made the header sticky."}`
	res, err := ParseResult(raw, ShapeDocument)
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if res.Narrative != "Made the header sticky." {
		t.Fatalf("narrative = %q", res.Narrative)
	}
}

func TestParseResultRoundTrip(t *testing.T) {
	orig := Result{
		Code: FileListOutput([]GeneratedFile{
			{Path: "index.html", Content: "<div class=\"p-4\">hi</div>"},
			{Path: "src/app.js", Content: "console.log('x')"},
		}),
		Suggestions: []string{"Add a footer.", "Animate the hero."},
		Narrative:   "Done.",
	}
	enc, err := orig.EncodeEnvelope()
	if err != nil {
		t.Fatalf("EncodeEnvelope: %v", err)
	}
	back, err := ParseResult(string(enc), ShapeFileList)
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if !reflect.DeepEqual(orig, back) {
		t.Fatalf("round trip mismatch:\n  in:  %+v\n  out: %+v", orig, back)
	}
}
