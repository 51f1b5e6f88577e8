package generation

import (
	"context"
	"errors"
	"testing"

	"pixelforge/internal/generate"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := Record{
		SessionID: "s1",
		Mode:      generate.ModeImage,
		Framework: generate.FrameworkReact,
		Language:  generate.LanguageTypeScript,
		Model:     "gemini-2.5-flash",
		Code: generate.FileListOutput([]generate.GeneratedFile{
			{Path: "src/App.tsx", Content: "export default () => null"},
		}),
		Suggestions: []string{"Add a footer."},
		History: []generate.ChatMessage{
			{Author: generate.AuthorUser, Text: "Make it blue."},
		},
	}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Code.Shape() != generate.ShapeFileList || len(got.Code.Files()) != 1 {
		t.Fatalf("code = %+v", got.Code)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("updated_at not stamped")
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing err = %v", err)
	}

	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatal("deleted record still readable")
	}
}

func TestMemoryStoreRejectsBlankID(t *testing.T) {
	if err := NewMemoryStore().Save(context.Background(), Record{SessionID: "  "}); err == nil {
		t.Fatal("blank session id accepted")
	}
}

func TestMemoryStoreUpsert(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := Record{SessionID: "s1", Code: generate.DocumentOutput("<html>v1</html>")}
	second := Record{SessionID: "s1", Code: generate.DocumentOutput("<html>v2</html>")}
	if err := s.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Code.Document() != "<html>v2</html>" {
		t.Fatalf("document = %q", got.Code.Document())
	}
}
