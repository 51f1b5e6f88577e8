package session

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pixelforge/internal/figma"
	"pixelforge/internal/gateway/config"
	"pixelforge/internal/gateway/repository/bundle"
	"pixelforge/internal/gateway/repository/generation"
	"pixelforge/internal/generate"
	llmclient "pixelforge/internal/llm/client"
	"pixelforge/internal/preview"
)

type scriptedBackend struct {
	responses []string
	calls     int
}

func (b *scriptedBackend) GenerateContent(_ context.Context, _ llmclient.Request) (string, error) {
	if b.calls >= len(b.responses) {
		return "", errors.New("no scripted response")
	}
	out := b.responses[b.calls]
	b.calls++
	return out, nil
}

const docEnvelope = "```json\n{\"code\": \"<!DOCTYPE html><html><head></head><body>ok</body></html>\", \"suggestions\": [\"Add a footer.\"]}\n```"

func newService(t *testing.T, backend generate.Backend) (*Service, *generation.MemoryStore, *bundle.MemoryStore) {
	t.Helper()
	records := generation.NewMemoryStore()
	bundles := bundle.NewMemoryStore()
	svc := New(backend, records, bundles, preview.NewHub(), config.DefaultCatalog())
	return svc, records, bundles
}

func TestCreateValidatesModel(t *testing.T) {
	svc, _, _ := newService(t, &scriptedBackend{})

	sess, err := svc.Create(generate.Options{Framework: generate.FrameworkHTML})
	require.NoError(t, err)
	require.Equal(t, "gemini-2.5-flash", sess.Options().ModelID)

	_, err = svc.Create(generate.Options{ModelID: "gpt-99"})
	require.ErrorIs(t, err, ErrModelNotOffered)
}

func TestGeneratePersistsRecord(t *testing.T) {
	svc, records, _ := newService(t, &scriptedBackend{responses: []string{docEnvelope}})
	sess, err := svc.Create(generate.Options{Framework: generate.FrameworkHTML})
	require.NoError(t, err)
	sess.Input().SetMode(generate.ModeHTML)
	sess.Input().SetHTML("<div>old</div>")

	result, err := svc.Generate(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Equal(t, generate.ShapeDocument, result.Code.Shape())

	rec, err := records.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Equal(t, generate.ModeHTML, rec.Mode)
	require.Equal(t, result.Code.Document(), rec.Code.Document())
}

func TestGenerateUnknownSession(t *testing.T) {
	svc, _, _ := newService(t, &scriptedBackend{})
	_, err := svc.Generate(context.Background(), "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDownloadBuildsAndCachesBundle(t *testing.T) {
	svc, _, bundles := newService(t, &scriptedBackend{responses: []string{docEnvelope}})
	sess, err := svc.Create(generate.Options{Framework: generate.FrameworkHTML})
	require.NoError(t, err)
	sess.Input().SetMode(generate.ModeHTML)
	sess.Input().SetHTML("<div>old</div>")
	_, err = svc.Generate(context.Background(), sess.ID)
	require.NoError(t, err)

	data, err := svc.Download(context.Background(), sess.ID)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	require.Equal(t, "index.html", zr.File[0].Name)

	require.Equal(t, []string{sess.ID}, bundles.Keys())

	again, err := svc.Download(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestRefineInvalidatesBundle(t *testing.T) {
	refined := "```json\n{\"code\": \"<!DOCTYPE html><html><body>v2</body></html>\", \"suggestions\": [], \"response\": \"Done.\"}\n```"
	svc, _, bundles := newService(t, &scriptedBackend{responses: []string{docEnvelope, refined}})
	sess, err := svc.Create(generate.Options{Framework: generate.FrameworkHTML})
	require.NoError(t, err)
	sess.Input().SetMode(generate.ModeHTML)
	sess.Input().SetHTML("<div>old</div>")
	_, err = svc.Generate(context.Background(), sess.ID)
	require.NoError(t, err)

	_, err = svc.Download(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Len(t, bundles.Keys(), 1)

	_, err = svc.Refine(context.Background(), sess.ID, "Bump to v2.")
	require.NoError(t, err)
	require.Empty(t, bundles.Keys())
}

func TestPreviewDocumentAndErrors(t *testing.T) {
	svc, _, _ := newService(t, &scriptedBackend{responses: []string{docEnvelope}})
	sess, err := svc.Create(generate.Options{Framework: generate.FrameworkHTML})
	require.NoError(t, err)

	_, err = svc.PreviewDocument(sess.ID)
	require.ErrorIs(t, err, ErrNoResult)

	sess.Input().SetMode(generate.ModeHTML)
	sess.Input().SetHTML("<div>old</div>")
	_, err = svc.Generate(context.Background(), sess.ID)
	require.NoError(t, err)

	doc, err := svc.PreviewDocument(sess.ID)
	require.NoError(t, err)
	require.Contains(t, doc, "previewError")

	ch, cancel, err := svc.SubscribePreviewErrors(sess.ID)
	require.NoError(t, err)
	defer cancel()
	require.NoError(t, svc.ReportPreviewError(sess.ID, "boom"))

	select {
	case e := <-ch:
		require.Equal(t, "boom", e.Message)
	case <-time.After(time.Second):
		t.Fatal("preview error not delivered")
	}
}

type fakeImporter struct {
	fetches int
	renders int
}

func (f *fakeImporter) FetchNode(_ context.Context, _ figma.Target) (map[string]any, error) {
	f.fetches++
	return map[string]any{"name": "Card"}, nil
}

func (f *fakeImporter) RenderImage(_ context.Context, _ figma.Target) ([]byte, error) {
	f.renders++
	return []byte{0x89, 0x50}, nil
}

func TestImportFigmaCaches(t *testing.T) {
	imp := &fakeImporter{}
	svc, _, _ := newService(t, &scriptedBackend{})
	svc.figmaFactory = func(string) FigmaImporter { return imp }

	url := "https://www.figma.com/design/KEY/Title?node-id=1-2"
	first, err := svc.ImportFigma(context.Background(), url, "tok")
	require.NoError(t, err)
	require.Equal(t, "image/png", first.Image.MIMEType)

	_, err = svc.ImportFigma(context.Background(), url, "tok")
	require.NoError(t, err)
	require.Equal(t, 1, imp.fetches)
	require.Equal(t, 1, imp.renders)

	_, err = svc.ImportFigma(context.Background(), url, "")
	require.Error(t, err)
}

// overlapImporter only lets FetchNode finish once RenderImage has started,
// so a sequential import times out instead of completing.
type overlapImporter struct {
	renderStarted chan struct{}
}

func (o *overlapImporter) FetchNode(ctx context.Context, _ figma.Target) (map[string]any, error) {
	select {
	case <-o.renderStarted:
		return map[string]any{"name": "Card"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (o *overlapImporter) RenderImage(_ context.Context, _ figma.Target) ([]byte, error) {
	close(o.renderStarted)
	return []byte{0x89, 0x50}, nil
}

func TestImportFigmaFetchesConcurrently(t *testing.T) {
	imp := &overlapImporter{renderStarted: make(chan struct{})}
	svc, _, _ := newService(t, &scriptedBackend{})
	svc.figmaFactory = func(string) FigmaImporter { return imp }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	payload, err := svc.ImportFigma(ctx, "https://www.figma.com/design/KEY/Title?node-id=1-2", "tok")
	require.NoError(t, err)
	require.Equal(t, "Card", payload.Node["name"])
}

func TestRestoreFromRecord(t *testing.T) {
	backend := &scriptedBackend{responses: []string{docEnvelope}}
	svc, records, _ := newService(t, backend)
	sess, err := svc.Create(generate.Options{Framework: generate.FrameworkHTML})
	require.NoError(t, err)
	sess.Input().SetMode(generate.ModeHTML)
	sess.Input().SetHTML("<div>old</div>")
	_, err = svc.Generate(context.Background(), sess.ID)
	require.NoError(t, err)

	// Simulate a restart with the same persisted records.
	fresh := New(backend, records, bundle.NewMemoryStore(), preview.NewHub(), config.DefaultCatalog())
	restored, err := fresh.Restore(context.Background(), sess.ID)
	require.NoError(t, err)
	require.NotNil(t, restored.Result())
	require.Equal(t, generate.ModeHTML, restored.Input().Mode())
	require.Equal(t, generate.ViewPreview, restored.View())

	_, err = fresh.Restore(context.Background(), "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)
}
