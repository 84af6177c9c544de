package store_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"

	"slidedeck/internal/document"
	"slidedeck/internal/format"
	"slidedeck/internal/paths"
	"slidedeck/internal/slide"
	"slidedeck/internal/store"
	"slidedeck/internal/testsupport"
	"slidedeck/internal/thumbnail"
)

type adapterOption func(*store.Options[*slide.Slide])

func newSlideAdapter(t *testing.T, opts ...adapterOption) *store.Adapter[*slide.Slide] {
	t.Helper()

	o := store.Options[*slide.Slide]{
		Resolver:        paths.New(t.TempDir(), "slides", format.NativeExt),
		Formats:         format.NewRegistry(format.NativeSlides(), format.LegacySlides()),
		Renderer:        thumbnail.SlideRenderer{},
		ThumbnailWidth:  16,
		ThumbnailHeight: 9,
	}
	for _, opt := range opts {
		opt(&o)
	}
	adapter, err := store.New(o)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return adapter
}

func docPath(t *testing.T, a *store.Adapter[*slide.Slide], id string) string {
	t.Helper()
	p, err := a.Resolver().Path(id)
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	return p
}

func thumbPath(t *testing.T, a *store.Adapter[*slide.Slide], id string) string {
	t.Helper()
	p, err := a.Resolver().ThumbnailPath(id)
	if err != nil {
		t.Fatalf("thumbnail path: %v", err)
	}
	return p
}

func TestCreateWritesDocumentAndThumbnail(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	adapter := newSlideAdapter(t, func(o *store.Options[*slide.Slide]) {
		o.Now = func() time.Time { return fixed }
	})
	s := testsupport.NewSlide("welcome")

	if err := adapter.Create(s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !s.ModifiedAt.Equal(fixed) {
		t.Fatalf("expected modified stamp %v, got %v", fixed, s.ModifiedAt)
	}
	if s.Thumbnail != thumbPath(t, adapter, s.ID) {
		t.Fatalf("unexpected thumbnail path %q", s.Thumbnail)
	}
	if _, err := os.Stat(s.Thumbnail); err != nil {
		t.Fatalf("expected thumbnail on disk: %v", err)
	}

	loaded, err := adapter.Read(s.ID)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if loaded.Name != "welcome" || len(loaded.Components) != 2 || loaded.Thumbnail != s.Thumbnail {
		t.Fatalf("unexpected loaded slide %+v", loaded)
	}
}

func TestCreateExistingFailsWithoutOverwriting(t *testing.T) {
	adapter := newSlideAdapter(t)
	s := testsupport.NewSlide("original")
	if err := adapter.Create(s); err != nil {
		t.Fatalf("create: %v", err)
	}
	before, err := os.ReadFile(docPath(t, adapter, s.ID))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	clash := s.Snapshot()
	clash.Name = "impostor"
	err = adapter.Create(clash)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if store.Kind(err) != store.KindConflict {
		t.Fatalf("expected conflict kind, got %q", store.Kind(err))
	}
	after, err := os.ReadFile(docPath(t, adapter, s.ID))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("existing document bytes changed")
	}
}

func TestDeleteIsIdempotentAndRemovesThumbnail(t *testing.T) {
	adapter := newSlideAdapter(t)

	orphan := thumbPath(t, adapter, "ghost")
	if err := os.WriteFile(orphan, []byte("png"), 0o644); err != nil {
		t.Fatalf("write orphan thumbnail: %v", err)
	}
	if err := adapter.Delete("ghost"); err != nil {
		t.Fatalf("delete missing document: %v", err)
	}
	if _, err := os.Stat(orphan); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected orphan thumbnail removed, stat err=%v", err)
	}

	s := testsupport.NewSlide("doomed")
	if err := adapter.Create(s); err != nil {
		t.Fatalf("create: %v", err)
	}
	for range 2 {
		if err := adapter.Delete(s.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
	}
	if _, err := adapter.Read(s.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := adapter.Delete("../escape"); !errors.Is(err, paths.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestFailedRenderDropsStaleThumbnail(t *testing.T) {
	fail := false
	var mu sync.Mutex
	renderer := thumbnail.RendererFunc[*slide.Slide](func(s *slide.Slide, w, h int) (image.Image, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("renderer offline")
		}
		return thumbnail.SlideRenderer{}.Render(s, w, h)
	})
	adapter := newSlideAdapter(t, func(o *store.Options[*slide.Slide]) { o.Renderer = renderer })

	s := testsupport.NewSlide("flaky")
	if err := adapter.Create(s); err != nil {
		t.Fatalf("create: %v", err)
	}
	mu.Lock()
	fail = true
	mu.Unlock()
	s.Name = "flaky v2"
	if err := adapter.Update(s); err != nil {
		t.Fatalf("update should survive a failed render: %v", err)
	}
	if s.Thumbnail != "" {
		t.Fatalf("expected thumbnail cleared, got %q", s.Thumbnail)
	}
	if _, err := os.Stat(thumbPath(t, adapter, s.ID)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected stale thumbnail removed, stat err=%v", err)
	}
	loaded, err := adapter.Read(s.ID)
	if err != nil || loaded.Name != "flaky v2" {
		t.Fatalf("expected updated document, got %+v err=%v", loaded, err)
	}
}

func TestConcurrentUpdatesSameIDNeverInterleave(t *testing.T) {
	adapter := newSlideAdapter(t)
	base := testsupport.NewSlide("race")
	if err := adapter.Create(base); err != nil {
		t.Fatalf("create: %v", err)
	}

	names := make([]string, 24)
	var wg sync.WaitGroup
	for i := range names {
		names[i] = "writer-" + string(rune('a'+i))
		copyOf := base.Snapshot()
		copyOf.Name = names[i]
		for range i {
			copyOf.Add(slide.NewComponent("extra", slide.Rect{Width: 50, Height: 50}, &slide.TextBody{Text: names[i]}))
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := adapter.Update(copyOf); err != nil {
				t.Errorf("update %s: %v", copyOf.Name, err)
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(docPath(t, adapter, base.ID))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	final, err := document.UnmarshalSlide(data)
	if err != nil {
		t.Fatalf("final document corrupt: %v", err)
	}
	i := slices.Index(names, final.Name)
	if i < 0 {
		t.Fatalf("final name %q was never written", final.Name)
	}
	if got, want := len(final.Components), 2+i; got != want {
		t.Fatalf("mixed write: %s has %d components, want %d", final.Name, got, want)
	}
}

func TestModifySerializesReadModifyWrite(t *testing.T) {
	adapter := newSlideAdapter(t)
	base := testsupport.NewSlide("counter")
	if err := adapter.Create(base); err != nil {
		t.Fatalf("create: %v", err)
	}
	start := len(base.Components)

	const writers = 32
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := adapter.Modify(base.ID, func(s *slide.Slide) error {
				s.Add(slide.NewComponent("extra", slide.Rect{Width: 10, Height: 10}, &slide.TextBody{Text: string(rune('a' + i))}))
				return nil
			})
			if err != nil {
				t.Errorf("modify %d: %v", i, err)
			}
		}()
	}
	wg.Wait()

	final, err := adapter.Read(base.ID)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got, want := len(final.Components), start+writers; got != want {
		t.Fatalf("lost modifications: got %d components want %d", got, want)
	}
}

func TestModifyWithoutChangesAndMissingDocument(t *testing.T) {
	adapter := newSlideAdapter(t)
	s := testsupport.NewSlide("steady")
	if err := adapter.Create(s); err != nil {
		t.Fatalf("create: %v", err)
	}
	before, err := os.ReadFile(docPath(t, adapter, s.ID))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	got, err := adapter.Modify(s.ID, func(*slide.Slide) error { return store.ErrNoChange })
	if err != nil {
		t.Fatalf("modify without change: %v", err)
	}
	if got.ID != s.ID {
		t.Fatalf("unexpected item %q", got.ID)
	}
	after, err := os.ReadFile(docPath(t, adapter, s.ID))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("expected the document left untouched")
	}

	boom := errors.New("rejected")
	if _, err := adapter.Modify(s.ID, func(*slide.Slide) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if _, err := adapter.Modify("ghost", func(*slide.Slide) error { return nil }); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := adapter.Modify(s.ID, func(s *slide.Slide) error {
		s.ID = "renamed"
		return nil
	}); !errors.Is(err, paths.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID for a changed identifier, got %v", err)
	}
}

func TestFailedWriteRemovesThumbnail(t *testing.T) {
	adapter := newSlideAdapter(t)
	s := testsupport.NewSlide("blocked")
	// A non-empty directory at the document path makes the final rename fail.
	blocker := docPath(t, adapter, s.ID)
	if err := os.MkdirAll(filepath.Join(blocker, "keep"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := adapter.Update(s); err == nil {
		t.Fatal("expected update to fail")
	}
	if s.Thumbnail != "" {
		t.Fatalf("expected thumbnail cleared, got %q", s.Thumbnail)
	}
	if _, err := os.Stat(thumbPath(t, adapter, s.ID)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no orphan thumbnail, stat err=%v", err)
	}
}

func TestDifferentIDsDoNotSerialize(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	renderer := thumbnail.RendererFunc[*slide.Slide](func(s *slide.Slide, w, h int) (image.Image, error) {
		if s.Name == "slow" {
			close(entered)
			<-release
		}
		return thumbnail.SlideRenderer{}.Render(s, w, h)
	})
	adapter := newSlideAdapter(t, func(o *store.Options[*slide.Slide]) { o.Renderer = renderer })

	slow := testsupport.NewSlide("slow")
	fast := testsupport.NewSlide("fast")
	slowDone := make(chan error, 1)
	go func() { slowDone <- adapter.Update(slow) }()
	<-entered

	fastDone := make(chan error, 1)
	go func() { fastDone <- adapter.Update(fast) }()
	select {
	case err := <-fastDone:
		if err != nil {
			t.Fatalf("fast update: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("update of a different id waited for the slow write")
	}

	close(release)
	if err := <-slowDone; err != nil {
		t.Fatalf("slow update: %v", err)
	}
}

func TestImportArchiveToleratesBadEntries(t *testing.T) {
	adapter := newSlideAdapter(t)
	good := testsupport.NewSlide("good")
	corrupt := []byte(`{"format":"slidedeck","version":"1.0.0","type":"slide","id":"bad",
		"bounds":{"x":0,"y":0,"width":10,"height":10},"opacity":1,"timeMs":-1,
		"components":[{"type":"hologram","id":"c1","bounds":{"x":0,"y":0,"width":1,"height":1},"opacity":1,"body":{}}]}`)

	archive := filepath.Join(t.TempDir(), "bundle.zip")
	testsupport.WriteZip(t, archive,
		testsupport.ZipEntry{Name: "slides/"},
		testsupport.ZipEntry{Name: "slides/" + good.ID + ".json", Data: testsupport.SlideJSON(t, good)},
		testsupport.ZipEntry{Name: "slides/bad.json", Data: corrupt},
		testsupport.ZipEntry{Name: "notes/readme.txt", Data: []byte("hello there")},
		testsupport.ZipEntry{Name: "slides/_thumbs/" + good.ID + ".png", Data: []byte("\x89PNG")},
	)

	result, err := adapter.Import(archive)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Created) != 1 || result.Created[0].ID != good.ID {
		t.Fatalf("expected the good slide created, got %+v", result.Created)
	}
	if len(result.Warnings) < 2 {
		t.Fatalf("expected warnings for the corrupt and unsupported entries, got %v", result.Warnings)
	}
	if !slices.Equal(result.Claimed, []string{"slides/" + good.ID + ".json"}) {
		t.Fatalf("unexpected claimed entries %v", result.Claimed)
	}
	if _, err := adapter.Read(good.ID); err != nil {
		t.Fatalf("good slide not persisted: %v", err)
	}

	again, err := adapter.Import(archive)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if len(again.Created) != 0 || len(again.Updated) != 1 {
		t.Fatalf("expected re-import to update, got created=%d updated=%d", len(again.Created), len(again.Updated))
	}
}

func TestImportRejectsMissingAndDirectories(t *testing.T) {
	adapter := newSlideAdapter(t)
	dir := t.TempDir()
	if _, err := adapter.Import(filepath.Join(dir, "missing.zip")); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := adapter.Import(dir); !errors.Is(err, store.ErrNotRegularFile) {
		t.Fatalf("expected ErrNotRegularFile, got %v", err)
	}

	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("plain words"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	result, err := adapter.Import(text)
	if !errors.Is(err, store.ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	if result == nil || len(result.Warnings) != 1 || !result.Warnings[0].Unclaimed {
		t.Fatalf("expected one unclaimed warning, got %+v", result)
	}
}

func TestImportUnparsableFileWarnsOnce(t *testing.T) {
	adapter := newSlideAdapter(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	doc := `{"format":"slidedeck","version":"1.0.0","type":"slide","id":"bad",
		"bounds":{"x":0,"y":0,"width":10,"height":10},"opacity":1,"timeMs":-1,
		"components":[{"type":"hologram","id":"c1","bounds":{"x":0,"y":0,"width":1,"height":1},"opacity":1,"body":{}}]}`
	if err := os.WriteFile(bad, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	result, err := adapter.Import(bad)
	if !errors.Is(err, store.ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	if result == nil || len(result.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %+v", result)
	}
	if w := result.Warnings[0]; !w.Unclaimed || !strings.Contains(w.Message, "could not be parsed") {
		t.Fatalf("unexpected warning %+v", w)
	}
}

func TestImportOversizedFile(t *testing.T) {
	adapter := newSlideAdapter(t, func(o *store.Options[*slide.Slide]) { o.MaxEntryBytes = 1024 })
	big := filepath.Join(t.TempDir(), "big.bin")
	testsupport.WriteFile(t, big, 4096)
	if _, err := adapter.Import(big); !errors.Is(err, store.ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
}

func TestImportLegacyFileFastPath(t *testing.T) {
	adapter := newSlideAdapter(t)
	legacy := filepath.Join(t.TempDir(), "old.xml")
	doc := `<slide id="legacy-1" name="Old"><text x="0" y="0" width="100" height="40">Hi</text><marquee/></slide>`
	if err := os.WriteFile(legacy, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	result, err := adapter.Import(legacy)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Created) != 1 || result.Created[0].ID != "legacy-1" {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning for <marquee>, got %v", result.Warnings)
	}
}

func TestExportArchiveRoundTrip(t *testing.T) {
	source := newSlideAdapter(t)
	a, b := testsupport.NewSlide("a"), testsupport.NewSlide("b")
	for _, s := range []*slide.Slide{a, b} {
		if err := source.Create(s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	archive := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	result, err := source.ExportStored(zw, format.Native, []string{a.ID, "missing", b.ID})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	wantNames := []string{"slides/" + a.ID + ".json", "slides/" + b.ID + ".json"}
	if !slices.Equal(result.Exported, wantNames) {
		t.Fatalf("unexpected entries %v", result.Exported)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0].Err, store.ErrNotFound) {
		t.Fatalf("expected one not-found error, got %v", result.Errors)
	}

	target := newSlideAdapter(t)
	imported, err := target.Import(archive)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(imported.Created) != 2 {
		t.Fatalf("expected 2 created, got %d (warnings %v)", len(imported.Created), imported.Warnings)
	}
}

func TestExportErrors(t *testing.T) {
	adapter := newSlideAdapter(t)
	s := testsupport.NewSlide("x")
	var buf bytes.Buffer
	if err := adapter.Export(&buf, format.Format("pptx"), s); !errors.Is(err, store.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if err := adapter.Export(&buf, format.LegacyXML, s); !errors.Is(err, format.ErrWriteUnsupported) {
		t.Fatalf("expected ErrWriteUnsupported, got %v", err)
	}
	if err := adapter.Export(&buf, format.Native, s); err != nil {
		t.Fatalf("native export: %v", err)
	}
	if !document.IsDocument(buf.Bytes(), document.TypeSlide) {
		t.Fatal("expected a native slide document")
	}

	zw := zip.NewWriter(&bytes.Buffer{})
	result, err := adapter.ExportArchive(zw, format.LegacyXML, []*slide.Slide{s})
	if err != nil {
		t.Fatalf("archive export should itemize provider failures: %v", err)
	}
	if len(result.Exported) != 0 || len(result.Errors) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestLoadAllReportsCorruptFiles(t *testing.T) {
	adapter := newSlideAdapter(t)
	s := testsupport.NewSlide("ok")
	if err := adapter.Create(s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := os.WriteFile(docPath(t, adapter, "broken"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	items, failures, err := adapter.LoadAll()
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(items) != 1 || items[0].ID != s.ID {
		t.Fatalf("unexpected items %v", items)
	}
	if len(failures) != 1 || failures[0].ID != "broken" {
		t.Fatalf("unexpected failures %v", failures)
	}
}

type recordingIndexer struct {
	mu      sync.Mutex
	indexed []store.Record
	removed []string
}

func (r *recordingIndexer) Index(_ context.Context, rec store.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed = append(r.indexed, rec)
	return nil
}

func (r *recordingIndexer) Remove(_ context.Context, kind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, kind+"/"+id)
	return errors.New("catalog offline")
}

func TestIndexerReceivesChanges(t *testing.T) {
	idx := &recordingIndexer{}
	adapter := newSlideAdapter(t, func(o *store.Options[*slide.Slide]) {
		o.Indexer = idx
		o.Describe = func(s *slide.Slide) store.Record {
			return store.Record{Tags: s.Tags, Media: s.ReferencedMedia()}
		}
	})
	s := testsupport.NewSlide("indexed")
	s.SetTags("intro")
	if err := adapter.Create(s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := adapter.Delete(s.ID); err != nil {
		t.Fatalf("indexer failure must not fail delete: %v", err)
	}
	if len(idx.indexed) != 1 {
		t.Fatalf("expected one index call, got %d", len(idx.indexed))
	}
	rec := idx.indexed[0]
	if rec.Kind != "slides" || rec.ID != s.ID || rec.Name != "indexed" || rec.Path != docPath(t, adapter, s.ID) {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !slices.Equal(rec.Media, []string{"logo-indexed"}) {
		t.Fatalf("unexpected media %v", rec.Media)
	}
	if !slices.Equal(idx.removed, []string{"slides/" + s.ID}) {
		t.Fatalf("unexpected removals %v", idx.removed)
	}
}

func TestNewValidatesOptions(t *testing.T) {
	if _, err := store.New(store.Options[*slide.Slide]{}); err == nil {
		t.Fatal("expected error without resolver")
	}
	_, err := store.New(store.Options[*slide.Slide]{
		Resolver: paths.New(t.TempDir(), "slides", ".json"),
		Formats:  format.NewRegistry(format.LegacySlides()),
	})
	if !errors.Is(err, store.ErrUnknownFormat) {
		t.Fatalf("expected missing native provider to fail, got %v", err)
	}
}
