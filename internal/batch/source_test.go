package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/zero-one-labs/zeroptics/constants"
	"github.com/zero-one-labs/zeroptics/internal/common"
)

// fakeRasterizer opens fake documents keyed by the PDF's byte content.
type fakeRasterizer struct {
	pages   map[string]int // content -> page count
	failOpn map[string]bool
	badPage map[string]int // content -> page that fails to render
}

func (r *fakeRasterizer) Open(data []byte) (Document, error) {
	key := string(data)
	if r.failOpn[key] {
		return nil, errors.New("broken xref")
	}
	return &fakeDocument{key: key, pages: r.pages[key], badPage: r.badPage[key]}, nil
}

type fakeDocument struct {
	key     string
	pages   int
	badPage int
	closed  bool
}

func (d *fakeDocument) PageCount() int { return d.pages }

func (d *fakeDocument) RenderPage(page int, scale float64) ([]byte, error) {
	if d.badPage != 0 && page == d.badPage {
		return nil, errors.New("render failed")
	}
	return []byte(fmt.Sprintf("%s:p%d@%.1f", d.key, page, scale)), nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func drain(t *testing.T, src UnitSource) []PageUnit {
	t.Helper()
	var units []PageUnit
	for {
		u, ok, err := src.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			return units
		}
		units = append(units, u)
	}
}

func TestFromPaths(t *testing.T) {
	b, err := FromPaths([]string{"a.pdf", "b.JPG", "c.jpeg", "d.png"})
	if err != nil {
		t.Fatalf("FromPaths: %v", err)
	}
	wantKinds := []constants.Kind{constants.PDF, constants.Image, constants.Image, constants.Image}
	for i, k := range wantKinds {
		if b.Items[i].Kind != k {
			t.Errorf("item %d kind = %q, want %q", i, b.Items[i].Kind, k)
		}
	}

	if _, err := FromPaths([]string{"notes.txt"}); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput for unsupported extension", err)
	}
}

func TestSourceOrderAcrossItemsAndPages(t *testing.T) {
	dir := t.TempDir()
	img := writeFile(t, dir, "a.png", []byte("img-a"))
	pdf := writeFile(t, dir, "b.pdf", []byte("doc-b"))
	img2 := writeFile(t, dir, "c.jpg", []byte("img-c"))

	b, err := FromPaths([]string{img, pdf, img2})
	if err != nil {
		t.Fatal(err)
	}
	ras := &fakeRasterizer{pages: map[string]int{"doc-b": 3}}
	units := drain(t, NewSource(b, ras, 2.0, nil))

	want := []struct {
		item, page, pages int
		image             string
	}{
		{0, 1, 1, "img-a"},
		{1, 1, 3, "doc-b:p1@2.0"},
		{1, 2, 3, "doc-b:p2@2.0"},
		{1, 3, 3, "doc-b:p3@2.0"},
		{2, 1, 1, "img-c"},
	}
	if len(units) != len(want) {
		t.Fatalf("got %d units, want %d", len(units), len(want))
	}
	for i, w := range want {
		u := units[i]
		if u.ItemIndex != w.item || u.Page != w.page || u.Pages != w.pages || string(u.Image) != w.image {
			t.Errorf("unit %d = {item:%d page:%d pages:%d image:%q}, want %+v",
				i, u.ItemIndex, u.Page, u.Pages, string(u.Image), w)
		}
	}
}

func TestSourceSkipsUnopenablePDF(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.pdf", []byte("corrupt"))
	img := writeFile(t, dir, "ok.png", []byte("img"))

	b, err := FromPaths([]string{bad, img})
	if err != nil {
		t.Fatal(err)
	}
	ras := &fakeRasterizer{failOpn: map[string]bool{"corrupt": true}}
	units := drain(t, NewSource(b, ras, 2.0, nil))

	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	if units[0].ItemIndex != 1 || string(units[0].Image) != "img" {
		t.Errorf("surviving unit = %+v", units[0])
	}
}

func TestSourceRenderFailureVoidsRestOfItem(t *testing.T) {
	dir := t.TempDir()
	pdf := writeFile(t, dir, "d.pdf", []byte("doc"))
	img := writeFile(t, dir, "e.png", []byte("img"))

	b, err := FromPaths([]string{pdf, img})
	if err != nil {
		t.Fatal(err)
	}
	ras := &fakeRasterizer{pages: map[string]int{"doc": 4}, badPage: map[string]int{"doc": 2}}
	units := drain(t, NewSource(b, ras, 2.0, nil))

	// Page 1 renders; page 2 fails, voiding pages 3-4; the image follows.
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	if units[0].Page != 1 || units[0].ItemIndex != 0 {
		t.Errorf("first unit = %+v", units[0])
	}
	if units[1].ItemIndex != 1 {
		t.Errorf("second unit = %+v", units[1])
	}
}

func TestSourceSkipsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	img := writeFile(t, dir, "real.png", []byte("img"))

	b, err := FromPaths([]string{filepath.Join(dir, "missing.png"), img})
	if err != nil {
		t.Fatal(err)
	}
	units := drain(t, NewSource(b, nil, 2.0, nil))

	if len(units) != 1 || string(units[0].Image) != "img" {
		t.Fatalf("units = %+v", units)
	}
}

func TestSourceEmptyBatch(t *testing.T) {
	units := drain(t, NewSource(Batch{}, nil, 2.0, nil))
	if len(units) != 0 {
		t.Errorf("got %d units, want 0", len(units))
	}
}

func TestSourceContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewSource(FromFrame([]byte("frame")), nil, 2.0, nil)
	if _, _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFrameThumbnail(t *testing.T) {
	b := FromFrame([]byte("frame"))
	units := drain(t, NewSource(b, nil, 2.0, nil))
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	if string(units[0].Thumbnail) != "frame" {
		t.Error("camera frame should carry a thumbnail")
	}

	// A file-backed image does not.
	dir := t.TempDir()
	img := writeFile(t, dir, "f.png", []byte("img"))
	fb, err := FromPaths([]string{img})
	if err != nil {
		t.Fatal(err)
	}
	units = drain(t, NewSource(fb, nil, 2.0, nil))
	if len(units) != 1 || units[0].Thumbnail != nil {
		t.Error("file-backed image should not carry a thumbnail")
	}
}
