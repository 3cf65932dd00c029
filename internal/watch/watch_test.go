package watch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/imgconv"
	"github.com/gogpu/imgconv/datauri"
)

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return datauri.Encode("image/png", buf.Bytes())
}

func TestMatches(t *testing.T) {
	w := &Watcher{}
	WithExtensions("b64", ".DataURI")(w)

	tests := []struct {
		name string
		want bool
	}{
		{"/in/a.b64", true},
		{"/in/A.B64", true},
		{"/in/a.datauri", true},
		{"/in/a.txt", false},
		{"/in/.a.b64", false},
		{"/in/a", false},
	}
	for _, tt := range tests {
		if got := w.Matches(tt.name); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	all := &Watcher{}
	if !all.Matches("/in/anything.png") {
		t.Error("watcher without extensions should match every file")
	}
	if all.Matches("/in/.swap") {
		t.Error("hidden files should never match")
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("/out", "/in/photo.b64", ".png")
	if got != filepath.Join("/out", "photo.png") {
		t.Errorf("OutputPath = %q", got)
	}
}

func TestConvertHandler(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	src := filepath.Join(in, "tiny.b64")
	if err := os.WriteFile(src, []byte(pngDataURI(t, 3, 2)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := ConvertHandler(imgconv.NewConverter(), out, ".png")
	if err := h(context.Background(), src); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "tiny.png"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != 3 || cfg.Height != 2 {
		t.Errorf("output size = %dx%d, want 3x2", cfg.Width, cfg.Height)
	}
}

func TestConvertHandlerErrors(t *testing.T) {
	in := t.TempDir()
	h := ConvertHandler(imgconv.NewConverter(), t.TempDir(), ".png")

	bad := filepath.Join(in, "bad.b64")
	if err := os.WriteFile(bad, []byte("not-an-image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h(context.Background(), bad); !errors.Is(err, imgconv.ErrDecode) {
		t.Errorf("bad image err = %v, want ErrDecode", err)
	}

	empty := filepath.Join(in, "empty.b64")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h(context.Background(), empty); !errors.Is(err, imgconv.ErrNoImage) {
		t.Errorf("empty file err = %v, want ErrNoImage", err)
	}

	if err := h(context.Background(), filepath.Join(in, "missing.b64")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v, want ErrNotExist", err)
	}
}

func TestWatcherRun(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	handled := make(map[string]int)
	done := make(chan string, 10)

	w, err := New(dir, func(_ context.Context, path string) error {
		mu.Lock()
		handled[filepath.Base(path)]++
		mu.Unlock()
		done <- path
		return nil
	}, WithExtensions(".b64"), WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx) }()

	// Give the event loop a moment before generating events.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "a.b64")
	for i := range 3 {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-done:
		if filepath.Base(got) != "a.b64" {
			t.Errorf("handled %q, want a.b64", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
	}

	cancel()
	select {
	case err := <-runErr:
		if err != nil {
			t.Errorf("Run error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if handled["ignored.txt"] != 0 {
		t.Error("file with unwatched extension was handled")
	}
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), func(context.Context, string) error { return nil })
	if err == nil {
		t.Error("New succeeded for a missing directory")
	}
}
