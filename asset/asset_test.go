package asset

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
)

type countingDecoder struct {
	calls atomic.Int32
	fail  bool
}

func (d *countingDecoder) Decode(src string) (Texture, error) {
	d.calls.Add(1)
	if d.fail {
		return nil, errors.New("boom")
	}
	return image.NewRGBA(image.Rect(0, 0, 64, 64)), nil
}

func TestCacheLoadsOncePerSource(t *testing.T) {
	dec := &countingDecoder{}
	c := NewCache(dec)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Load("hero.png"); err != nil {
				t.Errorf("load: %v", err)
			}
		}()
	}
	wg.Wait()

	if _, err := c.Load("tiles.png"); err != nil {
		t.Fatalf("load tiles: %v", err)
	}
	first, _ := c.Load("hero.png")
	second, _ := c.Get("hero.png")
	if first != second {
		t.Fatalf("cache returned different textures for the same source")
	}
	if got := dec.calls.Load(); got != 2 {
		t.Fatalf("decoder calls = %d, want 2", got)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	dec := &countingDecoder{fail: true}
	c := NewCache(dec)
	if _, err := c.Load("missing.png"); err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := c.Get("missing.png"); ok {
		t.Fatalf("failed decode should not be cached")
	}
	if _, err := c.Load(""); err == nil {
		t.Fatalf("empty source should fail")
	}
}

func TestBuildAtlas(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 64, 32))
	frames, err := BuildAtlas("npc-down", base, [][4]int{{0, 0, 16, 32}, {16, 0, 16, 32}})
	if err != nil {
		t.Fatalf("atlas: %v", err)
	}
	if len(frames) != 2 || frames[1].Key != "npc-down-1" {
		t.Fatalf("frames = %+v", frames)
	}
	if b := frames[1].Image.Bounds(); b.Min.X != 16 || b.Dx() != 16 || b.Dy() != 32 {
		t.Fatalf("frame bounds = %v", b)
	}

	if _, err := BuildAtlas("bad", base, [][4]int{{60, 0, 16, 16}}); err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
	if _, err := BuildAtlas("bad", nil, nil); err == nil {
		t.Fatalf("expected nil texture error")
	}
}

func TestFSDecoder(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	fsys := fstest.MapFS{"sprites/dot.png": &fstest.MapFile{Data: buf.Bytes()}}

	dec := NewFSDecoder(fsys, nil)
	tex, err := dec.Decode("assets/sprites/dot.png")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tex.Bounds().Dx() != 4 {
		t.Fatalf("bounds = %v", tex.Bounds())
	}
	if _, err := dec.Decode("sprites/none.png"); err == nil {
		t.Fatalf("expected missing file error")
	}
}
