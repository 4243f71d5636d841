package asset

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// WrapFunc converts a decoded image into the texture type used at runtime.
type WrapFunc func(img image.Image) Texture

// FSDecoder decodes PNG sources from an fs.FS, falling back to the disk.
type FSDecoder struct {
	FS   fs.FS
	Wrap WrapFunc
}

// NewFSDecoder returns a decoder for fsys. A nil wrap keeps decoded images in
// memory as-is, which is what headless tools and tests want.
func NewFSDecoder(fsys fs.FS, wrap WrapFunc) *FSDecoder {
	if wrap == nil {
		wrap = WrapImage
	}
	return &FSDecoder{FS: fsys, Wrap: wrap}
}

func (d *FSDecoder) Decode(src string) (Texture, error) {
	b, err := d.read(src)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	return d.Wrap(img), nil
}

func (d *FSDecoder) read(src string) ([]byte, error) {
	clean := cleanAssetPath(src)
	if d.FS != nil {
		if b, err := fs.ReadFile(d.FS, clean); err == nil {
			return b, nil
		}
	}
	tried := []string{src, filepath.Join("assets", clean), filepath.Base(src)}
	for _, p := range tried {
		if b, err := os.ReadFile(p); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("failed to load image %s", src)
}

// WrapImage keeps img when it already supports SubImage and copies it into
// an RGBA image otherwise.
func WrapImage(img image.Image) Texture {
	if tex, ok := img.(Texture); ok {
		return tex
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}

// WrapEbiten uploads img as an ebiten image.
func WrapEbiten(img image.Image) Texture {
	return ebiten.NewImageFromImage(img)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	return strings.TrimPrefix(s, "assets/")
}
