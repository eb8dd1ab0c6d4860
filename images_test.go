package wishwall

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestMakeThumbnailDownscalesWideImages(t *testing.T) {
	data := encodePNG(t, 960, 600)

	thumb, err := makeThumbnail(data)
	if err != nil {
		t.Fatalf("makeThumbnail failed: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if got := img.Bounds().Dx(); got != thumbMaxWidth {
		t.Errorf("width = %d, want %d", got, thumbMaxWidth)
	}
	if got := img.Bounds().Dy(); got != 300 {
		t.Errorf("height = %d, want 300", got)
	}
}

func TestMakeThumbnailKeepsNarrowImages(t *testing.T) {
	data := encodePNG(t, 200, 300)

	thumb, err := makeThumbnail(data)
	if err != nil {
		t.Fatalf("makeThumbnail failed: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 300 {
		t.Errorf("bounds = %v, want 200x300", img.Bounds())
	}
}

func TestMakeThumbnailRejectsGarbage(t *testing.T) {
	if _, err := makeThumbnail([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}
