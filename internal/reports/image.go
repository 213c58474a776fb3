package reports

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// ImageOptions controls how uploaded images are embedded in reports.
// MaxPixels bounds the decoded width × height; zero disables the check.
type ImageOptions struct {
	MaxEdge   int
	Quality   int
	MaxPixels int
}

// Thumbnail decodes data, shrinks it so the long edge is at most opts.MaxEdge
// (never enlarging), flattens transparency onto white and re-encodes it as JPEG.
// Images whose declared dimensions exceed opts.MaxPixels are refused before decoding.
func Thumbnail(data []byte, opts ImageOptions) ([]byte, image.Point, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("decode image: %w", err)
	}
	if opts.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(opts.MaxPixels) {
		return nil, image.Point{}, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("decode image: %w", err)
	}

	size := fitWithin(src.Bounds().Size(), opts.MaxEdge)
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, image.Point{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), size, nil
}

func fitWithin(size image.Point, maxEdge int) image.Point {
	w, h := size.X, size.Y
	if w > h {
		if w > maxEdge {
			h = h * maxEdge / w
			w = maxEdge
		}
	} else if h > maxEdge {
		w = w * maxEdge / h
		h = maxEdge
	}
	return image.Pt(max(w, 1), max(h, 1))
}
