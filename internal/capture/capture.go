// Package capture snapshots rendered canvas pixels into portable PNG data
// URIs for handoff to the chat subsystem. Stateless: it reads an already
// rendered frame and encodes it.
package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Prefix of every produced data URI.
const Prefix = "data:image/png;base64,"

// MaxDimension bounds the longer side of a captured image before it is sent
// to the chat backend; larger captures are downscaled.
const MaxDimension = 1568

// DataURI encodes img as a PNG data URI. A nil or zero-size image yields a
// degenerate URI with an empty payload, never an error: the caller is
// responsible for capturing after a render.
func DataURI(img image.Image) string {
	if img == nil || img.Bounds().Empty() {
		return Prefix
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Prefix
	}
	return Prefix + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// Region copies the part of src under r, clipped to src's bounds. The copy is
// anchored at the origin so downstream encoders see a plain w×h image.
func Region(src *image.RGBA, r image.Rectangle) *image.RGBA {
	r = r.Intersect(src.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	if r.Empty() {
		return dst
	}
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

// Fit downscales img so its longer side is at most max pixels, preserving
// aspect ratio. Images already within bounds are returned unchanged.
func Fit(img *image.RGBA, max int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}

	scale := float64(max) / float64(w)
	if h > w {
		scale = float64(max) / float64(h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Snapshot crops r out of the rendered frame, bounds its size, and encodes it
// for the chat subsystem.
func Snapshot(frame *image.RGBA, r image.Rectangle) string {
	return DataURI(Fit(Region(frame, r), MaxDimension))
}

// Decode reverses DataURI, for tests and for re-importing captures.
func Decode(uri string) (image.Image, error) {
	if len(uri) < len(Prefix) || uri[:len(Prefix)] != Prefix {
		return nil, fmt.Errorf("not a PNG data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(uri[len(Prefix):])
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}
