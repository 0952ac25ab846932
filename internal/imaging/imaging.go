// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging inspects uploaded icon bytes. It reads only the image
// header, so probing a large file costs no more than probing a small one.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"strings"

	_ "golang.org/x/image/webp"
)

// MaxDimension bounds the width and height of an accepted icon.
const MaxDimension = 8192

// ErrNotImage is returned when the bytes do not decode as a supported
// raster format.
var ErrNotImage = errors.New("imaging: not a supported image")

// Info describes a probed image.
type Info struct {
	Format string // "png", "jpeg", "gif" or "webp"
	Width  int
	Height int
}

// rasterTypes are the content types Probe can verify.
var rasterTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpeg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// IsRaster reports whether contentType names a format Probe understands.
// Parameters such as "; charset=" are ignored.
func IsRaster(contentType string) bool {
	_, ok := rasterFormat(contentType)
	return ok
}

func rasterFormat(contentType string) (string, bool) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	f, ok := rasterTypes[mt]
	return f, ok
}

// Probe decodes the image header in data and returns its format and size.
func Probe(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("%w: empty %s image", ErrNotImage, format)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return Info{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrNotImage, cfg.Width, cfg.Height, MaxDimension)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// ProbeAs probes data and checks it matches the declared content type.
func ProbeAs(data []byte, contentType string) (Info, error) {
	want, ok := rasterFormat(contentType)
	if !ok {
		return Info{}, fmt.Errorf("%w: unsupported content type %q", ErrNotImage, contentType)
	}
	info, err := Probe(data)
	if err != nil {
		return Info{}, err
	}
	if info.Format != want {
		return Info{}, fmt.Errorf("%w: declared %s but content is %s", ErrNotImage, want, info.Format)
	}
	return info, nil
}
