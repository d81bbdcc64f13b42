// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
)

// layout places a module matrix with its quiet zone inside a Size x Size canvas.
type layout struct {
	modules int // symbol width without quiet zone
	total   int // symbol width including quiet zone on both sides
	scale   int // pixels per module
	offset  int // pixels from the canvas edge to the quiet zone
}

func newLayout(matrix [][]bool, opts Options) (layout, error) {
	n := len(matrix)
	if n == 0 {
		return layout{}, fmt.Errorf("empty symbol")
	}
	total := n + 2*opts.Margin
	scale := opts.Size / total
	if scale < 1 {
		return layout{}, fmt.Errorf("size %dpx too small for %d modules", opts.Size, total)
	}
	return layout{
		modules: n,
		total:   total,
		scale:   scale,
		offset:  (opts.Size - scale*total) / 2,
	}, nil
}

// origin returns the pixel coordinate of the first symbol module.
func (l layout) origin(margin int) int {
	return l.offset + margin*l.scale
}

func draw(matrix [][]bool, opts Options) (*Image, error) {
	l, err := newLayout(matrix, opts)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch opts.Format {
	case FormatSVG:
		data = drawSVG(matrix, opts, l)
	default:
		data, err = drawPNG(matrix, opts, l)
		if err != nil {
			return nil, err
		}
	}

	return &Image{
		Data:        data,
		ContentType: opts.Format.ContentType(),
		Format:      opts.Format,
		Size:        opts.Size,
		Modules:     l.modules,
	}, nil
}

func drawPNG(matrix [][]bool, opts Options, l layout) ([]byte, error) {
	// Index 0 is the background so the zero-valued canvas is already the quiet zone.
	palette := color.Palette{opts.Background, opts.Foreground}
	img := image.NewPaletted(image.Rect(0, 0, opts.Size, opts.Size), palette)

	origin := l.origin(opts.Margin)
	for y, row := range matrix {
		for x, dark := range row {
			if !dark {
				continue
			}
			px, py := origin+x*l.scale, origin+y*l.scale
			for dy := 0; dy < l.scale; dy++ {
				off := img.PixOffset(px, py+dy)
				for dx := 0; dx < l.scale; dx++ {
					img.Pix[off+dx] = 1
				}
			}
		}
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawSVG emits a single path in module units; the viewBox scales it to Size.
func drawSVG(matrix [][]bool, opts Options, l layout) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" shape-rendering="crispEdges">`,
		l.total, l.total, opts.Size, opts.Size)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="%s"/>`, l.total, l.total, HexColor(opts.Background))
	sb.WriteString(`<path fill="`)
	sb.WriteString(HexColor(opts.Foreground))
	sb.WriteString(`" d="`)
	for y, row := range matrix {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&sb, "M%d %dh1v1h-1z", x+opts.Margin, y+opts.Margin)
			}
		}
	}
	sb.WriteString(`"/></svg>`)
	return []byte(sb.String())
}
