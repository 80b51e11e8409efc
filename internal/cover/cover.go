// Package cover turns cover image bytes into terminal thumbnails.
//
// Each terminal cell shows two vertically stacked pixels using the upper half
// block: the foreground paints the top pixel and the background the bottom
// one. Images are scaled to fit the cell box while keeping their aspect ratio
// and centered on the supplied background color.
package cover

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder
)

const upperHalfBlock = "▀"

// FallbackIcon is shown in place of a cover that could not be loaded.
const FallbackIcon = "▤"

// maxPixels bounds the decoded size of a cover. Headers are checked before
// any pixel data is allocated.
const maxPixels = 8192 * 8192

var errTooLarge = errors.New("image too large")

// Decode parses image bytes in any registered format.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode cover: empty data")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode cover: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("decode cover: empty image")
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("decode cover: %dx%d: %w", cfg.Width, cfg.Height, errTooLarge)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode cover: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode cover: empty image")
	}
	return img, nil
}

// RenderImage draws img into a width x height cell thumbnail.
func RenderImage(img image.Image, width, height int, bg string) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("render cover: invalid size %dx%d", width, height)
	}
	canvas := fit(img, width, height*2, parseHex(bg))

	lines := make([]string, 0, height)
	for row := 0; row < height; row++ {
		var b strings.Builder
		for col := 0; col < width; col++ {
			top := canvas.RGBAAt(col, row*2)
			bottom := canvas.RGBAAt(col, row*2+1)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(top))).
				Background(lipgloss.Color(hex(bottom)))
			b.WriteString(cell.Render(upperHalfBlock))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n"), nil
}

// Placeholder renders the fallback view: an icon above the title, centered
// in a width x height box.
func Placeholder(title string, width, height int, iconStyle, titleStyle lipgloss.Style) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled"
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		iconStyle.Render(FallbackIcon),
		"",
		titleStyle.Width(width).Align(lipgloss.Center).MaxHeight(height-2).Render(title),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// fit scales img into a w x h canvas, preserving aspect ratio.
func fit(img image.Image, w, h int, bg color.RGBA) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	src := img.Bounds()
	sw, sh := src.Dx(), src.Dy()
	dw, dh := w, h
	if sw*h > sh*w {
		dh = max(1, sh*w/sw)
	} else {
		dw = max(1, sw*h/sh)
	}
	x0 := (w - dw) / 2
	y0 := (h - dh) / 2
	dst := image.Rect(x0, y0, x0+dw, y0+dh)
	draw.ApproxBiLinear.Scale(canvas, dst, img, src, draw.Over, nil)
	return canvas
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func parseHex(s string) color.RGBA {
	var r, g, b uint8
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{A: 0xff}
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
