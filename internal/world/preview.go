package world

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"worldstream/internal/entities"
)

const (
	previewCellSize     = 4
	previewMarkerRadius = 3
	previewAmbientLight = 0.35
)

// heightBands colour the ground by elevation, lowest first.
var heightBands = []struct {
	below float64
	color string
}{
	{0, "#2a4d7a"},
	{1, "#c2b280"},
	{16, "#4f7d3a"},
	{28, "#6b6b5e"},
	{math.Inf(1), "#f0f0f4"},
}

var markerColors = map[entities.Category]string{
	entities.CategoryTree:    "#1f4d1a",
	entities.CategoryFlower:  "#e86fb0",
	entities.CategoryCritter: "#8b5a2b",
	entities.CategoryLitter:  "#ff3b30",
}

var previewSun = mgl64.Vec3{-0.4, 1, 0.3}.Normalize()

// SavePreview renders a top-down shaded heightmap of chunk with a marker for
// every live entity and writes it to dir/chunk_<i>_<j>.png.
func SavePreview(chunk *Chunk, outputDir string) error {
	if chunk == nil {
		return fmt.Errorf("chunk is nil")
	}
	grid := chunk.Grid
	if grid == nil || len(grid.Samples) == 0 {
		return fmt.Errorf("chunk %s has no height grid", chunk.Key)
	}

	width := (grid.Width + 1) * previewCellSize
	height := (grid.Height + 1) * previewCellSize
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	background := color.NRGBA{R: 10, G: 10, B: 18, A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	for j := 0; j <= grid.Height; j++ {
		for i := 0; i <= grid.Width; i++ {
			idx := grid.Index(i, j)
			base := resolveHeightColor(grid.Samples[idx].Height)
			light := 1.0
			if chunk.Mesh != nil && idx < len(chunk.Mesh.Normals) {
				light = previewAmbientLight + (1-previewAmbientLight)*math.Max(0, chunk.Mesh.Normals[idx].Dot(previewSun))
			}
			// Grid row 0 is the chunk's southern edge; draw it at the bottom.
			y := (grid.Height - j) * previewCellSize
			rect := image.Rect(i*previewCellSize, y, (i+1)*previewCellSize, y+previewCellSize)
			draw.Draw(img, rect, &image.Uniform{applyLighting(base, light)}, image.Point{}, draw.Src)
		}
	}

	origin := grid.Samples[0]
	for _, ent := range chunk.Entities {
		col, ok := parseHexColor(markerColors[ent.Category])
		if !ok {
			continue
		}
		cx := int(math.Round((ent.Position.X()-origin.X)*previewCellSize)) + previewCellSize/2
		cy := int(math.Round((float64(grid.Height)-(-ent.Position.Z()-origin.Y))*previewCellSize)) + previewCellSize/2
		fillPolygon(img, []image.Point{
			{X: cx, Y: cy - previewMarkerRadius},
			{X: cx + previewMarkerRadius, Y: cy},
			{X: cx, Y: cy + previewMarkerRadius},
			{X: cx - previewMarkerRadius, Y: cy},
		}, col)
	}

	if err := ensurePreviewDir(outputDir); err != nil {
		return err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("chunk_%d_%d.png", chunk.Key.I, chunk.Key.J))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

func resolveHeightColor(h float64) color.NRGBA {
	for _, band := range heightBands {
		if h < band.below {
			if col, ok := parseHexColor(band.color); ok {
				return col
			}
		}
	}
	return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
}

func parseHexColor(value string) (color.NRGBA, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return color.NRGBA{}, false
	}
	trimmed = strings.TrimPrefix(trimmed, "#")
	if len(trimmed) != 6 {
		return color.NRGBA{}, false
	}
	r, ok := parseHexByte(trimmed[0:2])
	if !ok {
		return color.NRGBA{}, false
	}
	g, ok := parseHexByte(trimmed[2:4])
	if !ok {
		return color.NRGBA{}, false
	}
	b, ok := parseHexByte(trimmed[4:6])
	if !ok {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, true
}

func parseHexByte(value string) (uint8, bool) {
	if len(value) != 2 {
		return 0, false
	}
	v, err := strconv.ParseUint(value, 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

func applyLighting(base color.NRGBA, factor float64) color.NRGBA {
	factor = clamp(factor, 0, 1)
	r := uint8(math.Round(float64(base.R) * factor))
	g := uint8(math.Round(float64(base.G) * factor))
	b := uint8(math.Round(float64(base.B) * factor))
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func fillPolygon(img *image.NRGBA, pts []image.Point, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	minY := pts[0].Y
	maxY := pts[0].Y
	for _, p := range pts[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	bounds := img.Bounds()
	minY = max(minY, bounds.Min.Y)
	maxY = min(maxY, bounds.Max.Y-1)
	tmp := make([]int, 0, len(pts))
	for y := minY; y <= maxY; y++ {
		tmp = tmp[:0]
		for i := range pts {
			j := (i + 1) % len(pts)
			x1, y1 := pts[i].X, pts[i].Y
			x2, y2 := pts[j].X, pts[j].Y
			if y1 == y2 {
				continue
			}
			if y < min(y1, y2) || y >= max(y1, y2) {
				continue
			}
			tmp = append(tmp, x1+(y-y1)*(x2-x1)/(y2-y1))
		}
		if len(tmp) < 2 {
			continue
		}
		sort.Ints(tmp)
		for i := 0; i+1 < len(tmp); i += 2 {
			xStart, xEnd := tmp[i], tmp[i+1]
			if xEnd < bounds.Min.X || xStart >= bounds.Max.X {
				continue
			}
			xStart = max(xStart, bounds.Min.X)
			xEnd = min(xEnd, bounds.Max.X-1)
			for x := xStart; x <= xEnd; x++ {
				idx := (y-bounds.Min.Y)*img.Stride + (x-bounds.Min.X)*4
				img.Pix[idx] = col.R
				img.Pix[idx+1] = col.G
				img.Pix[idx+2] = col.B
				img.Pix[idx+3] = col.A
			}
		}
	}
}

func ensurePreviewDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory is empty")
	}
	return os.MkdirAll(dir, 0o755)
}
