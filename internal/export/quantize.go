package export

import (
	"image"
	"image/color"
	"slices"
)

// MedianCut builds an adaptive palette by repeatedly splitting the colour box
// with the widest channel range at its pixel-weighted median.
// It satisfies draw.Quantizer.
type MedianCut struct{}

type colorCount struct {
	rgb [3]uint8
	n   int
}

type colorBox struct {
	colors []colorCount
	total  int
}

// widest returns the channel with the largest spread and that spread.
func (b colorBox) widest() (channel int, spread int) {
	for c := 0; c < 3; c++ {
		lo, hi := 255, 0
		for _, cc := range b.colors {
			v := int(cc.rgb[c])
			lo = min(lo, v)
			hi = max(hi, v)
		}
		if hi-lo > spread {
			channel, spread = c, hi-lo
		}
	}
	return channel, spread
}

func (b colorBox) split(channel int) (colorBox, colorBox) {
	slices.SortFunc(b.colors, func(x, y colorCount) int {
		return int(x.rgb[channel]) - int(y.rgb[channel])
	})
	half, seen, at := b.total/2, 0, 1
	for i, cc := range b.colors[:len(b.colors)-1] {
		seen += cc.n
		at = i + 1
		if seen >= half {
			break
		}
	}
	lo, hi := colorBox{colors: b.colors[:at]}, colorBox{colors: b.colors[at:]}
	for _, cc := range lo.colors {
		lo.total += cc.n
	}
	hi.total = b.total - lo.total
	return lo, hi
}

func (b colorBox) average() color.Color {
	var sum [3]int
	for _, cc := range b.colors {
		for c := 0; c < 3; c++ {
			sum[c] += int(cc.rgb[c]) * cc.n
		}
	}
	if b.total == 0 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{
		R: uint8((sum[0] + b.total/2) / b.total),
		G: uint8((sum[1] + b.total/2) / b.total),
		B: uint8((sum[2] + b.total/2) / b.total),
		A: 0xff,
	}
}

func packRGB(rgb [3]uint8) int {
	return int(rgb[0])<<16 | int(rgb[1])<<8 | int(rgb[2])
}

// Quantize appends up to cap(p)-len(p) colours chosen for m to p.
func (MedianCut) Quantize(p color.Palette, m image.Image) color.Palette {
	limit := cap(p) - len(p)
	if limit <= 0 {
		limit = 256 - len(p)
	}
	if limit <= 0 {
		return p
	}

	counts := make(map[[3]uint8]int)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			counts[[3]uint8{c.R, c.G, c.B}]++
		}
	}

	box := colorBox{colors: make([]colorCount, 0, len(counts))}
	for rgb, n := range counts {
		box.colors = append(box.colors, colorCount{rgb: rgb, n: n})
		box.total += n
	}
	// map iteration order is random; keep the palette deterministic
	slices.SortFunc(box.colors, func(x, y colorCount) int {
		return packRGB(x.rgb) - packRGB(y.rgb)
	})

	boxes := []colorBox{box}
	for len(boxes) < limit {
		pick, pickSpread, pickChannel := -1, 0, 0
		for i, bx := range boxes {
			if len(bx.colors) < 2 {
				continue
			}
			if ch, spread := bx.widest(); spread > pickSpread {
				pick, pickSpread, pickChannel = i, spread, ch
			}
		}
		if pick < 0 {
			break
		}
		lo, hi := boxes[pick].split(pickChannel)
		boxes[pick] = lo
		boxes = append(boxes, hi)
	}

	for _, bx := range boxes {
		if len(bx.colors) > 0 {
			p = append(p, bx.average())
		}
	}
	return p
}
