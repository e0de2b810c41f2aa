package compositor

import "image"

// bufferCache recycles intermediate buffers between frames of the same
// size. Buffers are handed out cleared.
type bufferCache struct {
	rgba  map[image.Rectangle]*image.RGBA
	alpha map[image.Rectangle]*image.Alpha
}

func (c *bufferCache) rgbaBuf(r image.Rectangle) *image.RGBA {
	if b, ok := c.rgba[r]; ok {
		clear(b.Pix)
		return b
	}
	if c.rgba == nil {
		c.rgba = make(map[image.Rectangle]*image.RGBA)
	}
	b := image.NewRGBA(r)
	c.rgba[r] = b
	return b
}

func (c *bufferCache) alphaBuf(r image.Rectangle) *image.Alpha {
	if b, ok := c.alpha[r]; ok {
		clear(b.Pix)
		return b
	}
	if c.alpha == nil {
		c.alpha = make(map[image.Rectangle]*image.Alpha)
	}
	b := image.NewAlpha(r)
	c.alpha[r] = b
	return b
}

func (c *bufferCache) owns(img *image.RGBA) bool {
	return img != nil && c.rgba[img.Rect] == img
}

func (c *bufferCache) size() int {
	return len(c.rgba) + len(c.alpha)
}

func (c *bufferCache) reset() {
	c.rgba = nil
	c.alpha = nil
}
