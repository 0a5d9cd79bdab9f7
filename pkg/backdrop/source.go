// Package backdrop loads room and hall images and paints them into terminal
// cell grids, two pixels per cell using upper half blocks.
package backdrop

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// PreloadConcurrency bounds how many images are decoded at once
const PreloadConcurrency = 4

// Load decodes the image at path. Remote references are not fetched.
func Load(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("no image reference")
	}
	if strings.Contains(path, "://") {
		return nil, fmt.Errorf("remote image %s not supported", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open backdrop: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode backdrop %s: %w", path, err)
	}
	return img, nil
}

type entry struct {
	img image.Image
	err error
}

// Cache memoizes decoded images, including failures, by path.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	loads   int
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get returns the decoded image for path, loading it on first use
func (c *Cache) Get(path string) (image.Image, error) {
	c.mu.Lock()
	if e, ok := c.entries[path]; ok {
		c.mu.Unlock()
		return e.img, e.err
	}
	c.mu.Unlock()

	img, err := Load(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[path]; ok {
		return e.img, e.err
	}
	c.entries[path] = entry{img: img, err: err}
	c.loads++
	return img, err
}

// Peek returns an already decoded image without touching the disk
func (c *Cache) Peek(path string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[path]
	if !ok || e.err != nil {
		return nil, false
	}
	return e.img, true
}

// Forget drops every cached entry, e.g. after the catalog changed on disk
func (c *Cache) Forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Loads returns how many decodes the cache has performed
func (c *Cache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}

// Preload decodes paths concurrently. Individual failures are cached and
// counted, not returned: a missing image only means a generated backdrop.
func (c *Cache) Preload(ctx context.Context, paths []string) (failed int, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(PreloadConcurrency)

	var mu sync.Mutex
	for _, p := range paths {
		if p == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := c.Get(p); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}
	err = g.Wait()
	return failed, err
}

// Cover scales src to fill w x h, cropping the overflowing axis around the
// center the way CSS object-fit: cover does.
func Cover(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return dst
	}
	sb := src.Bounds()
	sw, sh := float64(sb.Dx()), float64(sb.Dy())
	if sw == 0 || sh == 0 {
		return dst
	}
	target := float64(w) / float64(h)
	crop := sb
	if sw/sh > target {
		cw := int(sh * target)
		x0 := sb.Min.X + (sb.Dx()-cw)/2
		crop = image.Rect(x0, sb.Min.Y, x0+cw, sb.Max.Y)
	} else {
		ch := int(sw / target)
		y0 := sb.Min.Y + (sb.Dy()-ch)/2
		crop = image.Rect(sb.Min.X, y0, sb.Max.X, y0+ch)
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}
