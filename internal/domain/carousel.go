package domain

import "fmt"

// Carousel is a bounded cursor over a fixed list of image URLs. Movement stops
// at either end instead of wrapping.
type Carousel struct {
	images []string
	index  int
}

// NewCarousel starts at the first image. An empty list is rejected; callers
// render a single fallback image instead.
func NewCarousel(images []string) (*Carousel, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	owned := make([]string, len(images))
	copy(owned, images)
	return &Carousel{images: owned}, nil
}

// Next advances one image; no-op on the last image
func (c *Carousel) Next() {
	if c.index < len(c.images)-1 {
		c.index++
	}
}

// Prev moves back one image; no-op on the first image
func (c *Carousel) Prev() {
	if c.index > 0 {
		c.index--
	}
}

// Valid reports whether i addresses an image
func (c *Carousel) Valid(i int) bool {
	return i >= 0 && i < len(c.images)
}

// JumpTo selects image i. Passing an index outside the image list is a caller
// bug and panics.
func (c *Carousel) JumpTo(i int) {
	if !c.Valid(i) {
		panic(fmt.Sprintf("carousel: index %d out of range [0,%d)", i, len(c.images)))
	}
	c.index = i
}

func (c *Carousel) Index() int {
	return c.index
}

// Current returns the URL of the selected image
func (c *Carousel) Current() string {
	return c.images[c.index]
}

func (c *Carousel) Len() int {
	return len(c.images)
}

// Images returns a copy of the image list
func (c *Carousel) Images() []string {
	out := make([]string, len(c.images))
	copy(out, c.images)
	return out
}

func (c *Carousel) AtFirst() bool {
	return c.index == 0
}

func (c *Carousel) AtLast() bool {
	return c.index == len(c.images)-1
}
