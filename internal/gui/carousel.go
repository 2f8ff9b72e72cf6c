package gui

import "fmt"

// Carousel tracks the paging state of one horizontal card strip. Each strip
// owns its own Carousel instance; nothing here touches the screen. The
// widget layer reads Offset, CanPrev and CanNext after every mutation and
// projects them in a single place.
type Carousel struct {
	cardCount    int
	cardWidth    float32
	gap          float32
	visibleCount int
	currentIndex int
}

// NewCarousel creates a carousel over cardCount cards of cardWidth points
// each, separated by gap points, and sizes it to the given viewport width.
func NewCarousel(cardCount int, cardWidth, gap, viewportWidth float32) (*Carousel, error) {
	if cardCount <= 0 {
		return nil, fmt.Errorf("carousel needs at least one card, got %d", cardCount)
	}
	if cardWidth <= 0 {
		return nil, fmt.Errorf("carousel card width must be positive, got %v", cardWidth)
	}
	if gap < 0 {
		return nil, fmt.Errorf("carousel gap must not be negative, got %v", gap)
	}

	c := &Carousel{
		cardCount:    cardCount,
		cardWidth:    cardWidth,
		gap:          gap,
		visibleCount: 1,
	}
	c.Resize(viewportWidth)
	return c, nil
}

// Resize recomputes how many whole cards fit the given viewport width and
// clamps the current position into the new range. Call it once on creation
// and again whenever the viewport changes, never from cached dimensions.
func (c *Carousel) Resize(viewportWidth float32) {
	visible := int(viewportWidth / c.Step())
	if visible < 1 {
		// A viewport narrower than one card still pages one card at a time.
		visible = 1
	}
	c.visibleCount = visible

	if max := c.MaxIndex(); c.currentIndex > max {
		c.currentIndex = max
	}
}

// Step returns the horizontal distance between the left edges of two
// neighbouring cards.
func (c *Carousel) Step() float32 {
	return c.cardWidth + c.gap
}

// MaxIndex returns the largest index the carousel can scroll to. Past it the
// strip would show trailing blank space, so paging stops there. When every
// card already fits the viewport the carousel cannot move at all.
func (c *Carousel) MaxIndex() int {
	max := c.cardCount - c.visibleCount
	if max < 0 {
		return 0
	}
	return max
}

// Next advances one card. At the last reachable index it does nothing.
func (c *Carousel) Next() {
	if c.currentIndex < c.MaxIndex() {
		c.currentIndex++
	}
}

// Prev steps back one card. At the first card it does nothing.
func (c *Carousel) Prev() {
	if c.currentIndex > 0 {
		c.currentIndex--
	}
}

// CanPrev reports whether the carousel can step back. The prev control is
// enabled exactly when this returns true.
func (c *Carousel) CanPrev() bool {
	return c.currentIndex > 0
}

// CanNext reports whether the carousel can advance. The next control is
// enabled exactly when this returns true.
func (c *Carousel) CanNext() bool {
	return c.currentIndex < c.MaxIndex()
}

// Offset returns the horizontal translation of the card track for the
// current position: -(currentIndex * (cardWidth + gap)). Index zero sits at
// offset zero and every step moves the track one card width plus gap to the
// left.
func (c *Carousel) Offset() float32 {
	return -float32(c.currentIndex) * c.Step()
}

// CurrentIndex returns the index of the leftmost visible card.
func (c *Carousel) CurrentIndex() int {
	return c.currentIndex
}

// VisibleCount returns how many whole cards fit the viewport.
func (c *Carousel) VisibleCount() int {
	return c.visibleCount
}

// CardCount returns the number of cards in the strip.
func (c *Carousel) CardCount() int {
	return c.cardCount
}

// CardWidth returns the width of a single card.
func (c *Carousel) CardWidth() float32 {
	return c.cardWidth
}

// Gap returns the spacing between neighbouring cards.
func (c *Carousel) Gap() float32 {
	return c.gap
}
