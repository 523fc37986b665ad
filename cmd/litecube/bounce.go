package main

import (
	"github.com/litecube/litecube/internal/platform"
	"github.com/litecube/litecube/internal/vecmath"
)

// bouncer moves a rectangle of a fixed size around an area, reflecting off
// its edges.
type bouncer struct {
	area     platform.Rect
	width    int
	height   int
	pos      vecmath.Vector2
	velocity vecmath.Vector2
}

func newBouncer(area platform.Rect, x, y, width, height int, speed float64) *bouncer {
	return &bouncer{
		area:     area,
		width:    width,
		height:   height,
		pos:      vecmath.Vec2(float32(x), float32(y)),
		velocity: vecmath.Vec2(1, 1).Normalize().Scale(float32(speed)),
	}
}

// step advances one frame and returns the new integer position.
func (b *bouncer) step() (int, int) {
	next := b.pos.Add(b.velocity)

	minX, minY := float32(b.area.X), float32(b.area.Y)
	maxX := float32(b.area.X + b.area.Width - b.width)
	maxY := float32(b.area.Y + b.area.Height - b.height)
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}

	// Y grows downward on screen, so the top edge faces Vector2Up.
	switch {
	case next.X < minX:
		next.X = minX
		b.velocity = b.velocity.Reflect(vecmath.Vector2Right)
	case next.X > maxX:
		next.X = maxX
		b.velocity = b.velocity.Reflect(vecmath.Vector2Left)
	}
	switch {
	case next.Y < minY:
		next.Y = minY
		b.velocity = b.velocity.Reflect(vecmath.Vector2Up)
	case next.Y > maxY:
		next.Y = maxY
		b.velocity = b.velocity.Reflect(vecmath.Vector2Down)
	}

	b.pos = next
	return int(next.X), int(next.Y)
}
