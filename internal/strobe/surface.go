package strobe

import "context"

// Frame is an opaque render target obtained from a Surface. It is valid only
// for the Present call that consumes it.
type Frame interface{}

// Color is a linear RGBA clear colour. R, G and B may exceed 1.0 to request
// extended-range brightness from the display pipeline.
type Color struct {
	R, G, B, A float64
}

// FlashColor is the clear colour of every flash. Channels above 1.0 ask the
// display for output brighter than standard white.
var FlashColor = Color{R: 2, G: 2, B: 2, A: 1}

// Extended reports whether any colour channel is above standard white.
func (c Color) Extended() bool {
	return c.R > 1 || c.G > 1 || c.B > 1
}

// Layer is the host layer the overlay is composited on.
type Layer interface {
	// SetHidden hides or shows the overlay immediately, without animation.
	SetHidden(hidden bool)
	// Valid reports false once the layer has been torn down.
	Valid() bool
}

// Surface is the render target the controller flashes.
type Surface interface {
	Layer
	// AcquireFrame returns nil when no frame is available right now.
	AcquireFrame() Frame
	// Present clears f to c and submits it for display without waiting.
	Present(f Frame, c Color)
}

// Drainer is implemented by surfaces that can report when the last
// presented frame has reached the display.
type Drainer interface {
	Drain(ctx context.Context) error
}

// ApplyVisibility shows or hides the overlay on l. It is a no-op when l is
// nil or already torn down. Call it only from the controller's tick.
func ApplyVisibility(l Layer, visible bool) {
	if l == nil || !l.Valid() {
		return
	}
	l.SetHidden(!visible)
}
