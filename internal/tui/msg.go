package tui

// HiddenMsg shows or hides the overlay.
type HiddenMsg struct{ Hidden bool }

// PresentMsg fills the overlay with a colour. Seq identifies the frame so
// callers can wait for it to be rendered.
type PresentMsg struct {
	Seq  uint64
	Fill string // "#rrggbb"
	Bold bool
}
