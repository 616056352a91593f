package surface

import (
	"image/color"
	"testing"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
)

func TestDisplayable(t *testing.T) {
	tests := []struct {
		name         string
		in           strobe.Color
		wantHex      string
		wantHeadroom float64
	}{
		{"extended white clamps", strobe.Color{R: 2, G: 2, B: 2, A: 1}, "#ffffff", 2},
		{"standard white", strobe.Color{R: 1, G: 1, B: 1, A: 1}, "#ffffff", 1},
		{"black", strobe.Color{A: 1}, "#000000", 0},
		{"extended red", strobe.Color{R: 4, A: 1}, "#ff0000", 4},
		{"negative clamps to zero", strobe.Color{R: -1, G: -1, B: -1, A: 1}, "#000000", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, headroom := Displayable(tt.in)
			if got := col.Hex(); got != tt.wantHex {
				t.Errorf("hex = %s, want %s", got, tt.wantHex)
			}
			if headroom != tt.wantHeadroom {
				t.Errorf("headroom = %v, want %v", headroom, tt.wantHeadroom)
			}
			if Hex(tt.in) != tt.wantHex {
				t.Errorf("Hex() = %s, want %s", Hex(tt.in), tt.wantHex)
			}
		})
	}
}

func TestNRGBA_Alpha(t *testing.T) {
	tests := []struct {
		alpha float64
		want  uint8
	}{
		{1, 255},
		{2, 255},
		{0, 0},
		{-3, 0},
		{0.5, 128},
	}
	for _, tt := range tests {
		got := NRGBA(strobe.Color{R: 1, G: 1, B: 1, A: tt.alpha})
		if got.A != tt.want {
			t.Errorf("alpha %v → %d, want %d", tt.alpha, got.A, tt.want)
		}
		if got.R != 255 {
			t.Errorf("alpha %v: R = %d, want 255", tt.alpha, got.R)
		}
	}
	if NRGBA(strobe.FlashColor) != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Error("FlashColor should map to opaque white")
	}
}

func TestFlashColorIsExtended(t *testing.T) {
	if !strobe.FlashColor.Extended() {
		t.Error("FlashColor should request extended-range brightness")
	}
	if (strobe.Color{R: 1, G: 1, B: 1}).Extended() {
		t.Error("standard white is not extended")
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open("vulkan", Options{}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
