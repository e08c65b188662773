package retrocon

import "testing"

func TestFitZoom(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH int
		integer                bool
		want                   Zoom
	}{
		{"exact", 640, 300, 640, 300, false, Zoom{Scale: 1}},
		{"double", 640, 300, 1280, 600, true, Zoom{Scale: 2}},
		{"integer letterbox", 640, 300, 1920, 1080, true, Zoom{Scale: 3, OffsetX: 0, OffsetY: 90}},
		{"fractional fills width", 640, 300, 1600, 1000, false, Zoom{Scale: 2.5, OffsetX: 0, OffsetY: 125}},
		{"integer never below one", 640, 300, 320, 150, true, Zoom{Scale: 1, OffsetX: -160, OffsetY: -75}},
		{"fractional shrinks", 640, 300, 320, 300, false, Zoom{Scale: 0.5, OffsetX: 0, OffsetY: 75}},
		{"invalid source", 0, 300, 640, 300, false, Zoom{Scale: 1}},
		{"invalid destination", 640, 300, 640, -1, true, Zoom{Scale: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitZoom(tt.srcW, tt.srcH, tt.dstW, tt.dstH, tt.integer)
			if got != tt.want {
				t.Errorf("FitZoom() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestZoomSize(t *testing.T) {
	w, h := Zoom{Scale: 1.5}.Size(640, 300)
	if w != 960 || h != 450 {
		t.Errorf("Size() = %dx%d, want 960x450", w, h)
	}
}
