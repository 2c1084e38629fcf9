package core

// Point is a single canvas coordinate.
type Point struct {
	X float64
	Y float64
}

// BrushSizes are the only brush diameters the drawing surface supports.
var BrushSizes = []float64{5, 7.5, 10}

// ValidBrushSize reports whether size is one of the supported diameters.
func ValidBrushSize(size float64) bool {
	for _, s := range BrushSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Stroke is the minimal unit of drawing relayed between members: the segment
// just drawn plus the tail of the previous one, so renderers can connect the
// line caps. Strokes are ephemeral and never stored server-side.
type Stroke struct {
	Current  []Point
	Previous []Point
	Color    string
	Size     float64
}
