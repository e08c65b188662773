package debug

// ClassifyUpdate names an update pass by how much of the grid it redrew.
func ClassifyUpdate(blits, cells int) string {
	switch {
	case blits == 0:
		return "idle"
	case blits >= cells:
		return "full"
	default:
		return "partial"
	}
}
