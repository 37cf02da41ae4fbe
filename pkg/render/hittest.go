package render

// RegionKind identifies what a span of the bar shows.
type RegionKind int

const (
	None RegionKind = iota
	Tag
	Mode
	Layout
	Title
	Status
)

func (k RegionKind) String() string {
	switch k {
	case Tag:
		return "tag"
	case Mode:
		return "mode"
	case Layout:
		return "layout"
	case Title:
		return "title"
	case Status:
		return "status"
	}
	return "none"
}

// Region is the span [Start, End) in device pixels. Index is the tag
// number for tags and the seat position for modes.
type Region struct {
	Kind       RegionKind
	Index      int
	Start, End int
}

// Regions returns the spans a frame of v would have, left to right. They
// come from the same layout calls Compose makes.
func (r *Renderer) Regions(v View) []Region {
	return r.walk(v, nil)
}

// HitTest returns the first region whose end lies past x, in device
// pixels, or a region of kind None.
func (r *Renderer) HitTest(v View, x int) Region {
	if x < 0 {
		return Region{}
	}
	for _, reg := range r.Regions(v) {
		if x < reg.End {
			return reg
		}
	}
	return Region{}
}
