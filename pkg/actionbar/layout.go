package actionbar

// Size is the bar's extent, in whatever unit the layout uses.
type Size struct {
	Width  float64
	Height float64
}

// IconSlot identifies one of the bar's action icons.
type IconSlot int

const (
	IconDrag IconSlot = iota
	IconReset
)

func (s IconSlot) String() string {
	switch s {
	case IconDrag:
		return "drag"
	case IconReset:
		return "reset"
	}
	return "unknown"
}

// Placement positions a square icon. X is measured from the bar centre.
type Placement struct {
	X    float64
	Size float64
}

// ChooserPlacement positions the visualization chooser inside the bar.
type ChooserPlacement struct {
	X           float64
	IconSize    float64
	IconPadding float64
	MenuOffsetY float64
}

// Metrics are the fixed dimensions the arrangement is computed from.
type Metrics struct {
	IconSize     float64
	CornerRadius float64
	MenuGap      float64
}

// DefaultMetrics matches the node editor's scene units.
var DefaultMetrics = Metrics{
	IconSize:     20,
	CornerRadius: 14,
	MenuGap:      5,
}

// Arrangement is everything the layout collaborator needs after a resize.
type Arrangement struct {
	Size    Size
	Icons   [2]Placement
	Chooser ChooserPlacement
}

// Arrange computes icon and chooser positions for a bar of the given size.
// Icons sit left to right from the bar's left edge, inset by the corner
// radius; the chooser is a square of the bar's height at the right edge.
func Arrange(size Size, m Metrics) Arrangement {
	a := Arrangement{Size: size}
	root := -size.Width / 2
	for slot := range a.Icons {
		a.Icons[slot] = Placement{
			X:    root + float64(slot)*m.IconSize + m.CornerRadius,
			Size: m.IconSize,
		}
	}
	a.Chooser = ChooserPlacement{
		X:           size.Width/2 - size.Height/2,
		IconSize:    size.Height,
		IconPadding: size.Height / 3,
		MenuOffsetY: m.MenuGap,
	}
	return a
}

// Layout receives positioning and scene membership updates. No return
// values are consumed.
type Layout interface {
	SetSize(Size)
	PlaceIcon(IconSlot, Placement)
	PlaceChooser(ChooserPlacement)
	// SetAttached adds (true) or removes the background, chooser and icons.
	SetAttached(bool)
	SetIconAttached(IconSlot, bool)
}

// NopLayout ignores every call.
type NopLayout struct{}

func (NopLayout) SetSize(Size) {}
func (NopLayout) PlaceIcon(IconSlot, Placement) {}
func (NopLayout) PlaceChooser(ChooserPlacement) {}
func (NopLayout) SetAttached(bool) {}
func (NopLayout) SetIconAttached(IconSlot, bool) {}

func applyArrangement(l Layout, a Arrangement) {
	l.SetSize(a.Size)
	for slot, p := range a.Icons {
		l.PlaceIcon(IconSlot(slot), p)
	}
	l.PlaceChooser(a.Chooser)
}
