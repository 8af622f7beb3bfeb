package pinscroll

// elementIDCounter is a plain counter; pinscroll is single-threaded.
var elementIDCounter uint32

func nextElementID() uint32 {
	elementIDCounter++
	return elementIDCounter
}

// Element is a ready-made Target with the common transform and alpha fields.
// Hosts read the fields when drawing. Properties with no matching field are
// kept in Extra.
type Element struct {
	// Identity
	ID   uint32
	Name string

	// Transform offsets relative to the element's layout position.
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64

	// Alpha is the element opacity in [0, 1].
	Alpha float64

	// Extra holds values for property names without a dedicated field.
	Extra map[string]float64

	// Color tints the element when drawn by a host.
	Color Color

	// UserData is arbitrary host data (section index, widget handle, ...).
	UserData any

	dirty bool
}

// NewElement creates an element at rest: no offset, unit scale, fully opaque.
func NewElement(name string) *Element {
	return &Element{
		ID:     nextElementID(),
		Name:   name,
		ScaleX: 1,
		ScaleY: 1,
		Alpha:  1,
		Color:  ColorWhite,
	}
}

// SetProperties implements Target. "scale" is applied before the other
// properties, so "scaleX" and "scaleY" in the same map override it.
func (e *Element) SetProperties(props Props) {
	if v, ok := props[PropScale]; ok {
		e.Set(PropScale, v)
	}
	for name, v := range props {
		if name == PropScale {
			continue
		}
		e.Set(name, v)
	}
}

// Set writes a single property and marks the element dirty.
func (e *Element) Set(name string, v float64) {
	switch name {
	case PropX:
		e.X = v
	case PropY:
		e.Y = v
	case PropOpacity:
		e.Alpha = v
	case PropScale:
		e.ScaleX = v
		e.ScaleY = v
	case PropScaleX:
		e.ScaleX = v
	case PropScaleY:
		e.ScaleY = v
	case PropRotation:
		e.Rotation = v
	default:
		if e.Extra == nil {
			e.Extra = make(map[string]float64)
		}
		e.Extra[name] = v
	}
	e.dirty = true
}

// Get reads a property by name. Unknown names without an Extra value
// return 0, false.
func (e *Element) Get(name string) (float64, bool) {
	switch name {
	case PropX:
		return e.X, true
	case PropY:
		return e.Y, true
	case PropOpacity:
		return e.Alpha, true
	case PropScale, PropScaleX:
		return e.ScaleX, true
	case PropScaleY:
		return e.ScaleY, true
	case PropRotation:
		return e.Rotation, true
	}
	v, ok := e.Extra[name]
	return v, ok
}

// Dirty reports whether a property changed since the last ClearDirty.
func (e *Element) Dirty() bool {
	return e.dirty
}

// ClearDirty resets the dirty flag. Hosts call it after drawing.
func (e *Element) ClearDirty() {
	e.dirty = false
}
