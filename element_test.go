package pinscroll

import "testing"

func TestNewElementDefaults(t *testing.T) {
	a := NewElement("a")
	b := NewElement("b")
	if a.ID == b.ID {
		t.Error("element IDs should be unique")
	}
	if a.ScaleX != 1 || a.ScaleY != 1 || a.Alpha != 1 || a.Color != ColorWhite {
		t.Errorf("defaults = %+v", a)
	}
	if a.Dirty() {
		t.Error("new element should not be dirty")
	}
}

func TestElementSetProperties(t *testing.T) {
	el := NewElement("el")
	el.SetProperties(Props{
		PropX: 10, PropY: -5, PropOpacity: 0.3, PropScale: 2, PropRotation: 0.5, "blur": 4,
	})
	if el.X != 10 || el.Y != -5 || el.Alpha != 0.3 || el.ScaleX != 2 || el.ScaleY != 2 || el.Rotation != 0.5 {
		t.Errorf("fields = %+v", el)
	}
	if v, ok := el.Get("blur"); !ok || v != 4 {
		t.Errorf("Get(blur) = %f, %t", v, ok)
	}
	if !el.Dirty() {
		t.Error("element should be dirty after SetProperties")
	}
	el.ClearDirty()
	if el.Dirty() {
		t.Error("ClearDirty did not reset the flag")
	}
}

func TestElementScaleAxes(t *testing.T) {
	el := NewElement("el")
	el.Set(PropScaleX, 3)
	el.Set(PropScaleY, 0.5)
	if v, _ := el.Get(PropScale); v != 3 {
		t.Errorf("Get(scale) = %f, want ScaleX 3", v)
	}
	if v, _ := el.Get(PropScaleY); v != 0.5 {
		t.Errorf("Get(scaleY) = %f, want 0.5", v)
	}
}

func TestElementScaleAppliedBeforeAxes(t *testing.T) {
	// Map order is random, so repeat to catch an order dependence.
	for i := 0; i < 50; i++ {
		el := NewElement("el")
		el.SetProperties(Props{PropScale: 2, PropScaleX: 3})
		if el.ScaleX != 3 || el.ScaleY != 2 {
			t.Fatalf("scale = %f x %f, want 3 x 2", el.ScaleX, el.ScaleY)
		}
	}
}

func TestElementGetUnknown(t *testing.T) {
	el := NewElement("el")
	if _, ok := el.Get("missing"); ok {
		t.Error("Get of unknown property should report false")
	}
}

func TestStateStrings(t *testing.T) {
	if StateBefore.String() != "before" || StateActive.String() != "active" || StateAfter.String() != "after" || StateUnknown.String() != "unknown" {
		t.Error("RangeState strings")
	}
	if PinBefore.String() != "before" || PinPinned.String() != "pinned" || PinAfter.String() != "after" {
		t.Error("PinState strings")
	}
}
