package page

import "testing"

func TestComputeLanding(t *testing.T) {
	p, err := Load("testdata/landing.yaml")
	if err != nil {
		t.Fatal(err)
	}
	l, err := Compute(p, p.Viewport)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	want := []SectionLayout{
		{ID: "hero", Top: 0, Height: 800, Pinned: true, Start: 0, End: 1040},
		{ID: "find-supplier", Top: 1840, Height: 800, Pinned: true, Start: 1840, End: 2880},
		{ID: "cut-time", Top: 3680, Height: 800, Pinned: true, Start: 3680, End: 4720},
		{ID: "expand-uae", Top: 5520, Height: 800, Pinned: true, Start: 5520, End: 6560},
	}
	for i, w := range want {
		if got := l.Sections[i]; got != w {
			t.Errorf("section %d = %+v, want %+v", i, got, w)
		}
	}

	tops := map[string]float64{
		"industries":   7360,
		"services":     8480,
		"how-it-works": 9440,
		"supplier":     10400,
		"buyer":        11280,
		"pricing":      12160,
		"quote":        13120,
		"footer":       13920,
	}
	for _, s := range l.Sections[4:] {
		if s.Top != tops[s.ID] {
			t.Errorf("%s top = %g, want %g", s.ID, s.Top, tops[s.ID])
		}
		if s.PinDistance() != 0 {
			t.Errorf("%s should not be pinned", s.ID)
		}
	}
	if l.DocumentHeight != 14240 {
		t.Errorf("DocumentHeight = %g, want 14240", l.DocumentHeight)
	}
	if l.MaxScroll() != 13440 {
		t.Errorf("MaxScroll = %g, want 13440", l.MaxScroll())
	}
}

func TestComputeMinimal(t *testing.T) {
	p, err := Load("testdata/minimal.toml")
	if err != nil {
		t.Fatal(err)
	}
	l, err := Compute(p, p.Viewport)
	if err != nil {
		t.Fatal(err)
	}
	hero, details := l.Sections[0], l.Sections[1]
	if hero.Start != 0 || hero.End != 1000 || hero.PinDistance() != 1000 {
		t.Errorf("hero = %+v", hero)
	}
	if details.Top != 1500 || details.Height != 750 {
		t.Errorf("details = %+v", details)
	}
	if l.DocumentHeight != 2250 || l.MaxScroll() != 1750 {
		t.Errorf("height %g, max scroll %g", l.DocumentHeight, l.MaxScroll())
	}
}

func TestComputeScalesWithViewport(t *testing.T) {
	p, err := Load("testdata/minimal.toml")
	if err != nil {
		t.Fatal(err)
	}
	l, err := Compute(p, Viewport{Width: 800, Height: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if l.Sections[0].End != 2000 {
		t.Errorf("hero end = %g, want 2000", l.Sections[0].End)
	}
	if l.Sections[1].Top != 3000 || l.Sections[1].Height != 1500 {
		t.Errorf("details = %+v", l.Sections[1])
	}
}

func TestComputeErrors(t *testing.T) {
	p, err := ParseYAML([]byte(`sections: [{id: a, pin: true, end: "+=lots"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Compute(p, p.Viewport); err == nil {
		t.Error("expected error for bad trigger")
	}
	if _, err := Compute(p, Viewport{}); err == nil {
		t.Error("expected error for empty viewport")
	}

	p, err = ParseYAML([]byte(`sections: [{id: a, height: -10}]`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Compute(p, p.Viewport); err == nil {
		t.Error("expected error for negative height")
	}
}

func TestSectionAt(t *testing.T) {
	p, err := Load("testdata/landing.yaml")
	if err != nil {
		t.Fatal(err)
	}
	l, _ := Compute(p, p.Viewport)
	tests := []struct {
		offset float64
		want   string
	}{
		{0, "hero"},
		{1039, "hero"},
		{1840, "find-supplier"},
		{7000, "expand-uae"},
		{7360, "industries"},
		{13440, "quote"},
	}
	for _, tt := range tests {
		if got := l.Sections[l.SectionAt(tt.offset)].ID; got != tt.want {
			t.Errorf("SectionAt(%g) = %s, want %s", tt.offset, got, tt.want)
		}
	}
}
