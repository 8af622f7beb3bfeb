// Package pinscroll is a scroll-linked timeline engine for long single-page
// layouts: sections that pin the viewport while scroll drives their
// animation, sections that animate as they flow past, and a global snap
// that settles the page on a pinned section instead of mid-transition.
//
// # Quick start
//
// Create an [Engine] over the host's scroll container, register ranges,
// then feed scroll notifications and advance it once per frame:
//
//	engine := pinscroll.NewEngine(container, pinscroll.DefaultConfig())
//
//	hero := pinscroll.NewElement("hero-headline")
//	tl, _ := pinscroll.NewTimeline()
//	tl.FromTo(hero, 0.7, 1,
//		pinscroll.Props{"x": 0, "opacity": 1},
//		pinscroll.Props{"x": -230, "opacity": 0},
//		ease.InCubic)
//
//	engine.Register(pinscroll.Range{
//		Name: "hero", Start: 0, End: 1040,
//		Pinned: true, Timeline: tl, Scrub: 0.6,
//	})
//	engine.Activate()
//
//	// host loop
//	engine.OnScroll(pinscroll.ScrollEvent{Offset: y, Time: now})
//	engine.Update(dt)
//
// # Ranges and timelines
//
// A [Range] is a document-offset interval. Its [Timeline] is a set of
// [Segment] spans on the range's [0,1] progress axis; each segment animates
// properties of a [Target] with a gween easing function. Pinned ranges run
// a BEFORE → PINNED → AFTER state machine and call the range's [Pinner].
//
// # Snapping
//
// After [Engine.Activate] and a quiet settle delay the engine derives a
// [SnapState] from the pinned ranges. When scrolling stops inside a pinned
// range's tolerance band, the engine eases the scroll offset to the
// closest pinned range's centre.
//
// Page descriptions in YAML or TOML are handled by the page package; the
// termhost and ebitenhost packages run a page in a terminal or a window.
//
// Easing comes from [gween].
//
// [gween]: https://github.com/tanema/gween
package pinscroll
