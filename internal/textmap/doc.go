// Package textmap renders a whole-document overview for a side panel and
// keeps it synchronized with the primary text view.
//
// The overview is a miniature silhouette of every line. Lines edited since
// the baseline was captured are drawn in a highlight color, as are lines
// containing the active search text, and both get a marker at the panel's
// right edge. A translucent indicator shows which lines the primary view
// currently displays. Clicking or dragging in the overview scrolls the
// primary view to the line under the pointer.
//
// # Architecture
//
// The engine composes several sub-packages on every full redraw:
//
//   - tracking: current line snapshot and change detection against anchors
//   - search: literal search-match annotation
//   - downsample: font scale selection and line elision
//   - render: silhouette and marker painting
//   - viewport: indicator placement and pixel-to-line mapping
//   - cache: offscreen layer reuse for scroll-only redraws
//   - theme: document color resolution
//
// # Host Integration
//
// The engine never calls into a GUI toolkit. The host implements Host and
// Document and forwards its events:
//
//	e, err := textmap.New(host, textmap.DefaultConfig(),
//		textmap.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	// From the panel's paint callback
//	e.OnRedrawRequested(canvas)
//
//	// From input callbacks
//	e.OnPointerDown(y)
//	e.OnPointerDrag(y, buttonHeld)
//	e.OnScroll(core.ScrollDown)
//
//	// From document and view notifications
//	e.NotifyContentChanged()
//	e.NotifyViewportMoved()
//
// # Thread Safety
//
// The engine is single-threaded. All methods must be called from the
// host's event loop goroutine. Repaint requests are delegated to the host,
// which is expected to coalesce them.
package textmap
