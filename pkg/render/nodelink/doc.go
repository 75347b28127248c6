// Package nodelink renders referral forests as node-link diagrams.
//
// Convert a forest to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(f, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Edges point from referrer to referral and the layout runs top to bottom, so
// each tree hangs from its root. With Detailed set, labels also show the
// user's depth and total reach. Users listed in Options.Highlight are filled
// so top referrers stand out.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no external Graphviz install is needed.
package nodelink
