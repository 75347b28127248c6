// Package render holds visual outputs for referral networks.
//
// The [nodelink] subpackage draws a forest as a Graphviz node-link diagram,
// either as DOT source or as SVG rendered in-process.
//
// [nodelink]: github.com/matzehuels/reftree/pkg/render/nodelink
package render
