// Package layered implements a layered (Sugiyama-style) digraph layout over
// an arena of vertices.
//
// # Overview
//
// A [Network] holds vertices with a size and a focus point, and directed
// edges between them. [Layout] runs four phases:
//
//  1. Layering: cycles are broken by removing back edges, then every vertex
//     gets the longest-path layer from the sources. All successors of an
//     anchor vertex ([Network.AddAnchor]) are layered as a single unit, which
//     forces them onto one layer.
//  2. Adjustment: the optional [Options.AdjustLayers] hook may resize
//     vertices now that layers are known.
//  3. Ordering: edges spanning several layers are broken by virtual
//     vertices, rows are seeded from a depth-first walk and refined with
//     barycenter sweeps, keeping the order with the fewest crossings.
//  4. Coordinates: vertices are packed along each layer and balanced toward
//     their neighbors without overlapping; layers are stacked with
//     [Options.LayerSpacing] between them.
//
// Anchors carry a layer but are never arranged, so they occupy no space.
//
// # Crossings
//
// [Network.Crossings] counts segment crossings between consecutive layers
// with a Fenwick tree in O(E log V).
//
// # Determinism
//
// Every phase iterates in vertex and edge ID order and sorts stably, so the
// same network always produces the same layout. Calling [Layout] again on a
// network discards the virtual vertices of the previous run.
package layered
