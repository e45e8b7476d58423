// Package layout positions a genogram.
//
// [Compute] takes a [builder.Graph] and returns a [Result] with a box for
// every person and marriage label node plus a route for every link.
//
// # Couples
//
// A married couple is laid out as a single vertex wide enough for both
// spouses and the spouse gap. People with several marriages are tied
// together with their spouses into a cohort whose marriages all share one
// generation. After the layered engine has placed the vertices, each couple
// is split again: men go left and women right unless the links to their own
// parents would cross, and a hidden spouse collapses the pair onto one spot.
//
// # Generations
//
// Generations follow the longest path from the oldest ancestors. Within a
// generation every vertex is stretched to the deepest one so that all boxes
// line up on their top edge (left edge for horizontal layouts).
//
// # Only Children
//
// A lone child without spouse is centered under its parents when that spot
// is free.
package layout
