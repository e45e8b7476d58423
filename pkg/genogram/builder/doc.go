// Package builder turns a [family.Family] into the node/link graph a
// genogram is drawn from.
//
// Every person becomes a node. Every realized marriage becomes a marriage
// link between the spouses plus a marriage label node: an invisible node
// with a negative key that stands for the couple. Parent-child links always
// start at a label node and end at the child, so a child hangs below the
// couple rather than below either parent.
//
// The [Graph.Marriages] side table maps label keys to spouses and children,
// so consumers never need to infer couples from link shapes.
package builder
