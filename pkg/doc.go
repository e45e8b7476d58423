// Package pkg provides the libraries behind the genogram CLI and server.
//
// # Overview
//
// A genogram is a family tree drawn by generation: each couple sits side by
// side with a small marriage label node between them, and children hang
// from that label one generation below. The pkg directory is organized into
// four areas:
//
//  1. Domain: [family] records and [genogram/builder], which turns them into
//     a graph of people and marriage labels.
//  2. Layout: [layered], a generic layered graph layout engine, and
//     [genogram/layout], which merges couples, keeps remarried people in one
//     generation and splits couples back into spouses after layout.
//  3. Output: [render/nodelink] draws a layout as Graphviz DOT, SVG or PNG.
//  4. Infrastructure: [pipeline] (family → layout → render with caching),
//     [cache], [store], [config], [observability] and [server].
//
// # Architecture
//
//	family.json / legacy JSON / YAML
//	         ↓
//	    [family] (canonical records, validation)
//	         ↓
//	    [genogram/builder] (people, labels, marriage and parent links)
//	         ↓
//	    [genogram/layout] on [layered] (generations, positions, routes)
//	         ↓
//	    [render/nodelink] (DOT, SVG, PNG) or layout JSON
//
// # Quick Start
//
//	fam, _ := family.ReadFile("smiths.json")
//	res, _ := layout.FromFamily(fam, layout.DefaultOptions())
//	svg, _ := nodelink.RenderSVG(ctx, nodelink.ToDOT(res, nodelink.Options{}))
//
// With caching and concurrent rendering:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	out, _ := runner.Execute(ctx, fam, pipeline.Options{Formats: []string{"svg", "json"}})
//
// # Testing
//
//	go test ./pkg/...
//	GENOGRAM_TEST_REDIS_ADDR=localhost:6379 go test ./pkg/cache/...
//	GENOGRAM_TEST_MONGO_URI=mongodb://localhost go test ./pkg/store/...
package pkg
