// Package elements provides the built-in pipeline elements: sources
// (input, empty, random, csv), transforms (format, replace, extract,
// iterate), aggregations (sort, groupby), and sinks (console, exec).
//
// Every element follows the global-defaults, per-datum-override pattern:
// construction parameters become the element's defaults table, and each
// incoming record may override any of them for that one item.
package elements
