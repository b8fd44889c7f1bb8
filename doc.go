// Package dialmesh turns hour numerals into printable watch-dial solids.
//
// The pipeline takes each numeral's font outlines, normalizes them into
// polygons, places them radially on the dial face, optionally distorts
// them, extrudes them into triangle meshes and validates the result.
// Slots never share state, so they run in parallel; an Assembly merges
// the survivors into one combined mesh in slot order.
package dialmesh
