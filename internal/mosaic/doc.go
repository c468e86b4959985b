// Package mosaic turns a photograph into a grid of color swatches.
//
// The pipeline is:
//
//	image.Image -> Tiler -> TileRaster -> Sampler -> ToKey -> Resolver -> Grid
//
// A Tiler cuts the source into fixed-size tiles, dropping the partial strips
// on the right and bottom edges. A Sampler averages every fifth pixel of a
// tile. ToKey encodes the average as a six digit lowercase hex ColorKey, and a
// Resolver (normally HTTPResolver, querying GET /color/{key}) returns the
// swatch that replaces the tile. The Assembler drives all of this and hands
// out a Grid only once every tile has resolved.
//
// # Ordering
//
// Each tile carries its (row, col) index from the moment it is cut. Swatches
// are stored by that index, so the grid order never depends on the order in
// which the swatch service answers.
//
// # Errors
//
// Sampling problems are recovered locally: the tile uses black and the Cell
// records the reason in Fallback. Resolution problems are not: a *StatusError
// or *TransportError from any tile fails the whole assembly.
package mosaic
