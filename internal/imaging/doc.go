// Package imaging provides the image primitives the mosaic pipeline is built on.
//
// This package decodes source photographs, copies rectangular regions out of
// them, encodes regions as transportable PNG rasters and exposes pixel buffers
// in a predictable layout. It also renders the previews and grid overlays used
// when displaying the original image next to its mosaic. All operations work
// with standard Go image.Image types and use a coordinate system where (0,0)
// is at the top-left corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// Regions are image.Rectangle values in the image's own coordinate space:
// Min is inclusive and Max is exclusive. Regions are never clipped; a region
// that leaves the image bounds is an error.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless and returns freshly allocated images, so tiles cut from the same
// source can be processed concurrently.
//
// # Error Handling
//
// Decode failures wrap ErrDecode so that callers can tell "the upload is not an
// image" apart from I/O errors with errors.Is.
package imaging
