// Package imaging implements the resize geometry and the image editor used to
// derive size variants from a source image.
//
// # Geometry
//
// ResolveDimensions maps an original size and a target box to a Plan: the
// source rectangle to sample and the destination rectangle to draw into. Two
// modes are supported:
//   - Fit: the whole image is scaled down to fit inside the box
//   - Crop: the image is scaled to cover the box and the overflow is cut
//     away, positioned by an anchor pair (left/center/right, top/center/bottom)
//
// A DimensionOverride with Zoom > 1 narrows the sampled rectangle further for
// tighter crops. Plans never enlarge an image on both axes.
//
// # Coordinate System
//
// Coordinates are 0-based with (0,0) at the top-left corner. X grows to the
// right and Y grows downward. Source rectangles are relative to the image
// bounds origin.
//
// # Editor
//
// An Editor owns a working Handle, its logical size and the output quality.
// Resize executes a Plan through a pluggable Sampler, ApplyFilter runs named
// filters from a FilterSet, and Save hands the pixels to a storage.Saver.
//
// # Thread Safety
//
// ImageCache and FilterSet are safe for concurrent use. Editor and Handle are
// not; callers must serialize access to a single editor.
package imaging
