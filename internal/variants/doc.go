// Package variants runs the multi-size pipeline: for each size in a catalog it
// resizes a copy of the source image, applies the size's registered quality
// and filters, and saves the result.
//
// # Failure Handling
//
// Sizes are independent. A size with neither width nor height is skipped, a
// resize that the geometry declines (it would not shrink the image) is
// skipped, and a resize or save error drops only that size. Nothing is
// retried and the batch always completes.
//
// # Concurrency
//
// MultiResize mutates the editor it is given while it runs. Callers sharing
// an editor must serialize calls.
package variants
