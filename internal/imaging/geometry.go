package imaging

import (
	"image"
	"math"
)

// Plan describes a single sample-and-draw operation: the source rectangle to
// read from the original image and the destination rectangle to write into.
//
// The field order matches the classic resampled-copy parameter list
// (dst_x, dst_y, src_x, src_y, dst_w, dst_h, src_w, src_h). All values are
// non-negative.
type Plan struct {
	DestX   int `json:"dest_x"`
	DestY   int `json:"dest_y"`
	SourceX int `json:"source_x"`
	SourceY int `json:"source_y"`
	DestW   int `json:"dest_w"`
	DestH   int `json:"dest_h"`
	SourceW int `json:"source_w"`
	SourceH int `json:"source_h"`
}

// SourceRect returns the sampled rectangle in image coordinates relative to
// origin.
func (p Plan) SourceRect(origin image.Point) image.Rectangle {
	return image.Rect(p.SourceX, p.SourceY, p.SourceX+p.SourceW, p.SourceY+p.SourceH).Add(origin)
}

// DestRect returns the rectangle written in the destination canvas.
func (p Plan) DestRect() image.Rectangle {
	return image.Rect(p.DestX, p.DestY, p.DestX+p.DestW, p.DestY+p.DestH)
}

// DimensionOverride tightens the geometry of a single resize call.
//
// A nil override behaves like Zoom == 1. The override is handed to exactly
// one Editor.Resize call and never retained.
type DimensionOverride struct {
	// Zoom > 1 shrinks the sampled rectangle around its center, producing a
	// closer crop than a plain cover-crop would.
	Zoom float64
}

func (o *DimensionOverride) zoom() float64 {
	if o == nil || o.Zoom <= 0 {
		return 1
	}
	return o.Zoom
}

// ResolveDimensions computes the sampling plan for resizing an origW x origH
// image into a destW x destH box.
//
// A zero destW or destH means the side is unset and is derived from the other
// side so the aspect ratio is preserved. The second return value is false when
// no resize should happen: invalid input, or a result that would not shrink
// the image on at least one axis.
//
// # Crop mode
//
// The largest sub-rectangle of the original matching the destination aspect
// ratio is selected, positioned by the crop anchor, and scaled to exactly fill
// the destination box.
//
// # Fit mode
//
// The whole original is sampled and scaled down to fit inside the destination
// box. See ConstrainDimensions.
//
// # Zoom
//
// With zoom > 1 the sampled rectangle is shrunk by the zoom factor around its
// center. Both the horizontal and the vertical offset are derived from the
// sampled width.
func ResolveDimensions(origW, origH, destW, destH int, crop Crop, zoom float64) (Plan, bool) {
	if origW <= 0 || origH <= 0 {
		return Plan{}, false
	}
	if destW <= 0 && destH <= 0 {
		return Plan{}, false
	}

	ow, oh := float64(origW), float64(origH)

	var newW, newH, cropW, cropH, srcX, srcY float64

	if crop.Enabled {
		aspect := ow / oh

		if destW > 0 {
			newW = float64(min(destW, origW))
		}
		if destH > 0 {
			newH = float64(min(destH, origH))
		}
		if newW == 0 {
			newW = math.Trunc(newH * aspect)
		}
		if newH == 0 {
			newH = math.Trunc(newW / aspect)
		}

		sizeRatio := math.Max(newW/ow, newH/oh)

		cropW = math.Round(newW / sizeRatio)
		cropH = math.Round(newH / sizeRatio)

		x, y := crop.Anchors()

		switch x {
		case AnchorLeft:
			srcX = 0
		case AnchorRight:
			srcX = ow - cropW
		default:
			srcX = math.Floor((ow - cropW) / 2)
		}

		switch y {
		case AnchorTop:
			srcY = 0
		case AnchorBottom:
			srcY = oh - cropH
		default:
			srcY = math.Floor((oh - cropH) / 2)
		}
	} else {
		cropW, cropH = ow, oh

		w, h := ConstrainDimensions(origW, origH, destW, destH)
		newW, newH = float64(w), float64(h)
	}

	if zoom > 1 {
		srcX += (cropW - cropW/zoom) / 2
		srcY += (cropW - cropW/zoom) / 2

		cropW /= zoom
		cropH /= zoom
	}

	// never enlarge on both axes
	if newW >= ow && newH >= oh {
		return Plan{}, false
	}

	plan := Plan{
		SourceX: int(srcX),
		SourceY: int(srcY),
		DestW:   int(newW),
		DestH:   int(newH),
		SourceW: int(cropW),
		SourceH: int(cropH),
	}
	if plan.DestW < 1 || plan.DestH < 1 || plan.SourceW < 1 || plan.SourceH < 1 {
		return Plan{}, false
	}

	return plan, true
}

// ConstrainDimensions scales curW x curH down so it fits inside maxW x maxH,
// preserving the aspect ratio. A zero bound leaves that axis unbounded. The
// result is never larger than the input.
//
// Rounding can leave a result one pixel short of a bound that was actually
// applied; such a side is snapped to the bound.
func ConstrainDimensions(curW, curH, maxW, maxH int) (int, int) {
	if maxW <= 0 && maxH <= 0 {
		return curW, curH
	}

	widthRatio, heightRatio := 1.0, 1.0
	didWidth, didHeight := false, false

	if maxW > 0 && curW > 0 && curW > maxW {
		widthRatio = float64(maxW) / float64(curW)
		didWidth = true
	}
	if maxH > 0 && curH > 0 && curH > maxH {
		heightRatio = float64(maxH) / float64(curH)
		didHeight = true
	}

	smaller := math.Min(widthRatio, heightRatio)
	larger := math.Max(widthRatio, heightRatio)

	ratio := larger
	if exceedsBound(curW, larger, maxW) || exceedsBound(curH, larger, maxH) {
		ratio = smaller
	}

	w := max(1, int(math.Round(float64(curW)*ratio)))
	h := max(1, int(math.Round(float64(curH)*ratio)))

	if didWidth && w == maxW-1 {
		w = maxW
	}
	if didHeight && h == maxH-1 {
		h = maxH
	}

	return w, h
}

func exceedsBound(cur int, ratio float64, bound int) bool {
	return bound > 0 && int(math.Round(float64(cur)*ratio)) > bound
}
