package imaging

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDimensions(t *testing.T) {
	tests := []struct {
		name         string
		origW, origH int
		destW, destH int
		crop         Crop
		zoom         float64
		want         Plan
	}{
		{
			name: "center crop landscape into square",
			origW: 1000, origH: 500, destW: 200, destH: 200,
			crop: CropCenter(), zoom: 1,
			want: Plan{SourceX: 250, SourceY: 0, DestW: 200, DestH: 200, SourceW: 500, SourceH: 500},
		},
		{
			name: "crop with one axis larger than original",
			origW: 1000, origH: 500, destW: 200, destH: 600,
			crop: CropCenter(), zoom: 1,
			want: Plan{SourceX: 400, DestW: 200, DestH: 500, SourceW: 200, SourceH: 500},
		},
		{
			name: "crop wider than original keeps original width",
			origW: 1000, origH: 500, destW: 2000, destH: 100,
			crop: CropCenter(), zoom: 1,
			want: Plan{SourceY: 200, DestW: 1000, DestH: 100, SourceW: 1000, SourceH: 100},
		},
		{
			name: "crop height derived from width",
			origW: 1000, origH: 500, destW: 200, destH: 0,
			crop: CropCenter(), zoom: 1,
			want: Plan{DestW: 200, DestH: 100, SourceW: 1000, SourceH: 500},
		},
		{
			name: "crop width derived from height",
			origW: 1000, origH: 500, destW: 0, destH: 100,
			crop: CropCenter(), zoom: 1,
			want: Plan{DestW: 200, DestH: 100, SourceW: 1000, SourceH: 500},
		},
		{
			name: "derived side is truncated",
			origW: 1000, origH: 333, destW: 100, destH: 0,
			crop: CropCenter(), zoom: 1,
			want: Plan{SourceY: 1, DestW: 100, DestH: 33, SourceW: 1000, SourceH: 330},
		},
		{
			name: "fit into square",
			origW: 1000, origH: 500, destW: 200, destH: 200,
			crop: NoCrop(), zoom: 1,
			want: Plan{DestW: 200, DestH: 100, SourceW: 1000, SourceH: 500},
		},
		{
			name: "fit with unbounded height",
			origW: 1000, origH: 500, destW: 300, destH: 0,
			crop: NoCrop(), zoom: 1,
			want: Plan{DestW: 300, DestH: 150, SourceW: 1000, SourceH: 500},
		},
		{
			name: "fit into tall box",
			origW: 1000, origH: 500, destW: 100, destH: 2000,
			crop: NoCrop(), zoom: 1,
			want: Plan{DestW: 100, DestH: 50, SourceW: 1000, SourceH: 500},
		},
		{
			name: "single pixel target",
			origW: 3000, origH: 2000, destW: 1, destH: 1,
			crop: CropCenter(), zoom: 1,
			want: Plan{SourceX: 500, DestW: 1, DestH: 1, SourceW: 2000, SourceH: 2000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDimensions(tt.origW, tt.origH, tt.destW, tt.destH, tt.crop, tt.zoom)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDimensions_Skip(t *testing.T) {
	tests := []struct {
		name         string
		origW, origH int
		destW, destH int
		crop         Crop
	}{
		{"crop would upscale", 100, 100, 200, 200, CropCenter()},
		{"fit would upscale", 100, 100, 200, 200, NoCrop()},
		{"same size crop", 100, 100, 100, 100, CropCenter()},
		{"same size fit", 100, 100, 100, 100, NoCrop()},
		{"no target", 1000, 500, 0, 0, CropCenter()},
		{"negative target", 1000, 500, -10, -10, NoCrop()},
		{"empty original", 0, 500, 200, 200, CropCenter()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ResolveDimensions(tt.origW, tt.origH, tt.destW, tt.destH, tt.crop, 1)
			assert.False(t, ok)
		})
	}
}

func TestResolveDimensions_CoverProperty(t *testing.T) {
	inputs := []struct{ origW, origH, destW, destH int }{
		{1000, 500, 200, 200},
		{500, 1000, 200, 200},
		{800, 600, 150, 150},
		{1920, 1080, 300, 200},
		{1080, 1920, 640, 360},
		{333, 777, 100, 50},
	}

	for _, in := range inputs {
		plan, ok := ResolveDimensions(in.origW, in.origH, in.destW, in.destH, CropCenter(), 1)
		require.True(t, ok, "%+v", in)

		assert.Equal(t, in.destW, plan.DestW, "%+v", in)
		assert.Equal(t, in.destH, plan.DestH, "%+v", in)

		// the sampled region fits inside the original and spans it on one axis
		assert.LessOrEqual(t, plan.SourceX+plan.SourceW, in.origW, "%+v", in)
		assert.LessOrEqual(t, plan.SourceY+plan.SourceH, in.origH, "%+v", in)
		assert.True(t, plan.SourceW == in.origW || plan.SourceH == in.origH, "%+v: %+v", in, plan)

		destAspect := float64(in.destW) / float64(in.destH)
		srcAspect := float64(plan.SourceW) / float64(plan.SourceH)
		tolerance := 1 / float64(min(plan.SourceW, plan.SourceH))
		assert.InDelta(t, destAspect, srcAspect, destAspect*tolerance+0.01, "%+v", in)
	}
}

func TestResolveDimensions_Anchors(t *testing.T) {
	tests := []struct {
		name         string
		origW, origH int
		crop         Crop
		wantX, wantY int
	}{
		{"left", 1000, 500, CropAt(AnchorLeft, AnchorCenter), 0, 0},
		{"center", 1000, 500, CropAt(AnchorCenter, AnchorCenter), 250, 0},
		{"right", 1000, 500, CropAt(AnchorRight, AnchorCenter), 500, 0},
		{"top", 500, 1000, CropAt(AnchorCenter, AnchorTop), 0, 0},
		{"middle", 500, 1000, CropAt(AnchorCenter, AnchorCenter), 0, 250},
		{"bottom", 500, 1000, CropAt(AnchorCenter, AnchorBottom), 0, 500},
		{"single anchor falls back to center", 1000, 500, Crop{Enabled: true, Anchor: []string{AnchorRight}}, 250, 0},
		{"three anchors fall back to center", 500, 1000, Crop{Enabled: true, Anchor: []string{"a", "b", "c"}}, 0, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, ok := ResolveDimensions(tt.origW, tt.origH, 200, 200, tt.crop, 1)
			require.True(t, ok)
			assert.Equal(t, tt.wantX, plan.SourceX)
			assert.Equal(t, tt.wantY, plan.SourceY)
			assert.Equal(t, 500, plan.SourceW)
			assert.Equal(t, 500, plan.SourceH)
		})
	}
}

func TestResolveDimensions_ZoomMonotonic(t *testing.T) {
	prev, ok := ResolveDimensions(800, 600, 150, 150, CropCenter(), 1)
	require.True(t, ok)

	for _, zoom := range []float64{1.1, 1.4, 2, 3, 5} {
		plan, ok := ResolveDimensions(800, 600, 150, 150, CropCenter(), zoom)
		require.True(t, ok, "zoom %v", zoom)

		assert.Less(t, plan.SourceW, prev.SourceW, "zoom %v", zoom)
		assert.Less(t, plan.SourceH, prev.SourceH, "zoom %v", zoom)
		assert.Equal(t, 150, plan.DestW)
		assert.Equal(t, 150, plan.DestH)
		prev = plan
	}
}

func TestResolveDimensions_ZoomOffsets(t *testing.T) {
	tests := []struct {
		name         string
		origW, origH int
		destW, destH int
		zoom         float64
		want         Plan
	}{
		{
			name: "square crop",
			origW: 1000, origH: 500, destW: 200, destH: 200, zoom: 2,
			want: Plan{SourceX: 375, SourceY: 125, DestW: 200, DestH: 200, SourceW: 250, SourceH: 250},
		},
		{
			name: "vertical offset follows the sampled width",
			origW: 1000, origH: 1000, destW: 200, destH: 100, zoom: 2,
			want: Plan{SourceX: 250, SourceY: 500, DestW: 200, DestH: 100, SourceW: 500, SourceH: 250},
		},
		{
			name: "fractional zoom truncates",
			origW: 800, origH: 600, destW: 150, destH: 150, zoom: 1.4,
			want: Plan{SourceX: 185, SourceY: 85, DestW: 150, DestH: 150, SourceW: 428, SourceH: 428},
		},
		{
			name: "zoom at or below one is ignored",
			origW: 800, origH: 600, destW: 150, destH: 150, zoom: 0.5,
			want: Plan{SourceX: 100, DestW: 150, DestH: 150, SourceW: 600, SourceH: 600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDimensions(tt.origW, tt.origH, tt.destW, tt.destH, CropCenter(), tt.zoom)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDimensionOverride_Zoom(t *testing.T) {
	var nilOverride *DimensionOverride
	assert.Equal(t, 1.0, nilOverride.zoom())
	assert.Equal(t, 1.0, (&DimensionOverride{}).zoom())
	assert.Equal(t, 1.0, (&DimensionOverride{Zoom: -2}).zoom())
	assert.Equal(t, 2.5, (&DimensionOverride{Zoom: 2.5}).zoom())
}

func TestConstrainDimensions(t *testing.T) {
	tests := []struct {
		curW, curH, maxW, maxH int
		wantW, wantH           int
	}{
		{1000, 500, 200, 200, 200, 100},
		{465, 700, 177, 177, 118, 177},
		{100, 100, 0, 0, 100, 100},
		{100, 50, 200, 200, 100, 50},
		{1000, 500, 0, 100, 200, 100},
		{1000, 500, 300, 0, 300, 150},
		{1, 1000, 10, 10, 1, 10},
		{640, 480, 101, 101, 101, 76},
		{333, 1000, 100, 300, 100, 300},
		{799, 600, 400, 400, 400, 300},
	}

	for _, tt := range tests {
		w, h := ConstrainDimensions(tt.curW, tt.curH, tt.maxW, tt.maxH)
		assert.Equal(t, tt.wantW, w, "%dx%d in %dx%d", tt.curW, tt.curH, tt.maxW, tt.maxH)
		assert.Equal(t, tt.wantH, h, "%dx%d in %dx%d", tt.curW, tt.curH, tt.maxW, tt.maxH)
		assert.LessOrEqual(t, w, tt.curW)
		assert.LessOrEqual(t, h, tt.curH)
	}
}

func TestConstrainDimensions_KeepsAspect(t *testing.T) {
	for _, bound := range []int{50, 99, 128, 177, 250} {
		w, h := ConstrainDimensions(1600, 900, bound, bound)
		assert.Equal(t, bound, w)
		assert.InDelta(t, 900.0/1600.0*float64(bound), float64(h), 1)
	}
}

func TestPlan_Rects(t *testing.T) {
	p := Plan{DestX: 1, DestY: 2, SourceX: 10, SourceY: 20, DestW: 30, DestH: 40, SourceW: 50, SourceH: 60}

	assert.Equal(t, image.Rect(10, 20, 60, 80), p.SourceRect(image.Point{}))
	assert.Equal(t, image.Rect(15, 25, 65, 85), p.SourceRect(image.Pt(5, 5)))
	assert.Equal(t, image.Rect(1, 2, 31, 42), p.DestRect())
}

func TestPlan_NonNegative(t *testing.T) {
	for _, zoom := range []float64{1, 1.5, 4} {
		for _, crop := range []Crop{NoCrop(), CropCenter(), CropAt(AnchorRight, AnchorBottom)} {
			p, ok := ResolveDimensions(1234, 567, 89, 101, crop, zoom)
			if !ok {
				continue
			}
			for _, v := range []int{p.DestX, p.DestY, p.SourceX, p.SourceY, p.DestW, p.DestH, p.SourceW, p.SourceH} {
				assert.GreaterOrEqual(t, v, 0, "%s zoom %v: %+v", crop, zoom, p)
			}
		}
	}
}
