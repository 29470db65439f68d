package impute

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/wdm0006/imputer/pkg/frame"
)

// Mask returns the rows of col whose cell is missing under m.
func Mask(col *frame.Column, m Marker) *roaring.Bitmap {
	rb := roaring.New()
	for i := 0; i < col.Len(); i++ {
		if m.IsMissing(col.Get(i)) {
			rb.Add(uint32(i))
		}
	}
	return rb
}

// MissingMasks maps every column of f that has a missing cell to its mask.
func MissingMasks(f *frame.Frame, m Marker) map[string]*roaring.Bitmap {
	out := make(map[string]*roaring.Bitmap)
	for _, col := range f.Columns() {
		if rb := Mask(col, m); !rb.IsEmpty() {
			out[col.Name()] = rb
		}
	}
	return out
}
