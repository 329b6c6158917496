package mapgen

import "testing"

func TestGenerateColumnsIsDeterministic(t *testing.T) {
	opts := DefaultHeightMapOptions()
	a := GenerateColumns(opts)
	b := GenerateColumns(opts)
	if len(a) != opts.Width*opts.Depth {
		t.Fatalf("got %d columns, want %d", len(a), opts.Width*opts.Depth)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("column %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestColumnsStayInRangeAndTile(t *testing.T) {
	opts := DefaultHeightMapOptions()
	cols := GenerateColumns(opts)
	var sumX, sumY float32
	distinct := map[float32]bool{}
	for _, c := range cols {
		if c.Height < opts.MinHeight || c.Height > opts.HeightScale {
			t.Errorf("height %v outside [%v, %v]", c.Height, opts.MinHeight, opts.HeightScale)
		}
		if c.Size != opts.TileSize {
			t.Errorf("size: got %v", c.Size)
		}
		if z := c.Center()[2]; z != c.Height/2 {
			t.Errorf("center z %v, want bottom on the ground", z)
		}
		sumX += c.X
		sumY += c.Y
		distinct[c.Height] = true
	}
	if sumX != 0 || sumY != 0 {
		t.Errorf("grid not centered: sum (%v, %v)", sumX, sumY)
	}
	if len(distinct) < 2 {
		t.Error("terrain is flat")
	}
	// Neighbouring tiles touch without gaps.
	if d := cols[1].X - cols[0].X; d != opts.TileSize {
		t.Errorf("tile spacing: got %v", d)
	}
}

func TestEmptyGrid(t *testing.T) {
	if cols := GenerateColumns(HeightMapOptions{}); cols != nil {
		t.Errorf("got %d columns for an empty grid", len(cols))
	}
}

func TestNoiseRange(t *testing.T) {
	for i := range 200 {
		v := fractalValueNoise2D(float32(i)*0.37, float32(i)*0.11, 9, 4, 2, 0.5)
		if v < 0 || v > 1 {
			t.Fatalf("noise %v outside [0,1]", v)
		}
	}
}
