// Package mapgen builds procedural static terrain out of box columns.
package mapgen

import (
	"time"

	"github.com/chewxy/math32"
)

// HeightMapOptions controls procedural height map generation.
// Width/Depth are in tiles; TileSize is the world size of one tile on X/Y.
// HeightScale is the maximum column height in world units and MinHeight the
// lowest. Seed controls randomness; Seed == 0 uses a time-based seed.
// Octaves, Frequency, Lacunarity, and Gain control the fractal noise shape.
type HeightMapOptions struct {
	Width       int     `yaml:"width"`
	Depth       int     `yaml:"depth"`
	TileSize    float32 `yaml:"tile_size"`
	HeightScale float32 `yaml:"height_scale"`
	MinHeight   float32 `yaml:"min_height"`

	Seed       int64   `yaml:"seed"`
	Octaves    int     `yaml:"octaves"`
	Frequency  float32 `yaml:"frequency"`
	Lacunarity float32 `yaml:"lacunarity"`
	Gain       float32 `yaml:"gain"`
}

// DefaultHeightMapOptions returns a 12x12 field of 48 cm tiles.
func DefaultHeightMapOptions() HeightMapOptions {
	return HeightMapOptions{
		Width:       12,
		Depth:       12,
		TileSize:    48,
		HeightScale: 96,
		MinHeight:   16,
		Seed:        1,
		Octaves:     4,
		Frequency:   0.15,
		Lacunarity:  2.0,
		Gain:        0.5,
	}
}

// Column is one terrain tile: a box whose bottom rests on z = 0.
type Column struct {
	X, Y   float32 // center of the tile
	Size   float32 // edge length on X and Y
	Height float32
}

// Center returns the box center of the column.
func (c Column) Center() [3]float32 {
	return [3]float32{c.X, c.Y, c.Height * 0.5}
}

func (o *HeightMapOptions) normalize() {
	if o.TileSize <= 0 {
		o.TileSize = 1
	}
	if o.HeightScale <= 0 {
		o.HeightScale = 1
	}
	if o.MinHeight <= 0 || o.MinHeight > o.HeightScale {
		o.MinHeight = 0.15 * o.HeightScale
	}
	if o.Octaves <= 0 {
		o.Octaves = 1
	}
	if o.Frequency <= 0 {
		o.Frequency = 0.05
	}
	if o.Lacunarity <= 0 {
		o.Lacunarity = 2.0
	}
	if o.Gain <= 0 {
		o.Gain = 0.5
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
}

// GenerateColumns samples fractal noise on a Width x Depth grid centered on
// the origin and returns one column per tile, row by row.
func GenerateColumns(opts HeightMapOptions) []Column {
	if opts.Width <= 0 || opts.Depth <= 0 {
		return nil
	}
	opts.normalize()

	halfTile := opts.TileSize * 0.5
	startX := -float32(opts.Width)*halfTile + halfTile
	startY := -float32(opts.Depth)*halfTile + halfTile

	cols := make([]Column, 0, opts.Width*opts.Depth)
	for y := 0; y < opts.Depth; y++ {
		for x := 0; x < opts.Width; x++ {
			h := fractalValueNoise2D(float32(x)*opts.Frequency, float32(y)*opts.Frequency, opts.Seed, opts.Octaves, opts.Lacunarity, opts.Gain)
			height := opts.MinHeight + h*(opts.HeightScale-opts.MinHeight)
			if !isFinite(height) || height <= 0 {
				height = opts.MinHeight
			}
			cols = append(cols, Column{
				X:      startX + float32(x)*opts.TileSize,
				Y:      startY + float32(y)*opts.TileSize,
				Size:   opts.TileSize,
				Height: height,
			})
		}
	}
	return cols
}

// fractalValueNoise2D layers smooth value noise over octaves. Output is in [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum, maxAmp float32
	amplitude, freq := float32(1), float32(1)
	for i := 0; i < octaves; i++ {
		sum += valueNoise2D(x*freq, y*freq, int32(seed)+int32(i)) * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth value noise in [0,1] on a hashed integer lattice.
func valueNoise2D(x, y float32, seed int32) float32 {
	x0 := int32(math32.Floor(x))
	y0 := int32(math32.Floor(y))
	sx := smoothStep(x - float32(x0))
	sy := smoothStep(y - float32(y0))

	ix0 := lerp(hash2D(x0, y0, seed), hash2D(x0+1, y0, seed), sx)
	ix1 := lerp(hash2D(x0, y0+1, seed), hash2D(x0+1, y0+1, seed), sx)
	return lerp(ix0, ix1, sy)
}

// hash2D maps lattice coordinates to a deterministic value in [0,1].
func hash2D(x, y, seed int32) float32 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	return float32(n&0x7fffffff) / 2147483647.0
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// smoothStep is 3t^2 - 2t^3 on [0,1].
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
