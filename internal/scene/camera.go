package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"physics-engine/internal/geom"
)

const (
	orbitDegreesPerPixel = 0.25
	orbitZoomStep        = 0.1
	orbitMinLatitude     = -85
	orbitMaxLatitude     = 85
	orbitMinRadius       = 50
	orbitMaxRadius       = 5000
)

// OrbitCamera circles Target. Latitude is the elevation above the XY plane
// and Longitude the heading about +Z, both in degrees.
type OrbitCamera struct {
	Target    mgl32.Vec3
	Latitude  float32
	Longitude float32
	Radius    float32
	Fovy      float32
}

// NewOrbitCamera looks at target from radius away, slightly above the ground.
func NewOrbitCamera(target mgl32.Vec3, radius float32) OrbitCamera {
	return OrbitCamera{
		Target:    target,
		Latitude:  30,
		Longitude: -60,
		Radius:    geom.Clamp(radius, orbitMinRadius, orbitMaxRadius),
		Fovy:      45,
	}
}

// Update drags the camera while the mouse is held and zooms on the wheel.
func (c *OrbitCamera) Update(in Input) {
	if in.MouseDown {
		c.Longitude -= in.MouseDelta[0] * orbitDegreesPerPixel
		c.Latitude += in.MouseDelta[1] * orbitDegreesPerPixel
		c.Latitude = geom.Clamp(c.Latitude, orbitMinLatitude, orbitMaxLatitude)
		c.Longitude = math32.Mod(c.Longitude, 360)
	}
	if in.Wheel != 0 {
		c.Radius = geom.Clamp(c.Radius*(1-in.Wheel*orbitZoomStep), orbitMinRadius, orbitMaxRadius)
	}
}

// Eye returns the camera position.
func (c *OrbitCamera) Eye() mgl32.Vec3 {
	lat, lon := geom.Radians(c.Latitude), geom.Radians(c.Longitude)
	cl := math32.Cos(lat)
	return c.Target.Add(mgl32.Vec3{
		c.Radius * cl * math32.Cos(lon),
		c.Radius * cl * math32.Sin(lon),
		c.Radius * math32.Sin(lat),
	})
}

// Up is +Z.
func (c *OrbitCamera) Up() mgl32.Vec3 {
	return mgl32.Vec3{0, 0, 1}
}
