package viz

import (
	"math"

	"github.com/san-kum/pworld/internal/particle"
	"github.com/san-kum/pworld/internal/world"
)

// project maps world coordinates to canvas sub-pixels.
func project(c *Canvas, x, y float64) (int, int) {
	cw, ch := float64(c.Width*2), float64(c.Height*4)
	px := (x - viewMinX) / (viewMaxX - viewMinX) * (cw - 1)
	py := (viewMaxY - y) / (viewMaxY - viewMinY) * (ch - 1)
	return int(math.Round(px)), int(math.Round(py))
}

// Render draws the ground plane plus every live particle of w onto c,
// replacing what was there.
func Render(c *Canvas, w *world.World) {
	c.Clear()

	gx0, gy := project(c, viewMinX, 0)
	gx1, _ := project(c, viewMaxX, 0)
	c.DrawLine(gx0, gy, gx1, gy)

	plot := func(p *particle.Particle) {
		x, y := project(c, p.Position.X, p.Position.Y)
		c.Set(x, y)
	}
	for _, p := range *w.Particles() {
		plot(p)
	}
	for _, e := range w.Effects() {
		if e.Destroyable() {
			continue
		}
		ps := e.Particles()
		for i := range ps {
			plot(&ps[i])
		}
	}
}
