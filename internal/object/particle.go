package object

import (
	"math"
	"sync"

	"github.com/tomz197/bubblepop/internal/game"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a droplet flung out of a popped bubble.
type Particle struct {
	X, Y        float64 // Logical position
	VX, VY      float64 // Logical units per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
	Color       uint8
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64, color uint8) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.92
	p.Color = color
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnBurst sprays particles from the rim of a popped bubble. Bigger bubbles
// throw more droplets.
func SpawnBurst(b game.Bubble, rng game.Source, spawner Spawner) {
	if spawner == nil {
		return
	}

	cx, cy := b.Center()
	r := b.Radius()
	count := 6 + int(b.Size/10)
	color := BubbleColor(b.Color, 1)

	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		// Speed variation 50% to 150%
		spd := 120 * (0.5 + rng.Float64())
		// Lifetime variation 50% to 100%
		life := 0.4 * (0.5 + rng.Float64()*0.5)

		dx, dy := math.Cos(angle), math.Sin(angle)
		spawner.Spawn(NewParticle(cx+dx*r, cy+dy*r, dx*spd, dy*spd, life, color))
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true, nil
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor

	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false, nil
}

// Draw renders the particle as a pixel on the canvas.
func (p *Particle) Draw(ctx DrawContext) error {
	if ctx.Layer != LayerCanvas {
		return nil
	}
	// Skip faded particles (< 25% lifetime)
	if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
		return nil
	}
	ctx.Canvas.SetFloat(p.X, p.Y, p.Color)
	return nil
}
