// Package object holds the short-lived visual effects drawn on top of the
// game state: pop bursts and floating score labels. Bubbles themselves are
// owned by the game package and only drawn here.
package object

import (
	"time"

	"github.com/tomz197/bubblepop/internal/draw"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta time.Duration
}

// Layer selects what a draw pass produces. Canvas pixels must be set before
// the canvas is rendered and text written after, so effects draw twice.
type Layer int

const (
	LayerCanvas Layer = iota
	LayerText
)

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // High-resolution canvas (2x vertical)
	Writer *draw.ChunkWriter // Text overlays, positioned relative to the canvas
	Layer  Layer
}

// Object is a drawable and updatable effect.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object's part of ctx.Layer. Use ctx.Canvas for pixels,
	// ctx.Writer for text.
	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// Effects is the list of live effects for one client. It implements Spawner.
type Effects struct {
	objects []Object
}

// Spawn adds obj to the list.
func (e *Effects) Spawn(obj Object) {
	e.objects = append(e.objects, obj)
}

// Len returns the number of live effects.
func (e *Effects) Len() int {
	return len(e.objects)
}

// Update advances every effect and drops the ones that are done.
func (e *Effects) Update(ctx UpdateContext) error {
	kept := e.objects[:0]
	for _, obj := range e.objects {
		remove, err := obj.Update(ctx)
		if err != nil {
			return err
		}
		if remove {
			ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(e.objects[len(kept):])
	e.objects = kept
	return nil
}

// Draw draws every effect in spawn order for ctx.Layer.
func (e *Effects) Draw(ctx DrawContext) error {
	for _, obj := range e.objects {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Clear releases every effect.
func (e *Effects) Clear() {
	for _, obj := range e.objects {
		ReleaseObject(obj)
	}
	clear(e.objects)
	e.objects = e.objects[:0]
}
