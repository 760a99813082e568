package sim

import "sync"

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Component is an element being simulated: a hardware block or the
// firmware task running on the modeled core.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase provides functions that other components can embed.
type ComponentBase struct {
	HookableBase
	sync.Mutex
	name string
}

// NewComponentBase creates a new ComponentBase.
func NewComponentBase(name string) *ComponentBase {
	c := new(ComponentBase)
	c.name = name
	return c
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
