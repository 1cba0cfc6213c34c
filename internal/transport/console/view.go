package console

import (
	"sync"

	"github.com/abgdnv/productctl/internal/render"
)

// ListView keeps the display the next page will show.
type ListView struct {
	mu      sync.RWMutex
	display render.Display
}

// NewListView creates a view showing the empty-collection placeholder.
func NewListView() *ListView {
	return &ListView{display: render.Render(nil)}
}

// Show replaces the whole display.
func (v *ListView) Show(d render.Display) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.display = d
}

// Current returns the display to render.
func (v *ListView) Current() render.Display {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.display
}
