package asset

import "sync"

// Hierarchy records parent links between asset families and answers
// descendant queries. It backs the database's base-family check: a handler
// may only serve families descending from the database's declared base.
//
// Hierarchy is safe for concurrent use. Registration is expected at startup;
// queries dominate afterwards.
type Hierarchy struct {
	mu      sync.RWMutex
	parents map[Type]Type
}

// NewHierarchy creates an empty family hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		parents: make(map[Type]Type),
	}
}

// Register records parent as the immediate ancestor of child.
// Re-registering a child replaces its parent link.
func (h *Hierarchy) Register(child, parent Type) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.parents[child] = parent
}

// IsDescendant reports whether t is base or descends from it.
func (h *Hierarchy) IsDescendant(t, base Type) bool {
	if t == base {
		return true
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	// Walk the parent chain. The bound guards against registration cycles.
	for i := 0; i < len(h.parents); i++ {
		parent, ok := h.parents[t]
		if !ok {
			return false
		}
		if parent == base {
			return true
		}
		t = parent
	}
	return false
}
