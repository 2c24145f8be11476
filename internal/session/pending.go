package session

import "github.com/vovakirdan/tui-mapedit/internal/mapdoc"

// PendingSet is an insertion-ordered set of maps that have a recovery
// snapshot not yet reconciled with primary storage.
type PendingSet struct {
	order []mapdoc.Ref
	index map[mapdoc.Ref]struct{}
}

// NewPendingSet creates an empty set.
func NewPendingSet() *PendingSet {
	return &PendingSet{index: make(map[mapdoc.Ref]struct{})}
}

// Add appends ref unless already present. Re-adding keeps the original
// position. Returns true if ref was inserted.
func (p *PendingSet) Add(ref mapdoc.Ref) bool {
	if _, ok := p.index[ref]; ok {
		return false
	}
	p.index[ref] = struct{}{}
	p.order = append(p.order, ref)
	return true
}

// Remove deletes ref and reports whether it was present.
func (p *PendingSet) Remove(ref mapdoc.Ref) bool {
	if _, ok := p.index[ref]; !ok {
		return false
	}
	delete(p.index, ref)
	for i, r := range p.order {
		if r == ref {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether ref is pending.
func (p *PendingSet) Contains(ref mapdoc.Ref) bool {
	_, ok := p.index[ref]
	return ok
}

// Len returns the number of pending maps.
func (p *PendingSet) Len() int {
	return len(p.order)
}

// Front returns the oldest pending map.
func (p *PendingSet) Front() (mapdoc.Ref, bool) {
	if len(p.order) == 0 {
		return mapdoc.Ref{}, false
	}
	return p.order[0], true
}

// Items returns a copy of the pending maps in insertion order.
func (p *PendingSet) Items() []mapdoc.Ref {
	return append([]mapdoc.Ref(nil), p.order...)
}

// Clear empties the set.
func (p *PendingSet) Clear() {
	p.order = nil
	clear(p.index)
}
