package domain

// TransactionWatchList wraps an ordered transaction collection and tracks
// which members were added, updated or removed relative to the snapshot it
// was constructed with. A repository reads the three sets to emit the
// minimal insert/update/delete statements for a one-to-many aggregate
// instead of diffing full collections.
//
// The three sets are disjoint: replaying added and removed against the
// baseline, with updated payloads substituted, reproduces Items exactly.
//
// Not safe for concurrent use; a watch list lives inside a single
// load-mutate-save cycle and is discarded after the aggregate is saved.
type TransactionWatchList struct {
	items    []*Transaction
	baseline map[string]struct{}
	added    map[string]struct{}
	updated  map[string]struct{}

	// removed keeps the transaction payloads because they are no longer
	// part of the current view.
	removed      map[string]*Transaction
	removedOrder []string
}

// NewTransactionWatchList captures the given transactions as the baseline.
func NewTransactionWatchList(baseline []*Transaction) *TransactionWatchList {
	l := &TransactionWatchList{
		items:    make([]*Transaction, 0, len(baseline)),
		baseline: make(map[string]struct{}, len(baseline)),
		added:    make(map[string]struct{}),
		updated:  make(map[string]struct{}),
		removed:  make(map[string]*Transaction),
	}

	for _, t := range baseline {
		l.items = append(l.items, t)
		l.baseline[t.ID] = struct{}{}
	}

	return l
}

// Add appends a transaction to the current view. Adding a baseline item
// whose removal is pending cancels the removal; the net effect relative to
// the baseline is a no-op and nothing is recorded in added.
func (l *TransactionWatchList) Add(t *Transaction) {
	if l.indexOf(t.ID) >= 0 {
		return
	}

	l.items = append(l.items, t)

	if _, pending := l.removed[t.ID]; pending {
		l.cancelRemoval(t.ID)
		return
	}

	l.added[t.ID] = struct{}{}
}

// Remove drops the transaction from the current view. Baseline items move
// into removed; items that were only ever added are dropped entirely, so no
// spurious delete is emitted upstream.
func (l *TransactionWatchList) Remove(t *Transaction) bool {
	idx := l.indexOf(t.ID)
	if idx < 0 {
		return false
	}

	current := l.items[idx]
	l.items = append(l.items[:idx], l.items[idx+1:]...)

	if _, wasAdded := l.added[t.ID]; wasAdded {
		delete(l.added, t.ID)
		return true
	}

	delete(l.updated, t.ID)
	l.removed[t.ID] = current
	l.removedOrder = append(l.removedOrder, t.ID)

	return true
}

// Update replaces the matching item by identity. Items pending insert stay
// in added with the new payload; baseline items are recorded in updated.
func (l *TransactionWatchList) Update(t *Transaction) bool {
	idx := l.indexOf(t.ID)
	if idx < 0 {
		return false
	}

	l.items[idx] = t

	if _, pendingInsert := l.added[t.ID]; pendingInsert {
		return true
	}

	l.updated[t.ID] = struct{}{}

	return true
}

// Get returns the current item with the given id.
func (l *TransactionWatchList) Get(id string) (*Transaction, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return nil, false
	}

	return l.items[idx], true
}

// Items returns the current view in order.
func (l *TransactionWatchList) Items() []*Transaction {
	items := make([]*Transaction, len(l.items))
	copy(items, l.items)

	return items
}

// Len returns the number of items in the current view.
func (l *TransactionWatchList) Len() int {
	return len(l.items)
}

// Added returns the items pending insert, in current-view order.
func (l *TransactionWatchList) Added() []*Transaction {
	return l.filter(l.added)
}

// Updated returns the baseline items pending update, in current-view order.
func (l *TransactionWatchList) Updated() []*Transaction {
	return l.filter(l.updated)
}

// Removed returns the baseline items pending delete, in removal order.
func (l *TransactionWatchList) Removed() []*Transaction {
	out := make([]*Transaction, 0, len(l.removedOrder))
	for _, id := range l.removedOrder {
		out = append(out, l.removed[id])
	}

	return out
}

func (l *TransactionWatchList) indexOf(id string) int {
	for i, t := range l.items {
		if t.ID == id {
			return i
		}
	}

	return -1
}

func (l *TransactionWatchList) filter(set map[string]struct{}) []*Transaction {
	out := make([]*Transaction, 0, len(set))
	for _, t := range l.items {
		if _, ok := set[t.ID]; ok {
			out = append(out, t)
		}
	}

	return out
}

func (l *TransactionWatchList) cancelRemoval(id string) {
	delete(l.removed, id)

	for i, rid := range l.removedOrder {
		if rid == id {
			l.removedOrder = append(l.removedOrder[:i], l.removedOrder[i+1:]...)
			break
		}
	}
}
