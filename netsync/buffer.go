package netsync

// SnapshotBuffer is the ordered (by arrival) queue of decoded snapshots.
type SnapshotBuffer struct {
	items  []*PacketSnapshot
	target int
}

// NewSnapshotBuffer creates a buffer whose steady-state depth is target.
func NewSnapshotBuffer(target int) *SnapshotBuffer {
	if target < 1 {
		target = 1
	}
	return &SnapshotBuffer{target: target}
}

func (b *SnapshotBuffer) Push(s *PacketSnapshot) {
	b.items = append(b.items, s)
}

func (b *SnapshotBuffer) Len() int {
	return len(b.items)
}

// Target is the steady-state depth the render delay is derived from.
func (b *SnapshotBuffer) Target() int {
	return b.target
}

func (b *SnapshotBuffer) At(i int) *PacketSnapshot {
	return b.items[i]
}

// Newest returns the most recently pushed snapshot, or nil.
func (b *SnapshotBuffer) Newest() *PacketSnapshot {
	if len(b.items) == 0 {
		return nil
	}
	return b.items[len(b.items)-1]
}

// NewestTick returns the highest tick held, which may differ from Newest
// when packets were reordered.
func (b *SnapshotBuffer) NewestTick() (uint32, bool) {
	if len(b.items) == 0 {
		return 0, false
	}
	newest := b.items[0].Tick()
	for _, s := range b.items[1:] {
		if s.Tick() > newest {
			newest = s.Tick()
		}
	}
	return newest, true
}

// PruneOlderThan drops every snapshot other than keep whose tick is not newer
// than keep's. Duplicates of keep's tick are dropped too: they can never be
// promoted.
func (b *SnapshotBuffer) PruneOlderThan(keep *PacketSnapshot) {
	if keep == nil {
		return
	}
	n := 0
	for _, s := range b.items {
		if s == keep || s.Tick() > keep.Tick() {
			b.items[n] = s
			n++
		}
	}
	clear(b.items[n:])
	b.items = b.items[:n]
}

// Ticks lists the buffered ticks in arrival order.
func (b *SnapshotBuffer) Ticks() []uint32 {
	ticks := make([]uint32, len(b.items))
	for i, s := range b.items {
		ticks[i] = s.Tick()
	}
	return ticks
}

func (b *SnapshotBuffer) Clear() {
	clear(b.items)
	b.items = b.items[:0]
}
