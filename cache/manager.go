package cache

import (
	"github.com/djnz00/strata/block"
)

// UnloadFn is invoked with a block the manager has selected for eviction.
//
// The callback runs synchronously on the goroutine whose Add triggered the
// eviction. It must not block and must not re-enter the manager in a way
// that mutates the LRU list (calling Add, Free or Purge from inside the
// callback is a programming error; handing the block to a store's Save is
// fine). When the callback returns, the tracking entry is removed; the
// owner must have left the block safe to discard.
type UnloadFn func(*block.Block)

// nilLink marks the absence of a neighbor or free-list successor in the
// node arena.
const nilLink = int32(-1)

// blockKey identifies one resident block.
type blockKey struct {
	series uint32
	index  uint32
}

// node is one LRU tracking entry. Nodes live in a slice arena and link to
// each other by index, so removing a node never invalidates another node's
// position: iteration can advance its cursor before unlinking the current
// entry.
type node struct {
	blk  *block.Block
	prev int32
	next int32
}

// seriesSlot holds the registration state for one Alloc'd handle.
type seriesSlot struct {
	unload UnloadFn
	active bool
}

// Manager bounds the number of resident blocks across all registered
// series using global least-recently-used eviction.
//
// Not safe for concurrent use.
type Manager struct {
	resident map[blockKey]int32
	nodes    []node
	series   []seriesSlot

	freeIDs []uint32 // recycled series handles

	maxBlocks int
	head      int32 // most recently used
	tail      int32 // least recently used
	freeNode  int32 // head of the node free list
	count     int
}

// NewManager creates a Manager with the given resident-block budget.
//
// Parameters:
//   - maxBlocks: Number of blocks the manager keeps resident before
//     evicting; values below 1 are treated as 1
func NewManager(maxBlocks int) *Manager {
	if maxBlocks < 1 {
		maxBlocks = 1
	}

	return &Manager{
		resident:  make(map[blockKey]int32),
		maxBlocks: maxBlocks,
		head:      nilLink,
		tail:      nilLink,
		freeNode:  nilLink,
	}
}

// Alloc registers a new series with the manager and returns its handle.
//
// The handle tags every block the series inserts and is the seriesID the
// rest of the engine addresses the series by. Handles are recycled: after
// Release, the smallest released handle is handed out again.
//
// Parameters:
//   - unload: Eviction callback, see UnloadFn; must not be nil
func (m *Manager) Alloc(unload UnloadFn) uint32 {
	if n := len(m.freeIDs); n > 0 {
		id := m.freeIDs[n-1]
		m.freeIDs = m.freeIDs[:n-1]
		m.series[id] = seriesSlot{unload: unload, active: true}

		return id
	}

	m.series = append(m.series, seriesSlot{unload: unload, active: true})

	return uint32(len(m.series) - 1) //nolint:gosec
}

// Release unregisters a handle so it can be reused by a later Alloc.
//
// The caller must have dropped the series' resident blocks first, normally
// via Free; releasing a handle with blocks still resident is a programming
// error and those entries are dropped without callbacks.
func (m *Manager) Release(seriesID uint32) {
	if int(seriesID) >= len(m.series) || !m.series[seriesID].active {
		return
	}

	m.Free(seriesID)
	m.series[seriesID] = seriesSlot{}
	m.freeIDs = append(m.freeIDs, seriesID)
}

// Add inserts a block at the most-recently-used position.
//
// If a block with the same (series, index) identity is already resident,
// the existing entry is promoted instead and its tracked pointer updated.
// When the insert pushes the resident count past the budget, the global
// least-recently-used block is evicted: its owner's unload callback runs
// synchronously, then the tracking entry is removed.
func (m *Manager) Add(b *block.Block) {
	key := blockKey{series: b.SeriesID(), index: b.Index()}

	if idx, ok := m.resident[key]; ok {
		m.nodes[idx].blk = b
		m.promote(idx)

		return
	}

	idx := m.newNode(b)
	m.pushFront(idx)
	m.resident[key] = idx
	m.count++

	for m.count > m.maxBlocks {
		m.evictTail()
	}
}

// Lookup returns the resident block for (seriesID, index), promoting it to
// most-recently-used on a hit.
//
// Returns:
//   - *block.Block: The resident block, nil on a miss
//   - bool: Whether the block was resident
func (m *Manager) Lookup(seriesID, index uint32) (*block.Block, bool) {
	idx, ok := m.resident[blockKey{series: seriesID, index: index}]
	if !ok {
		return nil, false
	}

	m.promote(idx)

	return m.nodes[idx].blk, true
}

// Contains reports whether (seriesID, index) is resident without promoting
// it.
func (m *Manager) Contains(seriesID, index uint32) bool {
	_, ok := m.resident[blockKey{series: seriesID, index: index}]

	return ok
}

// Free removes every resident block of seriesID without invoking unload
// callbacks.
//
// Used for explicit teardown when the series' state is already durable or
// discardable.
func (m *Manager) Free(seriesID uint32) {
	m.removeScan(seriesID, func(uint32) bool { return true })
}

// Purge removes resident blocks of seriesID whose index is strictly less
// than before, without invoking unload callbacks.
//
// Used after the owner has established that older blocks are permanently
// superseded, e.g. retention trimming, and must not trigger a save.
func (m *Manager) Purge(seriesID uint32, before uint32) {
	m.removeScan(seriesID, func(index uint32) bool { return index < before })
}

// Reset unconditionally clears the LRU without invoking callbacks. Series
// registrations survive; only resident entries are dropped.
func (m *Manager) Reset() {
	clear(m.resident)
	m.nodes = m.nodes[:0]
	m.head = nilLink
	m.tail = nilLink
	m.freeNode = nilLink
	m.count = 0
}

// Len returns the number of resident blocks.
func (m *Manager) Len() int {
	return m.count
}

// Cap returns the resident-block budget.
func (m *Manager) Cap() int {
	return m.maxBlocks
}

// removeScan walks the LRU from MRU to LRU and unlinks every entry of
// seriesID matching the predicate. The cursor advances before the current
// entry is removed, so removal never invalidates the scan.
func (m *Manager) removeScan(seriesID uint32, match func(index uint32) bool) {
	cur := m.head
	for cur != nilLink {
		next := m.nodes[cur].next

		blk := m.nodes[cur].blk
		if blk.SeriesID() == seriesID && match(blk.Index()) {
			delete(m.resident, blockKey{series: seriesID, index: blk.Index()})
			m.unlink(cur)
			m.freeNodeAt(cur)
			m.count--
		}

		cur = next
	}
}

// evictTail removes the least-recently-used entry, invoking its owner's
// unload callback first.
func (m *Manager) evictTail() {
	idx := m.tail
	if idx == nilLink {
		return
	}

	blk := m.nodes[idx].blk
	if sid := blk.SeriesID(); int(sid) < len(m.series) {
		if slot := m.series[sid]; slot.active && slot.unload != nil {
			slot.unload(blk)
		}
	}

	delete(m.resident, blockKey{series: blk.SeriesID(), index: blk.Index()})
	m.unlink(idx)
	m.freeNodeAt(idx)
	m.count--
}

// newNode takes a node from the free list or grows the arena.
func (m *Manager) newNode(b *block.Block) int32 {
	if m.freeNode != nilLink {
		idx := m.freeNode
		m.freeNode = m.nodes[idx].next
		m.nodes[idx] = node{blk: b, prev: nilLink, next: nilLink}

		return idx
	}

	m.nodes = append(m.nodes, node{blk: b, prev: nilLink, next: nilLink})

	return int32(len(m.nodes) - 1) //nolint:gosec
}

// freeNodeAt returns a node to the free list.
func (m *Manager) freeNodeAt(idx int32) {
	m.nodes[idx] = node{prev: nilLink, next: m.freeNode}
	m.freeNode = idx
}

// pushFront links a detached node in at the MRU position.
func (m *Manager) pushFront(idx int32) {
	m.nodes[idx].prev = nilLink
	m.nodes[idx].next = m.head

	if m.head != nilLink {
		m.nodes[m.head].prev = idx
	}
	m.head = idx

	if m.tail == nilLink {
		m.tail = idx
	}
}

// unlink detaches a node from the LRU list.
func (m *Manager) unlink(idx int32) {
	prev := m.nodes[idx].prev
	next := m.nodes[idx].next

	if prev != nilLink {
		m.nodes[prev].next = next
	} else {
		m.head = next
	}

	if next != nilLink {
		m.nodes[next].prev = prev
	} else {
		m.tail = prev
	}

	m.nodes[idx].prev = nilLink
	m.nodes[idx].next = nilLink
}

// promote moves a resident node to the MRU position.
func (m *Manager) promote(idx int32) {
	if m.head == idx {
		return
	}

	m.unlink(idx)
	m.pushFront(idx)
}
