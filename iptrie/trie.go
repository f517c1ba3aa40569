package iptrie

import (
	"net/netip"

	"github.com/mxydb/matchy/internal/format"
)

type childKind uint8

const (
	childAbsent childKind = iota
	childNode
	childData
)

type child struct {
	kind childKind
	node int32
	data uint32
}

type node struct {
	children [2]child
}

// Builder accumulates prefix-to-data-offset assignments in memory and
// serializes them, on Finalize, into the MaxMind-compatible packed node
// array the query path walks directly against mapped bytes.
type Builder struct {
	nodes []node
}

// NewBuilder returns an empty Builder containing only the root node.
func NewBuilder() *Builder {
	return &Builder{nodes: []node{{}}}
}

// NodeCount reports the number of nodes currently in the tree.
func (b *Builder) NodeCount() int { return len(b.nodes) }

// Insert assigns dataOffset to every address covered by prefix. Callers
// must insert rules in non-decreasing prefix-length order; a more specific
// prefix inserted after a shorter, overlapping one correctly overrides the
// shorter rule only for the addresses it covers, leaving the shorter rule's
// value visible elsewhere via longest-prefix semantics. Insertion out of
// order is tolerated (fillAbsent back-fills any node reachable through an
// already-built subtree that has no assignment of its own) but is not the
// expected build path.
func (b *Builder) Insert(prefix netip.Prefix, dataOffset uint32) {
	bits, depth := prefixBits(prefix)
	if depth == 0 {
		// A zero-length prefix covers both halves of the root.
		b.fillAbsent(0, dataOffset)
		return
	}
	cur := int32(0)
	for d := 0; d < depth; d++ {
		bit := bitAt(bits, d)
		c := &b.nodes[cur].children[bit]
		last := d == depth-1
		switch c.kind {
		case childAbsent:
			if last {
				c.kind = childData
				c.data = dataOffset
				return
			}
			idx := int32(len(b.nodes))
			b.nodes = append(b.nodes, node{})
			c.kind = childNode
			c.node = idx
			cur = idx
		case childData:
			if last {
				c.data = dataOffset
				return
			}
			// A shorter prefix already claims this branch; split it into a
			// subtree so the more specific insert below can diverge, while
			// every other address under the old prefix keeps its value.
			old := c.data
			idx := int32(len(b.nodes))
			b.nodes = append(b.nodes, node{children: [2]child{
				{kind: childData, data: old},
				{kind: childData, data: old},
			}})
			c.kind = childNode
			c.node = idx
			cur = idx
		case childNode:
			if last {
				b.fillAbsent(c.node, dataOffset)
				return
			}
			cur = c.node
		}
	}
}

// fillAbsent assigns dataOffset to every still-unassigned leaf reachable
// from idx, used when a shorter prefix is inserted after a longer,
// overlapping one has already built out part of the subtree.
func (b *Builder) fillAbsent(idx int32, dataOffset uint32) {
	for i := 0; i < 2; i++ {
		c := &b.nodes[idx].children[i]
		switch c.kind {
		case childAbsent:
			c.kind = childData
			c.data = dataOffset
		case childNode:
			b.fillAbsent(c.node, dataOffset)
		}
	}
}

// Finalize packs the tree into the on-disk node array for recordSize (24,
// 28, or 32 bits). The returned slice is nodeCount * NodeByteSize(recordSize)
// bytes and uses the MaxMind convention: a record equal to the node count
// means absent, a record less than the node count is another node's index,
// and a record greater than the node count points into the data section at
// record - nodeCount - DataSectionSeparatorSize.
func (b *Builder) Finalize(recordSize int) ([]byte, error) {
	if !validRecordSize(recordSize) {
		return nil, ErrUnsupportedRecordSize
	}
	nodeCount := uint32(len(b.nodes))
	capacity := uint64(1) << uint(recordSize)
	nodeSize := format.NodeByteSize(recordSize)
	out := make([]byte, int(nodeCount)*nodeSize)
	for i, n := range b.nodes {
		left, err := recordValue(n.children[0], nodeCount, capacity)
		if err != nil {
			return nil, err
		}
		right, err := recordValue(n.children[1], nodeCount, capacity)
		if err != nil {
			return nil, err
		}
		writeNode(out[i*nodeSize:(i+1)*nodeSize], recordSize, left, right)
	}
	return out, nil
}

func recordValue(c child, nodeCount uint32, capacity uint64) (uint32, error) {
	var v uint64
	switch c.kind {
	case childNode:
		v = uint64(c.node)
	case childData:
		v = uint64(nodeCount) + format.DataSectionSeparatorSize + uint64(c.data)
	default:
		v = uint64(nodeCount)
	}
	if v >= capacity {
		return 0, ErrTooManyNodes
	}
	return uint32(v), nil
}
