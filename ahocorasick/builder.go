package ahocorasick

import (
	"container/list"
	"encoding/binary"
	"sort"

	"github.com/mxydb/matchy/internal/format"
)

type buildNode struct {
	children map[byte]int32
	fail     int32
	outputs  []uint32
}

// Builder accumulates literal patterns into a trie, later compiled by
// Finalize into the flat, offset-addressed automaton the scan path walks
// directly against mapped bytes.
type Builder struct {
	nodes []buildNode
}

// NewBuilder returns an empty Builder containing only the root node.
func NewBuilder() *Builder {
	return &Builder{nodes: []buildNode{{}}}
}

// NodeCount reports the number of trie nodes currently built.
func (b *Builder) NodeCount() int { return len(b.nodes) }

// AddPattern registers literal as a pattern to scan for; patternID is
// recorded verbatim in the output list; the builder package passes the
// absolute file offset of the pattern's descriptor. Patterns of length zero are rejected
// by the caller (the builder package); this package accepts whatever it is
// given.
func (b *Builder) AddPattern(literal []byte, patternID uint32) {
	cur := int32(0)
	for _, byt := range literal {
		if b.nodes[cur].children == nil {
			b.nodes[cur].children = make(map[byte]int32)
		}
		next, ok := b.nodes[cur].children[byt]
		if !ok {
			next = int32(len(b.nodes))
			b.nodes = append(b.nodes, buildNode{})
			b.nodes[cur].children[byt] = next
		}
		cur = next
	}
	b.nodes[cur].outputs = append(b.nodes[cur].outputs, patternID)
}

// buildFailureLinks computes each node's failure link with a breadth-first
// worklist, the classical Aho-Corasick construction: a child's failure
// target is found by following its parent's failure chain until a node
// with a matching edge is found, or the root is reached.
func (b *Builder) buildFailureLinks() {
	q := list.New()
	for _, idx := range sortedKeys(b.nodes[0].children) {
		child := b.nodes[0].children[idx]
		b.nodes[child].fail = 0
		q.PushBack(child)
	}
	for q.Len() > 0 {
		n := q.Remove(q.Front()).(int32)
		for _, byt := range sortedKeys(b.nodes[n].children) {
			child := b.nodes[n].children[byt]
			q.PushBack(child)

			f := b.nodes[n].fail
			for {
				if target, ok := b.nodes[f].children[byt]; ok {
					b.nodes[child].fail = target
					break
				}
				if f == 0 {
					b.nodes[child].fail = 0
					break
				}
				f = b.nodes[f].fail
			}
		}
	}
}

func sortedKeys(m map[byte]int32) []byte {
	keys := make([]byte, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Finalize computes failure links and packs the trie into the on-disk
// layout: a fixed-size node record array, followed by each node's sorted
// edge array, followed by each node's output (pattern ID) list.
func (b *Builder) Finalize() ([]byte, error) {
	b.buildFailureLinks()

	nodeCount := uint32(len(b.nodes))
	nodeArrSize := int(nodeCount) * format.ACNodeRecordSize

	edgeOffsets := make([]uint32, nodeCount)
	edgeCounts := make([]uint32, nodeCount)
	outputOffsets := make([]uint32, nodeCount)
	outputCounts := make([]uint32, nodeCount)

	cursor := uint32(nodeArrSize)
	for i, n := range b.nodes {
		edgeOffsets[i] = cursor
		edgeCounts[i] = uint32(len(n.children))
		cursor += edgeCounts[i] * format.ACEdgeEntrySize
	}
	for i, n := range b.nodes {
		outputOffsets[i] = cursor
		outputCounts[i] = uint32(len(n.outputs))
		cursor += outputCounts[i] * format.ACOutputEntrySize
	}

	out := make([]byte, cursor)

	for i, n := range b.nodes {
		nodeOff := i * format.ACNodeRecordSize
		rec := out[nodeOff : nodeOff+format.ACNodeRecordSize]

		failVal := uint32(format.ACNoFail)
		if i != 0 {
			failVal = uint32(n.fail) * format.ACNodeRecordSize
		}
		binary.BigEndian.PutUint32(rec[0:4], failVal)
		binary.BigEndian.PutUint32(rec[4:8], edgeOffsets[i])
		binary.BigEndian.PutUint32(rec[8:12], edgeCounts[i])
		binary.BigEndian.PutUint32(rec[12:16], outputOffsets[i])
		binary.BigEndian.PutUint32(rec[16:20], outputCounts[i])

		for ei, byt := range sortedKeys(n.children) {
			child := n.children[byt]
			entryOff := int(edgeOffsets[i]) + ei*format.ACEdgeEntrySize
			entry := out[entryOff : entryOff+format.ACEdgeEntrySize]
			entry[0] = byt
			binary.BigEndian.PutUint32(entry[4:8], uint32(child)*format.ACNodeRecordSize)
		}

		outputs := append([]uint32(nil), n.outputs...)
		sort.Slice(outputs, func(a, c int) bool { return outputs[a] < outputs[c] })
		for oi, pid := range outputs {
			entryOff := int(outputOffsets[i]) + oi*format.ACOutputEntrySize
			binary.BigEndian.PutUint32(out[entryOff:entryOff+4], pid)
		}
	}

	return out, nil
}
