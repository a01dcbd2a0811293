package content

import (
	"sort"
	"strconv"
	"strings"
)

// pathNode is one segment of a dotted key path. Children are indices into
// pathTree.nodes.
type pathNode struct {
	key      string
	children []int
	value    any
	hasValue bool
	isList   bool
}

// pathTree rebuilds nested documents from dotted key paths such as
// "metadata.tags.0". Numeric segments become list indices.
type pathTree struct {
	nodes []pathNode
}

func newPathTree() *pathTree {
	return &pathTree{nodes: []pathNode{{}}}
}

// child returns the index of parent's child named key, creating it if needed.
func (t *pathTree) child(parent int, key string) int {
	for _, c := range t.nodes[parent].children {
		if t.nodes[c].key == key {
			return c
		}
	}
	t.nodes = append(t.nodes, pathNode{key: key})
	idx := len(t.nodes) - 1
	t.nodes[parent].children = append(t.nodes[parent].children, idx)
	return idx
}

// insert places value at the dotted path key below parent. Objects and lists
// are walked so nested and flattened spellings of one field merge.
func (t *pathTree) insert(parent int, key string, value any) {
	node := parent
	for _, seg := range strings.Split(key, ".") {
		node = t.child(node, seg)
	}
	t.set(node, value)
}

func (t *pathTree) set(node int, value any) {
	switch v := value.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			t.insert(node, k, v[k])
		}
	case []any:
		t.nodes[node].isList = true
		for i, elem := range v {
			t.set(t.child(node, strconv.Itoa(i)), elem)
		}
	default:
		t.nodes[node].value = v
		t.nodes[node].hasValue = true
	}
}

// build materializes the subtree rooted at node. Explicit child paths win
// over a scalar stored at the same node.
func (t *pathTree) build(node int) any {
	n := t.nodes[node]
	if len(n.children) == 0 {
		switch {
		case n.hasValue:
			return n.value
		case n.isList:
			return []any{}
		default:
			return map[string]any{}
		}
	}

	if indices, ok := t.listIndices(n.children); ok {
		sort.SliceStable(indices, func(i, j int) bool { return indices[i].pos < indices[j].pos })
		list := make([]any, 0, len(indices))
		for _, ix := range indices {
			list = append(list, t.build(ix.node))
		}
		return list
	}

	obj := make(map[string]any, len(n.children))
	for _, c := range n.children {
		obj[t.nodes[c].key] = t.build(c)
	}
	return obj
}

type listIndex struct {
	pos  int
	node int
}

func (t *pathTree) listIndices(children []int) ([]listIndex, bool) {
	out := make([]listIndex, 0, len(children))
	for _, c := range children {
		pos, err := strconv.Atoi(t.nodes[c].key)
		if err != nil || pos < 0 {
			return nil, false
		}
		out = append(out, listIndex{pos: pos, node: c})
	}
	return out, true
}

// expandDottedKeys turns a flat record into its nested form.
func expandDottedKeys(flat map[string]any) map[string]any {
	t := newPathTree()
	for _, k := range sortedKeys(flat) {
		t.insert(0, k, flat[k])
	}
	if obj, ok := t.build(0).(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
