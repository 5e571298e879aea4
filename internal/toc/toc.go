package toc

// Entry is one row of a flat, level-annotated document outline, in the
// order the outline extractor produced it (pre-order, top to bottom).
type Entry struct {
	Level int    `json:"level"` // nesting depth, >= 1 for real entries
	Title string `json:"title"`
	Page  int    `json:"page"` // 1-based target page, 0 if unresolved
}

// Node is an outline entry placed into the hierarchy. A node with no
// children is a leaf, the selectable unit of reading.
type Node struct {
	Level    int     `json:"level"`
	Title    string  `json:"title"`
	Page     int     `json:"page"`
	Children []*Node `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no subsections.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// BuildTree converts a flat outline into a forest of nodes. The returned
// slice holds the top-level chapters; sibling order matches input order.
//
// A stack of currently-open ancestors drives the build: each entry pops
// every open node whose level is >= its own (an ancestor must have a
// strictly smaller level), attaches itself to the remaining top, and
// becomes the new top. Duplicate sibling levels and level drops of more
// than one step fall out of the same rule. The function is total: no
// entry is ever dropped, and page numbers are not validated here.
func BuildTree(entries []Entry) []*Node {
	root := &Node{Level: 0}
	stack := []*Node{root}

	for _, e := range entries {
		node := &Node{Level: e.Level, Title: e.Title, Page: e.Page}
		for len(stack) > 1 && stack[len(stack)-1].Level >= node.Level {
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]
		top.Children = append(top.Children, node)
		stack = append(stack, node)
	}

	return root.Children
}

// Visitor receives nodes during a pre-order walk of the forest. Groups
// (nodes with children) are bracketed by EnterGroup/LeaveGroup; leaves
// get a single Leaf call. Presentation layers drive traversal through
// this interface without the package knowing about them.
type Visitor interface {
	EnterGroup(n *Node)
	LeaveGroup(n *Node)
	Leaf(n *Node)
}

// Walk traverses the forest in pre-order, respecting stored child order
// (= original document order).
func Walk(forest []*Node, v Visitor) {
	for _, n := range forest {
		walkNode(n, v)
	}
}

func walkNode(n *Node, v Visitor) {
	if n.IsLeaf() {
		v.Leaf(n)
		return
	}
	v.EnterGroup(n)
	for _, c := range n.Children {
		walkNode(c, v)
	}
	v.LeaveGroup(n)
}

// Flatten returns the forest's entries in pre-order. For any forest
// produced by BuildTree, Flatten reproduces the original input exactly.
func Flatten(forest []*Node) []Entry {
	var out []Entry
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			out = append(out, Entry{Level: n.Level, Title: n.Title, Page: n.Page})
			walk(n.Children)
		}
	}
	walk(forest)
	return out
}

// Selection is the result of activating a leaf: the section the reader
// is currently on. The hosting session owns its lifecycle.
type Selection struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// Select returns the selection a leaf activation yields.
func Select(n *Node) Selection {
	return Selection{Title: n.Title, Page: n.Page}
}
