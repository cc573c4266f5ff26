// Package doctree flattens a parsed HTML document into an arena of nodes.
//
// Nodes are stored in pre-order, so a node's ID is also its position in the
// document: "A precedes B" is A < B, and a subtree is the contiguous ID range
// [id, Last]. Parent links are plain indices, which keeps ancestor and sibling
// queries cheap without holding pointers into the parser's tree.
package doctree

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// NodeID indexes a node in a Tree. IDs follow document (pre-order) order.
type NodeID int

// None marks an absent node (no parent, not found, open-ended range).
const None NodeID = -1

// Node is one element or text node of the arena.
type Node struct {
	Tag    string // lower-case element name; empty for text nodes
	Data   string // raw text for text nodes
	Parent NodeID
	Depth  int
	Last   NodeID // last descendant, or the node itself for leaves

	ownLen int
	src    *html.Node
}

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool { return n.Tag == "" }

// Tree is an arena-indexed document.
type Tree struct {
	nodes []Node
}

// skipped elements never contribute text
var skipped = map[string]bool{
	"script": true,
	"style":  true,
	"head":   true,
	"title":  true,
}

// block elements separate the words of their neighbours
var block = map[string]bool{
	"br": true, "p": true, "div": true, "td": true, "th": true, "tr": true,
	"li": true, "table": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true,
}

// Parse reads HTML with goquery and builds the arena from the result.
func Parse(r io.Reader) (*Tree, *goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, err
	}
	return FromDocument(doc), doc, nil
}

// FromDocument builds the arena for a goquery document.
func FromDocument(doc *goquery.Document) *Tree {
	if doc == nil || len(doc.Nodes) == 0 {
		return &Tree{}
	}
	return FromNode(doc.Nodes[0])
}

// FromNode builds the arena for the subtree rooted at root.
func FromNode(root *html.Node) *Tree {
	t := &Tree{}
	t.add(root, None, 0)

	// children carry larger IDs than their parents, so a reverse sweep
	// sees every child before its parent
	for i := len(t.nodes) - 1; i > 0; i-- {
		n := &t.nodes[i]
		if n.Parent == None || n.Tag == "table" {
			continue
		}
		t.nodes[n.Parent].ownLen += n.ownLen
	}
	return t
}

func (t *Tree) add(n *html.Node, parent NodeID, depth int) {
	var node Node
	switch n.Type {
	case html.DocumentNode:
		node = Node{Tag: "#document"}
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if skipped[tag] {
			return
		}
		node = Node{Tag: tag}
		if block[tag] {
			node.ownLen = 1
		}
	case html.TextNode:
		node = Node{Data: n.Data, ownLen: len(n.Data)}
	default:
		return
	}
	node.Parent = parent
	node.Depth = depth
	node.src = n

	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		t.add(c, id, depth+1)
	}
	t.nodes[id].Last = NodeID(len(t.nodes) - 1)
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node for id. It panics on an out-of-range ID, like a slice.
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// HTML returns the parser node backing id.
func (t *Tree) HTML(id NodeID) *html.Node { return t.nodes[id].src }

// Selection wraps the node as a goquery selection.
func (t *Tree) Selection(id NodeID) *goquery.Selection {
	return goquery.NewDocumentFromNode(t.nodes[id].src).Selection
}

// Before reports whether a precedes b in document order.
func (t *Tree) Before(a, b NodeID) bool { return a < b }

// Contains reports whether id lies in the subtree of anc (anc included).
func (t *Tree) Contains(anc, id NodeID) bool {
	if anc == None || id == None {
		return false
	}
	return id >= anc && id <= t.nodes[anc].Last
}

// Next returns the first node after the subtree of id, or None at the end.
func (t *Tree) Next(id NodeID) NodeID {
	next := t.nodes[id].Last + 1
	if int(next) >= len(t.nodes) {
		return None
	}
	return next
}

// HasAncestor reports whether a strict ancestor of id has the given tag.
func (t *Tree) HasAncestor(id NodeID, tag string) bool {
	for p := t.nodes[id].Parent; p != None; p = t.nodes[p].Parent {
		if t.nodes[p].Tag == tag {
			return true
		}
	}
	return false
}

// Find returns the first node in [from, to) for which match is true.
// A to of None searches to the end of the document.
func (t *Tree) Find(from, to NodeID, match func(NodeID) bool) NodeID {
	if from < 0 {
		from = 0
	}
	end := NodeID(len(t.nodes))
	if to != None && to < end {
		end = to
	}
	for id := from; id < end; id++ {
		if match(id) {
			return id
		}
	}
	return None
}

// OwnTextLen is an upper bound on the raw length of OwnText(id).
func (t *Tree) OwnTextLen(id NodeID) int { return t.nodes[id].ownLen }

// Text returns the whitespace-collapsed text of the subtree at id.
func (t *Tree) Text(id NodeID) string { return t.text(id, false) }

// OwnText is Text without the contents of tables nested below id.
func (t *Tree) OwnText(id NodeID) string { return t.text(id, true) }

// TextBetween concatenates the text nodes strictly between from and to,
// skipping table contents when skipTables is set.
func (t *Tree) TextBetween(from, to NodeID, skipTables bool) string {
	var sb strings.Builder
	end := NodeID(len(t.nodes))
	if to != None && to < end {
		end = to
	}
	for id := from + 1; id < end; {
		n := &t.nodes[id]
		if skipTables && n.Tag == "table" {
			id = n.Last + 1
			continue
		}
		t.write(&sb, n)
		id++
	}
	return collapse(sb.String())
}

func (t *Tree) text(root NodeID, skipTables bool) string {
	var sb strings.Builder
	last := t.nodes[root].Last
	for id := root; id <= last; {
		n := &t.nodes[id]
		if skipTables && id != root && n.Tag == "table" {
			id = n.Last + 1
			continue
		}
		t.write(&sb, n)
		id++
	}
	return collapse(sb.String())
}

func (t *Tree) write(sb *strings.Builder, n *Node) {
	if n.IsText() {
		sb.WriteString(n.Data)
	} else if block[n.Tag] {
		sb.WriteByte(' ')
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
