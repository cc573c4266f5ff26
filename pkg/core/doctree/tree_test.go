package doctree

import (
	"strings"
	"testing"
)

func parse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, _, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tree
}

func findTag(tree *Tree, tag string, from NodeID) NodeID {
	return tree.Find(from, None, func(id NodeID) bool { return tree.Node(id).Tag == tag })
}

func TestTree_DocumentOrder(t *testing.T) {
	tree := parse(t, `<html><body><p>first</p><div><b>second</b></div><p>third</p></body></html>`)

	p1 := findTag(tree, "p", 0)
	b := findTag(tree, "b", 0)
	p2 := findTag(tree, "p", p1+1)
	if p1 == None || b == None || p2 == None {
		t.Fatalf("missing nodes: p1=%d b=%d p2=%d", p1, b, p2)
	}
	if !tree.Before(p1, b) || !tree.Before(b, p2) {
		t.Errorf("expected p1 < b < p2, got %d %d %d", p1, b, p2)
	}
	if tree.Text(p2) != "third" {
		t.Errorf("Text(p2) = %q, want %q", tree.Text(p2), "third")
	}
}

func TestTree_OwnTextSkipsNestedTables(t *testing.T) {
	tree := parse(t, `<body><div>CONSOLIDATED BALANCE SHEETS<table><tr><td>Cash</td><td>10</td></tr></table></div></body>`)

	div := findTag(tree, "div", 0)
	if got := tree.OwnText(div); got != "CONSOLIDATED BALANCE SHEETS" {
		t.Errorf("OwnText() = %q", got)
	}
	if got := tree.Text(div); !strings.Contains(got, "Cash 10") {
		t.Errorf("Text() = %q, want table contents included", got)
	}
	if tree.OwnTextLen(div) > len("CONSOLIDATED BALANCE SHEETS")+4 {
		t.Errorf("OwnTextLen() = %d counts table text", tree.OwnTextLen(div))
	}
}

func TestTree_SubtreeQueries(t *testing.T) {
	tree := parse(t, `<body><table><tr><td><p>inner</p></td></tr></table><p>outer</p></body>`)

	table := findTag(tree, "table", 0)
	inner := findTag(tree, "p", 0)
	outer := findTag(tree, "p", inner+1)

	if !tree.Contains(table, inner) {
		t.Error("table should contain inner paragraph")
	}
	if tree.Contains(table, outer) {
		t.Error("table should not contain outer paragraph")
	}
	if !tree.HasAncestor(inner, "table") {
		t.Error("inner paragraph should have a table ancestor")
	}
	if next := tree.Next(table); next > outer || next == None {
		t.Errorf("Next(table) = %d, want <= %d", next, outer)
	}
}

func TestTree_TextBetween(t *testing.T) {
	tree := parse(t, `<body><p>START</p><p>Three months ended June 30</p><table><tr><td>x</td></tr></table><p>END</p></body>`)

	start := findTag(tree, "p", 0)
	table := findTag(tree, "table", 0)
	got := tree.TextBetween(start, table, true)
	if got != "Three months ended June 30" {
		t.Errorf("TextBetween() = %q", got)
	}
}

func TestTree_SkipsScripts(t *testing.T) {
	tree := parse(t, `<html><head><title>t</title></head><body><script>var x = 1;</script><p>text</p></body></html>`)
	if got := tree.Text(0); got != "text" {
		t.Errorf("Text(root) = %q, want %q", got, "text")
	}
}
