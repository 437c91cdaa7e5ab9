package jats

import "regexp"

// inlineStubTags are removed in place by CleanInline: cross-references,
// footnote/figure/table pointers, and their kin, per spec §4.5. Their
// surrounding whitespace is left untouched in the tree (the Kids slice
// splice below removes only the matched node, never its text siblings),
// so sentence grammar survives; duplicate/orphaned punctuation left
// behind is mopped up by NormalizeText's regex pass.
var inlineStubTags = []string{"xref", "target", "ref", "fn", "xref-group"}

// CleanInline deletes every descendant element whose local name is in
// inlineStubTags, in place, preserving all sibling text nodes untouched.
func CleanInline(root *Node) {
	var walk func(*Node)
	walk = func(n *Node) {
		kept := n.Kids[:0]
		for _, k := range n.Kids {
			if !k.isText() && contains(inlineStubTags, k.Name) {
				continue // drop the node and its subtree entirely
			}
			kept = append(kept, k)
		}
		n.Kids = kept
		for _, k := range n.Kids {
			if !k.isText() {
				walk(k)
			}
		}
	}
	walk(root)
}

var (
	whitespaceRun   = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	newlineRun      = regexp.MustCompile(`\n{3,}`)
	orphanBracket   = regexp.MustCompile(`[\[(]\s*[\])]`)
	orphanPunct     = regexp.MustCompile(`\s+([,.;:])`)
	doublePunct     = regexp.MustCompile(`([,;])\s*,`)
	spaceBeforeDot  = regexp.MustCompile(`\s+\.`)
)

// NormalizeText collapses intra-element whitespace to single spaces,
// preserves paragraph breaks, and cleans up the orphaned brackets/
// duplicate punctuation that xref deletion can leave behind (spec §4.5:
// "citation bracket normalization" and "whitespace normalization").
func NormalizeText(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = orphanBracket.ReplaceAllString(s, "")
	s = doublePunct.ReplaceAllString(s, "$1")
	s = orphanPunct.ReplaceAllString(s, "$1")
	s = spaceBeforeDot.ReplaceAllString(s, ".")
	s = newlineRun.ReplaceAllString(s, "\n\n")
	return trimSpaceKeepInner(s)
}

func trimSpaceKeepInner(s string) string {
	start, end := 0, len(s)
	for start < end && isSpaceByte(s[start]) {
		start++
	}
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Text returns the concatenated, normalized text content of n and every
// descendant, in document order.
func Text(n *Node) string {
	var b []byte
	var walk func(*Node)
	walk = func(node *Node) {
		if node.isText() {
			b = append(b, node.Text...)
			return
		}
		for _, k := range node.Kids {
			walk(k)
		}
	}
	walk(n)
	return NormalizeText(string(b))
}

// DirectText returns only the text of n's direct text-node children,
// ignoring any nested elements (used for leaf value extraction like
// <surname>Smith</surname>).
func DirectText(n *Node) string {
	var b []byte
	for _, k := range n.Kids {
		if k.isText() {
			b = append(b, k.Text...)
		}
	}
	return NormalizeText(string(b))
}
