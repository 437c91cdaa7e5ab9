package jats

import "github.com/ternarybob/pmcgrab/internal/models"

// ExtractEquations implements the Equations extractor (C6): the first
// <math> subtree is kept as the tag stream serializeMathML rebuilds
// (element names and text only; attributes, namespace prefixes and XML
// escaping are not reproduced); TeX annotation extracted if present.
func ExtractEquations(root *Node) []models.Equation {
	var equations []models.Equation

	for _, formula := range root.FindAll("disp-formula", "inline-formula") {
		e := models.Equation{ID: formula.Attr("id")}

		for _, math := range formula.FindAll("math") {
			e.MathML = serializeMathML(math)
			break
		}
		for _, tex := range formula.FindAll("tex-math") {
			e.TeX = DirectText(tex)
			break
		}

		if e.MathML != "" || e.TeX != "" {
			equations = append(equations, e)
		}
	}

	return equations
}

// serializeMathML renders a <math> node's subtree back to a MathML-ish
// tag stream. A faithful XML re-serialization isn't needed here — only
// the verbatim text content, which downstream embedding pipelines consume
// — so this walks the tree rebuilding opening/closing tags without
// attribute round-tripping.
func serializeMathML(n *Node) string {
	var b []byte
	var walk func(*Node)
	walk = func(node *Node) {
		if node.isText() {
			b = append(b, node.Text...)
			return
		}
		b = append(b, '<')
		b = append(b, node.Name...)
		b = append(b, '>')
		for _, k := range node.Kids {
			walk(k)
		}
		b = append(b, '<', '/')
		b = append(b, node.Name...)
		b = append(b, '>')
	}
	walk(n)
	return string(b)
}
