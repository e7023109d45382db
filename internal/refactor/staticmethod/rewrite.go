package staticmethod

import (
	"martianoff/staticify/internal/tree"
)

// Promote returns a copy of m whose modifier list ends with a static
// modifier. The static keyword takes over the whitespace in front of the
// signature, which gets a single space, so `private String f()` becomes
// `private static String f()` and an annotation on its own line stays there.
// m is returned as is when it is already static.
func Promote(m *tree.MethodDecl) *tree.MethodDecl {
	if m.HasModifier("static") {
		return m
	}
	c := *m
	prefix := " "
	switch {
	case len(m.Signature) > 0:
		prefix = tree.LeadingPrefix(m.Signature[0])
		c.Signature = append([]tree.Node(nil), m.Signature...)
		c.Signature[0] = tree.WithLeadingPrefix(m.Signature[0], " ")
	case m.Name != nil:
		prefix = m.Name.Prefix
		name := *m.Name
		name.Prefix = " "
		c.Name = &name
	}
	c.Mods = make([]tree.Node, 0, len(m.Mods)+1)
	c.Mods = append(c.Mods, m.Mods...)
	c.Mods = append(c.Mods, tree.NewModifier("static", prefix))
	return &c
}

// Rewrite returns a unit in which every eligible method of results carries
// a static modifier. Nodes off the path to a promoted method are shared with
// cu; cu itself is returned when nothing is promoted.
func Rewrite(cu *tree.CompilationUnit, results []*Result) *tree.CompilationUnit {
	promote := make(map[*tree.MethodDecl]bool)
	for _, r := range results {
		for _, m := range r.Eligible() {
			promote[m] = true
		}
	}
	if len(promote) == 0 {
		return cu
	}
	return tree.ReplaceMembers(cu, func(n tree.Node) (tree.Node, bool) {
		if m, ok := n.(*tree.MethodDecl); ok && promote[m] {
			return Promote(m), true
		}
		return nil, false
	})
}
