package tree

// Walk traverses the tree rooted at n in source order. fn is called for each
// node before its children; returning false skips the children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *CompilationUnit:
		walkList(n.Nodes, fn)
	case *ClassDecl:
		walkList(n.Mods, fn)
		walkList(n.Header, fn)
		walkList(n.Members, fn)
	case *MethodDecl:
		walkList(n.Mods, fn)
		walkList(n.Signature, fn)
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		walkList(n.Params, fn)
		walkList(n.Trailer, fn)
		if n.Body != nil {
			Walk(n.Body, fn)
		}
	case *VarDecls:
		walkList(n.Mods, fn)
		walkList(n.Rest, fn)
	case *Initializer:
		walkList(n.Mods, fn)
		if n.Body != nil {
			Walk(n.Body, fn)
		}
	case *Block:
		walkList(n.Nodes, fn)
	case *Annotation, *Modifier, *Ident, *Leaf:
	}
}

func walkList(nodes []Node, fn func(Node) bool) {
	for _, c := range nodes {
		Walk(c, fn)
	}
}

// Classes returns every named class declared in the unit, outer classes
// before the classes nested in them.
func Classes(cu *CompilationUnit) []*ClassDecl {
	var out []*ClassDecl
	Walk(cu, func(n Node) bool {
		if c, ok := n.(*ClassDecl); ok && c.FullyQualifiedName != "" {
			out = append(out, c)
		}
		return true
	})
	return out
}

// FindClass returns the first class whose qualified name matches fqn.
func FindClass(cu *CompilationUnit, fqn string) *ClassDecl {
	for _, c := range Classes(cu) {
		if QualifiedNameMatches(c, fqn) {
			return c
		}
	}
	return nil
}

// Methods returns the methods declared directly in the class body.
func (c *ClassDecl) Methods() []*MethodDecl {
	var out []*MethodDecl
	for _, m := range c.Members {
		if md, ok := m.(*MethodDecl); ok {
			out = append(out, md)
		}
	}
	return out
}

// LeadingPrefix returns the trivia in front of the first token of n.
func LeadingPrefix(n Node) string {
	if tok := firstToken(n); tok != nil {
		return tok.Prefix
	}
	return ""
}

func firstToken(n Node) *Token {
	switch n := n.(type) {
	case *Ident:
		return &n.Token
	case *Leaf:
		return &n.Token
	case *Modifier:
		return &n.Token
	case *Annotation:
		if len(n.Tokens) > 0 {
			return &n.Tokens[0]
		}
	case *Block:
		return &n.Open
	case *ClassDecl:
		for _, list := range [][]Node{n.Mods, n.Header} {
			if len(list) > 0 {
				return firstToken(list[0])
			}
		}
		return &n.Open
	case *MethodDecl:
		for _, list := range [][]Node{n.Mods, n.Signature} {
			if len(list) > 0 {
				return firstToken(list[0])
			}
		}
		if n.Name != nil {
			return &n.Name.Token
		}
	case *VarDecls:
		for _, list := range [][]Node{n.Mods, n.Rest} {
			if len(list) > 0 {
				return firstToken(list[0])
			}
		}
	case *Initializer:
		if len(n.Mods) > 0 {
			return firstToken(n.Mods[0])
		}
		if n.Body != nil {
			return &n.Body.Open
		}
	case *CompilationUnit:
		if len(n.Nodes) > 0 {
			return firstToken(n.Nodes[0])
		}
		return &n.EOF
	}
	return nil
}

// WithLeadingPrefix returns a shallow copy of n whose first token carries
// prefix. Only the nodes on the path to that token are copied.
func WithLeadingPrefix(n Node, prefix string) Node {
	switch n := n.(type) {
	case *Ident:
		c := *n
		c.Prefix = prefix
		return &c
	case *Leaf:
		c := *n
		c.Prefix = prefix
		return &c
	case *Modifier:
		c := *n
		c.Prefix = prefix
		return &c
	case *Annotation:
		c := *n
		if len(n.Tokens) > 0 {
			c.Tokens = append([]Token(nil), n.Tokens...)
			c.Tokens[0].Prefix = prefix
		}
		return &c
	case *Block:
		c := *n
		c.Open.Prefix = prefix
		return &c
	case *ClassDecl:
		c := *n
		switch {
		case len(n.Mods) > 0:
			c.Mods = replaceFirst(n.Mods, prefix)
		case len(n.Header) > 0:
			c.Header = replaceFirst(n.Header, prefix)
		default:
			c.Open.Prefix = prefix
		}
		return &c
	case *MethodDecl:
		c := *n
		switch {
		case len(n.Mods) > 0:
			c.Mods = replaceFirst(n.Mods, prefix)
		case len(n.Signature) > 0:
			c.Signature = replaceFirst(n.Signature, prefix)
		case n.Name != nil:
			c.Name = WithLeadingPrefix(n.Name, prefix).(*Ident)
		}
		return &c
	case *VarDecls:
		c := *n
		if len(n.Mods) > 0 {
			c.Mods = replaceFirst(n.Mods, prefix)
		} else if len(n.Rest) > 0 {
			c.Rest = replaceFirst(n.Rest, prefix)
		}
		return &c
	case *Initializer:
		c := *n
		if len(n.Mods) > 0 {
			c.Mods = replaceFirst(n.Mods, prefix)
		} else if n.Body != nil {
			c.Body = WithLeadingPrefix(n.Body, prefix).(*Block)
		}
		return &c
	}
	return n
}

func replaceFirst(nodes []Node, prefix string) []Node {
	out := append([]Node(nil), nodes...)
	out[0] = WithLeadingPrefix(out[0], prefix)
	return out
}

// ReplaceMembers returns a unit in which every top-level node or class member
// n for which fn reports a replacement is swapped for it. Classes are
// searched recursively through their members. Nodes off the path to a
// replacement are shared with cu; cu itself is returned when fn replaces
// nothing.
func ReplaceMembers(cu *CompilationUnit, fn func(Node) (Node, bool)) *CompilationUnit {
	nodes, changed := replaceList(cu.Nodes, fn)
	if !changed {
		return cu
	}
	c := *cu
	c.Nodes = nodes
	return &c
}

func replaceList(nodes []Node, fn func(Node) (Node, bool)) ([]Node, bool) {
	var out []Node
	for i, n := range nodes {
		next, changed := replaceNode(n, fn)
		if !changed {
			if out != nil {
				out = append(out, n)
			}
			continue
		}
		if out == nil {
			out = make([]Node, i, len(nodes))
			copy(out, nodes[:i])
		}
		out = append(out, next)
	}
	if out == nil {
		return nodes, false
	}
	return out, true
}

func replaceNode(n Node, fn func(Node) (Node, bool)) (Node, bool) {
	if next, ok := fn(n); ok {
		return next, true
	}
	if cls, ok := n.(*ClassDecl); ok {
		members, changed := replaceList(cls.Members, fn)
		if changed {
			c := *cls
			c.Members = members
			return &c, true
		}
	}
	return n, false
}
