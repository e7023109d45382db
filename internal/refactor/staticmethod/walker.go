package staticmethod

import (
	"log/slog"
	"martianoff/staticify/internal/tree"
	"strings"
)

// calleeKind classifies a reference to a method that is still non-static.
type calleeKind int

const (
	// calleeSelf is a reference to the method being analyzed.
	calleeSelf calleeKind = iota
	// calleePending is a candidate that has not been resolved yet.
	calleePending
	// calleeBlocking is a method that cannot become static.
	calleeBlocking
)

// usage is the verdict input the walker produces for one method.
type usage struct {
	usesInstanceField    bool
	usesSuper            bool
	usesIneligibleMethod bool
	pendingCalls         map[string]bool
}

// frame is the traversal context of one in-flight method walk. Every call to
// walkMethod gets a fresh frame.
type frame struct {
	top          *ClassScope
	classes      []*ClassScope
	insideMethod bool
	method       *MethodRecord
	usage
}

func (f *frame) current() *ClassScope {
	return f.classes[len(f.classes)-1]
}

func (f *frame) pushClass(s *ClassScope) {
	f.classes = append(f.classes, s)
}

func (f *frame) popClass() {
	f.classes = f.classes[:len(f.classes)-1]
}

// usageWalker resolves the identifiers of a method body by name against the
// scope of the class under analysis.
type usageWalker struct {
	scope    *ClassScope
	classify func(name string, caller *MethodRecord) calleeKind
	log      *slog.Logger
}

// walkMethod analyzes one method with a fresh frame. The method's own name is
// a declaration, not a reference, and is skipped.
func (w *usageWalker) walkMethod(rec *MethodRecord) usage {
	f := &frame{
		top:     w.scope,
		classes: []*ClassScope{w.scope},
		method:  rec,
		usage:   usage{pendingCalls: make(map[string]bool)},
	}
	f.insideMethod = true
	m := rec.Decl
	w.walkList(f, m.Signature)
	w.walkList(f, m.Params)
	w.walkList(f, m.Trailer)
	if m.Body != nil {
		w.walk(f, m.Body)
	}
	f.insideMethod = false
	return f.usage
}

func (w *usageWalker) walkList(f *frame, nodes []tree.Node) {
	for _, n := range nodes {
		w.walk(f, n)
	}
}

func (w *usageWalker) walk(f *frame, n tree.Node) {
	switch n := n.(type) {
	case *tree.Ident:
		w.resolve(f, n)
	case *tree.Block:
		w.walkList(f, n.Nodes)
	case *tree.ClassDecl:
		w.walkNestedClass(f, n)
	case *tree.MethodDecl:
		w.walkList(f, n.Signature)
		w.walkList(f, n.Params)
		w.walkList(f, n.Trailer)
		if n.Body != nil {
			w.walk(f, n.Body)
		}
	case *tree.VarDecls:
		declared := make(map[string]bool, len(n.Names))
		for _, name := range n.Names {
			declared[name] = true
		}
		for _, c := range n.Rest {
			if id, ok := c.(*tree.Ident); ok && declared[id.Text] {
				continue
			}
			w.walk(f, c)
		}
	case *tree.Initializer:
		if n.Body != nil {
			w.walk(f, n.Body)
		}
	case *tree.CompilationUnit:
		w.walkList(f, n.Nodes)
	case *tree.Annotation, *tree.Modifier, *tree.Leaf:
	}
}

// walkNestedClass descends into a local or anonymous class declared inside
// the method. The class gets its own scope for the duration of the descent;
// its members never enter the scope under analysis, but references from its
// bodies still count against the enclosing method.
func (w *usageWalker) walkNestedClass(f *frame, cls *tree.ClassDecl) {
	nested := buildScope(cls, f.current())
	f.pushClass(nested)
	defer f.popClass()

	w.log.Debug("enter nested class", "method", f.method.Name, "class", cls.Name, "anonymous", cls.Anonymous,
		"depth", len(f.classes)-1, "fields", nested.InstanceFields(), "methods", nested.NonStaticMethods())
	w.walkList(f, cls.Header)
	w.walkList(f, cls.Members)
}

func (w *usageWalker) resolve(f *frame, id *tree.Ident) {
	if !f.insideMethod {
		return
	}
	name := id.Text
	switch {
	case strings.EqualFold(name, "super"):
		f.usesSuper = true
		f.usesIneligibleMethod = true
		return
	case name == "this":
		f.usesInstanceField = true
		return
	}

	if f.top.IsInstanceField(name) {
		f.usesInstanceField = true
	}
	if cur := f.current(); cur != f.top && (cur.IsInstanceField(name) || cur.IsNonStaticMethod(name)) {
		w.log.Debug("nested member resolved by name against enclosing class", "method", f.method.Name, "class", cur.Name, "name", name)
	}
	if f.top.IsNonStaticMethod(name) {
		switch w.classify(name, f.method) {
		case calleeBlocking:
			f.usesIneligibleMethod = true
		case calleePending:
			f.pendingCalls[name] = true
		case calleeSelf:
		}
	}
}
