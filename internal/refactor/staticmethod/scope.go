package staticmethod

import (
	"martianoff/staticify/internal/tree"
	"sort"
)

// ClassScope records the members of one class that the usage walker resolves
// identifiers against. Fields are fixed once built; the non-static method set
// only shrinks, as the engine proves methods eligible.
type ClassScope struct {
	Name          string
	QualifiedName string
	Kind          tree.ClassKind
	Decl          *tree.ClassDecl

	// Inner is set for non-static member classes of a class.
	Inner bool

	Methods []*MethodRecord
	Nested  []*ClassScope

	instanceFields map[string]bool
	nonStatic      map[string]int
}

// MethodRecord is the analysis view of one declared method.
type MethodRecord struct {
	Name      string
	Decl      *tree.MethodDecl
	Modifiers []string
	// Owner is the qualified name of the lexically enclosing class, or its
	// simple name for local and anonymous classes.
	Owner string

	IsConstructor bool
	IsOverride    bool
	IsAbstract    bool
	IsStatic      bool

	state   state
	verdict Verdict
}

type state int

const (
	unvisited state = iota
	visiting
	resolved
)

// BuildScope collects the instance fields and non-static methods declared
// directly in cls. Member classes get their own scopes in Nested; their
// members never enter the scope of cls.
func BuildScope(cls *tree.ClassDecl) *ClassScope {
	return buildScope(cls, nil)
}

func buildScope(cls *tree.ClassDecl, parent *ClassScope) *ClassScope {
	s := &ClassScope{
		Name:           cls.Name,
		QualifiedName:  cls.FullyQualifiedName,
		Kind:           cls.Kind,
		Decl:           cls,
		instanceFields: make(map[string]bool),
		nonStatic:      make(map[string]int),
	}
	if parent != nil && cls.Kind == tree.KindClass && !cls.IsStatic() &&
		parent.Kind != tree.KindInterface && parent.Kind != tree.KindAnnotation {
		s.Inner = true
	}
	owner := s.QualifiedName
	if owner == "" {
		owner = s.Name
	}

	for _, c := range cls.Components {
		s.instanceFields[c] = true
	}
	for _, member := range cls.Members {
		switch m := member.(type) {
		case *tree.VarDecls:
			if s.Kind == tree.KindInterface || s.Kind == tree.KindAnnotation || m.HasModifier("static") {
				continue
			}
			for _, name := range m.Names {
				s.instanceFields[name] = true
			}
		case *tree.MethodDecl:
			rec := newMethodRecord(m, cls, owner)
			s.Methods = append(s.Methods, rec)
			if !rec.IsStatic && !rec.IsConstructor {
				s.nonStatic[rec.Name]++
			}
		case *tree.ClassDecl:
			s.Nested = append(s.Nested, buildScope(m, s))
		}
	}
	return s
}

func newMethodRecord(m *tree.MethodDecl, cls *tree.ClassDecl, owner string) *MethodRecord {
	rec := &MethodRecord{
		Name:          m.SimpleName(),
		Decl:          m,
		Owner:         owner,
		IsConstructor: m.Constructor || (cls.Name != "" && m.SimpleName() == cls.Name),
		IsOverride:    m.HasAnnotation("Override"),
		IsAbstract:    m.HasModifier("abstract"),
		IsStatic:      m.HasModifier("static"),
	}
	for _, n := range m.Mods {
		if mod, ok := n.(*tree.Modifier); ok {
			rec.Modifiers = append(rec.Modifiers, mod.Text)
		}
	}
	return rec
}

// IsInstanceField reports whether name is a declared instance field.
func (s *ClassScope) IsInstanceField(name string) bool {
	return s.instanceFields[name]
}

// IsNonStaticMethod reports whether some method named name is still
// non-static.
func (s *ClassScope) IsNonStaticMethod(name string) bool {
	return s.nonStatic[name] > 0
}

// InstanceFields returns the instance field names in sorted order.
func (s *ClassScope) InstanceFields() []string {
	return sortedKeys(s.instanceFields)
}

// NonStaticMethods returns the names of the methods that are still
// non-static, in sorted order.
func (s *ClassScope) NonStaticMethods() []string {
	out := make([]string, 0, len(s.nonStatic))
	for name, n := range s.nonStatic {
		if n > 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// markStatic removes one method named name from the non-static set.
func (s *ClassScope) markStatic(name string) {
	if s.nonStatic[name] > 0 {
		s.nonStatic[name]--
	}
}

// Lookup returns the scope of the class with the given qualified name,
// searching s and its member classes.
func (s *ClassScope) Lookup(fqn string) *ClassScope {
	if tree.QualifiedNameMatches(s.Decl, fqn) {
		return s
	}
	for _, n := range s.Nested {
		if found := n.Lookup(fqn); found != nil {
			return found
		}
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
