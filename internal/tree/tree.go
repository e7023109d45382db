// Package tree defines the lossless Java syntax tree that recipes operate on.
//
// Every token keeps the whitespace and comments that precede it, so printing
// the tree reproduces the source byte for byte. Nodes are values of a closed
// set of variants; recipes never mutate a node in place, they build a new
// node and reuse the unchanged children.
package tree

import (
	"strings"
)

// TokenKind classifies a lexical token.
type TokenKind int

const (
	EOF TokenKind = iota
	Identifier
	Keyword
	Literal
	Operator
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Identifier:
		return "Identifier"
	case Keyword:
		return "Keyword"
	case Literal:
		return "Literal"
	case Operator:
		return "Operator"
	}
	return "Unknown"
}

// Token is a single lexical token together with its leading trivia.
type Token struct {
	Kind   TokenKind
	Prefix string
	Text   string
	Line   int
	Column int
}

// Is reports whether the token has the given text.
func (t Token) Is(text string) bool {
	return t.Text == text
}

// WithPrefix returns a copy of the token with a different prefix.
func (t Token) WithPrefix(prefix string) Token {
	t.Prefix = prefix
	return t
}

// Node is implemented by every tree variant in this package.
type Node interface {
	node()
}

// ClassKind is the keyword that introduced a type declaration.
type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
	KindEnum
	KindRecord
	KindAnnotation
)

func (k ClassKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindAnnotation:
		return "@interface"
	}
	return "unknown"
}

// CompilationUnit is the root of a parsed source file.
type CompilationUnit struct {
	Path    string
	Package string
	Nodes   []Node
	EOF     Token
}

// ClassDecl is a class, interface, enum, record or annotation type.
// Anonymous class bodies are ClassDecls without modifiers or header.
type ClassDecl struct {
	Mods   []Node
	Header []Node
	Kind   ClassKind
	Name   string

	// FullyQualifiedName is empty for anonymous and local classes.
	FullyQualifiedName string
	Anonymous          bool
	Local              bool
	Components         []string

	Open    Token
	Members []Node
	Close   Token
}

// IsStatic reports whether the class is explicitly declared static.
func (c *ClassDecl) IsStatic() bool {
	return hasModifier(c.Mods, "static")
}

// MethodDecl is a method or constructor declaration.
type MethodDecl struct {
	Mods []Node
	// Signature holds type parameters and the return type. It is empty for
	// constructors.
	Signature []Node
	Name      *Ident
	// Params runs from '(' through ')'; nil for compact record constructors.
	Params []Node
	// Trailer holds the throws clause, an annotation default value and the
	// terminating ';' of a method without body.
	Trailer     []Node
	Body        *Block
	Constructor bool
}

// HasModifier reports whether the method carries the modifier keyword.
func (m *MethodDecl) HasModifier(keyword string) bool {
	return hasModifier(m.Mods, keyword)
}

// HasAnnotation reports whether the method carries an annotation with the
// given simple name.
func (m *MethodDecl) HasAnnotation(simpleName string) bool {
	for _, n := range m.Mods {
		if a, ok := n.(*Annotation); ok && a.Name == simpleName {
			return true
		}
	}
	return false
}

// SimpleName returns the declared method name.
func (m *MethodDecl) SimpleName() string {
	if m.Name == nil {
		return ""
	}
	return m.Name.Text
}

// VarDecls is a field declaration with one or more declarators.
type VarDecls struct {
	Mods  []Node
	Rest  []Node
	Names []string
}

// HasModifier reports whether the field carries the modifier keyword.
func (v *VarDecls) HasModifier(keyword string) bool {
	return hasModifier(v.Mods, keyword)
}

// Initializer is a static or instance initializer block.
type Initializer struct {
	Mods []Node
	Body *Block
}

// Block is a brace-delimited sequence of nodes: statement blocks, lambda
// bodies and array initializers alike.
type Block struct {
	Open  Token
	Nodes []Node
	Close Token
}

// Annotation is an opaque annotation such as @Override or @SuppressWarnings("x").
type Annotation struct {
	Tokens []Token
	Name   string
}

// Modifier is a modifier keyword such as public or static.
type Modifier struct {
	Token
}

// Ident is an identifier, including the this and super keywords.
type Ident struct {
	Token
}

// Leaf is any other token.
type Leaf struct {
	Token
}

func (*CompilationUnit) node() {}
func (*ClassDecl) node()       {}
func (*MethodDecl) node()      {}
func (*VarDecls) node()        {}
func (*Initializer) node()     {}
func (*Block) node()           {}
func (*Annotation) node()      {}
func (*Modifier) node()        {}
func (*Ident) node()           {}
func (*Leaf) node()            {}

var modifierKeywords = map[string]bool{
	"public":       true,
	"protected":    true,
	"private":      true,
	"static":       true,
	"final":        true,
	"abstract":     true,
	"native":       true,
	"synchronized": true,
	"transient":    true,
	"volatile":     true,
	"strictfp":     true,
	"default":      true,
	"sealed":       true,
	"non-sealed":   true,
}

// IsModifierKeyword reports whether text is a declaration modifier.
func IsModifierKeyword(text string) bool {
	return modifierKeywords[text]
}

// NewModifier builds a modifier token with the given prefix.
func NewModifier(keyword, prefix string) *Modifier {
	return &Modifier{Token: Token{Kind: Keyword, Prefix: prefix, Text: keyword}}
}

func hasModifier(mods []Node, keyword string) bool {
	for _, n := range mods {
		if m, ok := n.(*Modifier); ok && m.Text == keyword {
			return true
		}
	}
	return false
}

// QualifiedNameMatches reports whether fqn names the class. Nested classes
// are recorded with '$' separators; a dotted spelling matches as well.
func QualifiedNameMatches(c *ClassDecl, fqn string) bool {
	if c == nil || c.FullyQualifiedName == "" || fqn == "" {
		return false
	}
	if c.FullyQualifiedName == fqn {
		return true
	}
	return strings.ReplaceAll(c.FullyQualifiedName, "$", ".") == strings.ReplaceAll(fqn, "$", ".")
}
