// Package parser turns Java source text into a lossless tree.
//
// The parser is structural: it recognizes type declarations, members,
// blocks and nested classes precisely and keeps everything else as
// identifier and leaf tokens. That is all the recipes need, and it means any
// syntactically balanced input round-trips through the printer unchanged.
package parser

import (
	"fmt"
	"martianoff/staticify/internal/tree"
	"martianoff/staticify/staticerr"
	"strings"
)

// JavaParser parses Java compilation units.
type JavaParser struct{}

// NewJavaParser creates a new JavaParser.
func NewJavaParser() *JavaParser {
	return &JavaParser{}
}

// Parse parses src. path is recorded on the unit and in errors.
func (p *JavaParser) Parse(src, path string) (*tree.CompilationUnit, error) {
	cu, err := Parse(src)
	if err != nil {
		if se, ok := err.(*staticerr.SyntaxError); ok && path != "" {
			return nil, se.InFile(path)
		}
		return nil, err
	}
	cu.Path = path
	return cu, nil
}

// Parse parses a compilation unit.
func Parse(src string) (*tree.CompilationUnit, error) {
	toks, err := newLexer(src).tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if err := p.matchBrackets(); err != nil {
		return nil, err
	}
	return p.parseCompilationUnit()
}

// ParseMember parses a single class member in the context of a class named
// className. The member must be the only content of src.
func ParseMember(src, className string) (tree.Node, error) {
	wrapped := "class " + className + " {" + src + "}"
	cu, err := Parse(wrapped)
	if err != nil {
		return nil, err
	}
	for _, n := range cu.Nodes {
		if c, ok := n.(*tree.ClassDecl); ok && len(c.Members) == 1 {
			return c.Members[0], nil
		}
	}
	return nil, staticerr.NewSyntaxError(1, 1, "expected exactly one member")
}

type parser struct {
	toks  []tree.Token
	match []int
	pos   int
	pkg   string
}

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

// matchBrackets records the index of the matching bracket for every
// (), [] and {} token.
func (p *parser) matchBrackets() error {
	p.match = make([]int, len(p.toks))
	var stack []int
	for i, tok := range p.toks {
		p.match[i] = -1
		if tok.Kind != tree.Operator {
			continue
		}
		switch tok.Text {
		case "(", "[", "{":
			stack = append(stack, i)
		case ")", "]", "}":
			if len(stack) == 0 {
				return staticerr.NewSyntaxError(tok.Line, tok.Column, fmt.Sprintf("unbalanced %q", tok.Text))
			}
			open := stack[len(stack)-1]
			if closers[p.toks[open].Text] != tok.Text {
				return staticerr.NewSyntaxError(tok.Line, tok.Column,
					fmt.Sprintf("%q does not match %q at line %d:%d", tok.Text, p.toks[open].Text, p.toks[open].Line, p.toks[open].Column))
			}
			stack = stack[:len(stack)-1]
			p.match[open] = i
			p.match[i] = open
		}
	}
	if len(stack) > 0 {
		tok := p.toks[stack[len(stack)-1]]
		return staticerr.NewSyntaxError(tok.Line, tok.Column, fmt.Sprintf("unclosed %q", tok.Text))
	}
	return nil
}

func (p *parser) at(i int) tree.Token {
	if i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) cur() tree.Token { return p.at(p.pos) }

func (p *parser) next() tree.Token {
	tok := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) isOp(i int, text string) bool {
	tok := p.at(i)
	return tok.Kind == tree.Operator && tok.Text == text
}

func (p *parser) isKeyword(i int, text string) bool {
	tok := p.at(i)
	return tok.Kind == tree.Keyword && tok.Text == text
}

func (p *parser) isIdent(i int) bool {
	return p.at(i).Kind == tree.Identifier
}

func (p *parser) errorAt(tok tree.Token, format string, args ...any) error {
	return staticerr.NewSyntaxError(tok.Line, tok.Column, fmt.Sprintf(format, args...))
}

func (p *parser) parseCompilationUnit() (*tree.CompilationUnit, error) {
	cu := &tree.CompilationUnit{}
	for p.cur().Kind != tree.EOF {
		switch {
		case p.isKeyword(p.pos, "package"):
			cu.Nodes = append(cu.Nodes, p.parsePackage()...)
			cu.Package = p.pkg
		case p.typeDeclAhead(p.pos):
			mods := p.parseMods()
			cls, err := p.parseTypeDecl(mods, "", false)
			if err != nil {
				return nil, err
			}
			cu.Nodes = append(cu.Nodes, cls)
		default:
			cu.Nodes = append(cu.Nodes, p.term())
		}
	}
	cu.EOF = p.cur()
	return cu, nil
}

func (p *parser) parsePackage() []tree.Node {
	var nodes []tree.Node
	var name strings.Builder
	nodes = append(nodes, &tree.Leaf{Token: p.next()})
	for p.cur().Kind != tree.EOF && !p.isOp(p.pos, ";") {
		tok := p.next()
		if tok.Kind == tree.Identifier || tok.Is(".") {
			name.WriteString(tok.Text)
		}
		nodes = append(nodes, leafOrIdent(tok))
	}
	if p.isOp(p.pos, ";") {
		nodes = append(nodes, &tree.Leaf{Token: p.next()})
	}
	p.pkg = name.String()
	return nodes
}

// skipModsAhead returns the index of the first token after any annotations
// and modifiers starting at i.
func (p *parser) skipModsAhead(i int) int {
	for {
		switch {
		case p.isOp(i, "@") && !p.isKeyword(i+1, "interface"):
			i = p.annotationEnd(i)
		case p.isModifier(i) && p.at(i).Text == "non":
			i += 3
		case p.isModifier(i):
			i++
		default:
			return i
		}
	}
}

func (p *parser) isModifier(i int) bool {
	tok := p.at(i)
	switch tok.Kind {
	case tree.Keyword:
		return tree.IsModifierKeyword(tok.Text)
	case tree.Identifier:
		// sealed and non-sealed are contextual.
		if tok.Text == "sealed" {
			return p.at(i+1).Kind == tree.Keyword || p.isModifierIdent(i+1)
		}
		return tok.Text == "non" && p.isOp(i+1, "-") && p.at(i+2).Text == "sealed"
	}
	return false
}

func (p *parser) isModifierIdent(i int) bool {
	return p.at(i).Text == "sealed" || p.at(i).Text == "non"
}

// annotationEnd returns the index after the annotation starting at i.
func (p *parser) annotationEnd(i int) int {
	i++
	for p.isIdent(i) {
		i++
		if p.isOp(i, ".") && p.isIdent(i+1) {
			i++
			continue
		}
		break
	}
	if p.isOp(i, "(") && p.match[i] > 0 {
		i = p.match[i] + 1
	}
	return i
}

// typeDeclAhead reports whether a type declaration starts at i.
func (p *parser) typeDeclAhead(i int) bool {
	return p.typeKeywordAt(p.skipModsAhead(i))
}

func (p *parser) typeKeywordAt(i int) bool {
	switch {
	case p.isKeyword(i, "class"), p.isKeyword(i, "interface"), p.isKeyword(i, "enum"):
		return p.isIdent(i + 1)
	case p.isOp(i, "@") && p.isKeyword(i+1, "interface"):
		return true
	case p.isIdent(i) && p.at(i).Text == "record":
		return p.isIdent(i+1) && (p.isOp(i+2, "(") || p.isOp(i+2, "<"))
	}
	return false
}

func (p *parser) parseMods() []tree.Node {
	var mods []tree.Node
	for {
		switch {
		case p.isOp(p.pos, "@") && !p.isKeyword(p.pos+1, "interface"):
			end := p.annotationEnd(p.pos)
			ann := &tree.Annotation{}
			for p.pos < end {
				ann.Tokens = append(ann.Tokens, p.next())
			}
			ann.Name = annotationName(ann.Tokens)
			mods = append(mods, ann)
		case p.isModifier(p.pos):
			if p.at(p.pos).Text == "non" {
				// non-sealed is lexed as three tokens; keep them as one modifier.
				tok := p.next()
				tok.Text += p.next().Text + p.next().Text
				tok.Kind = tree.Keyword
				mods = append(mods, &tree.Modifier{Token: tok})
				continue
			}
			tok := p.next()
			tok.Kind = tree.Keyword
			mods = append(mods, &tree.Modifier{Token: tok})
		default:
			return mods
		}
	}
}

// annotationName returns the simple name of an annotation: the last
// identifier of its qualified name.
func annotationName(toks []tree.Token) string {
	name := ""
	for i := 1; i < len(toks); i++ {
		if toks[i].Kind != tree.Identifier {
			break
		}
		name = toks[i].Text
		if i+1 < len(toks) && toks[i+1].Is(".") {
			i++
			continue
		}
		break
	}
	return name
}

// parseTypeDecl parses a class-like declaration whose kind keyword is the
// current token. outer is the qualified name of the enclosing class.
func (p *parser) parseTypeDecl(mods []tree.Node, outer string, local bool) (*tree.ClassDecl, error) {
	cls := &tree.ClassDecl{Mods: mods, Local: local}
	switch {
	case p.isOp(p.pos, "@"):
		cls.Kind = tree.KindAnnotation
		cls.Header = append(cls.Header, &tree.Leaf{Token: p.next()})
	case p.isKeyword(p.pos, "class"):
		cls.Kind = tree.KindClass
	case p.isKeyword(p.pos, "interface"):
		cls.Kind = tree.KindInterface
	case p.isKeyword(p.pos, "enum"):
		cls.Kind = tree.KindEnum
	default:
		cls.Kind = tree.KindRecord
	}
	cls.Header = append(cls.Header, &tree.Leaf{Token: p.next()})
	if !p.isIdent(p.pos) {
		return nil, p.errorAt(p.cur(), "expected type name, found %s", describe(p.cur()))
	}
	cls.Name = p.cur().Text
	cls.Header = append(cls.Header, &tree.Leaf{Token: p.next()})

	open := p.pos
	for open < len(p.toks) && !p.isOp(open, "{") {
		if p.at(open).Kind == tree.EOF || p.isOp(open, ";") {
			return nil, p.errorAt(p.at(open), "expected '{' in declaration of %s", cls.Name)
		}
		if p.match[open] > open && !p.isOp(open, "{") {
			open = p.match[open]
		}
		open++
	}
	if cls.Kind == tree.KindRecord {
		cls.Components = p.recordComponents(p.pos, open)
	}

	header, err := p.parseSeq(open, false)
	if err != nil {
		return nil, err
	}
	cls.Header = append(cls.Header, header...)

	switch {
	case local:
	case outer != "":
		cls.FullyQualifiedName = outer + "$" + cls.Name
	case p.pkg != "":
		cls.FullyQualifiedName = p.pkg + "." + cls.Name
	default:
		cls.FullyQualifiedName = cls.Name
	}
	return cls, p.parseClassBody(cls)
}

// recordComponents returns the component names of a record header running
// from i (just after the record name) up to end.
func (p *parser) recordComponents(i, end int) []string {
	if p.isOp(i, "<") {
		depth := 0
		for ; i < end; i++ {
			depth += angleDelta(p.at(i))
			if depth <= 0 {
				i++
				break
			}
		}
	}
	if !p.isOp(i, "(") {
		return nil
	}
	var names []string
	angles := 0
	for j := i + 1; j < p.match[i]; j++ {
		if p.isOp(j, "@") {
			j = p.annotationEnd(j) - 1
			continue
		}
		angles += angleDelta(p.at(j))
		if angles < 0 {
			angles = 0
		}
		if angles == 0 && p.isIdent(j) && (p.isOp(j+1, ",") || j+1 == p.match[i]) {
			names = append(names, p.at(j).Text)
		}
	}
	return names
}

func angleDelta(tok tree.Token) int {
	if tok.Kind != tree.Operator {
		return 0
	}
	switch tok.Text {
	case "<":
		return 1
	case ">":
		return -1
	case ">>":
		return -2
	case ">>>":
		return -3
	}
	return 0
}

// parseClassBody parses from the opening brace of cls through its closing
// brace.
func (p *parser) parseClassBody(cls *tree.ClassDecl) error {
	close := p.match[p.pos]
	cls.Open = p.next()
	if cls.Kind == tree.KindEnum {
		end := p.pos
		for end < close && !p.isOp(end, ";") {
			if p.match[end] > end {
				end = p.match[end]
			}
			end++
		}
		constants, err := p.parseSeq(end, true)
		if err != nil {
			return err
		}
		cls.Members = append(cls.Members, constants...)
		if p.pos < close {
			cls.Members = append(cls.Members, &tree.Leaf{Token: p.next()})
		}
	}
	for p.pos < close {
		member, err := p.parseMember(cls, close)
		if err != nil {
			return err
		}
		cls.Members = append(cls.Members, member)
	}
	cls.Close = p.next()
	return nil
}

func (p *parser) parseMember(cls *tree.ClassDecl, close int) (tree.Node, error) {
	if p.isOp(p.pos, ";") {
		return &tree.Leaf{Token: p.next()}, nil
	}
	mods := p.parseMods()
	switch {
	case p.isOp(p.pos, "{"):
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &tree.Initializer{Mods: mods, Body: body}, nil
	case p.typeKeywordAt(p.pos):
		return p.parseTypeDecl(mods, cls.FullyQualifiedName, cls.FullyQualifiedName == "")
	case cls.Kind == tree.KindRecord && p.isIdent(p.pos) && p.cur().Text == cls.Name && p.isOp(p.pos+1, "{"):
		name := p.next()
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &tree.MethodDecl{Mods: mods, Name: &tree.Ident{Token: name}, Body: body, Constructor: true}, nil
	}

	nameIdx, end := p.memberShape(close)
	if end < 0 {
		return nil, p.errorAt(p.cur(), "expected member declaration, found %s", describe(p.cur()))
	}
	if nameIdx >= 0 {
		return p.parseMethod(mods, cls, nameIdx, close)
	}
	return p.parseField(mods, end)
}

// memberShape scans a member declaration. It returns the index of the method
// name when the member is a method, and the index of the terminating ';'
// (or the method's '(') otherwise. end is -1 when no terminator was found.
func (p *parser) memberShape(close int) (nameIdx, end int) {
	for i := p.pos; i < close; i++ {
		switch {
		case p.isOp(i, "("):
			if i > p.pos && p.isIdent(i-1) {
				return i - 1, i
			}
			i = p.match[i]
		case p.isOp(i, "[") || p.isOp(i, "{"):
			i = p.match[i]
		case p.isOp(i, "="):
			for j := i; j < close; j++ {
				if p.isOp(j, ";") {
					return -1, j
				}
				if p.match[j] > j {
					j = p.match[j]
				}
			}
			return -1, -1
		case p.isOp(i, ";"):
			return -1, i
		}
	}
	return -1, -1
}

func (p *parser) parseMethod(mods []tree.Node, cls *tree.ClassDecl, nameIdx, close int) (*tree.MethodDecl, error) {
	m := &tree.MethodDecl{Mods: mods}
	sig, err := p.parseSeq(nameIdx, false)
	if err != nil {
		return nil, err
	}
	m.Signature = sig
	m.Name = &tree.Ident{Token: p.next()}
	m.Constructor = m.Name.Text == cls.Name

	params, err := p.parseSeq(p.match[p.pos]+1, false)
	if err != nil {
		return nil, err
	}
	m.Params = params

	end := p.pos
	for end < close && !p.isOp(end, "{") && !p.isOp(end, ";") {
		if p.match[end] > end {
			end = p.match[end]
		}
		end++
	}
	if end >= close {
		return nil, p.errorAt(p.at(end), "expected method body or ';' after %s", m.Name.Text)
	}
	if p.isOp(end, ";") {
		end++
	}
	trailer, err := p.parseSeq(end, false)
	if err != nil {
		return nil, err
	}
	m.Trailer = trailer
	if p.isOp(p.pos, "{") {
		m.Body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (p *parser) parseField(mods []tree.Node, semi int) (*tree.VarDecls, error) {
	names := p.declaratorNames(p.pos, semi)
	rest, err := p.parseSeq(semi+1, false)
	if err != nil {
		return nil, err
	}
	return &tree.VarDecls{Mods: mods, Rest: rest, Names: names}, nil
}

// declaratorNames returns the variable names declared by the tokens from i
// up to the terminating ';' at semi.
func (p *parser) declaratorNames(i, semi int) []string {
	var names []string
	angles := 0
	inInit := false
	for j := i; j < semi; j++ {
		tok := p.at(j)
		if p.match[j] > j {
			j = p.match[j]
			continue
		}
		if inInit {
			if p.isOp(j, ",") {
				inInit = false
				angles = 0
			}
			continue
		}
		angles += angleDelta(tok)
		if angles < 0 {
			angles = 0
		}
		if p.isOp(j, "=") {
			inInit = true
			continue
		}
		if angles > 0 || !p.isIdent(j) {
			continue
		}
		// Skip C-style dimensions: int a[], b[][] = ...;
		k := j + 1
		for p.isOp(k, "[") {
			k = p.match[k] + 1
		}
		if p.isOp(k, "=") || p.isOp(k, ",") || k == semi {
			names = append(names, tok.Text)
		}
	}
	return names
}

func (p *parser) parseBlock() (*tree.Block, error) {
	close := p.match[p.pos]
	blk := &tree.Block{Open: p.next()}
	nodes, err := p.parseSeq(close, false)
	if err != nil {
		return nil, err
	}
	blk.Nodes = nodes
	blk.Close = p.next()
	return blk, nil
}

func (p *parser) parseAnonymousClass() (*tree.ClassDecl, error) {
	cls := &tree.ClassDecl{Kind: tree.KindClass, Anonymous: true}
	return cls, p.parseClassBody(cls)
}

// parseSeq converts the tokens from the current position up to end into
// nodes, recognizing blocks, anonymous class bodies and local classes.
// Inside an enum constant list a brace after a constant opens its body.
func (p *parser) parseSeq(end int, enumConstants bool) ([]tree.Node, error) {
	var nodes []tree.Node
	for p.pos < end {
		switch {
		case p.isOp(p.pos, "{"):
			if p.anonymousBodyAt(p.pos, enumConstants) {
				cls, err := p.parseAnonymousClass()
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, cls)
				continue
			}
			blk, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, blk)
		case p.localTypeAt(p.pos):
			cls, err := p.parseTypeDecl(nil, "", true)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, cls)
		default:
			nodes = append(nodes, p.term())
		}
	}
	return nodes, nil
}

// anonymousBodyAt reports whether the brace at i opens an anonymous class
// body: `new T(...) {` or an enum constant body.
func (p *parser) anonymousBodyAt(i int, enumConstants bool) bool {
	if i == 0 {
		return false
	}
	prev := i - 1
	if enumConstants && (p.isIdent(prev) || p.isOp(prev, ")")) {
		return true
	}
	if !p.isOp(prev, ")") {
		return false
	}
	for j := p.match[prev] - 1; j >= 0; j-- {
		tok := p.at(j)
		switch {
		case tok.Kind == tree.Keyword && tok.Text == "new":
			return true
		case tok.Kind == tree.Identifier, tok.Is("."), tok.Is(","), tok.Is("?"), angleDelta(tok) != 0,
			tok.Is("extends"), tok.Is("super"):
		case tok.Is("]") || tok.Is(")"):
			j = p.match[j]
		case tok.Is("@"):
		default:
			return false
		}
	}
	return false
}

// localTypeAt reports whether a local class, interface, enum or record
// declaration starts at i.
func (p *parser) localTypeAt(i int) bool {
	if i > 0 && p.isOp(i-1, ".") {
		return false
	}
	switch {
	case p.isKeyword(i, "class"), p.isKeyword(i, "interface"), p.isKeyword(i, "enum"):
		return p.isIdent(i+1) && !p.isOp(i+2, "(")
	case p.isIdent(i) && p.at(i).Text == "record":
		return p.isIdent(i+1) && (p.isOp(i+2, "(") || p.isOp(i+2, "<"))
	}
	return false
}

// term consumes the current token as a leaf or identifier. The bound of a
// wildcard, as in `? super T`, is not a reference to the superclass.
func (p *parser) term() tree.Node {
	if p.pos > 0 && p.isOp(p.pos-1, "?") && p.isKeyword(p.pos, "super") {
		return &tree.Leaf{Token: p.next()}
	}
	return leafOrIdent(p.next())
}

func leafOrIdent(tok tree.Token) tree.Node {
	if tok.Kind == tree.Identifier || tok.Kind == tree.Keyword && (tok.Text == "this" || tok.Text == "super") {
		return &tree.Ident{Token: tok}
	}
	return &tree.Leaf{Token: tok}
}
