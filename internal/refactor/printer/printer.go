// Package printer serializes syntax trees back to Java source.
package printer

import (
	"fmt"
	"martianoff/staticify/internal/refactor"
	"martianoff/staticify/internal/tree"
	"strings"
)

type javaPrinter struct {
}

// NewJavaPrinter creates a Printer that reproduces the original formatting
// of every token it was given.
func NewJavaPrinter() refactor.Printer {
	return &javaPrinter{}
}

// Print implements the Printer interface.
func (p *javaPrinter) Print(cu *tree.CompilationUnit) (string, error) {
	var sb strings.Builder
	if err := printNode(&sb, cu); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// String prints a single node, ignoring errors. Intended for logs and tests.
func String(n tree.Node) string {
	var sb strings.Builder
	_ = printNode(&sb, n)
	return sb.String()
}

func printNode(sb *strings.Builder, n tree.Node) error {
	switch n := n.(type) {
	case *tree.CompilationUnit:
		if err := printList(sb, n.Nodes); err != nil {
			return err
		}
		sb.WriteString(n.EOF.Prefix)
	case *tree.ClassDecl:
		if err := printList(sb, n.Mods); err != nil {
			return err
		}
		if err := printList(sb, n.Header); err != nil {
			return err
		}
		writeToken(sb, n.Open)
		if err := printList(sb, n.Members); err != nil {
			return err
		}
		writeToken(sb, n.Close)
	case *tree.MethodDecl:
		if err := printList(sb, n.Mods); err != nil {
			return err
		}
		if err := printList(sb, n.Signature); err != nil {
			return err
		}
		if n.Name != nil {
			writeToken(sb, n.Name.Token)
		}
		if err := printList(sb, n.Params); err != nil {
			return err
		}
		if err := printList(sb, n.Trailer); err != nil {
			return err
		}
		if n.Body != nil {
			return printNode(sb, n.Body)
		}
	case *tree.VarDecls:
		if err := printList(sb, n.Mods); err != nil {
			return err
		}
		return printList(sb, n.Rest)
	case *tree.Initializer:
		if err := printList(sb, n.Mods); err != nil {
			return err
		}
		if n.Body != nil {
			return printNode(sb, n.Body)
		}
	case *tree.Block:
		writeToken(sb, n.Open)
		if err := printList(sb, n.Nodes); err != nil {
			return err
		}
		writeToken(sb, n.Close)
	case *tree.Annotation:
		for _, tok := range n.Tokens {
			writeToken(sb, tok)
		}
	case *tree.Modifier:
		writeToken(sb, n.Token)
	case *tree.Ident:
		writeToken(sb, n.Token)
	case *tree.Leaf:
		writeToken(sb, n.Token)
	default:
		return fmt.Errorf("printer: unexpected node %T", n)
	}
	return nil
}

func printList(sb *strings.Builder, nodes []tree.Node) error {
	for _, n := range nodes {
		if err := printNode(sb, n); err != nil {
			return err
		}
	}
	return nil
}

func writeToken(sb *strings.Builder, tok tree.Token) {
	sb.WriteString(tok.Prefix)
	sb.WriteString(tok.Text)
}

var _ refactor.Printer = (*javaPrinter)(nil)
