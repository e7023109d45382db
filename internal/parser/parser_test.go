package parser

import (
	"errors"
	"martianoff/staticify/internal/refactor/printer"
	"martianoff/staticify/internal/tree"
	"martianoff/staticify/staticerr"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `/*
 * Header comment.
 */
package com.example.shapes;

import java.util.*;
import static java.lang.Math.abs;

@SuppressWarnings({"unchecked", "rawtypes"})
public sealed abstract class Shape<T extends Comparable<T>> implements Cloneable permits Circle {
    private static final long serialVersionUID = 1L;
    protected int[] sides, corners [];
    private Map<String, List<Integer>> index = new HashMap<>(), other;
    String text = """
        multi "line" text
        """;
    char quote = '\'';

    static { System.out.println("loaded"); }
    { sides = new int[] { 1, 2, 3 }; }

    Shape() { this(0); }
    Shape(int n) { super(); }

    public abstract double area();

    @Override
    public String toString() // trailing comment
    {
        return getClass().getSimpleName() + ":" + area();
    }

    <R> R accept(java.util.function.Function<Shape<T>, R> fn) throws Exception {
        Runnable r = () -> { int local = 1; };
        Comparator<String> c = new Comparator<String>() {
            @Override public int compare(String a, String b) { return a.compareTo(b); }
        };
        class Local { int x = abs(-1); }
        if (this instanceof Circle circle && circle.radius > 0x1F) {
            return fn.apply(this);
        }
        return switch (sides.length) {
            case 3 -> null;
            default -> fn.apply(null);
        };
    }

    enum Color { RED, GREEN { @Override String hex() { return "0f0"; } }, BLUE; String hex() { return ""; } }

    record Pair<A, B>(A first, @Deprecated B second) {
        Pair {
            if (first == null) throw new IllegalArgumentException();
        }
    }

    interface Visitor { void visit(Shape<?> s); default int depth() { return 0; } }

    @interface Marker { String value() default ""; }

    static non-sealed class Circle extends Shape<Integer> {
        double radius = 1.5e-3;
        public double area() { return Math.PI * radius * radius; }
    }
}
`

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Empty", input: ""},
		{name: "Only comments", input: "// nothing here\n/* at all */\n"},
		{name: "Minimal class", input: "class A {}"},
		{name: "Windows line endings", input: "class A {\r\n    int f() { return 1; }\r\n}\r\n"},
		{name: "Unicode", input: "class Grüße { String s = \"héllo\"; int ü() { return 1; } }\n"},
		{name: "Full sample", input: sample},
	}

	p := printer.NewJavaPrinter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cu, err := Parse(tt.input)
			require.NoError(t, err)
			out, err := p.Print(cu)
			require.NoError(t, err)
			assert.Equal(t, tt.input, out)
		})
	}
}

func TestParseStructure(t *testing.T) {
	cu, err := NewJavaParser().Parse(sample, "Shape.java")
	require.NoError(t, err)
	assert.Equal(t, "Shape.java", cu.Path)
	assert.Equal(t, "com.example.shapes", cu.Package)

	shape := tree.FindClass(cu, "com.example.shapes.Shape")
	require.NotNil(t, shape)
	assert.Equal(t, tree.KindClass, shape.Kind)

	fields := map[string]bool{}
	for _, m := range shape.Members {
		if v, ok := m.(*tree.VarDecls); ok {
			for _, name := range v.Names {
				fields[name] = v.HasModifier("static")
			}
		}
	}
	assert.Equal(t, map[string]bool{
		"serialVersionUID": true,
		"sides":            false,
		"corners":          false,
		"index":            false,
		"other":            false,
		"text":             false,
		"quote":            false,
	}, fields)

	var names []string
	for _, m := range shape.Methods() {
		names = append(names, m.SimpleName())
	}
	assert.Equal(t, []string{"Shape", "Shape", "area", "toString", "accept"}, names)

	methods := shape.Methods()
	assert.True(t, methods[0].Constructor)
	assert.Nil(t, methods[2].Body)
	assert.True(t, methods[2].HasModifier("abstract"))
	assert.True(t, methods[3].HasAnnotation("Override"))

	nested := map[string]tree.ClassKind{}
	for _, c := range tree.Classes(cu) {
		nested[c.FullyQualifiedName] = c.Kind
	}
	assert.Equal(t, map[string]tree.ClassKind{
		"com.example.shapes.Shape":         tree.KindClass,
		"com.example.shapes.Shape$Color":   tree.KindEnum,
		"com.example.shapes.Shape$Pair":    tree.KindRecord,
		"com.example.shapes.Shape$Visitor": tree.KindInterface,
		"com.example.shapes.Shape$Marker":  tree.KindAnnotation,
		"com.example.shapes.Shape$Circle":  tree.KindClass,
	}, nested)

	pair := tree.FindClass(cu, "com.example.shapes.Shape.Pair")
	require.NotNil(t, pair)
	assert.Equal(t, []string{"first", "second"}, pair.Components)
	require.Len(t, pair.Methods(), 1)
	assert.True(t, pair.Methods()[0].Constructor)

	circle := tree.FindClass(cu, "com.example.shapes.Shape$Circle")
	require.NotNil(t, circle)
	assert.True(t, circle.IsStatic())
}

func TestAnonymousAndLocalClasses(t *testing.T) {
	cu, err := Parse(`class A {
    Object f() {
        class Local { int x; }
        return new Object() { int y; };
    }
}`)
	require.NoError(t, err)

	var local, anon *tree.ClassDecl
	tree.Walk(cu, func(n tree.Node) bool {
		if c, ok := n.(*tree.ClassDecl); ok {
			switch {
			case c.Anonymous:
				anon = c
			case c.Local:
				local = c
			}
		}
		return true
	})
	require.NotNil(t, local)
	require.NotNil(t, anon)
	assert.Equal(t, "Local", local.Name)
	assert.Empty(t, local.FullyQualifiedName)
	assert.Empty(t, anon.Name)

	// Local and anonymous classes are not addressable by name.
	assert.Len(t, tree.Classes(cu), 1)
}

func TestThisAndSuperAreIdents(t *testing.T) {
	cu, err := Parse(`class A extends B { int f() { return this.x + super.y; } }`)
	require.NoError(t, err)

	var idents []string
	tree.Walk(tree.FindClass(cu, "A").Methods()[0].Body, func(n tree.Node) bool {
		if id, ok := n.(*tree.Ident); ok {
			idents = append(idents, id.Text)
		}
		return true
	})
	assert.Equal(t, []string{"this", "x", "super", "y"}, idents)
}

func TestWildcardBoundIsNotAnIdent(t *testing.T) {
	cu, err := Parse(`class A { <T> void sort(List<T> xs, Comparator<? super T> c) { super.f(); } }`)
	require.NoError(t, err)

	m := tree.FindClass(cu, "A").Methods()[0]
	var idents []string
	for _, n := range m.Params {
		if id, ok := n.(*tree.Ident); ok {
			idents = append(idents, id.Text)
		}
	}
	assert.Equal(t, []string{"List", "T", "xs", "Comparator", "T", "c"}, idents)

	var body []string
	tree.Walk(m.Body, func(n tree.Node) bool {
		if id, ok := n.(*tree.Ident); ok {
			body = append(body, id.Text)
		}
		return true
	})
	assert.Equal(t, []string{"super", "f"}, body)
}

func TestParseMember(t *testing.T) {
	n, err := ParseMember("\n    public String hello() { return \"hi\"; }\n", "A")
	require.NoError(t, err)
	m, ok := n.(*tree.MethodDecl)
	require.True(t, ok)
	assert.Equal(t, "hello", m.SimpleName())
	assert.Equal(t, "\n    public String hello() { return \"hi\"; }", printer.String(m))

	_, err = ParseMember("int a; int b;", "A")
	assert.Error(t, err)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{name: "Unclosed brace", input: "class A {\n  void f() {\n}", line: 1, column: 9},
		{name: "Mismatched bracket", input: "class A { int f() { return g(]; } }", line: 1, column: 30},
		{name: "Stray closer", input: "}", line: 1, column: 1},
		{name: "Unterminated comment", input: "class A {} /* open", line: 1, column: 12},
		{name: "Unterminated string", input: "class A { String s = \"abc\n; }", line: 1, column: 22},
		{name: "Unterminated char", input: "class A { char c = 'x\n; }", line: 1, column: 20},
		{name: "Unterminated text block", input: "class A { String s = \"\"\"\nabc }", line: 1, column: 22},
		{name: "Missing type name", input: "@interface { }", line: 1, column: 12},
		{name: "Unnamed member class", input: "class A { class { } }", line: 1, column: 11},
		{name: "Field without terminator", input: "class A { int x }", line: 1, column: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)

			var se *staticerr.SyntaxError
			require.True(t, errors.As(err, &se), "got %T", err)
			assert.Equal(t, staticerr.TypeSyntax, se.Type())
			assert.Equal(t, tt.line, se.Line)
			assert.Equal(t, tt.column, se.Column)
		})
	}
}

func TestParseReportsPath(t *testing.T) {
	_, err := NewJavaParser().Parse("class A {", "src/A.java")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "src/A.java:1:9")
}
