// Package difftext renders line diffs between an original source and its
// rewritten form.
package difftext

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

type line struct {
	op   byte
	text string
	// Line numbers in the old and new text, 1-based.
	a, b int
}

// Unified returns a unified diff of before and after labelled with path, or
// "" when they are equal.
func Unified(path, before, after string, context int) string {
	if before == after {
		return ""
	}
	lines := diffLines(before, after)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range hunks(lines, context) {
		writeHunk(&sb, lines[h[0]:h[1]])
	}
	return sb.String()
}

func diffLines(before, after string) []line {
	dmp := diffmatchpatch.New()
	ca, cb, table := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), table)

	var out []line
	a, b := 1, 1
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, line{op: ' ', text: text, a: a, b: b})
				a++
				b++
			case diffmatchpatch.DiffDelete:
				out = append(out, line{op: '-', text: text, a: a, b: b})
				a++
			case diffmatchpatch.DiffInsert:
				out = append(out, line{op: '+', text: text, a: a, b: b})
				b++
			}
		}
	}
	return out
}

func splitLines(s string) []string {
	parts := strings.SplitAfter(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// hunks returns [start, end) ranges of lines, each covering a run of changes
// with context lines around it. Runs closer than 2*context merge.
func hunks(lines []line, context int) [][2]int {
	var out [][2]int
	for i := 0; i < len(lines); i++ {
		if lines[i].op == ' ' {
			continue
		}
		start := max(i-context, 0)
		end := i + 1
		for j := i + 1; j < len(lines) && j < end+2*context; j++ {
			if lines[j].op != ' ' {
				end = j + 1
			}
		}
		end = min(end+context, len(lines))
		if n := len(out); n > 0 && out[n-1][1] >= start {
			out[n-1][1] = end
		} else {
			out = append(out, [2]int{start, end})
		}
		i = end - 1
	}
	return out
}

func writeHunk(sb *strings.Builder, lines []line) {
	aStart, bStart := lines[0].a, lines[0].b
	aLen, bLen := 0, 0
	for _, l := range lines {
		if l.op != '+' {
			aLen++
		}
		if l.op != '-' {
			bLen++
		}
	}
	if aLen == 0 {
		aStart--
	}
	if bLen == 0 {
		bStart--
	}
	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", aStart, aLen, bStart, bLen)
	for _, l := range lines {
		sb.WriteByte(l.op)
		sb.WriteString(l.text)
		if !strings.HasSuffix(l.text, "\n") {
			sb.WriteString("\n\\ No newline at end of file\n")
		}
	}
}
