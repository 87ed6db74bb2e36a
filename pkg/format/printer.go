// Package format prints JavaScript syntax trees as source text.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

const indentSize = 2

// Printer handles JavaScript output with proper indentation and style.
type Printer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
	comments    bool

	// wrap is the node to parenthesize because it starts a statement or
	// an arrow body.
	wrap ast.Expr
}

func newPrinter(comments bool) *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
		comments:    comments,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

// op prints an operator or keyword token.
func (p *Printer) op(t token.TokenType) {
	p.write(t.String())
}

func (p *Printer) formatComments(comments []*token.Comment) {
	if !p.comments {
		return
	}
	for _, c := range comments {
		p.write(c.Text)
		p.writeln()
	}
}

// formatList prints a list of items with separators.
// count is the number of items, format is called for each index,
// sep is the separator string, multiline adds newlines after separators.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.writeln()
			}
		}
	}
}
