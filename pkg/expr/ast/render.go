package ast

import (
	"math"
	"strconv"
	"strings"

	"mercator-hq/symbolic/pkg/expr/function"
)

// String renders the literal in the shortest decimal form that parses back
// to the same value.
func (l *Literal) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64)
}

// String returns the variable name.
func (v *Variable) String() string {
	return v.Name
}

// String renders the call in canonical form.
func (c *Call) String() string {
	var sb strings.Builder
	writeCall(&sb, c)
	return sb.String()
}

func write(sb *strings.Builder, a Ast) {
	if c, ok := a.(*Call); ok {
		writeCall(sb, c)
		return
	}
	sb.WriteString(a.String())
}

func writeCall(sb *strings.Builder, c *Call) {
	if c.Fn.Syntax == function.SyntaxRoutine {
		sb.WriteString(c.Fn.Identifier)
		sb.WriteByte('(')
		for i, arg := range c.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			write(sb, arg)
		}
		sb.WriteByte(')')
		return
	}

	if len(c.Args) == 1 {
		sb.WriteString(c.Fn.Identifier)
		writeOperand(sb, c, c.Args[0])
		return
	}

	sep := c.Fn.Identifier
	if c.Fn.Precedence < function.PrecedenceProduct {
		sep = " " + sep + " "
	}
	for i, arg := range c.Args {
		if i > 0 {
			sb.WriteString(sep)
		}
		writeOperand(sb, c, arg)
	}
}

// writeOperand parenthesizes an infix child that binds no tighter than its
// parent, and any negative literal, which would otherwise read back as a
// subtraction or negation. Routine calls delimit themselves and never need
// parentheses.
func writeOperand(sb *strings.Builder, parent *Call, arg Ast) {
	if l, ok := arg.(*Literal); ok && math.Signbit(l.Value) {
		sb.WriteByte('(')
		sb.WriteString(l.String())
		sb.WriteByte(')')
		return
	}
	child, ok := arg.(*Call)
	if !ok || child.Fn.Syntax == function.SyntaxRoutine || child.Fn.Precedence > parent.Fn.Precedence {
		write(sb, arg)
		return
	}
	sb.WriteByte('(')
	writeCall(sb, child)
	sb.WriteByte(')')
}
