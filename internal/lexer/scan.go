package lexer

// ScanName reads a tag or attribute name and returns it; empty when nothing matched.
func ScanName(c *Cursor) string {
	start := c.Mark()
	for !c.EOF() && IsNameByte(c.Peek()) {
		c.Bump()
	}
	return c.TextFrom(start)
}

// ScanQuoted consumes a quoted string starting at the opening quote.
// Returns false when the closing quote is missing.
func ScanQuoted(c *Cursor) bool {
	quote := c.Bump()
	for !c.EOF() {
		b := c.Bump()
		switch b {
		case '\\':
			c.Bump()
		case quote:
			return true
		}
	}
	return false
}

// ScanTemplate consumes a backtick literal including nested `${...}` parts.
func ScanTemplate(c *Cursor) bool {
	c.Bump() // '`'
	for !c.EOF() {
		switch {
		case c.Peek() == '\\':
			c.Bump()
			c.Bump()
		case c.Peek() == '`':
			c.Bump()
			return true
		case c.HasPrefix("${"):
			c.Off += 2
			if !ScanBalanced(c, StopAtCloseBrace) {
				return false
			}
			c.Bump() // '}'
		default:
			c.Bump()
		}
	}
	return false
}

// StopFunc decides whether scanning stops before the byte at c.Off; it is only
// consulted at nesting depth zero.
type StopFunc func(c *Cursor) bool

// StopAtCloseBrace stops at the `}` that closes a placeholder.
func StopAtCloseBrace(c *Cursor) bool {
	return c.Peek() == '}'
}

// StopAtArgEnd stops at `,` or `)` of an argument list.
func StopAtArgEnd(c *Cursor) bool {
	b := c.Peek()
	return b == ',' || b == ')'
}

// StopAtAttrValueEnd stops where an unquoted attribute value ends: whitespace that is not
// followed by a binary operator, `>` or `/>`.
func StopAtAttrValueEnd(c *Cursor) bool {
	b := c.Peek()
	switch {
	case b == '>':
		return true
	case b == '/':
		_, b1, ok := c.Peek2()
		return ok && b1 == '>'
	case b == ',' || b == ';':
		return true
	case IsSpace(b):
		return !continuesExpression(c)
	}
	return false
}

// continuesExpression смотрит через пробелы: `a ? b : c`, `a + b`, `a && b` остаются одним значением.
func continuesExpression(c *Cursor) bool {
	save := c.Mark()
	defer c.Reset(save)
	prev := byte(0)
	if c.Off > 0 {
		prev = c.File.Content[c.Off-1]
	}
	c.SkipSpaces()
	if c.EOF() {
		return false
	}
	if isOperatorByte(prev) {
		return true
	}
	b := c.Peek()
	if b == '=' {
		_, b1, ok := c.Peek2()
		return ok && b1 == '='
	}
	return isOperatorByte(b)
}

func isOperatorByte(b byte) bool {
	switch b {
	case '?', ':', '+', '-', '*', '%', '&', '|':
		return true
	}
	return false
}

// ScanBalanced advances until stop reports true at depth zero, skipping over strings,
// templates and bracketed groups. Returns false when input ends first or when a closing
// bracket does not match. Reaching the end at depth zero counts as success.
func ScanBalanced(c *Cursor, stop StopFunc) bool {
	var stack []byte
	for !c.EOF() {
		if len(stack) == 0 && stop(c) {
			return true
		}
		switch b := c.Peek(); b {
		case '"', '\'':
			if !ScanQuoted(c) {
				return false
			}
		case '`':
			if !ScanTemplate(c) {
				return false
			}
		case '(', '[', '{':
			stack = append(stack, closerFor(b))
			c.Bump()
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != b {
				return false
			}
			stack = stack[:len(stack)-1]
			c.Bump()
		default:
			c.Bump()
		}
	}
	// конец ввода на нулевой глубине: вызывающий сам решает, нужен ли терминатор
	return len(stack) == 0
}

func closerFor(b byte) byte {
	switch b {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}
