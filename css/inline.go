package css

import (
	"bytes"
	"sort"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseInline parses inline declaration list ("color: red; margin: 0 auto")
// into property to value map. Property names are lower-cased, values are
// kept as written with whitespace collapsed. Malformed declarations are
// dropped.
func ParseInline(text string) map[string]string {
	res := make(map[string]string)
	if len(strings.TrimSpace(text)) == 0 {
		return res
	}

	parser := css.NewParser(parse.NewInput(bytes.NewBufferString(text)), true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return res
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			name := strings.ToLower(strings.TrimSpace(string(data)))
			if gt == css.CustomPropertyGrammar {
				name = strings.TrimSpace(string(data))
			}
			if value := joinTokens(parser.Values()); len(name) > 0 && len(value) > 0 {
				res[name] = value
			}
		}
	}
}

// joinTokens builds raw value string collapsing whitespace tokens.
func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	pendingSpace := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

// FormatInline renders declarations as inline style text with properties
// sorted by name so output is stable.
func FormatInline(decls map[string]string) string {
	if len(decls) == 0 {
		return ""
	}
	keys := make([]string, 0, len(decls))
	for k := range decls {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(decls[k])
		b.WriteByte(';')
	}
	return b.String()
}

// FormatRule renders declarations as CSS rule block for selector, one
// declaration per line.
func FormatRule(selector string, decls map[string]string) string {
	if len(decls) == 0 {
		return ""
	}
	keys := make([]string, 0, len(decls))
	for k := range decls {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(decls[k])
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// EscapeString quotes string for use as CSS string value (content property).
func EscapeString(s string) string {
	return `"` + strings.ReplaceAll(cssEscapeDoubleQuoted(s), "\n", `\A `) + `"`
}

// cssEscapeDoubleQuoted escapes backslashes and double quotes for use inside
// CSS double quoted string.
func cssEscapeDoubleQuoted(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
