package convert

import (
	"strings"
	"unicode"

	"domx/css"
)

// directives are instructions encoded in a scene node display name.
//
// Name is split into whitespace separated tokens (brackets and quotes keep
// their content together). Each token is checked in order:
//
//	:hover, ::before     pseudo selector applied to the parent node
//	host!:hover          pseudo selector applied to sibling (or any node)
//	host!::placeholder   with display name "host"
//	#host:hover          same, host is found by its id
//	tag#id.cls[k=v]      element selector, every part is optional but tag
//	                     must be a known HTML element
//
// Tokens which do not fit any form are plain words and are ignored. When
// several tokens set the same thing the last one wins, classes accumulate.
type directives struct {
	tag     string
	id      string
	classes []string
	attrs   map[string]string
	style   map[string]string

	pseudo       string
	parentPseudo bool
	hostName     string
	hostID       string
}

func (d *directives) isPseudoTarget() bool {
	return d.pseudo != ""
}

func (d *directives) isPseudoElement() bool {
	return strings.HasPrefix(d.pseudo, "::")
}

func parseDirectives(name string) directives {
	var d directives
	for _, tok := range tokenizeName(name) {
		d.apply(tok)
	}
	return d
}

func (d *directives) apply(tok string) {
	switch {
	case strings.HasPrefix(tok, ":"):
		if isPseudoSelector(tok) {
			d.pseudo, d.parentPseudo, d.hostName, d.hostID = tok, true, "", ""
		}
		return
	case strings.Contains(tok, "!:"):
		i := strings.Index(tok, "!:")
		if host, sel := tok[:i], tok[i+1:]; len(host) > 0 && isPseudoSelector(sel) {
			d.pseudo, d.parentPseudo, d.hostName, d.hostID = sel, false, host, ""
		}
		return
	case strings.HasPrefix(tok, "#") && strings.Contains(tok, ":"):
		i := strings.Index(tok, ":")
		if id, sel := tok[1:i], tok[i:]; isIdent(id) && isPseudoSelector(sel) {
			d.pseudo, d.parentPseudo, d.hostName, d.hostID = sel, false, "", id
		}
		return
	}

	sel, ok := parseSelector(tok)
	if !ok {
		return
	}
	if sel.tag != "" {
		d.tag = sel.tag
	}
	if sel.id != "" {
		d.id = sel.id
	}
	d.classes = append(d.classes, sel.classes...)
	for _, kv := range sel.attrs {
		switch kv[0] {
		case "id":
			d.id = kv[1]
		case "class":
			d.classes = append(d.classes, strings.Fields(kv[1])...)
		case "style":
			if d.style == nil {
				d.style = make(map[string]string)
			}
			for k, v := range css.ParseInline(kv[1]) {
				d.style[k] = v
			}
		default:
			if d.attrs == nil {
				d.attrs = make(map[string]string)
			}
			d.attrs[kv[0]] = kv[1]
		}
	}
}

type selector struct {
	tag     string
	id      string
	classes []string
	attrs   [][2]string
}

// parseSelector parses tag#id.class[attr=value] token.
func parseSelector(tok string) (selector, bool) {
	var sel selector
	if tok == "" {
		return sel, false
	}

	i := 0
	for i < len(tok) && strings.IndexByte("#.[", tok[i]) < 0 {
		i++
	}
	if i > 0 {
		tag := tok[:i]
		if !isHTMLTag(tag) {
			return sel, false
		}
		sel.tag = tag
	}

	for i < len(tok) {
		switch tok[i] {
		case '#', '.':
			j := i + 1
			for j < len(tok) && strings.IndexByte("#.[", tok[j]) < 0 {
				j++
			}
			part := tok[i+1 : j]
			if !isIdent(part) {
				return sel, false
			}
			if tok[i] == '#' {
				sel.id = part
			} else {
				sel.classes = append(sel.classes, part)
			}
			i = j
		case '[':
			j := closingBracket(tok, i)
			if j < 0 {
				return sel, false
			}
			k, v, _ := strings.Cut(tok[i+1:j], "=")
			k = strings.TrimSpace(k)
			if !isIdent(k) {
				return sel, false
			}
			sel.attrs = append(sel.attrs, [2]string{strings.ToLower(k), unquote(strings.TrimSpace(v))})
			i = j + 1
		default:
			return sel, false
		}
	}
	return sel, true
}

// closingBracket returns index of ']' matching '[' at i, quoted parts are
// skipped.
func closingBracket(s string, i int) int {
	var quote byte
	for j := i + 1; j < len(s); j++ {
		switch c := s[j]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ']':
			return j
		}
	}
	return -1
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// tokenizeName splits name on whitespace which is not inside brackets or
// quotes.
func tokenizeName(name string) []string {
	var (
		res   []string
		b     strings.Builder
		depth int
		quote rune
	)
	for _, r := range name {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case (r == '"' || r == '\'') && depth > 0:
			quote = r
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case unicode.IsSpace(r) && depth == 0:
			if b.Len() > 0 {
				res = append(res, b.String())
				b.Reset()
			}
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() > 0 {
		res = append(res, b.String())
	}
	return res
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

// isPseudoSelector accepts ":name", "::name" and functional ":name(args)".
func isPseudoSelector(s string) bool {
	s = strings.TrimPrefix(s, ":")
	s = strings.TrimPrefix(s, ":")
	name, args, fn := strings.Cut(s, "(")
	if !isIdent(name) {
		return false
	}
	return !fn || strings.HasSuffix(args, ")")
}
