package convert

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"domx/figma"
)

// textRun is a piece of text node characters sharing the same style
// override.
type textRun struct {
	text     string
	override int
	style    figma.TypeStyle
	tag      string
}

var lineBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\v", "\n",
	"\f", "\n",
	"\u0085", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
)

// normalizeText converts all line break forms to '\n', characters are kept
// as designed.
func normalizeText(s string) string {
	return lineBreaks.Replace(s)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// hasOverrides reports whether text node characters use more than base
// style.
func hasOverrides(src *figma.Node) bool {
	for _, o := range src.CharacterStyleOverrides {
		if o != 0 {
			return true
		}
	}
	return false
}

// splitRuns walks characters opening new run every time active style
// override changes or line break is met. Line breaks are not added to runs,
// instead run before the break becomes a paragraph, break with no run before
// it gives an empty paragraph. Override indexes are in
// UTF-16 code units, characters past the end of override list use base style.
func splitRuns(src *figma.Node) []*textRun {
	if src.Type != figma.TypeText || !hasOverrides(src) {
		return nil
	}

	var (
		runs    []*textRun
		cur     *textRun
		b       strings.Builder
		pos     int
		prevCR  bool
		closeUp = func() {
			if cur == nil {
				return
			}
			cur.text = b.String()
			b.Reset()
			runs = append(runs, cur)
			cur = nil
		}
	)

	for _, r := range src.Characters {
		override := 0
		if pos < len(src.CharacterStyleOverrides) {
			override = src.CharacterStyleOverrides[pos]
		}
		pos += utf16.RuneLen(r)

		if isLineBreak(r) {
			if r == '\n' && prevCR {
				prevCR = false
				continue
			}
			prevCR = r == '\r'
			if cur == nil {
				cur = &textRun{override: override, style: runStyle(src, override)}
			}
			closeUp()
			runs[len(runs)-1].tag = "p"
			continue
		}
		prevCR = false

		if cur != nil && cur.override != override {
			closeUp()
		}
		if cur == nil {
			cur = &textRun{
				override: override,
				style:    runStyle(src, override),
				tag:      "span",
			}
		}
		b.WriteRune(r)
	}
	closeUp()
	return runs
}

// runStyle merges style override over node base style.
func runStyle(src *figma.Node, override int) figma.TypeStyle {
	var res figma.TypeStyle
	if src.Style != nil {
		res = *src.Style
	}
	res.Fills = src.Fills
	if override == 0 {
		return res
	}
	o, ok := src.StyleOverrideTable[strconv.Itoa(override)]
	if !ok {
		return res
	}
	return mergeTypeStyle(res, o)
}

func mergeTypeStyle(base, o figma.TypeStyle) figma.TypeStyle {
	if o.FontFamily != "" {
		base.FontFamily = o.FontFamily
	}
	if o.FontPostScriptName != "" {
		base.FontPostScriptName = o.FontPostScriptName
	}
	if o.FontWeight != 0 {
		base.FontWeight = o.FontWeight
	}
	if o.FontSize != 0 {
		base.FontSize = o.FontSize
	}
	if o.Italic {
		base.Italic = true
	}
	if o.TextCase != "" {
		base.TextCase = o.TextCase
	}
	if o.TextDecoration != "" {
		base.TextDecoration = o.TextDecoration
	}
	if o.LetterSpacing != 0 {
		base.LetterSpacing = o.LetterSpacing
	}
	if o.LineHeightPx != 0 {
		base.LineHeightPx = o.LineHeightPx
	}
	if o.LineHeightPercentFontSize != 0 {
		base.LineHeightPercentFontSize = o.LineHeightPercentFontSize
	}
	if o.LineHeightUnit != "" {
		base.LineHeightUnit = o.LineHeightUnit
	}
	if o.Hyperlink != nil {
		base.Hyperlink = o.Hyperlink
	}
	if len(o.Fills) > 0 {
		base.Fills = o.Fills
	}
	return base
}
