package eagle

import "strings"

// Escape/unescape for names carried into the target document. Characters
// that are control characters in library identifiers or net names are
// replaced with {token} entity references; UnescapeText reverses the
// encoding.

var unescapeTokens = map[string]string{
	"dblquote":  "\"",
	"quote":     "'",
	"lt":        "<",
	"gt":        ">",
	"backslash": "\\",
	"slash":     "/",
	"bar":       "|",
	"colon":     ":",
	"space":     " ",
	"dollar":    "$",
	"tab":       "\t",
	"return":    "\n",
	"brace":     "{",
}

// EscapeNetName encodes a net name for the target document: slashes would be
// read as hierarchy separators, so they become {slash}; line breaks are
// dropped.
func EscapeNetName(name string) string {
	var b strings.Builder

	for _, c := range name {
		switch c {
		case '/':
			b.WriteString("{slash}")
		case '\n', '\r':
			// drop
		default:
			b.WriteRune(c)
		}
	}

	return b.String()
}

// SanitizeName replaces the characters that are illegal in a library
// identifier with underscores. It must be applied identically when a symbol
// is defined and when it is looked up, or resolution fails.
func SanitizeName(name string) string {
	return strings.Map(func(c rune) rune {
		switch c {
		case ':', '/', '\\', '<', '>', '"', ' ', '\t', '\n', '\r':
			return '_'
		}
		return c
	}, name)
}

// UnescapeText decodes {token} entity references. Variable references such
// as ${NAME} are copied through untouched, and an unknown token recurses into
// its own content so nested references resolve. The cursor advances on every
// step, so the recursion terminates on any input.
func UnescapeText(s string) string {
	var b strings.Builder
	runes := []rune(s)
	n := len(runes)

	for i := 0; i < n; i++ {
		c := runes[i]

		if (c == '$' || c == '^' || c == '_') && i+1 < n && runes[i+1] == '{' {
			// Copy a variable reference verbatim up to its closing brace.
			for ; i < n; i++ {
				b.WriteRune(runes[i])
				if runes[i] == '}' {
					break
				}
			}
		} else if c == '{' {
			var token strings.Builder
			depth := 1

			for i = i + 1; i < n; i++ {
				if runes[i] == '{' {
					depth++
				} else if runes[i] == '}' {
					depth--
				}

				if depth <= 0 {
					break
				}
				token.WriteRune(runes[i])
			}

			tok := token.String()
			if repl, ok := unescapeTokens[tok]; ok {
				b.WriteString(repl)
			} else if tok == "" {
				b.WriteString("{")
			} else {
				b.WriteString("{" + UnescapeText(tok) + "}")
			}
		} else {
			b.WriteRune(c)
		}
	}

	return b.String()
}
