package eagle

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// EAGLE bus names are either a vector such as "A[0..7]" or a comma separated
// member list such as "CLK,RST,D[0..3]". The target format understands the
// vector notation directly; everything else is rewritten as a grouped member
// list.

// BusVector is a parsed vector bus name.
type BusVector struct {
	Name  string `parser:"@Ident"`
	Start int    `parser:"'[' @Int"`
	End   int    `parser:"Range @Int ']'"`
}

var busLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Range", Pattern: `\.\.`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[A-Za-z_!#$][A-Za-z0-9_!#$/.-]*`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
})

var busVectorParser = participle.MustBuild[BusVector](
	participle.Lexer(busLexer),
)

// ParseBusVector parses a "NAME[lo..hi]" bus vector name.
func ParseBusVector(name string) (*BusVector, bool) {
	vec, err := busVectorParser.ParseString("", name)
	if err != nil {
		return nil, false
	}
	return vec, true
}

// TranslateBusName rewrites an EAGLE bus name for the target document.
// Vector names pass through unchanged; member lists become a brace-grouped,
// space separated set. EAGLE terminates overbar text at the end of each
// member name, so a member with an odd number of '!' markers gets a closing
// one appended before grouping.
func TranslateBusName(name string) string {
	if _, ok := ParseBusVector(name); ok {
		return name
	}

	var b strings.Builder
	b.WriteString("{")

	members := strings.Split(name, ",")
	for i, member := range members {
		if strings.Count(member, "!")%2 > 0 {
			member += "!"
		}
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(member)
	}

	b.WriteString("}")
	return b.String()
}
