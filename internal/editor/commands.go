package editor

import (
	"strconv"
	"strings"

	"github.com/ikari-pl/littera/internal/types"
)

// StructuralCommand is one recognized slash command: heading (with
// level), code, quote, or hr (spec.md §4.5: "Heading/code/quote/
// horizontal-rule transforms are exposed through a slash-prefixed command
// palette").
type StructuralCommand struct {
	Kind  types.BlockKind
	Level int // heading level, 1-6; zero for non-heading commands
}

// slash command tokens recognized at the start of an otherwise-empty
// content node. Heading tokens are "/h1".."/h6"; "/heading" defaults to
// level 1.
var slashTokens = map[string]StructuralCommand{
	"/code":  {Kind: types.BlockKindCode},
	"/quote": {Kind: types.BlockKindQuote},
	"/hr":    {Kind: types.BlockKindHR},
}

// RecognizeCommand matches text against the slash-command grammar. It
// only ever returns a command when empty reports true: the palette
// activates only at the start of an otherwise-empty content node (spec.md
// §4.5), and callers are expected to pass that check in explicitly since
// the editor core holds no cursor state of its own.
func RecognizeCommand(text string, emptyNode bool) (StructuralCommand, bool) {
	if !emptyNode {
		return StructuralCommand{}, false
	}
	text = strings.TrimSpace(text)
	if cmd, ok := slashTokens[text]; ok {
		return cmd, true
	}
	if text == "/heading" {
		return StructuralCommand{Kind: types.BlockKindHeading, Level: 1}, true
	}
	if strings.HasPrefix(text, "/h") {
		if n, err := strconv.Atoi(text[2:]); err == nil && n >= 1 && n <= 6 {
			return StructuralCommand{Kind: types.BlockKindHeading, Level: n}, true
		}
	}
	return StructuralCommand{}, false
}

// Apply transforms a Container per a recognized StructuralCommand.
// Heading/code/quote set the container's kind and replace its content
// with an empty node of the right shape; hr replaces the container's
// content with HR plus a fresh empty paragraph, since a horizontal rule
// is a marker, not an editable node (spec.md §4.5: "Commands mutate the
// current node (set block type) or replace it (horizontal rule plus
// fresh empty node)").
func Apply(c *Container, cmd StructuralCommand) *Container {
	out := &Container{BlockID: c.BlockID, Language: c.Language, Kind: cmd.Kind}
	switch cmd.Kind {
	case types.BlockKindHeading:
		out.Content = []Content{Heading{Level: cmd.Level}}
	case types.BlockKindCode:
		out.Content = []Content{CodeBlock{}}
	case types.BlockKindQuote:
		out.Content = []Content{BlockQuote{Content: []Content{Paragraph{}}}}
	case types.BlockKindHR:
		out.Content = []Content{HR{}, Paragraph{}}
	default:
		out.Content = []Content{Paragraph{}}
	}
	return out
}
