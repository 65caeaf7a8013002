package editor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/ikari-pl/littera/internal/types"
)

// mentionKind is this package's ast.NodeKind for the {@LABEL|entity:ID}
// literal (spec.md §4.5, §6). It has to be a distinct goldmark node kind
// so the inline parser can hand goldmark's own AST walker a node it
// otherwise knows nothing about.
var mentionKind = ast.NewNodeKind("Mention")

// mentionNode is the goldmark AST representation of a mention literal,
// produced only by mentionInlineParser and consumed only by convertInline
// below; it never escapes this file.
type mentionNode struct {
	ast.BaseInline
	Label    string
	EntityID string
}

func (n *mentionNode) Kind() ast.NodeKind { return mentionKind }
func (n *mentionNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Label": n.Label, "EntityID": n.EntityID}, nil)
}

// mentionLiteral matches {@LABEL|entity:IDENTIFIER} at the start of the
// remaining inline text. Label excludes '|' and '}'; identifier is opaque
// and excludes '}' (spec.md §6: "the identifier is an opaque token").
var mentionLiteral = regexp.MustCompile(`^\{@([^|}]*)\|entity:([^}]*)\}`)

// mentionInlineParser registers the mention literal as a goldmark inline
// parser, grounded on goldmark's own extension-registration pattern (the
// teacher's toolchain already pulls goldmark in transitively through
// glamour/v2; this promotes it to a direct, actively-parsed dependency).
type mentionInlineParser struct{}

func (mentionInlineParser) Trigger() []byte { return []byte{'{'} }

func (mentionInlineParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	m := mentionLiteral.FindSubmatchIndex(line)
	if m == nil {
		return nil
	}
	label := string(line[m[2]:m[3]])
	entityID := string(line[m[4]:m[5]])
	block.Advance(m[1])
	return &mentionNode{Label: label, EntityID: entityID}
}

// mentionExtension wires mentionInlineParser into a goldmark.Markdown
// instance, the standard goldmark.Extender shape (the same one
// goldmark's own bundled extensions, e.g. goldmark-emoji, use).
type mentionExtension struct{}

func (mentionExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(mentionInlineParser{}, 50),
	))
}

var mdParser = goldmark.New(goldmark.WithExtensions(mentionExtension{}))

// Parse converts a Block's source_text into canonical Content nodes.
// Kind types.BlockKindCode bypasses Markdown parsing entirely: code block
// containers forbid inline marks and mention nodes (spec.md §4.5), so
// their source_text is raw text, not a Markdown document.
func Parse(kind types.BlockKind, source string) ([]Content, error) {
	if kind == types.BlockKindCode {
		return []Content{CodeBlock{Text: source}}, nil
	}

	src := []byte(source)
	root := mdParser.Parser().Parse(text.NewReader(src))

	var out []Content
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		c, err := convertBlock(n, src)
		if err != nil {
			return nil, err
		}
		if c != nil {
			out = append(out, c)
		}
	}
	if out == nil {
		out = []Content{Paragraph{}}
	}
	return out, nil
}

func convertBlock(n ast.Node, src []byte) (Content, error) {
	switch node := n.(type) {
	case *ast.Paragraph:
		return Paragraph{Inline: convertInlines(node, src)}, nil
	case *ast.Heading:
		return Heading{Level: node.Level, Inline: convertInlines(node, src)}, nil
	case *ast.CodeBlock:
		return CodeBlock{Text: linesText(node.Lines(), src)}, nil
	case *ast.FencedCodeBlock:
		return CodeBlock{Text: linesText(node.Lines(), src)}, nil
	case *ast.ThematicBreak:
		return HR{}, nil
	case *ast.Blockquote:
		var inner []Content
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			cc, err := convertBlock(c, src)
			if err != nil {
				return nil, err
			}
			if cc != nil {
				inner = append(inner, cc)
			}
		}
		return BlockQuote{Content: inner}, nil
	case *ast.List:
		items := make([][]Inline, 0)
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			li, ok := c.(*ast.ListItem)
			if !ok {
				continue
			}
			items = append(items, convertListItem(li, src))
		}
		return List{Ordered: node.IsOrdered(), Items: items}, nil
	default:
		return nil, nil
	}
}

func convertListItem(li *ast.ListItem, src []byte) []Inline {
	var out []Inline
	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, convertInlines(c, src)...)
	}
	return out
}

func linesText(lines *text.Segments, src []byte) string {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func convertInlines(parent ast.Node, src []byte) []Inline {
	var out []Inline
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Text:
			out = append(out, Text{Value: string(node.Segment.Value(src))})
		case *ast.String:
			out = append(out, Text{Value: string(node.Value)})
		case *ast.Emphasis:
			style := MarkEmphasis
			if node.Level >= 2 {
				style = MarkStrong
			}
			out = append(out, Mark{Style: style, Inner: convertInlines(node, src)})
		case *ast.CodeSpan:
			out = append(out, Mark{Style: MarkCode, Inner: convertInlines(node, src)})
		case *mentionNode:
			out = append(out, Mention{Label: node.Label, EntityID: node.EntityID})
		default:
			if n.FirstChild() != nil {
				out = append(out, convertInlines(n, src)...)
			}
		}
	}
	return out
}

// Serialize renders Content nodes back to canonical Markdown-with-mentions
// source_text. It is a hand-written deterministic walker, not goldmark's
// own renderer: goldmark renders to HTML, not to a canonical, round-trip
// safe Markdown subset, so there is no library serializer to delegate to
// here (noted in DESIGN.md).
func Serialize(kind types.BlockKind, content []Content) string {
	if kind == types.BlockKindCode {
		if len(content) == 1 {
			if cb, ok := content[0].(CodeBlock); ok {
				return cb.Text
			}
		}
		return ""
	}

	parts := make([]string, 0, len(content))
	for _, c := range content {
		parts = append(parts, serializeContent(c))
	}
	return strings.Join(parts, "\n\n")
}

func serializeContent(c Content) string {
	switch n := c.(type) {
	case Paragraph:
		return serializeInlines(n.Inline)
	case Heading:
		return strings.Repeat("#", clampHeadingLevel(n.Level)) + " " + serializeInlines(n.Inline)
	case CodeBlock:
		return "```\n" + n.Text + "\n```"
	case HR:
		return "---"
	case BlockQuote:
		lines := strings.Split(Serialize(types.BlockKindProse, n.Content), "\n")
		for i, l := range lines {
			if l == "" {
				lines[i] = ">"
			} else {
				lines[i] = "> " + l
			}
		}
		return strings.Join(lines, "\n")
	case List:
		lines := make([]string, 0, len(n.Items))
		for i, item := range n.Items {
			marker := "-"
			if n.Ordered {
				marker = fmt.Sprintf("%d.", i+1)
			}
			lines = append(lines, marker+" "+serializeInlines(item))
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}

func clampHeadingLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

func serializeInlines(nodes []Inline) string {
	var b strings.Builder
	for _, n := range nodes {
		switch v := n.(type) {
		case Text:
			b.WriteString(v.Value)
		case Mark:
			marker := markDelimiter(v.Style)
			b.WriteString(marker)
			b.WriteString(serializeInlines(v.Inner))
			b.WriteString(marker)
		case Mention:
			b.WriteString(fmt.Sprintf("{@%s|entity:%s}", v.Label, v.EntityID))
		}
	}
	return b.String()
}

func markDelimiter(style MarkStyle) string {
	switch style {
	case MarkStrong:
		return "**"
	case MarkCode:
		return "`"
	default:
		return "*"
	}
}
