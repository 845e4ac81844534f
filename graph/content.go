package graph

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownFields are content fields whose text is markdown and is walked
// through the parser so link scanning sees text in document order.
var markdownFields = map[string]bool{"content": true, "body": true}

var markdownParser = goldmark.New()

// collectText concatenates every text-bearing field of the record. Plain
// strings are used directly, markdown is reduced to its text leaves, and
// structured block documents contribute every string leaf in document order.
func collectText(record Record) string {
	var builder strings.Builder
	for _, field := range contentFields {
		switch value := record[field].(type) {
		case string:
			if value == "" {
				continue
			}
			if markdownFields[field] {
				builder.WriteString(markdownText(value))
			} else {
				builder.WriteString(value)
			}
			builder.WriteString("\n")
		case map[string]any, []any:
			collectStringLeaves(value, &builder)
		}
	}
	return builder.String()
}

// markdownText parses markdown and concatenates its text segments. Wiki
// links and vault URLs survive as literal text for the extractors.
func markdownText(source string) string {
	src := []byte(source)
	doc := markdownParser.Parser().Parse(text.NewReader(src))

	var builder strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			builder.Write(node.Segment.Value(src))
		case *ast.AutoLink:
			builder.Write(node.URL(src))
		case *ast.CodeSpan, *ast.FencedCodeBlock, *ast.CodeBlock:
			builder.WriteString(blockText(n, src))
			builder.WriteString("\n")
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return builder.String()
}

func blockText(n ast.Node, src []byte) string {
	var builder strings.Builder
	if block, ok := n.(interface{ Lines() *text.Segments }); ok {
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			builder.Write(line.Value(src))
		}
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			builder.Write(t.Segment.Value(src))
		}
	}
	return builder.String()
}

// collectStringLeaves walks a nested block document depth-first and appends
// every string leaf it finds.
func collectStringLeaves(value any, builder *strings.Builder) {
	switch v := value.(type) {
	case string:
		if v != "" {
			builder.WriteString(v)
			builder.WriteString("\n")
		}
	case []any:
		for _, item := range v {
			collectStringLeaves(item, builder)
		}
	case map[string]any:
		// Content-bearing keys first so leaf order follows document order.
		for _, key := range []string{"text", "content", "children", "blocks"} {
			if nested, ok := v[key]; ok {
				collectStringLeaves(nested, builder)
			}
		}
	}
}
