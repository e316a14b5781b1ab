package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-blog/internal/toc"
)

// NewHeadingAnchors returns a goldmark extension that assigns GitHub-style id
// attributes to headings. The ids are produced by the same slugger the table
// of contents uses, so TOC fragment links always resolve against rendered HTML.
func NewHeadingAnchors() goldmark.Extender {
	return &headingAnchors{}
}

type headingAnchors struct{}

func (e *headingAnchors) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&headingIDTransformer{}, 100),
	))
}

// headingIDTransformer rewrites heading ids after parsing. It runs once per
// document, so duplicate headings dedupe within a document but never across
// documents.
type headingIDTransformer struct{}

func (t *headingIDTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	slugger := toc.NewSlugger()

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		heading.SetAttribute([]byte("id"), []byte(slugger.Slug(headingText(heading, reader.Source()))))
		return ast.WalkSkipChildren, nil
	})
}

func headingText(heading *ast.Heading, source []byte) string {
	var b strings.Builder
	lines := heading.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
	return b.String()
}
