// Package capture is the parser + capture engine: it parses source bytes
// with a grammar handle, runs the language's pattern script against the
// resulting tree, and returns the flat (capture_kind, node) stream the
// symbol builder consumes.
//
// Parsing is synchronous and allocates a tree rooted at the entire source;
// nothing here is cached or shared across calls.
package capture

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Capture is one (capture_kind, node) pair from the stream.
type Capture struct {
	Kind string
	Node *sitter.Node
}

// Run parses source with lang, compiles queryStr against that grammar, and
// returns every capture the query produces plus the tree it was captured
// from (the builder needs the tree alive while it still holds node
// references into it).
//
// Iteration is match-level; capture order carries no correctness meaning
// beyond intra-container insertion order, which the symbol builder derives
// from this stream's order, not from match/pattern identity.
func Run(lang *sitter.Language, queryStr string, source []byte) ([]Capture, *sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, nil, fmt.Errorf("capture: failed to parse source: %w", err)
	}

	query, err := sitter.NewQuery([]byte(queryStr), lang)
	if err != nil {
		// A pattern-script compilation failure is a fatal configuration
		// fault, not a normal-path error.
		panic(fmt.Sprintf("capture: failed to compile pattern script: %v", err))
	}

	qc := sitter.NewQueryCursor()
	qc.Exec(query, tree.RootNode())

	var captures []Capture
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range match.Captures {
			captures = append(captures, Capture{
				Kind: query.CaptureNameForId(c.Index),
				Node: c.Node,
			})
		}
	}
	return captures, tree, nil
}
