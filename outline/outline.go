// Package outline extracts a compact, language-neutral symbol outline from
// a single source file: exported/public top-level and class-scoped
// declarations, rendered into one flat string for repo-map style prompts.
package outline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sammcj/outline/internal/builder"
	"github.com/sammcj/outline/internal/capture"
	"github.com/sammcj/outline/internal/grammar"
	"github.com/sammcj/outline/internal/serialize"
)

// Outline parses source with the grammar registered for language, runs the
// language's pattern script over the tree and serialises the resulting
// symbol model. An unrecognised language tag yields "" rather than an
// error, and a source with syntax errors still produces whatever the
// error-free subtrees yield.
func Outline(language, source string) string {
	lang, ok := grammar.Language(language)
	if !ok {
		return ""
	}
	src := []byte(source)
	captures, tree, err := capture.Run(lang, grammar.Query(language), src)
	if err != nil {
		return ""
	}
	defer tree.Close()
	return serialize.Model(builder.Build(language, captures, src))
}

// IdentifyLanguage maps a file path to the language tag its extension
// implies.
func IdentifyLanguage(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".rs":
		return "rust", nil
	case ".py":
		return "python", nil
	case ".php":
		return "php", nil
	case ".java":
		return "java", nil
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript", nil
	case ".ts", ".tsx", ".mts", ".cts":
		return "typescript", nil
	case ".go":
		return "go", nil
	case ".c", ".h":
		return "c", nil
	case ".cpp", ".cc", ".cxx", ".hpp", ".hh":
		return "cpp", nil
	case ".lua":
		return "lua", nil
	case ".rb":
		return "ruby", nil
	case ".zig":
		return "zig", nil
	case ".scala", ".sc":
		return "scala", nil
	case ".swift":
		return "swift", nil
	case ".ex", ".exs":
		return "elixir", nil
	case ".cs":
		return "csharp", nil
	default:
		return "", fmt.Errorf("unsupported file extension: %s", ext)
	}
}
