// Package grammar maps each of the sixteen supported language tags to a
// tree-sitter grammar handle and to the embedded pattern script (query)
// that labels that grammar's capture kinds.
//
// This is process-wide, read-only state initialised once at program start;
// concurrent reads from multiple Outline calls on independent goroutines
// are safe because nothing here is mutated after init.
package grammar

import (
	_ "embed"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/elixir"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/scala"
	"github.com/smacker/go-tree-sitter/swift"
	"github.com/smacker/go-tree-sitter/typescript/tsx"

	"github.com/sammcj/outline/internal/grammar/zig"
)

var languageFuncs = map[string]func() *sitter.Language{
	"rust":       rust.GetLanguage,
	"python":     python.GetLanguage,
	"php":        php.GetLanguage,
	"java":       java.GetLanguage,
	"javascript": javascript.GetLanguage,
	// TSX is a superset of plain TypeScript syntax, so one grammar serves
	// both .ts and .tsx sources.
	"typescript": tsx.GetLanguage,
	"go":         golang.GetLanguage,
	"c":          c.GetLanguage,
	"cpp":        cpp.GetLanguage,
	"lua":        lua.GetLanguage,
	"ruby":       ruby.GetLanguage,
	"zig":        zig.GetLanguage,
	"scala":      scala.GetLanguage,
	"swift":      swift.GetLanguage,
	"elixir":     elixir.GetLanguage,
	"csharp":     csharp.GetLanguage,
}

//go:embed queries/rust.scm
var rustQuery string

//go:embed queries/python.scm
var pythonQuery string

//go:embed queries/php.scm
var phpQuery string

//go:embed queries/java.scm
var javaQuery string

//go:embed queries/javascript.scm
var javascriptQuery string

//go:embed queries/typescript.scm
var typescriptQuery string

//go:embed queries/go.scm
var goQuery string

//go:embed queries/c.scm
var cQuery string

//go:embed queries/cpp.scm
var cppQuery string

//go:embed queries/lua.scm
var luaQuery string

//go:embed queries/ruby.scm
var rubyQuery string

//go:embed queries/zig.scm
var zigQuery string

//go:embed queries/scala.scm
var scalaQuery string

//go:embed queries/swift.scm
var swiftQuery string

//go:embed queries/elixir.scm
var elixirQuery string

//go:embed queries/csharp.scm
var csharpQuery string

var queries = map[string]string{
	"rust":       rustQuery,
	"python":     pythonQuery,
	"php":        phpQuery,
	"java":       javaQuery,
	"javascript": javascriptQuery,
	"typescript": typescriptQuery,
	"go":         goQuery,
	"c":          cQuery,
	"cpp":        cppQuery,
	"lua":        luaQuery,
	"ruby":       rubyQuery,
	"zig":        zigQuery,
	"scala":      scalaQuery,
	"swift":      swiftQuery,
	"elixir":     elixirQuery,
	"csharp":     csharpQuery,
}

// Known reports whether tag is one of the sixteen supported languages,
// independent of whether the grammar/query actually loaded.
func Known(tag string) bool {
	_, ok := languageFuncs[tag]
	return ok
}

// Language returns the tree-sitter grammar handle for tag. The second
// return value is false for an unrecognised tag; an unknown language is
// not an error, it just outlines to nothing.
func Language(tag string) (*sitter.Language, bool) {
	fn, ok := languageFuncs[tag]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// Query returns the embedded pattern script for tag. Callers only reach
// here after Known(tag) is true, so a missing entry is a fatal
// configuration fault, not a normal-path error.
func Query(tag string) string {
	q, ok := queries[tag]
	if !ok {
		panic("grammar: no pattern script bundled for known language " + tag)
	}
	return q
}
