package grammar

import "testing"

var supported = []string{
	"rust", "python", "php", "java", "javascript", "typescript",
	"go", "c", "cpp", "lua", "ruby", "zig", "scala", "swift",
	"elixir", "csharp",
}

func TestRegistryCoversAllLanguages(t *testing.T) {
	for _, tag := range supported {
		if !Known(tag) {
			t.Errorf("Known(%q) = false", tag)
		}
		lang, ok := Language(tag)
		if !ok || lang == nil {
			t.Errorf("Language(%q) missing", tag)
		}
		if Query(tag) == "" {
			t.Errorf("Query(%q) is empty", tag)
		}
	}
}

func TestUnknownTag(t *testing.T) {
	if Known("cobol") {
		t.Error("Known(cobol) = true")
	}
	if _, ok := Language("cobol"); ok {
		t.Error("Language(cobol) resolved")
	}
}
