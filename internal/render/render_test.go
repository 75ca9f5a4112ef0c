package render

import (
	"strings"
	"testing"
)

func TestRenderEmptyInput(t *testing.T) {
	res := Render("")
	if strings.TrimSpace(res.HTML) != "" {
		t.Errorf("HTML = %q, want empty", res.HTML)
	}
	if res.ReadingTime != 1 {
		t.Errorf("ReadingTime = %d, want 1", res.ReadingTime)
	}
	if res.Degraded {
		t.Error("empty input should not degrade")
	}
}

func TestRenderHeadingsAndEmphasis(t *testing.T) {
	res := Render("# Title\n\nSome *emphasis* and **strong** text.")
	if !strings.Contains(res.HTML, "<h1") {
		t.Errorf("HTML missing heading: %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "<em>emphasis</em>") {
		t.Errorf("HTML missing emphasis: %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "<strong>strong</strong>") {
		t.Errorf("HTML missing strong: %q", res.HTML)
	}
}

func TestRenderListsAndCode(t *testing.T) {
	src := "- one\n- two\n\n```go\nfmt.Println(\"hi\")\n```\n"
	res := Render(src)
	if !strings.Contains(res.HTML, "<ul>") || !strings.Contains(res.HTML, "<li>one</li>") {
		t.Errorf("HTML missing list: %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "<pre") || !strings.Contains(res.HTML, "Println") {
		t.Errorf("HTML missing code block: %q", res.HTML)
	}
}

func TestRenderTables(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	res := Render(src)
	if !strings.Contains(res.HTML, "<table>") {
		t.Errorf("HTML missing table: %q", res.HTML)
	}
}

func TestRenderStripsScriptInjection(t *testing.T) {
	tests := []string{
		"hello <script>alert('xss')</script> world",
		"[click](javascript:alert(1))",
		`<img src="x" onerror="alert(1)">`,
	}
	for _, src := range tests {
		res := Render(src)
		if strings.Contains(res.HTML, "<script") {
			t.Errorf("Render(%q) kept script tag: %q", src, res.HTML)
		}
		if strings.Contains(res.HTML, "javascript:") {
			t.Errorf("Render(%q) kept javascript URL: %q", src, res.HTML)
		}
		if strings.Contains(res.HTML, "onerror") {
			t.Errorf("Render(%q) kept event handler: %q", src, res.HTML)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	src := "# Repeatable\n\nSame in, same out.\n"
	first := Render(src)
	second := Render(src)
	if first != second {
		t.Errorf("Render not deterministic: %+v vs %+v", first, second)
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n\t ", 0},
		{"single word", "hello", 1},
		{"whitespace runs", "one  two\n\nthree\tfour", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.source); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.source, got, tt.want)
			}
		})
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"empty floors to one", 0, 1},
		{"short text floors to one", 50, 1},
		{"two hundred words", 200, 1},
		{"four hundred words", 400, 2},
		{"six hundred words", 600, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := strings.TrimSpace(strings.Repeat("word ", tt.words))
			if got := ReadingTime(source); got != tt.want {
				t.Errorf("ReadingTime(%d words) = %d, want %d", tt.words, got, tt.want)
			}
		})
	}
}
