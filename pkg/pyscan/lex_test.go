package pyscan

import (
	"errors"
	"testing"
)

func TestLexFileTStrings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"plain t-string", `x = t"hello {name}"`, 1},
		{"uppercase prefix", `x = T'hello'`, 1},
		{"raw combinations", `a = rt"x"; b = tr"y"; c = Rt'''z'''`, 3},
		{"triple quoted", "x = t\"\"\"multi\nline {v}\"\"\"", 1},
		{"multiple per line", `a, b = t"one", t"two"`, 2},
		{"f-string is not a t-string", `x = f"hello {name}"`, 0},
		{"plain strings", `x = "t-string"; y = 'template'`, 0},
		{"inside comment", `# x = t"hello"`, 0},
		{"inside string literal", `doc = "use t'x' for templates"`, 0},
		{"inside triple string", "doc = '''\nx = t\"hi\"\n'''", 0},
		{"identifier ending in t", `result"text"`, 0},
		{"attribute access", `x = fmt"no"`, 0},
		{"escaped quote stays inside", `x = t"a \" b"`, 1},
		{"adjacent literals", `x = t"a" t"b"`, 2},
		{"empty t-string", `x = t""`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := lexFile([]byte(tt.src))
			if err != nil {
				t.Fatalf("lexFile: %v", err)
			}
			if res.tstrings != tt.want {
				t.Errorf("tstrings = %d, want %d", res.tstrings, tt.want)
			}
		})
	}
}

func TestLexFileImports(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"plain import", "import string.templatelib", true},
		{"import with alias", "import string.templatelib as tl", true},
		{"import in list", "import os, string.templatelib, sys", true},
		{"from import", "from string.templatelib import Template", true},
		{"from import star", "from string.templatelib import *", true},
		{"after semicolon", "import os; import string.templatelib", true},
		{"indented from import", "    from string.templatelib import Interpolation", true},
		{"unrelated import", "import string", false},
		{"prefix module", "import string.templatelib2", false},
		{"in comment", "# import string.templatelib", false},
		{"in string", `x = "import string.templatelib"`, false},
		{"in triple string", "'''\nimport string.templatelib\n'''", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := lexFile([]byte(tt.src))
			if err != nil {
				t.Fatalf("lexFile: %v", err)
			}
			if res.importsTemplatelib != tt.want {
				t.Errorf("importsTemplatelib = %v, want %v", res.importsTemplatelib, tt.want)
			}
		})
	}
}

func TestLexFileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		want error
	}{
		{"invalid utf8", []byte{'x', 0xff, 0xfe}, errInvalidEncoding},
		{"nul byte", []byte("x = 1\x00"), errNulByte},
		{"unterminated string", []byte(`x = "abc`), errUnterminatedString},
		{"newline in string", []byte("x = \"abc\ndef\""), errUnterminatedString},
		{"unterminated triple", []byte(`x = """abc`), errUnterminatedString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lexFile(tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("lexFile error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConsumeStringTriple(t *testing.T) {
	src := `"""abc""" rest`
	end, err := consumeString(src, 0)
	if err != nil {
		t.Fatalf("consumeString: %v", err)
	}
	if got := src[end:]; got != " rest" {
		t.Errorf("remainder = %q, want %q", got, " rest")
	}
}

func TestIsStringPrefix(t *testing.T) {
	for _, valid := range []string{"r", "b", "u", "f", "t", "br", "rb", "fr", "rf", "tr", "rt", "T", "RT", "Tr"} {
		if !isStringPrefix(valid) {
			t.Errorf("isStringPrefix(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"x", "tt", "bt", "tb", "result", "fmt", ""} {
		if isStringPrefix(invalid) {
			t.Errorf("isStringPrefix(%q) = true, want false", invalid)
		}
	}
}
