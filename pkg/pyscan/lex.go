package pyscan

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Lexical failures that count as parse failures for a file.
var (
	errInvalidEncoding    = errors.New("invalid UTF-8")
	errNulByte            = errors.New("NUL byte in source")
	errUnterminatedString = errors.New("unterminated string literal")
)

// lexResult holds the per-file counts produced by lexFile.
type lexResult struct {
	tstrings           int
	importsTemplatelib bool
}

// Import statement forms for string.templatelib, matched against source
// with string literals stripped. Covers "import string.templatelib",
// comma-separated import lists, "as" aliases, and all from-import forms.
var (
	importTemplatelibRe = regexp.MustCompile(
		`(?m)(?:^|;)\s*import\s+(?:[\w.]+(?:\s+as\s+\w+)?\s*,\s*)*string\.templatelib(?:\s+as\s+\w+)?\s*(?:[,;#]|$)`)
	fromTemplatelibRe = regexp.MustCompile(
		`(?m)(?:^|;)\s*from\s+string\.templatelib\s+import\b`)
)

// lexFile tokenizes Python source just deeply enough to find the two node
// kinds the scanner counts: template-string literals (a string literal
// whose prefix contains t/T) and string.templatelib imports. It understands
// comments, escape sequences, raw strings, and triple quotes, so literal
// text and commented-out code are never miscounted as usage.
//
// Interpolation fields inside template and format strings are treated as
// literal text. Nesting the same quote character inside a field therefore
// ends the literal early; this trades a sliver of 3.12+ grammar for not
// needing a full Python parser.
func lexFile(src []byte) (lexResult, error) {
	var res lexResult
	if !utf8.Valid(src) {
		return res, errInvalidEncoding
	}
	if bytes.IndexByte(src, 0) >= 0 {
		return res, errNulByte
	}

	s := string(src)
	var code strings.Builder // source with strings stripped, for import matching
	code.Grow(len(s))

	i, n := 0, len(s)
	for i < n {
		c := s[i]
		switch {
		case c == '#':
			for i < n && s[i] != '\n' {
				i++
			}

		case c == '\'' || c == '"':
			end, err := consumeString(s, i)
			if err != nil {
				return res, err
			}
			code.WriteByte(' ')
			i = end

		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentCont(s[j]) {
				j++
			}
			word := s[i:j]
			if j < n && (s[j] == '\'' || s[j] == '"') && isStringPrefix(word) {
				if strings.ContainsAny(word, "tT") {
					res.tstrings++
				}
				end, err := consumeString(s, j)
				if err != nil {
					return res, err
				}
				code.WriteByte(' ')
				i = end
				continue
			}
			code.WriteString(word)
			i = j

		default:
			code.WriteByte(c)
			i++
		}
	}

	stripped := code.String()
	res.importsTemplatelib = importTemplatelibRe.MatchString(stripped) ||
		fromTemplatelibRe.MatchString(stripped)
	return res, nil
}

// consumeString consumes the string literal starting at the quote s[i] and
// returns the index just past its closing quote. A backslash always
// consumes the following character; CPython's tokenizer does the same even
// for raw strings, which is why r"\" is unterminated. An unescaped newline
// inside a one-line string, or EOF before the closing quote, is a syntax
// error.
func consumeString(s string, i int) (int, error) {
	q := s[i]
	n := len(s)

	if i+2 < n && s[i+1] == q && s[i+2] == q {
		// Triple-quoted: runs until the matching triple quote.
		j := i + 3
		for j < n {
			if s[j] == '\\' {
				j += 2
				continue
			}
			if s[j] == q && j+2 < n && s[j+1] == q && s[j+2] == q {
				return j + 3, nil
			}
			j++
		}
		return 0, errUnterminatedString
	}

	j := i + 1
	for j < n {
		switch s[j] {
		case '\\':
			j += 2
		case '\n':
			return 0, errUnterminatedString
		case q:
			return j + 1, nil
		default:
			j++
		}
	}
	return 0, errUnterminatedString
}

// isStringPrefix reports whether word is a legal Python string prefix.
// Prefixes containing t (PEP 750) combine only with r.
func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "b", "u", "f", "t", "br", "rb", "fr", "rf", "tr", "rt":
		return true
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
