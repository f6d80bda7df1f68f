package shards

import (
	"path"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/types"
	"golang.org/x/net/html"
)

const assignMarker = "implementors["

// decodeScript decodes a generated script fragment. Only the
// implementors["crate"] = [...] assignments are read; the rest of the
// fragment (the wrapper and the register/pending handshake) is ignored.
// Assigning the same crate twice keeps the last list at the first position.
func decodeScript(p string, data []byte) ([]types.Shard, error) {
	trait, err := traitFromScriptPath(p)
	if err != nil {
		return nil, err
	}

	var shards []types.Shard
	seen := make(map[string]int)
	src := string(data)
	for {
		i := strings.Index(src, assignMarker)
		if i < 0 {
			break
		}
		rest := src[i+len(assignMarker):]

		crate, rest, err := readQuoted(skipSpace(rest))
		if err != nil {
			return nil, scriptError(p, "crate key", err)
		}
		if rest, err = expect(rest, ']'); err != nil {
			return nil, scriptError(p, "crate key", err)
		}
		if rest, err = expect(rest, '='); err != nil {
			return nil, scriptError(p, "assignment", err)
		}
		if rest, err = expect(rest, '['); err != nil {
			return nil, scriptError(p, "implementor list", err)
		}

		items, rest, err := readStringList(rest)
		if err != nil {
			return nil, scriptError(p, "implementor list", err).WithDetail("crate", crate)
		}

		payload := make(types.Payload, 0, len(items))
		for _, item := range items {
			payload = append(payload, describeMarkup(item))
		}
		shards = appendCrate(shards, seen, types.Shard{
			Trait:   trait,
			Crate:   crate,
			Payload: payload,
			Origin:  p,
		})
		src = rest
	}

	if len(shards) == 0 {
		return nil, errors.New(errors.ErrShardParse, "script shard has no implementor assignments").
			WithDetail("path", p)
	}
	return shards, nil
}

// traitFromScriptPath derives the trait path from
// implementors/<crate>/<module...>/trait.<Name>.js
func traitFromScriptPath(p string) (string, error) {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	base := path.Base(p)
	name, ok := strings.CutPrefix(strings.TrimSuffix(base, path.Ext(base)), "trait.")
	if !ok || name == "" {
		return "", errors.Newf(errors.ErrShardParse, "script shard name %q is not trait.<Name>.js", base).
			WithDetail("path", p)
	}

	dirs := strings.Split(path.Dir(p), "/")
	found := false
	for i := len(dirs) - 1; i >= 0; i-- {
		if dirs[i] == "implementors" {
			dirs, found = dirs[i+1:], true
			break
		}
	}
	if !found {
		dirs = dirs[len(dirs)-1:]
	}
	if len(dirs) == 0 || dirs[0] == "." || dirs[0] == "" {
		return "", errors.Newf(errors.ErrShardParse, "script shard %q has no crate directory", p).
			WithDetail("path", p)
	}

	return strings.Join(append(dirs, name), "::"), nil
}

func scriptError(p, what string, err error) *errors.Error {
	return errors.Wrapf(err, errors.ErrShardParse, "malformed %s in script shard", what).
		WithDetail("path", p)
}

func skipSpace(s string) string {
	return strings.TrimLeft(s, " \t\r\n")
}

func expect(s string, c byte) (string, error) {
	s = skipSpace(s)
	if s == "" || s[0] != c {
		return s, &syntaxError{want: string(c), got: s}
	}
	return s[1:], nil
}

// readStringList reads quoted strings up to the closing bracket.
// A trailing comma is allowed.
func readStringList(s string) ([]string, string, error) {
	var items []string
	for {
		s = skipSpace(s)
		if s == "" {
			return nil, s, &syntaxError{want: "]", got: s}
		}
		if s[0] == ']' {
			return items, s[1:], nil
		}

		item, rest, err := readQuoted(s)
		if err != nil {
			return nil, s, err
		}
		items = append(items, item)

		rest = skipSpace(rest)
		switch {
		case strings.HasPrefix(rest, ","):
			s = rest[1:]
		case strings.HasPrefix(rest, "]"):
			s = rest
		default:
			return nil, rest, &syntaxError{want: ", or ]", got: rest}
		}
	}
}

// readQuoted reads a single- or double-quoted string literal with
// backslash escapes and returns its value and the remaining input.
func readQuoted(s string) (string, string, error) {
	if s == "" || (s[0] != '"' && s[0] != '\'') {
		return "", s, &syntaxError{want: "string literal", got: s}
	}
	quote := s[0]

	var b strings.Builder
	for i := 1; i < len(s); {
		c := s[i]
		switch {
		case c == quote:
			return b.String(), s[i+1:], nil
		case c == '\\':
			if i+1 >= len(s) {
				return "", s, &syntaxError{want: "escape", got: ""}
			}
			n, err := unescape(&b, s[i+1:])
			if err != nil {
				return "", s, err
			}
			i += 1 + n
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
		}
	}
	return "", s, &syntaxError{want: "closing quote", got: ""}
}

// unescape writes the escape at the start of s and returns its length
func unescape(b *strings.Builder, s string) (int, error) {
	switch s[0] {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case '\n':
		// line continuation
	case 'x':
		v, err := hexEscape(s, 1, 2, `\xHH`)
		if err != nil {
			return 0, err
		}
		b.WriteRune(rune(v))
		return 3, nil
	case 'u':
		r, n, err := unicodeEscape(s)
		if err != nil {
			return 0, err
		}
		// a high surrogate followed by an escaped low surrogate is one rune
		if utf16.IsSurrogate(r) && strings.HasPrefix(s[n:], `\u`) {
			if low, m, err := unicodeEscape(s[n+1:]); err == nil {
				if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
					b.WriteRune(pair)
					return n + 1 + m, nil
				}
			}
		}
		b.WriteRune(r)
		return n, nil
	default:
		// \\ \" \' \/ and any other escaped character stand for themselves
		r, size := utf8.DecodeRuneInString(s)
		b.WriteRune(r)
		return size, nil
	}
	return 1, nil
}

// unicodeEscape reads uXXXX or u{X...} at the start of s
func unicodeEscape(s string) (rune, int, error) {
	if strings.HasPrefix(s, "u{") {
		end := strings.IndexByte(s, '}')
		if end < 3 {
			return 0, 0, &syntaxError{want: `\u{X}`, got: s}
		}
		v, err := hexEscape(s, 2, end-2, `\u{X}`)
		if err != nil || v > utf8.MaxRune {
			return 0, 0, &syntaxError{want: `\u{X}`, got: s[:end+1]}
		}
		return rune(v), end + 1, nil
	}
	v, err := hexEscape(s, 1, 4, `\uXXXX`)
	if err != nil {
		return 0, 0, err
	}
	return rune(v), 5, nil
}

// hexEscape parses the n hex digits of s starting at offset
func hexEscape(s string, offset, n int, want string) (uint64, error) {
	if len(s) < offset+n {
		return 0, &syntaxError{want: want, got: s}
	}
	v, err := strconv.ParseUint(s[offset:offset+n], 16, 32)
	if err != nil {
		return 0, &syntaxError{want: want, got: s[:offset+n]}
	}
	return v, nil
}

type syntaxError struct {
	want string
	got  string
}

func (e *syntaxError) Error() string {
	got := e.got
	if len(got) > 24 {
		got = got[:24] + "..."
	}
	if got == "" {
		return "expected " + e.want + ", got end of input"
	}
	return "expected " + e.want + ", got " + strconv.Quote(got)
}

// describeMarkup builds an Implementor from a rendered impl line, pulling
// the generic parameters from the leading impl<...> and the predicates
// from the where span.
func describeMarkup(markup string) types.Implementor {
	var plain, where strings.Builder
	depth := 0

	z := html.NewTokenizer(strings.NewReader(markup))
	for done := false; !done; {
		switch z.Next() {
		case html.ErrorToken:
			done = true
		case html.TextToken:
			text := z.Text()
			plain.Write(text)
			if depth > 0 {
				where.Write(text)
			}
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "span" {
				continue
			}
			if depth > 0 {
				depth++
			} else if hasAttr && hasClass(z, "where") {
				depth = 1
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "span" && depth > 0 {
				depth--
			}
		}
	}

	return types.Implementor{
		Text:     markup,
		Generics: parseGenerics(normalize(plain.String())),
		Where:    parseWhere(normalize(where.String())),
	}
}

func hasClass(z *html.Tokenizer, class string) bool {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			for _, c := range strings.Fields(string(val)) {
				if c == class {
					return true
				}
			}
		}
		if !more {
			return false
		}
	}
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// parseGenerics returns the parameters of a leading impl<...>
func parseGenerics(plain string) []string {
	rest, ok := strings.CutPrefix(plain, "impl<")
	if !ok {
		return nil
	}

	depth := 1
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '<':
			depth++
		case '>':
			if i > 0 && rest[i-1] == '-' {
				continue
			}
			depth--
			if depth == 0 {
				return splitTopLevel(rest[:i])
			}
		}
	}
	return nil
}

// parseWhere returns the predicates of a where clause
func parseWhere(clause string) []string {
	clause, ok := strings.CutPrefix(clause, "where")
	if !ok {
		return nil
	}
	return splitTopLevel(clause)
}

// splitTopLevel splits s at commas that are not nested in <>, () or []
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[':
			depth++
		case '>':
			if i > 0 && s[i-1] == '-' {
				continue
			}
			depth--
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					parts = append(parts, part)
				}
				start = i + 1
			}
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		parts = append(parts, part)
	}
	return parts
}

// PlainText strips the markup from an implementor description and decodes
// its entities
func PlainText(markup string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return normalize(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
