// Package jsonrepair patches the common ways language models break JSON.
//
// Repair only applies a fixed set of rules: markdown fences are stripped,
// text before the first bracket is dropped, the document is cut where its
// outermost bracket closes, mismatched closing brackets are dropped, trailing
// commas are removed and an unterminated string plus any open brackets are
// closed. Anything those rules cannot fix is reported as ErrUnrepairable.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrNoJSON       = errors.New("jsonrepair: no JSON object or array found")
	ErrUnrepairable = errors.New("jsonrepair: document is not valid JSON after repair")
)

// Repair returns a syntactically valid JSON document derived from s.
func Repair(s string) (string, error) {
	s = StripFences(s)
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", ErrNoJSON
	}

	var (
		out      strings.Builder
		stack    []byte
		inString bool
		escaped  bool
	)
	out.Grow(len(s) - start + 8)

scan:
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			out.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			out.WriteByte(c)
		case '{', '[':
			stack = append(stack, c)
			out.WriteByte(c)
		case '}', ']':
			if len(stack) == 0 || !matches(stack[len(stack)-1], c) {
				continue
			}
			stack = stack[:len(stack)-1]
			out.WriteByte(c)
			if len(stack) == 0 {
				break scan
			}
		default:
			out.WriteByte(c)
		}
	}

	repaired := out.String()
	if inString {
		if escaped {
			repaired = repaired[:len(repaired)-1]
		}
		repaired += `"`
	}
	for i := len(stack) - 1; i >= 0; i-- {
		repaired += string(closer(stack[i]))
	}
	repaired = dropTrailingCommas(repaired)

	if !json.Valid([]byte(repaired)) {
		return "", ErrUnrepairable
	}
	return repaired, nil
}

// StripFences removes a surrounding markdown code fence (```json ... ```)
// and returns the trimmed content. Text without fences is only trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	open := strings.Index(s, "```")
	if open < 0 {
		return s
	}
	body := s[open+3:]
	// drop the info string (e.g. "json") up to the end of the fence line
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = strings.TrimLeft(body, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func matches(open, close byte) bool {
	return (open == '{' && close == '}') || (open == '[' && close == ']')
}

func closer(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ']'
}

// dropTrailingCommas removes commas that are followed only by whitespace and
// a closing bracket (or the end of input), ignoring string contents.
func dropTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j == len(s) || s[j] == '}' || s[j] == ']' {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
