// Package render implements the minimal template language used for SDD
// documents (constitution, principles, implementation reports).
//
// The grammar is deliberately tiny: literal text, {{name}} substitutions,
// and {{#name}}...{{/name}} sections. It is NOT mustache — sections have
// quirks that existing documents depend on (see Render), so the language
// is parsed by a small recursive-descent parser rather than delegated to
// text/template or a mustache port.
package render

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// --- Parse tree ---

type node interface{ isNode() }

// literalNode is a run of plain text.
type literalNode struct {
	text string
}

// varNode is a {{name}} substitution.
type varNode struct {
	name string
}

// sectionNode is a {{#name}}...{{/name}} block.
type sectionNode struct {
	name     string
	children []node
}

func (literalNode) isNode() {}
func (varNode) isNode()     {}
func (sectionNode) isNode() {}

// --- Tokenizer ---

type tokenKind int

const (
	tokText tokenKind = iota
	tokVar
	tokOpen
	tokClose
)

type token struct {
	kind tokenKind
	text string // literal text for tokText, tag name otherwise
}

// validTagName reports whether s is a legal tag name: one or more
// word characters or dots. The dot form exists so {{.}} can reference
// the current element inside an array section.
func validTagName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

// tokenize splits a template into text and tag tokens. Anything between
// {{ and }} that is not a well-formed tag is kept as literal text.
func tokenize(template string) []token {
	var tokens []token
	for len(template) > 0 {
		start := strings.Index(template, "{{")
		if start < 0 {
			tokens = append(tokens, token{kind: tokText, text: template})
			break
		}
		end := strings.Index(template[start+2:], "}}")
		if end < 0 {
			tokens = append(tokens, token{kind: tokText, text: template})
			break
		}

		if start > 0 {
			tokens = append(tokens, token{kind: tokText, text: template[:start]})
		}

		inner := template[start+2 : start+2+end]
		rest := template[start+2+end+2:]

		switch {
		case strings.HasPrefix(inner, "#") && validTagName(inner[1:]):
			tokens = append(tokens, token{kind: tokOpen, text: inner[1:]})
		case strings.HasPrefix(inner, "/") && validTagName(inner[1:]):
			tokens = append(tokens, token{kind: tokClose, text: inner[1:]})
		case validTagName(inner):
			tokens = append(tokens, token{kind: tokVar, text: inner})
		default:
			tokens = append(tokens, token{kind: tokText, text: template[start : start+2+end+2]})
		}

		template = rest
	}
	return tokens
}

// --- Parser ---

// parse consumes tokens into a node list. It stops when it encounters a
// close token (returned to the caller) or runs out of tokens.
func parse(tokens []token, pos int) (nodes []node, next int, closed *token) {
	for pos < len(tokens) {
		tok := tokens[pos]
		switch tok.kind {
		case tokText:
			nodes = append(nodes, literalNode{text: tok.text})
			pos++
		case tokVar:
			nodes = append(nodes, varNode{name: tok.text})
			pos++
		case tokClose:
			return nodes, pos + 1, &tok
		case tokOpen:
			children, after, closeTok := parse(tokens, pos+1)
			pos = after
			// A section whose closing tag is missing or does not match
			// the opening name renders as nothing at all.
			if closeTok != nil && closeTok.text == tok.text {
				nodes = append(nodes, sectionNode{name: tok.text, children: children})
			}
		}
	}
	return nodes, pos, nil
}

// --- Evaluation ---

// Render expands template against data and returns the result. It never
// fails: unknown names become empty strings, malformed tags emit nothing.
//
// Section semantics on data[name]:
//   - array: render the section once per element; record elements become
//     the new scope, scalar elements are exposed as {{.}}
//   - record: render once with the record as the new scope
//   - truthy scalar: render once against the OUTER scope (historical
//     behavior existing templates rely on — the value itself is not
//     entered)
//   - falsy or absent: render nothing
//
// No escaping is performed; output is plain text / markdown.
func Render(template string, data map[string]any) string {
	tokens := tokenize(template)
	var nodes []node
	// A stray close tag at the top level stops parse; skip just that
	// token and keep going so the rest of the template still renders.
	for pos := 0; pos < len(tokens); {
		parsed, next, _ := parse(tokens, pos)
		nodes = append(nodes, parsed...)
		pos = next
	}
	var b strings.Builder
	renderNodes(&b, nodes, data)
	return b.String()
}

func renderNodes(b *strings.Builder, nodes []node, scope map[string]any) {
	for _, n := range nodes {
		switch n := n.(type) {
		case literalNode:
			b.WriteString(n.text)
		case varNode:
			b.WriteString(formatValue(scope[n.name]))
		case sectionNode:
			renderSection(b, n, scope)
		}
	}
}

func renderSection(b *strings.Builder, section sectionNode, scope map[string]any) {
	value := scope[section.name]

	if items, ok := asSlice(value); ok {
		for _, item := range items {
			if record, ok := asRecord(item); ok {
				renderNodes(b, section.children, record)
			} else {
				renderNodes(b, section.children, map[string]any{".": item})
			}
		}
		return
	}

	if record, ok := asRecord(value); ok {
		renderNodes(b, section.children, record)
		return
	}

	if isTruthy(value) {
		renderNodes(b, section.children, scope)
	}
}

// asSlice normalizes any slice or array value to []any.
func asSlice(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	if items, ok := value.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// asRecord normalizes any string-keyed map value to map[string]any.
func asRecord(value any) (map[string]any, bool) {
	if value == nil {
		return nil, false
	}
	if record, ok := value.(map[string]any); ok {
		return record, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	record := make(map[string]any, rv.Len())
	for _, key := range rv.MapKeys() {
		record[key.String()] = rv.MapIndex(key).Interface()
	}
	return record, true
}

// isTruthy mirrors loose truthiness: nil, false, empty strings and
// numeric zero are falsy; everything else is truthy.
func isTruthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	}
	return true
}

// formatValue converts a substitution value to its string form:
// nil becomes "", arrays join their formatted elements with ", ",
// records join "key: value" pairs with ", " (keys sorted so output is
// deterministic), everything else is stringified.
func formatValue(value any) string {
	if value == nil {
		return ""
	}

	if items, ok := asSlice(value); ok {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, ", ")
	}

	if record, ok := asRecord(value); ok {
		keys := make([]string, 0, len(record))
		for key := range record {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = fmt.Sprintf("%s: %s", key, formatValue(record[key]))
		}
		return strings.Join(parts, ", ")
	}

	if f, ok := value.(float64); ok && f == float64(int64(f)) {
		// JSON numbers decode as float64; render whole values without
		// a trailing ".0" mismatch across platforms.
		return fmt.Sprintf("%d", int64(f))
	}

	return fmt.Sprint(value)
}
