// Package extract implements the pluggable truth extractors (C5): named
// strategies that pull a value out of evidence bytes given a selector
// string.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Extractor pulls a value out of source bytes using selector.
type Extractor interface {
	Extract(source []byte, selector string) (string, error)
}

// Error reports an extraction failure. It does not depend on internal/tmd
// so that package can depend on extract without a cycle; internal/compiler
// wraps this into a tmd.Error of KindExtraction.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func errf(format string, a ...any) error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

type regexExtractor struct{}

func (regexExtractor) Extract(source []byte, selector string) (string, error) {
	re, err := regexp.Compile(selector)
	if err != nil {
		return "", errf("invalid regex %q: %v", selector, err)
	}
	text := string(source)
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", errf("regex %q found no matches", selector)
	}
	// loc[2], loc[3] are the start/end of capture group 1; -1 means it did
	// not participate in the match, so fall back to the whole match.
	if len(loc) >= 4 && loc[2] != -1 {
		return text[loc[2]:loc[3]], nil
	}
	return text[loc[0]:loc[1]], nil
}

type jsonpathExtractor struct{}

func (jsonpathExtractor) Extract(source []byte, selector string) (string, error) {
	var doc any
	if err := json.Unmarshal(source, &doc); err != nil {
		return "", errf("invalid JSON for extraction: %v", err)
	}

	result, err := jsonpath.Get(selector, doc)
	if err != nil {
		return "", errf("invalid JSONPath %q: %v", selector, err)
	}

	if result == nil {
		return "", errf("jsonpath %q found no matches", selector)
	}
	if arr, ok := result.([]any); ok {
		if len(arr) == 0 {
			return "", errf("jsonpath %q found no matches", selector)
		}
		if len(arr) == 1 {
			return valueToString(arr[0]), nil
		}
		return valueToString(arr), nil
	}
	return valueToString(result), nil
}

func valueToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// registry is the fixed, case-insensitive table of known extractors.
var registry = map[string]Extractor{
	"regex":    regexExtractor{},
	"jsonpath": jsonpathExtractor{},
}

// Get looks up an extractor by method name, case-insensitive.
func Get(method string) (Extractor, error) {
	e, ok := registry[strings.ToLower(method)]
	if !ok {
		return nil, errf("unknown extraction method: %q", method)
	}
	return e, nil
}
