// Package parser provides utilities for parsing structured content out of
// raw LLM response text.
package parser

import (
	"encoding/json"
	"strings"

	"github.com/parleyhq/parley/pkg/types"
)

const (
	widgetOpenTag  = "<widget>"
	widgetCloseTag = "</widget>"
)

// ParseWidgets separates embedded widget hints from response text.
//
// Widget hints are <widget>{...}</widget> blocks whose body is a JSON object
// with a "type" field and optional "payload" object. ParseWidgets returns the
// text with all widget blocks removed, plus the successfully decoded
// descriptors in document order.
//
// Parsing is best-effort: a block whose body fails to decode is stripped from
// the text but omitted from the descriptor list, and an unterminated open tag
// is left in the text verbatim. Widget quality is the model's responsibility,
// not this parser's.
func ParseWidgets(text string) (string, []types.Widget) {
	if !strings.Contains(text, widgetOpenTag) {
		return text, nil
	}

	var (
		clean   strings.Builder
		widgets []types.Widget
	)

	rest := text
	for {
		open := strings.Index(rest, widgetOpenTag)
		if open < 0 {
			clean.WriteString(rest)
			break
		}

		bodyStart := open + len(widgetOpenTag)
		closeRel := strings.Index(rest[bodyStart:], widgetCloseTag)
		if closeRel < 0 {
			// Unterminated block. Keep the remainder untouched so a
			// truncated response does not silently lose text.
			clean.WriteString(rest)
			break
		}

		clean.WriteString(rest[:open])

		body := rest[bodyStart : bodyStart+closeRel]
		if w, ok := decodeWidget(body); ok {
			widgets = append(widgets, w)
		}

		rest = rest[bodyStart+closeRel+len(widgetCloseTag):]
	}

	return strings.TrimSpace(clean.String()), widgets
}

// decodeWidget decodes one widget block body. Blocks without a type are
// rejected along with malformed JSON.
func decodeWidget(body string) (types.Widget, bool) {
	var w types.Widget
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &w); err != nil {
		return types.Widget{}, false
	}
	if w.Type == "" {
		return types.Widget{}, false
	}
	return w, true
}
