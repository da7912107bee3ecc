package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseWidgets exercises the widget block extraction over the formats a
// model actually emits.
func TestParseWidgets(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantText    string
		wantTypes   []string
		description string
	}{
		{
			name:      "no widgets",
			input:     "just a plain answer",
			wantText:  "just a plain answer",
			wantTypes: nil,
		},
		{
			name:      "single widget after text",
			input:     `Sure thing. <widget>{"type":"button","payload":{"label":"OK"}}</widget>`,
			wantText:  "Sure thing.",
			wantTypes: []string{"button"},
		},
		{
			name:      "widget between text",
			input:     `Before <widget>{"type":"form"}</widget> after`,
			wantText:  "Before  after",
			wantTypes: []string{"form"},
		},
		{
			name:      "multiple widgets in order",
			input:     `<widget>{"type":"a"}</widget><widget>{"type":"b"}</widget>`,
			wantText:  "",
			wantTypes: []string{"a", "b"},
		},
		{
			name:      "malformed json stripped but not decoded",
			input:     `Text <widget>{broken</widget> more`,
			wantText:  "Text  more",
			wantTypes: nil,
		},
		{
			name:      "missing type rejected",
			input:     `Text <widget>{"payload":{"x":1}}</widget>`,
			wantText:  "Text",
			wantTypes: nil,
		},
		{
			name:      "unterminated block left verbatim",
			input:     `Text <widget>{"type":"button"}`,
			wantText:  `Text <widget>{"type":"button"}`,
			wantTypes: nil,
		},
		{
			name:      "mixed valid and invalid",
			input:     `<widget>{"type":"ok"}</widget><widget>nope</widget>`,
			wantText:  "",
			wantTypes: []string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, widgets := ParseWidgets(tt.input)
			assert.Equal(t, tt.wantText, clean)

			var gotTypes []string
			for _, w := range widgets {
				gotTypes = append(gotTypes, w.Type)
			}
			assert.Equal(t, tt.wantTypes, gotTypes)
		})
	}
}

// TestParseWidgetsPayload verifies the payload object passes through
// untouched.
func TestParseWidgetsPayload(t *testing.T) {
	clean, widgets := ParseWidgets(`<widget>{"type":"slider","payload":{"min":0,"max":10}}</widget>`)
	assert.Empty(t, clean)
	require.Len(t, widgets, 1)
	assert.Equal(t, "slider", widgets[0].Type)
	assert.Equal(t, float64(0), widgets[0].Payload["min"])
	assert.Equal(t, float64(10), widgets[0].Payload["max"])
}
