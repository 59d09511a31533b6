package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		format func(string) string
		name   string
		icon   string
	}{
		{name: "success", format: FormatSuccess, icon: SuccessIcon},
		{name: "error", format: FormatError, icon: ErrorIcon},
		{name: "warning", format: FormatWarning, icon: WarningIcon},
		{name: "info", format: FormatInfo, icon: InfoIcon},
		{name: "title", format: FormatTitle, icon: ExchangeIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("100 USD = 28045.50 PKR")
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "100 USD = 28045.50 PKR")
		})
	}
}

func TestFormatCurrencyList(t *testing.T) {
	out := FormatCurrencyList([][2]string{
		{"USD", "United States Dollar"},
		{"PKR", "Pakistani Rupee"},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "USD")
	assert.Contains(t, lines[0], "United States Dollar")
	assert.Contains(t, lines[1], "Pakistani Rupee")
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Result", "1 USD = 280.00 PKR")
	assert.Contains(t, out, "Result")
	assert.Contains(t, out, "1 USD = 280.00 PKR")
}
