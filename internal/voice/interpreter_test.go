package voice

import (
	"testing"

	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() model.Catalog {
	return model.NewCatalog([]model.Currency{
		{Code: "USD", Name: "United States Dollar"},
		{Code: "PKR", Name: "Pakistani Rupee"},
		{Code: "EUR", Name: "Euro"},
		{Code: "GBP", Name: "Pound Sterling"},
	})
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       model.VoiceCommand
	}{
		{
			name:       "digits",
			transcript: "convert 100 usd to pkr",
			want:       model.VoiceCommand{Amount: 100, From: "USD", To: "PKR"},
		},
		{
			name:       "upper case and punctuation",
			transcript: "Convert 250 EUR to GBP.",
			want:       model.VoiceCommand{Amount: 250, From: "EUR", To: "GBP"},
		},
		{
			name:       "decimal with thousands separator",
			transcript: "1,250.50 gbp to usd please",
			want:       model.VoiceCommand{Amount: 1250.5, From: "GBP", To: "USD"},
		},
		{
			name:       "number words",
			transcript: "convert twenty five usd to eur",
			want:       model.VoiceCommand{Amount: 25, From: "USD", To: "EUR"},
		},
		{
			name:       "number words with scale",
			transcript: "change three thousand five hundred twelve pkr to usd",
			want:       model.VoiceCommand{Amount: 3512, From: "PKR", To: "USD"},
		},
		{
			name:       "hyphenated number",
			transcript: "forty-two usd to pkr",
			want:       model.VoiceCommand{Amount: 42, From: "USD", To: "PKR"},
		},
		{
			name:       "spoken decimal",
			transcript: "convert seven point five eur to usd",
			want:       model.VoiceCommand{Amount: 7.5, From: "EUR", To: "USD"},
		},
		{
			name:       "amount after currency",
			transcript: "usd 40 to eur",
			want:       model.VoiceCommand{Amount: 40, From: "USD", To: "EUR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpret(tt.transcript, testCatalog())
			require.NoError(t, err)
			assert.Equal(t, tt.want.From, got.From)
			assert.Equal(t, tt.want.To, got.To)
			assert.InDelta(t, tt.want.Amount, got.Amount, 1e-9)
		})
	}
}

func TestInterpret_Unrecognized(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
	}{
		{name: "currency spelled as a word", transcript: "convert one hundred dollars to pkr"},
		{name: "no amount", transcript: "convert usd to pkr"},
		{name: "zero amount", transcript: "convert 0 usd to pkr"},
		{name: "no separator", transcript: "convert 100 usd into pkr"},
		{name: "no source", transcript: "convert 100 to pkr"},
		{name: "no target", transcript: "convert 100 usd to rupees"},
		{name: "source not in catalog", transcript: "convert 100 xyz to pkr"},
		{name: "target not in catalog", transcript: "convert 100 usd to jpy"},
		{name: "first candidate not in catalog", transcript: "get 100 usd to pkr"},
		{name: "three letter number word shadows the source", transcript: "convert ten usd to pkr"},
		{name: "three letter number word shadows the target", transcript: "convert 5 usd to six pkr"},
		{name: "empty", transcript: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpret(tt.transcript, testCatalog())
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrUnrecognizedCommand)
			assert.Equal(t, model.VoiceCommand{}, got, "no partial command may be returned")
		})
	}
}

func TestInterpret_EmptyCatalog(t *testing.T) {
	_, err := Interpret("convert 100 usd to pkr", model.NewCatalog(nil))
	assert.ErrorIs(t, err, common.ErrUnrecognizedCommand)
}

func TestParseNumberWords(t *testing.T) {
	tests := []struct {
		words []string
		want  float64
		ok    bool
	}{
		{words: []string{"one"}, want: 1, ok: true},
		{words: []string{"nineteen", "usd"}, want: 19, ok: true},
		{words: []string{"ninety", "nine"}, want: 99, ok: true},
		{words: []string{"hundred"}, want: 100, ok: true},
		{words: []string{"two", "million"}, want: 2e6, ok: true},
		{words: []string{"one", "thousand", "and", "one"}, want: 1001, ok: true},
		{words: []string{"six", "and", "usd"}, want: 6, ok: true},
		{words: []string{"zero", "point", "two", "five"}, want: 0.25, ok: true},
		{words: []string{"dollars"}, want: 0, ok: false},
	}

	for _, tt := range tests {
		got, ok := parseNumberWords(tt.words)
		assert.Equal(t, tt.ok, ok, "words %v", tt.words)
		assert.InDelta(t, tt.want, got, 1e-9, "words %v", tt.words)
	}
}
