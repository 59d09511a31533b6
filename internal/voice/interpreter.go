package voice

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
)

// Separator is the word splitting the source side from the target side.
const Separator = "to"

var numericToken = regexp.MustCompile(`^(\d{1,3}(,\d{3})+|\d+)(\.\d+)?$`)

// Interpret turns a transcript such as "convert 100 usd to pkr" into a
// command. It either resolves the amount and both currencies against the
// catalog or fails with common.ErrUnrecognizedCommand; partial results are
// never returned.
func Interpret(transcript string, catalog model.Catalog) (model.VoiceCommand, error) {
	words := tokenize(transcript)

	amount, ok := firstAmount(words)
	if !ok {
		return model.VoiceCommand{}, fmt.Errorf("%w: no amount in %q", common.ErrUnrecognizedCommand, transcript)
	}

	sep := indexOf(words, Separator)
	if sep < 0 {
		return model.VoiceCommand{}, fmt.Errorf("%w: missing %q in %q", common.ErrUnrecognizedCommand, Separator, transcript)
	}

	from, ok := firstCodeShaped(words[:sep])
	if !ok {
		return model.VoiceCommand{}, fmt.Errorf("%w: no source currency in %q", common.ErrUnrecognizedCommand, transcript)
	}
	to, ok := firstCodeShaped(words[sep+1:])
	if !ok {
		return model.VoiceCommand{}, fmt.Errorf("%w: no target currency in %q", common.ErrUnrecognizedCommand, transcript)
	}

	fromCur, ok := catalog.Lookup(from)
	if !ok {
		return model.VoiceCommand{}, fmt.Errorf("%w: %s is not a supported currency", common.ErrUnrecognizedCommand, from)
	}
	toCur, ok := catalog.Lookup(to)
	if !ok {
		return model.VoiceCommand{}, fmt.Errorf("%w: %s is not a supported currency", common.ErrUnrecognizedCommand, to)
	}

	return model.VoiceCommand{
		Amount: amount,
		From:   fromCur.Code,
		To:     toCur.Code,
	}, nil
}

func tokenize(transcript string) []string {
	fields := strings.Fields(strings.ToLower(transcript))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, `.,!?;:"'()$`)
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

func indexOf(words []string, target string) int {
	for i, w := range words {
		if w == target {
			return i
		}
	}
	return -1
}

// firstCodeShaped returns the first three letter word. Catalog membership is
// checked by the caller so that an unknown first candidate fails the parse
// instead of falling through to a later word.
func firstCodeShaped(words []string) (model.CurrencyCode, bool) {
	for _, w := range words {
		if model.IsCodeShaped(w) {
			return model.CurrencyCode(strings.ToUpper(w)), true
		}
	}
	return "", false
}

// firstAmount finds the first numeric token, either a digit literal or a
// run of English number words, and requires it to be finite and positive.
func firstAmount(words []string) (float64, bool) {
	for i, w := range words {
		if numericToken.MatchString(w) {
			v, err := strconv.ParseFloat(strings.ReplaceAll(w, ",", ""), 64)
			return v, err == nil && validAmount(v)
		}
		if startsNumber(w) {
			v, ok := parseNumberWords(words[i:])
			return v, ok && validAmount(v)
		}
	}
	return 0, false
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
