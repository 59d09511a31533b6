package voice

var units = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tens = map[string]float64{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var scales = map[string]float64{
	"thousand": 1e3,
	"million":  1e6,
	"billion":  1e9,
}

func isNumberWord(w string) bool {
	_, u := units[w]
	_, t := tens[w]
	_, s := scales[w]
	return u || t || s || w == "hundred"
}

// parseNumberWords reads the number spelled at the start of words, e.g.
// "two hundred and five thousand" or "three point five". Connector words
// ("and", hyphenated tens) are accepted inside the run only.
func parseNumberWords(words []string) (float64, bool) {
	var total, group float64
	seen := false

	for i := 0; i < len(words); i++ {
		w := words[i]
		switch {
		case units[w] != 0 || w == "zero":
			group += units[w]
		case tens[w] != 0:
			group += tens[w]
		case isHyphenated(w):
			v, _ := hyphenated(w)
			group += v
		case w == "hundred":
			if group == 0 {
				group = 1
			}
			group *= 100
		case scales[w] != 0:
			if group == 0 {
				group = 1
			}
			total += group * scales[w]
			group = 0
		case w == "and" && seen && i+1 < len(words) && startsNumber(words[i+1]):
			continue
		case w == "point" && seen && i+1 < len(words):
			frac, ok := fractionDigits(words[i+1:])
			if !ok {
				return total + group, true
			}
			return total + group + frac, true
		default:
			return total + group, seen
		}
		seen = true
	}

	return total + group, seen
}

func startsNumber(w string) bool {
	return isNumberWord(w) || isHyphenated(w)
}

func isHyphenated(w string) bool {
	_, ok := hyphenated(w)
	return ok
}

// hyphenated parses forms like "twenty-five".
func hyphenated(w string) (float64, bool) {
	for i := 0; i < len(w); i++ {
		if w[i] != '-' {
			continue
		}
		t, okT := tens[w[:i]]
		u, okU := units[w[i+1:]]
		if okT && okU && u < 10 {
			return t + u, true
		}
		return 0, false
	}
	return 0, false
}

// fractionDigits reads single digit words after "point".
func fractionDigits(words []string) (float64, bool) {
	var frac float64
	scale := 0.1
	n := 0
	for _, w := range words {
		v, ok := units[w]
		if !ok || v > 9 {
			break
		}
		frac += v * scale
		scale /= 10
		n++
	}
	return frac, n > 0
}
