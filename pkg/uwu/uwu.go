// Package uwu mangles text for the smart-eval extension's sillier
// responses.
package uwu

import (
	"math/rand"
	"regexp"
	"strings"
)

var wordReplacer = strings.NewReplacer(
	"small", "smol",
	"cute", "kawaii~",
	"fluff", "floof",
	"love", "luv",
	"stupid", "baka",
	"idiot", "baka",
	"what", "nani",
	"meow", "nya~",
	"roar", "rawrr~",
)

var emoticons = []string{
	"rawr x3", "OwO", "UwU", "o.O", "-.-", ">w<", "σωσ", "òωó",
	"ʘwʘ", ":3", "XD", "nyaa~~", "mya", ">_<", "rawr", "uwu", "^^", "^^;;",
}

var (
	charPattern        = regexp.MustCompile(`[lr]`)
	nyaPattern         = regexp.MustCompile(`n([aeou][^aeiou])`)
	stutterPattern     = regexp.MustCompile(`(\s)([a-zA-Z])`)
	punctuationPattern = regexp.MustCompile(`[.!?\r\n\t]`)
)

// Options controls the random transformations.
type Options struct {
	StutterStrength float64
	EmojiStrength   float64
	// Rand supplies randomness; tests pin it for determinism.
	Rand *rand.Rand
}

// Uwuify returns an uwuified version of the input.
func Uwuify(input string, opts Options) string {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	out := strings.ToLower(input)
	out = wordReplacer.Replace(out)
	out = nyaPattern.ReplaceAllString(out, "ny$1")
	out = charPattern.ReplaceAllString(out, "w")
	out = stutterPattern.ReplaceAllStringFunc(out, func(match string) string {
		if rng.Float64() < opts.StutterStrength {
			return match + "-" + match[len(match)-1:]
		}
		return match
	})
	out = punctuationPattern.ReplaceAllStringFunc(out, func(match string) string {
		if rng.Float64() < opts.EmojiStrength {
			return " " + emoticons[rng.Intn(len(emoticons))] + " "
		}
		return match
	})
	return out
}
