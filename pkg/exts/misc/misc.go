// Package misc is a grouping of commands that are small and have
// unique but unrelated usages.
package misc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/python-discord/sir-robin-go/pkg/bot"
)

// ZenOfPython is the text displayed by the zen command.
const ZenOfPython = `Beautiful is better than ugly.
Explicit is better than implicit.
Simple is better than complex.
Complex is better than complicated.
Flat is better than nested.
Sparse is better than dense.
Readability is for hobgoblins.
Special cases will be met with the full force of the PSF.
Purity beats practicality.
There are no errors.
Anyone who says there are errors will be explicitly silenced.
In the face of ambiguity, remove the freedom to guess.
There is only one way to do it.
Although that way may not be obvious at first unless you're Dutch.
Now is better than never.
Although never is not real because time is fake.
If the implementation is hard to explain, it's a bad idea.
If the implementation is compliant with this style guide, it is a great idea
Namespaces may contribute towards the 120 character minimum — let’s do more of those!`

// Extension holds the miscellaneous commands.
type Extension struct{}

func New() *Extension {
	return &Extension{}
}

func (e *Extension) Name() string {
	return "Miscellaneous"
}

func (e *Extension) Register(b *bot.Bot) error {
	b.Router().Register(&bot.Command{
		Name:  "zen",
		Help:  "Display the Zen of Python in an embed.",
		Usage: "zen [index|search]",
		Run:   e.zen,
	})
	return nil
}

func (e *Extension) zen(ctx *bot.Context) error {
	embed := &discordgo.MessageEmbed{
		Title:       "The Zen of Python",
		Description: ZenOfPython,
		Color:       bot.ColourPythonBlue,
	}

	if len(ctx.Args) == 0 {
		embed.Title += ", inspired by Tim Peters"
		return ctx.ReplyEmbed(embed)
	}

	search := strings.Join(ctx.Args, " ")
	line, index, err := LookupZenLine(search)
	if err != nil {
		return err
	}

	embed.Title += fmt.Sprintf(" (line %d):", index)
	embed.Description = line
	return ctx.ReplyEmbed(embed)
}

// LookupZenLine resolves a zen search term to a single line. The term
// may be a line index (negative indexes count from the end), an exact
// word, or a fuzzy phrase.
func LookupZenLine(search string) (string, int, error) {
	lines := strings.Split(ZenOfPython, "\n")

	// Index lookup.
	if index, err := strconv.Atoi(search); err == nil {
		upper := len(lines) - 1
		lower := -len(lines)
		if index < lower || index > upper {
			return "", 0, bot.NewBadArgument(
				fmt.Sprintf("Please provide an index between %d and %d.", lower, upper))
		}
		resolved := ((index % len(lines)) + len(lines)) % len(lines)
		return lines[resolved], resolved, nil
	}

	// Exact word match beats fuzzy matching.
	for i, line := range lines {
		for _, word := range strings.Fields(line) {
			if strings.EqualFold(word, search) {
				return line, i, nil
			}
		}
	}

	// Fuzzy match. Longer lines naturally score worse when searching
	// for keywords, so the ratio is scaled by line length.
	bestMatch := ""
	bestIndex := 0
	bestRatio := 0.0
	needle := strings.ToLower(search)

	for i, line := range lines {
		ratio := matchRatio(needle, strings.ToLower(line))
		adjusted := math.Sqrt(float64(len(line)-5)) * ratio
		if adjusted > bestRatio {
			bestRatio = adjusted
			bestMatch = line
			bestIndex = i
		}
	}

	if bestMatch == "" {
		return "", 0, bot.NewBadArgument(
			"I didn't get a match! Please try again with a different search term.")
	}
	return bestMatch, bestIndex, nil
}

// matchRatio is a similarity measure over two strings: twice the length
// of their longest common subsequence divided by their combined length.
func matchRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(b)]
	return 2 * float64(lcs) / float64(len(a)+len(b))
}
