// Package smarteval is the Smart Eval chatbot: it "evaluates" Python
// code with a regex rule table and a GPU donation drive.
package smarteval

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/python-discord/sir-robin-go/pkg/bot"
	"github.com/python-discord/sir-robin-go/pkg/rediscache"
	"github.com/python-discord/sir-robin-go/pkg/uwu"
)

// donationLevel maps a number of donations onto the bot's capabilities.
type donationLevel struct {
	donations         int64
	responseTime      time.Duration
	intelligenceLevel int
}

// donationLevels in ascending order of donations.
var donationLevels = []donationLevel{
	{0, 15 * time.Second, 0},
	{10, 10 * time.Second, 1},
	{20, 8 * time.Second, 2},
	{30, 6 * time.Second, 3},
	{40, 5 * time.Second, 4},
	{50, 4 * time.Second, 5},
}

var gpuRenames = strings.NewReplacer(
	"NVIDIA", "NQUACKIA",
	"Radeon", "Quackeon",
	"GeForce", "PyForce",
	"RTX", "PyTX",
	"RX", "PyX",
	"Iris", "Pyris",
	// Some adjustments to prevent low hanging markdown escape
	"*", "",
	"_", " ",
)

// Extension handles all Smart Eval functionality.
type Extension struct {
	donations *rediscache.Cache
	rand      *rand.Rand
}

func New() *Extension {
	return &Extension{
		rand: bot.NewLockedRand(time.Now().UnixNano()),
	}
}

func (e *Extension) Name() string {
	return "SmartEval"
}

func (e *Extension) Register(b *bot.Bot) error {
	e.donations = rediscache.NewCache(b.Redis, "smart_eval.donations")

	b.Router().Register(&bot.Command{
		Name:    "smart_eval",
		Aliases: []string{"smarte"},
		Help:    "Evaluate your Python code with PyDis's newest chatbot.",
		Usage:   "smarte <codeblock>",
		Run:     e.smartEval,
	})
	b.Router().Register(&bot.Command{
		Name:  "donate",
		Help:  "Donate your GPU to help power our Smart Eval command.",
		Usage: "donate <hardware name>",
		Run:   e.donate,
	})
	b.Router().Register(&bot.Command{
		Name: "donations",
		Help: "Display the number of donations received so far.",
		Run:  e.listDonations,
	})
	return nil
}

// GPUCapabilities returns the response time and intelligence level for
// the given donation count.
func GPUCapabilities(totalDonations int64) (time.Duration, int) {
	responseTime := donationLevels[0].responseTime
	intelligence := donationLevels[0].intelligenceLevel
	for _, level := range donationLevels {
		if totalDonations < level.donations {
			break
		}
		responseTime = level.responseTime
		intelligence = level.intelligenceLevel
	}
	return responseTime, intelligence
}

// ImproveGPUName quackifies and pythonifies the given GPU name.
func ImproveGPUName(hardware string) string {
	return gpuRenames.Replace(hardware)
}

// ExtractCode pulls the code out of a message body. It accepts a
// fenced codeblock with an optional language line, or inline code.
func ExtractCode(content string) (string, bool) {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") && len(content) > 6 {
		inner := content[3 : len(content)-3]
		// Drop a leading language specifier line.
		if idx := strings.IndexByte(inner, '\n'); idx >= 0 {
			first := strings.TrimSpace(inner[:idx])
			if first != "" && !strings.ContainsAny(first, " \t") && isLangSpecifier(first) {
				inner = inner[idx+1:]
			}
		}
		code := strings.TrimSpace(inner)
		return code, code != ""
	}

	for _, delim := range []string{"``", "`"} {
		if strings.HasPrefix(content, delim) && strings.HasSuffix(content, delim) && len(content) > 2*len(delim) {
			code := strings.TrimSpace(content[len(delim) : len(content)-len(delim)])
			return code, code != ""
		}
	}

	return "", false
}

func isLangSpecifier(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func (e *Extension) smartEval(ctx *bot.Context) error {
	if len(ctx.Args) == 0 {
		return bot.NewBadArgument("Please provide some code to evaluate.")
	}

	raw := strings.Join(ctx.Args, " ")
	// Re-derive the raw text from the message so codeblock newlines
	// survive argument splitting.
	prefix := ctx.Bot.Config.Client.Prefix
	if body, ok := strings.CutPrefix(ctx.Message.Content, prefix); ok {
		if _, rest, found := strings.Cut(body, " "); found {
			raw = rest
		}
	}

	code, ok := ExtractCode(raw)
	if !ok {
		return ctx.Reply(
			"Uh oh! You didn't post anything I can recognize as code. Please put it in a codeblock.")
	}

	totalDonations, err := e.donations.Length(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to read donation cache: %w", err)
	}
	responseTime, _ := GPUCapabilities(totalDonations)

	responses := MatchResponses(code)
	if len(responses) == 0 {
		responses = defaultResponses(time.Now())
	}

	selected := responses[e.rand.Intn(len(responses))]
	if e.rand.Intn(5) == 4 {
		selected = uwu.Uwuify(selected, uwu.Options{Rand: e.rand})
	}

	_ = ctx.Session.ChannelTyping(ctx.Message.ChannelID)
	select {
	case <-time.After(responseTime):
	case <-ctx.Context().Done():
		return ctx.Context().Err()
	}

	if len(selected) > 1000 {
		selected = "There's definitely something wrong but I'm just not sure how to put it concisely into words."
	}
	return ctx.Reply(selected)
}

func (e *Extension) donate(ctx *bot.Context) error {
	authorID := ctx.Author().ID

	if stored, err := e.donations.Get(ctx.Context(), authorID); err == nil {
		return ctx.Replyf(
			"I can only take one donation per person. "+
				"Thank you for donating your *%s* to our Smart Eval command.", stored)
	}

	if len(ctx.Args) == 0 {
		return ctx.Replyf(
			"Thank you for your interest in donating your hardware to support my Smart Eval command."+
				" If you provide the name of your GPU, through the magic of the internet, "+
				"I will be able to use the GPU it to improve my Smart Eval outputs."+
				" \n\nTo donate, re-run the donate command specifying your hardware: "+
				"`%sdonate Your Hardware Name Goes Here`.", ctx.Bot.Config.Client.Prefix)
	}

	hardware := strings.Join(ctx.Args, " ")
	if len(hardware) > 255 {
		return ctx.Reply(
			"This hardware name is too complicated, I don't have the context window to remember that")
	}

	msg := "Thank you for donating your GPU to our Smart Eval command."
	improved := ImproveGPUName(hardware)
	if err := e.donations.Set(ctx.Context(), authorID, improved); err != nil {
		return fmt.Errorf("failed to record donation: %w", err)
	}

	if improved != hardware {
		msg += fmt.Sprintf(
			" I did decide that instead of *%s*, it would be better if you donated *%s*."+
				" So I've recorded that GPU donation instead.", hardware, improved)
	}
	msg += "\n\nIt will be used wisely and definitely not for shenanigans!"
	return ctx.Reply(msg)
}

func (e *Extension) listDonations(ctx *bot.Context) error {
	totalDonations, err := e.donations.Length(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to read donation cache: %w", err)
	}
	_, intelligence := GPUCapabilities(totalDonations)

	msg := fmt.Sprintf(
		"Currently, I have received %d GPU donations, and am at intelligence level %d! ",
		totalDonations, intelligence)

	var needed int64
	for _, level := range donationLevels {
		if level.donations > totalDonations {
			needed = level.donations - totalDonations
			break
		}
	}
	if needed > 0 {
		msg += fmt.Sprintf(
			"\n\nTo reach the next intelligence level, I need %d more donations! "+
				"Please consider donating your GPU to help me out. ", needed)
	}

	return ctx.Reply(msg)
}
