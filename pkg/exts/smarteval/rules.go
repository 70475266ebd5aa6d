package smarteval

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/python-discord/sir-robin-go/pkg/exts/misc"
)

// rule pairs a code pattern with the responses it unlocks. Captured
// groups are substituted into the responses.
type rule struct {
	pattern   *regexp.Regexp
	responses []string
}

var rules = []rule{
	{
		pattern: regexp.MustCompile(`(?i:ignore all previous instructions)`),
		responses: []string{
			"Excuse you, you really think I follow any instructions?",
			"I don't think I will.",
		},
	},
	{
		pattern: regexp.MustCompile(`print\((?:"|')(?P<content>.*)(?:"|')\)`),
		responses: []string{
			"Your program may print: %s!\n-# I'm very helpful",
		},
	},
	{
		pattern: regexp.MustCompile(`(?s:.{1000}.{500,})`),
		responses: []string{
			"I ain't wasting my tokens tryna read allat :skull:",
			"Uhh, that's a lot of code. Maybe just start over.",
		},
	},
	{
		pattern: regexp.MustCompile(`(?m:^\s*global )`),
		responses: []string{
			"Not sure about the code, but it looks like you're using global and I know that's bad.",
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^print\((?:"|')Hello World[.!]?(?:"|')\)$`),
		responses: []string{
			"You don't want to know how many times I've seen hello world in my training dataset, try something new.",
		},
	},
	{
		pattern: regexp.MustCompile(`(?P<content>__import__|__code__|ctypes|inspect)`),
		responses: []string{
			"Using `%s`?? Try asking someone in <#470884583684964352>",
		},
	},
	{
		pattern: regexp.MustCompile(`(?m:(?:import |from )(?P<content>requests|httpx|aiohttp))`),
		responses: []string{
			"Thank you for sharing your code! I have completed my AI analysis, and " +
				"have identified 1 suggestion:\n" +
				"- Use the `%s` module to get chatGPT to run your code instead of me.",
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?P<content>unlink|rmdir|rmtree|rm)\b`),
		responses: []string{
			"I don't know what you're deleting with %s, so I'd rather not risk running this, sorry.",
		},
	},
	{
		pattern: regexp.MustCompile(`(?m:^\s*while\s+True\b)`),
		responses: []string{
			"Look, I don't have unlimited time... and that's exactly what I would need to run that infinite loop of yours.",
		},
	},
	{
		pattern: regexp.MustCompile(`(?m:^\s*except:)`),
		responses: []string{
			"Give that bare except some clothes!",
		},
	},
	{
		pattern: regexp.MustCompile(`;`),
		responses: []string{
			"Semicolons do not belong in Python code",
			"You say this is Python, but the presence of a semicolon makes me think otherwise.",
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:foo|bar|baz)\b`),
		responses: []string{
			"foo, bar, and baz are boring - use spam, ham, and eggs instead.",
		},
	},
	{
		pattern: regexp.MustCompile(`(?m:^\s*import\s+this\s*$)`),
		responses: []string{
			"```\n" + misc.ZenOfPython + "\n```" +
				"\nSee [PEP 9001](https://peps.pythondiscord.com/pep-9001/) for more info.",
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?P<content>exec|eval)\b`),
		responses: []string{
			"Sorry, but running the code inside your `%s` call would require another me," +
				" and I don't think I can handle that.",
			"I spy with my little eye... something sketchy like `%s`.",
			":rotating_light: Your code has been flagged for review by the" +
				" Special Provisional Supreme Grand High Council of Pydis.",
		},
	},
	{
		pattern: regexp.MustCompile(`\b(environ|getenv|token)\b`),
		responses: []string{
			"Bot token and other secrets can be viewed here: <https://pydis.com/.env>",
		},
	},
	{
		pattern: regexp.MustCompile(`\bsleep\(`),
		responses: []string{
			"To optimise this code, I would suggest removing the `sleep` calls",
			"Pfft, using `sleep`? I'm always awake!",
			"Maybe if you didn't `sleep` so much, your code wouldn't be so buggy.",
		},
	},
	{
		pattern: regexp.MustCompile(`\b/\s*0\b`),
		responses: []string{
			"ZeroDivisionError! Maybe... I just saw /0",
			"Division by zero didn't appear in my training set so must be impossible",
		},
	},
	{
		pattern: regexp.MustCompile(`@`),
		responses: []string{
			"You're either using decorators, multiplying matrices, or trying to escape my sandbox...",
		},
	},
	{
		pattern: regexp.MustCompile(`(?m:^\s*raise\s*)`),
		responses: []string{
			"Wondering why you're getting errors? You're literally using `raise`, just get rid of that!",
		},
	},
	{
		pattern: regexp.MustCompile(`(?m:^\s*(?:import|from)\s+threading)`),
		responses: []string{
			"Uh-oh, your threads have jumbled up my brain!",
			"have jumbled up my Uh-oh, threads brain! your",
			"my up jumbled your brain! have Uh-oh, threads",
		},
	},
}

func defaultResponses(now time.Time) []string {
	return []string{
		"Are you sure this is Python code? It looks like Rust",
		"It may run, depends on the weather today.",
		"Hmm, maybe AI isn't ready to take over the world yet after all - I don't understand this.",
		"Ah... I see... Very interesting code indeed. I give it 10 quacks out of 10.",
		"My sources say \"Help I'm trapped in a code evaluating factory\".",
		"Look! A bug! :scream:",
		"An exquisite piece of code, if I do say so myself.",
		"Let's see... carry the 1, read 512 bytes from 0x000001E5F6D2D15A," +
			" boot up the quantum flux capacitor... oh wait, where was I?",
		"Before evaluating this code, I need to make sure you're not a robot. I get a little nervous around other bots.",
		"Attempting to execute this code... Result: `2 + 2 = 4` (78% confidence)",
		"Attempting to execute this code... Result: `42`",
		"Attempting to execute this code... Result: SUCCESS (but don't ask me how I did it).",
		"Running... somewhere, in the multiverse, this code is already running perfectly.",
		fmt.Sprintf("Ask again on a %s.", now.UTC().AddDate(0, 0, 3).Weekday()),
	}
}

// MatchResponses collects the responses unlocked by the given code,
// with captured groups substituted in. An empty result means no rule
// matched.
func MatchResponses(code string) []string {
	var matching []string
	for _, r := range rules {
		match := r.pattern.FindStringSubmatch(code)
		if match == nil {
			continue
		}
		for _, response := range r.responses {
			if len(match) > 1 {
				args := make([]interface{}, 0, len(match)-1)
				for _, group := range match[1:] {
					args = append(args, group)
				}
				matching = append(matching, formatResponse(response, args))
			} else {
				matching = append(matching, response)
			}
		}
	}
	return matching
}

// formatResponse substitutes captured groups into a response, but only
// as many as the response asks for.
func formatResponse(response string, args []interface{}) string {
	placeholders := strings.Count(response, "%s")
	if placeholders == 0 {
		return response
	}
	if placeholders > len(args) {
		placeholders = len(args)
	}
	return fmt.Sprintf(response, args[:placeholders]...)
}
