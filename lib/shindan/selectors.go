package shindan

import "github.com/andybalholm/cascadia"

// queries run on every page in the hot path, so they are compiled once up
// front instead of on each call
var (
	selTitle        = cascadia.MustCompile("#shindanTitle")
	selDescription  = cascadia.MustCompile("#shindanDescriptionDisplay")
	selResult       = cascadia.MustCompile("#shindanResult")
	selTitleResult  = cascadia.MustCompile("#title_and_result")
	selScript       = cascadia.MustCompile("script")
	selShindanToken = cascadia.MustCompile("input[name=shindan_token]")
	selParts        = cascadia.MustCompile(`input[name^="parts["]`)

	selEffectTyping  = cascadia.MustCompile("span.shindanEffects[data-mode=ef_typing]")
	selEffectShuffle = cascadia.MustCompile("span.shindanEffects[data-mode=ef_shuffle]")
)

// hidden inputs every layout is expected to carry, submitted in this order
var requiredTokens = []struct {
	name string
	sel  cascadia.Selector
}{
	{"_token", cascadia.MustCompile("input[name=_token]")},
	{"randname", cascadia.MustCompile("input[name=randname]")},
	{"type", cascadia.MustCompile("input[name=type]")},
}
