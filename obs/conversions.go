package obs

import "github.com/shillcollin/docvision/core"

// UsageTokens mirrors core.Usage without importing provider result types into
// metric call sites.
type UsageTokens struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UsageFromCore builds a UsageTokens struct from a core.Usage value.
func UsageFromCore(u core.Usage) UsageTokens {
	return UsageTokens{
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		TotalTokens:  u.TotalTokens,
	}
}
