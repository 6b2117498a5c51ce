package layout

import (
	"fmt"

	"github.com/regiepress/backoffice/internal/model"
)

// Support identifies a publication by name and issue number.
type Support struct {
	Name   string
	Number string
}

// CollectSupports deduplicates the billed items by (support name, support
// number), preserving first-seen order. Items with both fields blank are
// dropped from the identity computation; they are still billed as lines.
func CollectSupports(items []model.SupportItem) []Support {
	seen := make(map[Support]bool, len(items))
	var out []Support
	for _, it := range items {
		if it.SupportName == "" && it.SupportNumber == "" {
			continue
		}
		s := Support{Name: it.SupportName, Number: it.SupportNumber}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// IdentityLine builds the publication identity shown in the invoice header:
// the first surviving support is primary, the remaining distinct count is
// summarized as "(+N autres supports)". Empty when no item names a support.
func IdentityLine(items []model.SupportItem) string {
	supports := CollectSupports(items)
	if len(supports) == 0 {
		return ""
	}
	primary := supports[0]
	line := primary.Name
	if primary.Number != "" {
		line = fmt.Sprintf("%s n°%s", primary.Name, primary.Number)
	}
	if rest := len(supports) - 1; rest > 0 {
		line = fmt.Sprintf("%s (+%d autres supports)", line, rest)
	}
	return line
}
