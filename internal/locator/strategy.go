package locator

import (
	"fmt"

	"github.com/andybalholm/cascadia"
)

// LinkStrategy is one way of finding the detail link inside a row's
// action cell. Strategies are tried in order; the first anchor with a
// non-empty href wins.
type LinkStrategy struct {
	Name     string
	Selector string
}

// DefaultStrategies matches the SUAP admin listing: the view icon first,
// then any anchor into the record path, then any anchor at all.
var DefaultStrategies = []LinkStrategy{
	{Name: "view-icon", Selector: "a.icon-view"},
	{Name: "record-path", Selector: `a[href*="/processo_eletronico/processo/"]`},
	{Name: "any-anchor", Selector: "a"},
}

// StrategiesFromSelectors builds strategies from configured selectors. A
// selector equal to a default one keeps its name; others are named by
// position.
func StrategiesFromSelectors(selectors []string) []LinkStrategy {
	if len(selectors) == 0 {
		return DefaultStrategies
	}
	known := make(map[string]string, len(DefaultStrategies))
	for _, st := range DefaultStrategies {
		known[st.Selector] = st.Name
	}
	out := make([]LinkStrategy, len(selectors))
	for i, sel := range selectors {
		name, ok := known[sel]
		if !ok {
			name = fmt.Sprintf("tier-%d", i+1)
		}
		out[i] = LinkStrategy{Name: name, Selector: sel}
	}
	return out
}

func checkStrategies(strategies []LinkStrategy) error {
	for _, st := range strategies {
		if _, err := cascadia.Compile(st.Selector); err != nil {
			return fmt.Errorf("locator: strategy %s %q: %w", st.Name, st.Selector, err)
		}
	}
	return nil
}
