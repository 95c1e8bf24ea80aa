package listctl

import (
	"context"
	"maps"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/condoview/internal/domain"
	"golang.org/x/sync/errgroup"
)

// counterConcurrency caps simultaneous counter requests.
const counterConcurrency = 3

// Counts maps each tab to its total number of occurrences.
type Counts map[domain.Tab]int

// Get returns the count for tab, 0 when unknown.
func (c Counts) Get(tab domain.Tab) int {
	return c[tab]
}

// Counts returns a copy of the latest badge counts.
func (c *Controller) Counts() Counts {
	return maps.Clone(c.counts)
}

// LoadCounts queries every tab with page size 1 and keeps only the totals.
// Each request gets its own timeout. A failed tab reads as 0 and its error
// is returned in the map.
func LoadCounts(ctx context.Context, src Source, scope domain.Scope, timeout time.Duration) (Counts, map[domain.Tab]error) {
	tabs := domain.AllTabs()
	totals := make([]int, len(tabs))
	errs := make([]error, len(tabs))

	var g errgroup.Group
	g.SetLimit(counterConcurrency)
	for i, tab := range tabs {
		i, tab := i, tab
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			page, err := Search(ctx, src, scope, domain.NewListQuery(tab, "", "", 1))
			if err != nil {
				errs[i] = err
				return nil
			}
			totals[i] = page.TotalItems
			return nil
		})
	}
	_ = g.Wait()

	counts := make(Counts, len(tabs))
	var failed map[domain.Tab]error
	for i, tab := range tabs {
		counts[tab] = totals[i]
		if errs[i] != nil {
			if failed == nil {
				failed = make(map[domain.Tab]error)
			}
			failed[tab] = errs[i]
		}
	}
	return counts, failed
}

// fetchCounters loads the badge counts in the background. Failures are
// logged and never reported to the user.
func (c *Controller) fetchCounters() tea.Cmd {
	c.counterGen++
	gen, owner := c.counterGen, c.owner
	src, scope, timeout, parent := c.source, c.scope, c.timeout, c.baseCtx
	logger := c.logger
	return func() tea.Msg {
		counts, errs := LoadCounts(parent, src, scope, timeout)
		msg := countersLoadedMsg{owner: owner, generation: gen, counts: counts}
		for _, tab := range domain.AllTabs() {
			if err, ok := errs[tab]; ok {
				logger.Warn("counter fetch failed", "tab", tab, "error", err)
				msg.failed = append(msg.failed, tab)
			}
		}
		return msg
	}
}

func (c *Controller) handleCounters(msg countersLoadedMsg) {
	if msg.owner != c.owner || !c.mounted || msg.generation != c.counterGen {
		return
	}
	c.counts = msg.counts
}
