package priority

import (
	"sort"
	"strconv"
	"time"
)

// Strategy names.
const (
	StrategyHighSignificanceFocus = "high-significance-focus"
	StrategyBalancedSampling      = "balanced-sampling"
	StrategySignificanceWeighted  = "significance-weighted"
)

// QueueStrategy selects which queued items to review under a capacity
// constraint. Implementations must preserve rank order in their output.
type QueueStrategy interface {
	// Name returns the strategy's stable identifier.
	Name() string

	// Select returns at most capacity items from the ranked queue.
	Select(items []PrioritizedMemory, capacity int) []PrioritizedMemory

	// Parameters describes the strategy's effective parameters for the
	// strategy report.
	Parameters(capacity int) map[string]string
}

// chooseStrategy picks a strategy from the queue shape and capacity.
//
// When everything fits, the significance-weighted default applies. Under
// pressure, a queue with a meaningful high-significance share (or severe
// time shortage) gets high-significance-focus; a diverse low-skew queue
// gets balanced-sampling for representativeness.
func chooseStrategy(queue PrioritizedList, capacity int) QueueStrategy {
	n := len(queue.Items)
	if capacity >= n {
		return significanceWeighted{}
	}

	highShare := 0.0
	if n > 0 {
		highShare = float64(queue.Distribution.High) / float64(n)
	}
	if capacity*2 < n || highShare >= 0.4 {
		return highSignificanceFocus{}
	}
	if isDiverse(queue.Items) {
		return balancedSampling{}
	}
	return significanceWeighted{}
}

// isDiverse reports whether the queue spans enough participants and time to
// make representative sampling worthwhile.
func isDiverse(items []PrioritizedMemory) bool {
	distinct := make(map[string]bool)
	for _, item := range items {
		for _, p := range participants(item) {
			distinct[p] = true
		}
	}
	return len(distinct) >= 4 && temporalSpan(items) >= 14*24*time.Hour
}

// highSignificanceFocus processes the highest-significance items first,
// truncating the lowest-significance items when time is insufficient.
type highSignificanceFocus struct{}

func (highSignificanceFocus) Name() string { return StrategyHighSignificanceFocus }

func (highSignificanceFocus) Select(items []PrioritizedMemory, capacity int) []PrioritizedMemory {
	if capacity >= len(items) {
		return append([]PrioritizedMemory(nil), items...)
	}
	return append([]PrioritizedMemory(nil), items[:capacity]...)
}

func (highSignificanceFocus) Parameters(capacity int) map[string]string {
	return map[string]string{
		"truncation": "lowest-significance-first",
		"capacity":   strconv.Itoa(capacity),
	}
}

// balancedSampling spreads selection across significance tiers to keep the
// reviewed subset representative of the whole queue.
type balancedSampling struct{}

func (balancedSampling) Name() string { return StrategyBalancedSampling }

func (balancedSampling) Select(items []PrioritizedMemory, capacity int) []PrioritizedMemory {
	if capacity >= len(items) {
		return append([]PrioritizedMemory(nil), items...)
	}

	tiers := [][]PrioritizedMemory{nil, nil, nil}
	for _, item := range items {
		switch bucket(item.Significance.Overall) {
		case "high":
			tiers[0] = append(tiers[0], item)
		case "medium":
			tiers[1] = append(tiers[1], item)
		default:
			tiers[2] = append(tiers[2], item)
		}
	}

	// Round-robin across tiers until capacity is reached. Within each tier
	// items are consumed evenly spread across its span so time periods and
	// participants are not clustered at the top.
	for i := range tiers {
		tiers[i] = spread(tiers[i])
	}

	selected := make([]PrioritizedMemory, 0, capacity)
	idx := [3]int{}
	for len(selected) < capacity {
		progressed := false
		for t := 0; t < 3 && len(selected) < capacity; t++ {
			if idx[t] < len(tiers[t]) {
				selected = append(selected, tiers[t][idx[t]])
				idx[t]++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	sortByRank(selected)
	return selected
}

func (balancedSampling) Parameters(capacity int) map[string]string {
	return map[string]string{
		"tiers":    "high,medium,low",
		"capacity": strconv.Itoa(capacity),
	}
}

// significanceWeighted is the default: selection proportional to each
// tier's share of total significance.
type significanceWeighted struct{}

func (significanceWeighted) Name() string { return StrategySignificanceWeighted }

func (significanceWeighted) Select(items []PrioritizedMemory, capacity int) []PrioritizedMemory {
	if capacity >= len(items) {
		return append([]PrioritizedMemory(nil), items...)
	}

	total := 0.0
	for _, item := range items {
		total += item.Significance.Overall
	}
	if total == 0 {
		return append([]PrioritizedMemory(nil), items[:capacity]...)
	}

	// Quota per tier proportional to the tier's share of total
	// significance; each tier contributes its top-ranked items.
	tierItems := map[string][]PrioritizedMemory{}
	tierSig := map[string]float64{}
	for _, item := range items {
		b := bucket(item.Significance.Overall)
		tierItems[b] = append(tierItems[b], item)
		tierSig[b] += item.Significance.Overall
	}

	selected := make([]PrioritizedMemory, 0, capacity)
	for _, tier := range []string{"high", "medium", "low"} {
		quota := int(float64(capacity) * tierSig[tier] / total)
		if quota > len(tierItems[tier]) {
			quota = len(tierItems[tier])
		}
		selected = append(selected, tierItems[tier][:quota]...)
	}

	// Fill remaining capacity from global rank order.
	if len(selected) < capacity {
		chosen := make(map[int]bool, len(selected))
		for _, item := range selected {
			chosen[item.PriorityRank] = true
		}
		for _, item := range items {
			if len(selected) == capacity {
				break
			}
			if !chosen[item.PriorityRank] {
				selected = append(selected, item)
			}
		}
	}

	sortByRank(selected)
	return selected
}

func (significanceWeighted) Parameters(capacity int) map[string]string {
	return map[string]string{
		"selection": "proportional-by-significance",
		"capacity":  strconv.Itoa(capacity),
	}
}

// spread reorders a tier so consumption alternates between its start,
// middle, and end.
func spread(items []PrioritizedMemory) []PrioritizedMemory {
	n := len(items)
	if n <= 2 {
		return items
	}
	out := make([]PrioritizedMemory, 0, n)
	lo, hi := 0, n-1
	for lo <= hi {
		out = append(out, items[lo])
		if lo != hi {
			out = append(out, items[hi])
		}
		lo++
		hi--
	}
	return out
}

func sortByRank(items []PrioritizedMemory) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].PriorityRank < items[j].PriorityRank
	})
}

// Compile-time checks that all strategies satisfy the interface.
var (
	_ QueueStrategy = highSignificanceFocus{}
	_ QueueStrategy = balancedSampling{}
	_ QueueStrategy = significanceWeighted{}
)
