package kpi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/tradejournal/internal/contracts"
)

// ErrUnknownGroupField is returned by GroupByField for unsupported field names
var ErrUnknownGroupField = errors.New("unknown group field")

// ComputeAll evaluates every KPI in catalog order.
// Always returns Count results; KPIs that cannot be computed carry a nil Value and a Reason.
func ComputeAll(trades []contracts.Trade, curve []contracts.EquityPoint, bench []contracts.BenchmarkPoint, cfg ComputeConfig) []KPIResult {
	return evaluate(NewInputs(trades, curve, bench, cfg))
}

// Compute evaluates a subset of KPIs, preserving the order of ids
func Compute(ids []KPIId, trades []contracts.Trade, curve []contracts.EquityPoint, bench []contracts.BenchmarkPoint, cfg ComputeConfig) ([]KPIResult, error) {
	for _, id := range ids {
		if !id.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownKPI, int(id))
		}
	}
	in := NewInputs(trades, curve, bench, cfg)
	out := make([]KPIResult, 0, len(ids))
	for _, id := range ids {
		out = append(out, evaluateOne(id, in))
	}
	return out, nil
}

func evaluate(in *Inputs) []KPIResult {
	out := make([]KPIResult, kpiCount)
	for i := range out {
		out[i] = evaluateOne(KPIId(i), in)
	}
	return out
}

func evaluateOne(id KPIId, in *Inputs) KPIResult {
	o := computers[id](in)
	res := KPIResult{KPIDefinition: definitionCopy(id), Value: o.value}
	if o.value == nil {
		res.Reason = o.reason
		if res.Reason == "" {
			res.Reason = "insufficient data"
		}
	}
	return res
}

// =============================================================================
// Grouping
// =============================================================================

// GroupKeyFunc maps a trade to its partition key
type GroupKeyFunc func(contracts.Trade) string

// UnassignedGroup collects trades whose key is empty
const UnassignedGroup = "(none)"

var groupFields = map[string]GroupKeyFunc{
	"symbol":      func(t contracts.Trade) string { return t.Symbol },
	"asset_class": func(t contracts.Trade) string { return t.AssetClass },
	"side":        func(t contracts.Trade) string { return string(t.Side) },
	"setup_tag":   func(t contracts.Trade) string { return t.SetupTag },
	"venue":       func(t contracts.Trade) string { return t.Venue },
	"order_type":  func(t contracts.Trade) string { return t.OrderType },
}

// GroupFields lists the field names accepted by GroupByField
func GroupFields() []string {
	out := make([]string, 0, len(groupFields))
	for name := range groupFields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GroupByField returns the key function for a trade field name
func GroupByField(name string) (GroupKeyFunc, error) {
	fn, ok := groupFields[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownGroupField, name, strings.Join(GroupFields(), ", "))
	}
	return fn, nil
}

// Partition splits trades by key, keeping input order inside each partition
func Partition(trades []contracts.Trade, key GroupKeyFunc) map[string][]contracts.Trade {
	parts := make(map[string][]contracts.Trade)
	for _, t := range trades {
		k := key(t)
		if k == "" {
			k = UnassignedGroup
		}
		parts[k] = append(parts[k], t)
	}
	return parts
}

// ComputeByGroup recomputes the full KPI set for every partition independently.
// The equity curve and benchmark are shared read-only by all partitions.
func ComputeByGroup(trades []contracts.Trade, key GroupKeyFunc, curve []contracts.EquityPoint, bench []contracts.BenchmarkPoint, cfg ComputeConfig) map[string][]KPIResult {
	cfg = cfg.Normalize()
	parts := Partition(trades, key)

	var (
		mu  sync.Mutex
		out = make(map[string][]KPIResult, len(parts))
		g   errgroup.Group
	)
	g.SetLimit(cfg.Workers)

	for k, group := range parts {
		g.Go(func() error {
			results := ComputeAll(group, curve, bench, cfg)
			mu.Lock()
			out[k] = results
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // partitions never fail

	return out
}
