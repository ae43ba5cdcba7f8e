package returns

import (
	"math"
	"sort"
	"time"

	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/internal/equity"
)

// DateLayout is the calendar-day key used to align benchmark observations
const DateLayout = "2006-01-02"

// =============================================================================
// Trade-level returns
// =============================================================================

// TradeReturns 거래별 수익률 (fraction)
// r_i = pnl / |entry_price × quantity × multiplier|
// 명목금액이 0 이하이거나 결과가 NaN/Inf인 거래는 제외
func TradeReturns(trades []contracts.Trade, lookup contracts.MultiplierLookup) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		mult := contracts.MultiplierOf(lookup, t.Symbol)
		notional := t.Notional(mult)
		if notional <= 0 {
			continue // 가격 정보 없음
		}
		r := t.PnL(mult) / notional
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// =============================================================================
// Daily equity returns
// =============================================================================

// Observation is one dated return
type Observation struct {
	Time   time.Time `json:"time"`
	Return float64   `json:"return"`
}

// DailyReturns 자산곡선의 연속 변화율 (fraction)
// 곡선은 시간순 정렬 후 사용, 관측값의 시각은 뒤쪽 포인트 기준
func DailyReturns(points []contracts.EquityPoint) []Observation {
	pts := equity.Sort(points)
	if len(pts) < 2 {
		return nil
	}

	out := make([]Observation, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		prev := pts[i-1].EquityValue
		if prev == 0 {
			continue // 0으로 나눌 수 없음
		}
		r := pts[i].EquityValue/prev - 1
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		out = append(out, Observation{Time: pts[i].Time, Return: r})
	}
	return out
}

// Values strips timestamps from observations
func Values(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Return
	}
	return out
}

// =============================================================================
// Benchmark alignment
// =============================================================================

// Pair is a date-matched portfolio/benchmark return
type Pair struct {
	Date      string  `json:"date"`
	Portfolio float64 `json:"portfolio"`
	Benchmark float64 `json:"benchmark"`
}

// AlignBenchmark 일별 수익률과 벤치마크를 UTC 달력일 기준으로 매칭
// 벤치마크는 시간순으로 (안정) 정렬한 복사본을 사용
// - benchmark_return이 있으면 그대로 사용
// - 없으면 직전 시점의 benchmark_price 대비 변화율
// - 같은 날짜가 여러 개면 가장 이른 관측값 사용
// 매칭되지 않는 날짜는 양쪽 모두에서 제외
func AlignBenchmark(daily []Observation, bench []contracts.BenchmarkPoint) []Pair {
	if len(daily) == 0 || len(bench) == 0 {
		return nil
	}

	ordered := SortBenchmark(bench)

	byDate := make(map[string]float64, len(ordered))
	for i, b := range ordered {
		r, ok := benchmarkReturn(ordered, i)
		if !ok {
			continue
		}
		key := dateKey(b.Time)
		if _, exists := byDate[key]; exists {
			continue // 첫 관측값 우선
		}
		byDate[key] = r
	}

	out := make([]Pair, 0, len(daily))
	for _, d := range daily {
		key := dateKey(d.Time)
		b, ok := byDate[key]
		if !ok {
			continue
		}
		out = append(out, Pair{Date: key, Portfolio: d.Return, Benchmark: b})
	}
	return out
}

// SortBenchmark returns a chronologically sorted copy of bench.
// Equal timestamps keep input order; the input slice is not modified.
func SortBenchmark(bench []contracts.BenchmarkPoint) []contracts.BenchmarkPoint {
	out := make([]contracts.BenchmarkPoint, len(bench))
	copy(out, bench)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// Split returns the portfolio and benchmark sides of aligned pairs
func Split(pairs []Pair) (portfolio, benchmark []float64) {
	portfolio = make([]float64, len(pairs))
	benchmark = make([]float64, len(pairs))
	for i, p := range pairs {
		portfolio[i] = p.Portfolio
		benchmark[i] = p.Benchmark
	}
	return portfolio, benchmark
}

// benchmarkReturn i번째 벤치마크 수익률 (bench는 시간순 정렬 상태여야 함)
func benchmarkReturn(bench []contracts.BenchmarkPoint, i int) (float64, bool) {
	b := bench[i]
	if b.BenchmarkReturn != nil {
		r := *b.BenchmarkReturn
		return r, !math.IsNaN(r) && !math.IsInf(r, 0)
	}

	// 가격 기반: 직전 가격 필요
	if i == 0 || b.BenchmarkPrice == nil || bench[i-1].BenchmarkPrice == nil {
		return 0, false
	}
	prev := *bench[i-1].BenchmarkPrice
	if prev == 0 {
		return 0, false
	}
	r := *b.BenchmarkPrice/prev - 1
	return r, !math.IsNaN(r) && !math.IsInf(r, 0)
}

func dateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
