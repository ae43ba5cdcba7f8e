package equity

import (
	"math"
	"sort"
	"time"

	"github.com/wonny/tradejournal/internal/contracts"
)

const daysPerYear = 365.0 // CAGR는 달력일 기준

// =============================================================================
// Ordering
// ⭐ SSOT: 자산곡선 정렬은 Sort()에서만
// =============================================================================

// Sort 시간순 정렬된 복사본 반환
// NaN/Inf 자산값은 제외, 같은 시각은 입력 순서 유지 (stable)
func Sort(points []contracts.EquityPoint) []contracts.EquityPoint {
	out := make([]contracts.EquityPoint, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.EquityValue) || math.IsInf(p.EquityValue, 0) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// IsSorted reports whether points are in non-decreasing time order
func IsSorted(points []contracts.EquityPoint) bool {
	for i := 1; i < len(points); i++ {
		if points[i].Time.Before(points[i-1].Time) {
			return false
		}
	}
	return true
}

// sorted 이미 정렬되어 있으면 복사 없이 그대로 사용
func sorted(points []contracts.EquityPoint) []contracts.EquityPoint {
	if IsSorted(points) {
		return points
	}
	return Sort(points)
}

// =============================================================================
// Return scalars
// =============================================================================

// TotalReturn 총 수익률 = last/first - 1 (fraction)
// 시작 자산이 0 이하이면 계산 불가
func TotalReturn(points []contracts.EquityPoint) (float64, bool) {
	pts := sorted(points)
	if len(pts) < 2 {
		return 0, false
	}
	first, last := pts[0].EquityValue, pts[len(pts)-1].EquityValue
	if first <= 0 {
		return 0, false
	}
	return last/first - 1, true
}

// CAGR 연복리 수익률 = (last/first)^(1/years) - 1
// years = 달력일 / 365, 최소 1일 (같은 날 곡선 0 나눗셈 방지)
func CAGR(points []contracts.EquityPoint) (float64, bool) {
	pts := sorted(points)
	if len(pts) < 2 {
		return 0, false
	}
	first, last := pts[0].EquityValue, pts[len(pts)-1].EquityValue
	if first <= 0 || last < 0 {
		return 0, false
	}

	// 기간 (년)
	years := daysBetween(pts[0].Time, pts[len(pts)-1].Time) / daysPerYear
	if years < 1/daysPerYear {
		years = 1 / daysPerYear
	}

	return math.Pow(last/first, 1/years) - 1, true
}

// =============================================================================
// Drawdowns
// =============================================================================

// Drawdown is one peak → trough → recovery episode.
// An episode still open at the last point has Recovered=false and RecoveryDays=0;
// its DurationDays is measured up to the last observation.
type Drawdown struct {
	PeakTime     time.Time  `json:"peak_time"`
	TroughTime   time.Time  `json:"trough_time"`
	RecoveryTime *time.Time `json:"recovery_time,omitempty"`
	PeakValue    float64    `json:"peak_value"`
	TroughValue  float64    `json:"trough_value"`
	Pct          float64    `json:"pct"` // fraction, 0.10 = 10%
	DurationDays float64    `json:"duration_days"`
	RecoveryDays float64    `json:"recovery_days"`
	Recovered    bool       `json:"recovered"`
}

type sweepState int

const (
	atPeak sweepState = iota
	inDrawdown
)

// DrawdownSeries 곡선을 한 번 순회하며 모든 낙폭 구간 추출
// 상태: atPeak → (하락) → inDrawdown → (고점 회복) → atPeak
func DrawdownSeries(points []contracts.EquityPoint) []Drawdown {
	pts := sorted(points)
	if len(pts) < 2 {
		return nil
	}

	var out []Drawdown
	state := atPeak
	peak, peakTime := pts[0].EquityValue, pts[0].Time
	var trough float64
	var troughTime time.Time

	for _, p := range pts[1:] {
		switch state {
		case atPeak:
			// 신고점 갱신
			if p.EquityValue >= peak {
				peak, peakTime = p.EquityValue, p.Time
				continue
			}
			state = inDrawdown
			trough, troughTime = p.EquityValue, p.Time

		case inDrawdown:
			// 저점 갱신
			if p.EquityValue < trough {
				trough, troughTime = p.EquityValue, p.Time
			}
			// 이전 고점 회복 → 구간 종료
			if p.EquityValue >= peak {
				recovery := p.Time
				out = append(out, Drawdown{
					PeakTime:     peakTime,
					TroughTime:   troughTime,
					RecoveryTime: &recovery,
					PeakValue:    peak,
					TroughValue:  trough,
					Pct:          drawdownPct(peak, trough),
					DurationDays: daysBetween(peakTime, recovery),
					RecoveryDays: daysBetween(troughTime, recovery),
					Recovered:    true,
				})
				state = atPeak
				peak, peakTime = p.EquityValue, p.Time
			}
		}
	}

	// 마지막까지 회복 못한 구간
	if state == inDrawdown {
		last := pts[len(pts)-1].Time
		out = append(out, Drawdown{
			PeakTime:     peakTime,
			TroughTime:   troughTime,
			PeakValue:    peak,
			TroughValue:  trough,
			Pct:          drawdownPct(peak, trough),
			DurationDays: daysBetween(peakTime, last),
			RecoveryDays: 0,
			Recovered:    false,
		})
	}

	return out
}

// MaxDrawdown 최대 낙폭 (running peak 기준 단일 순회)
// pct: fraction (0.10 = 10%), abs: 통화 단위
func MaxDrawdown(points []contracts.EquityPoint) (pct float64, abs float64, ok bool) {
	pts := sorted(points)
	if len(pts) < 2 {
		return 0, 0, false
	}

	peak := pts[0].EquityValue
	for _, p := range pts {
		if p.EquityValue > peak {
			peak = p.EquityValue
		}
		if d := drawdownPct(peak, p.EquityValue); d > pct {
			pct = d
		}
		if a := peak - p.EquityValue; a > abs {
			abs = a
		}
	}
	return pct, abs, true
}

// UlcerIndex = sqrt(mean(drawdown%²))
// 모든 포인트의 낙폭(%)을 사용, 고점 포인트는 0
func UlcerIndex(points []contracts.EquityPoint) (float64, bool) {
	pts := sorted(points)
	if len(pts) < 2 {
		return 0, false
	}

	peak := pts[0].EquityValue
	var sumSq float64
	for _, p := range pts {
		if p.EquityValue > peak {
			peak = p.EquityValue
		}
		dd := drawdownPct(peak, p.EquityValue) * 100 // percent 단위
		sumSq += dd * dd
	}
	return math.Sqrt(sumSq / float64(len(pts))), true
}

// =============================================================================
// Lookup
// =============================================================================

// ValueAt t 시점 이전(포함) 마지막 자산값
// points는 정렬 상태여야 함, t가 첫 포인트보다 앞이면 ok=false
func ValueAt(points []contracts.EquityPoint, t time.Time) (float64, bool) {
	idx := sort.Search(len(points), func(i int) bool {
		return points[i].Time.After(t)
	})
	if idx == 0 {
		return 0, false
	}
	return points[idx-1].EquityValue, true
}

// drawdownPct 고점 대비 하락률 (fraction, 하락 없으면 0)
func drawdownPct(peak, value float64) float64 {
	if peak <= 0 || value >= peak {
		return 0
	}
	return (peak - value) / peak
}

// daysBetween 두 시각 사이 일수 (소수 포함)
func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}
