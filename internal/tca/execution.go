package tca

import (
	"math"
	"time"

	"github.com/wonny/tradejournal/internal/contracts"
)

const bpsPerUnit = 10000.0 // 1.0 = 10,000 bps

// =============================================================================
// Execution price / quantity
// =============================================================================

// Reference selects the benchmark price that slippage is measured against
type Reference int

const (
	RefArrival  Reference = iota // arrival (decision-time) price
	RefVWAP                      // interval VWAP
	RefTWAP                      // interval TWAP
	RefIntended                  // intended limit price (implementation shortfall)
)

// ExecutionPrice 체결 가격의 수량 가중 평균 (VWAP of fills)
// fills가 없으면 entry_price 사용
func ExecutionPrice(t contracts.Trade) float64 {
	var notional, qty float64
	for _, f := range t.Fills {
		if f.Qty <= 0 || f.Price <= 0 {
			continue // 잘못된 체결 무시
		}
		notional += f.Price * f.Qty
		qty += f.Qty
	}
	if qty == 0 {
		return t.EntryPrice
	}
	return notional / qty
}

// FilledQty 체결 수량 합계
// fills가 없으면 |quantity|를 전량 체결로 간주
func FilledQty(t contracts.Trade) float64 {
	var qty float64
	for _, f := range t.Fills {
		if f.Qty > 0 {
			qty += f.Qty
		}
	}
	if qty == 0 {
		return math.Abs(t.Quantity)
	}
	return qty
}

// =============================================================================
// Slippage
// =============================================================================

// Slippage 기준가 대비 거래별 슬리피지 (bps)
// slippage = direction × (exec - ref) / ref × 10,000
// 양수 = 비용 (숏은 direction = -1)
// 기준가가 없는 거래는 제외
func Slippage(trades []contracts.Trade, ref Reference) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		refPrice := referencePrice(t, ref)
		if refPrice == nil || *refPrice <= 0 {
			continue
		}
		exec := ExecutionPrice(t)
		if exec <= 0 {
			continue
		}
		// 롱: 비싸게 사면 비용, 숏: 싸게 팔면 비용
		bps := t.Direction() * (exec - *refPrice) / *refPrice * bpsPerUnit
		if math.IsNaN(bps) || math.IsInf(bps, 0) {
			continue
		}
		out = append(out, bps)
	}
	return out
}

// =============================================================================
// Fill quality / costs
// =============================================================================

// FillRates 체결률 (%) = filled / |intended| × 100
// intended_qty가 없는 거래는 평균에서 제외 (100%로 간주하지 않음)
func FillRates(trades []contracts.Trade) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t.IntendedQty == nil || *t.IntendedQty == 0 {
			continue
		}
		out = append(out, FilledQty(t)/math.Abs(*t.IntendedQty)*100)
	}
	return out
}

// Latencies 시그널 → 첫 체결까지 지연 (ms)
// fills에 시각이 없으면 entry_time 기준
func Latencies(trades []contracts.Trade) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t.SignalTime == nil || t.SignalTime.IsZero() {
			continue
		}
		exec := firstFillTime(t)
		if exec.IsZero() {
			continue
		}
		out = append(out, float64(exec.Sub(*t.SignalTime).Milliseconds()))
	}
	return out
}

// Commissions 거래별 수수료 (누락 = 0)
func Commissions(trades []contracts.Trade) []float64 {
	out := make([]float64, len(trades))
	for i, t := range trades {
		out[i] = t.FeesCommissions
	}
	return out
}

// Spreads 호가 스프레드 (bps), 기록된 거래만
func Spreads(trades []contracts.Trade) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t.SpreadBps == nil {
			continue
		}
		out = append(out, *t.SpreadBps)
	}
	return out
}

// firstFillTime 가장 이른 체결 시각 (없으면 entry_time)
func firstFillTime(t contracts.Trade) time.Time {
	var first time.Time
	for _, f := range t.Fills {
		if f.Time.IsZero() {
			continue
		}
		if first.IsZero() || f.Time.Before(first) {
			first = f.Time
		}
	}
	if first.IsZero() {
		return t.EntryTime
	}
	return first
}

// referencePrice 기준가 선택 (nil = 해당 가격 없음)
func referencePrice(t contracts.Trade, ref Reference) *float64 {
	switch ref {
	case RefArrival:
		return t.ArrivalPrice
	case RefVWAP:
		return t.VWAP
	case RefTWAP:
		return t.TWAP
	case RefIntended:
		return t.IntendedPrice
	default:
		return nil
	}
}
