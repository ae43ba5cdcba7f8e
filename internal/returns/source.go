package returns

// SourceKind 지표 계산에 사용된 수익률 시리즈 종류
type SourceKind string

const (
	SourceNone        SourceKind = "none"
	SourceDailyEquity SourceKind = "daily_equity"
	SourceTradeLevel  SourceKind = "trade_level"
)

// Source is a return series together with its time base.
// Path metrics (Sharpe, Sortino, VaR, CVaR, Omega, Gain-to-Pain, Kappa-3, tail ratio)
// read from a Source so the substitution rule stays explicit.
type Source struct {
	Kind    SourceKind `json:"kind"`
	Returns []float64  `json:"-"`
}

// DailyEquity wraps daily equity returns
func DailyEquity(r []float64) Source {
	return Source{Kind: SourceDailyEquity, Returns: r}
}

// TradeLevel wraps per-trade returns
func TradeLevel(r []float64) Source {
	return Source{Kind: SourceTradeLevel, Returns: r}
}

// SelectSource 수익률 시리즈 선택
// ⭐ SSOT: 일별 자산 수익률 우선, 없을 때만 거래별 수익률로 대체
func SelectSource(daily, trade []float64) Source {
	if len(daily) > 0 {
		return DailyEquity(daily)
	}
	if len(trade) > 0 {
		return TradeLevel(trade)
	}
	return Source{Kind: SourceNone}
}

// Empty reports whether the source carries no returns
func (s Source) Empty() bool {
	return len(s.Returns) == 0
}

// Label KPI reason 문구에 쓰는 짧은 설명
func (s Source) Label() string {
	switch s.Kind {
	case SourceDailyEquity:
		return "daily equity returns"
	case SourceTradeLevel:
		return "trade returns"
	default:
		return "no returns"
	}
}
