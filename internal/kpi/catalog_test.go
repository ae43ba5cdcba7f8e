package kpi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/contracts"
)

func TestCatalogComplete(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, Count)
	assert.Equal(t, 60, Count)

	seen := make(map[string]bool)
	categoryIndex := make(map[Category]int)
	for i, c := range Categories() {
		categoryIndex[c] = i
	}

	last := 0
	for i, d := range defs {
		id := KPIId(i)
		assert.Equal(t, id, d.ID)
		assert.NotNil(t, computers[id], "compute function for %s", id)

		slug := id.String()
		assert.NotEmpty(t, slug)
		assert.False(t, seen[slug], "duplicate slug %s", slug)
		seen[slug] = true

		assert.NotEmpty(t, d.Name, slug)
		assert.NotEmpty(t, d.Formula, slug)
		assert.NotEmpty(t, d.EdgeCases, slug)
		assert.NotEmpty(t, d.Example, slug)
		assert.NotEmpty(t, d.RequiredInputs, slug)
		assert.NotEmpty(t, d.Unit, slug)
		assert.Contains(t, []Direction{HigherIsBetter, LowerIsBetter}, d.Direction, slug)

		idx, ok := categoryIndex[d.Category]
		require.True(t, ok, "unknown category %q for %s", d.Category, slug)
		assert.GreaterOrEqual(t, idx, last, "%s breaks category order", slug)
		last = idx
	}
}

func TestCategorySizes(t *testing.T) {
	counts := make(map[Category]int)
	for _, d := range Definitions() {
		counts[d.Category]++
	}

	assert.Equal(t, map[Category]int{
		CategoryProfitabilityEdge: 16,
		CategoryRiskDrawdown:      9,
		CategoryRiskAdjusted:      13,
		CategoryDistribution:      9,
		CategoryExecution:         8,
		CategoryExposure:          5,
	}, counts)
}

func TestDefinition(t *testing.T) {
	d, err := Definition(SharpeRatio)
	require.NoError(t, err)
	assert.Equal(t, "sharpe_ratio", d.ID.String())
	assert.Equal(t, CategoryRiskAdjusted, d.Category)

	_, err = Definition(KPIId(-1))
	assert.ErrorIs(t, err, ErrUnknownKPI)
}

func TestDefinitions_ReturnsCopy(t *testing.T) {
	defs := Definitions()
	defs[0].Name = "changed"
	assert.NotEqual(t, "changed", Definitions()[0].Name)
}

func TestCatalog_ReadOnlyThroughCallers(t *testing.T) {
	want, err := Definition(GrossProfit)
	require.NoError(t, err)
	original := append([]Input(nil), want.RequiredInputs...)

	// NetPnL and GrossProfit declare the same inputs
	results := ComputeAll([]contracts.Trade{realized("AAPL", 10)}, nil, nil, DefaultComputeConfig())
	require.NotEmpty(t, results[NetPnL].RequiredInputs)
	results[NetPnL].RequiredInputs[0] = "tampered"

	defs := Definitions()
	defs[GrossProfit].RequiredInputs[0] = "tampered"

	single, err := Definition(NetPnL)
	require.NoError(t, err)
	single.RequiredInputs[0] = "tampered"

	got, err := Definition(GrossProfit)
	require.NoError(t, err)
	assert.Equal(t, original, got.RequiredInputs)

	again := ComputeAll([]contracts.Trade{realized("AAPL", 10)}, nil, nil, DefaultComputeConfig())
	assert.NotContains(t, again[NetPnL].RequiredInputs, Input("tampered"))
	assert.NotContains(t, again[GrossProfit].RequiredInputs, Input("tampered"))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		slug    string
		want    KPIId
		wantErr bool
	}{
		{"net_pnl", NetPnL, false},
		{"sqn_system_quality_number", SQN, false},
		{"avg_mfe", AvgMFE, false},
		{"kappa_3_ratio", Kappa3Ratio, false},
		{"sharpe", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got, err := ParseID(tt.slug)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownKPI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKPIResult_JSON(t *testing.T) {
	results := ComputeAll([]contracts.Trade{realized("AAPL", 100), realized("AAPL", -50)}, nil, nil, DefaultComputeConfig())

	data, err := json.Marshal(get(t, results, ProfitFactor))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "profit_factor", decoded["id"])
	assert.Equal(t, 2.0, decoded["value"])
	assert.NotContains(t, decoded, "reason")

	data, err = json.Marshal(get(t, results, CAGR))
	require.NoError(t, err)
	decoded = nil
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "value")
	assert.Nil(t, decoded["value"])
	assert.NotEmpty(t, decoded["reason"])

	var id KPIId
	require.NoError(t, json.Unmarshal([]byte(`"beta"`), &id))
	assert.Equal(t, Beta, id)
}
