package models

// SignalName identifies one of the seven engine signals. The declaration
// order below is the classifier's fixed priority order; do not reorder.
type SignalName string

const (
	SignalVixStress              SignalName = "vix_stress"
	SignalHarvestPace            SignalName = "harvest_pace"
	SignalChinaRelations         SignalName = "china_relations"
	SignalTariffThreat           SignalName = "tariff_threat"
	SignalGeopoliticalVolatility SignalName = "geopolitical_volatility"
	SignalBiofuelCascade         SignalName = "biofuel_cascade"
	SignalHiddenCorrelation      SignalName = "hidden_correlation"
)

// AllSignals returns the signal names in classifier priority order.
func AllSignals() []SignalName {
	return []SignalName{
		SignalVixStress,
		SignalHarvestPace,
		SignalChinaRelations,
		SignalTariffThreat,
		SignalGeopoliticalVolatility,
		SignalBiofuelCascade,
		SignalHiddenCorrelation,
	}
}

// Tier is the weight class of a signal (1 = primary).
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// Signal is one bounded score plus its crisis flag, produced once per
// evaluation cycle. Breakdown carries named sub-components for observability
// only; nothing downstream reads it.
type Signal struct {
	Name       SignalName
	Score      float64
	CrisisFlag bool
	Degraded   bool
	Breakdown  map[string]float64
}

// SignalSet holds the seven signals of one evaluation keyed by name.
type SignalSet map[SignalName]Signal

// Regime is the discrete market condition label produced by the classifier.
type Regime string

const (
	RegimeVolatilityShock      Regime = "VOLATILITY_SHOCK"
	RegimeHarvestFailure       Regime = "HARVEST_FAILURE"
	RegimeTradeRelationsCrisis Regime = "TRADE_RELATIONS_CRISIS"
	RegimeTariffEscalation     Regime = "TARIFF_ESCALATION"
	RegimeGeopoliticalShock    Regime = "GEOPOLITICAL_SHOCK"
	RegimeBiofuelDisruption    Regime = "BIOFUEL_DISRUPTION"
	RegimeCorrelationBreakdown Regime = "CORRELATION_BREAKDOWN"
	RegimeTradeWarStress       Regime = "TRADE_WAR_STRESS"
	RegimeSupplyStress         Regime = "SUPPLY_STRESS"
	RegimeMacroStress          Regime = "MACRO_STRESS"
	RegimePolicyStress         Regime = "POLICY_STRESS"
	RegimeCalmFundamentals     Regime = "CALM_FUNDAMENTALS"
	RegimeMixedSignals         Regime = "MIXED_SIGNALS"
)

// AllRegimes returns every regime label the classifier can produce.
func AllRegimes() []Regime {
	return []Regime{
		RegimeVolatilityShock,
		RegimeHarvestFailure,
		RegimeTradeRelationsCrisis,
		RegimeTariffEscalation,
		RegimeGeopoliticalShock,
		RegimeBiofuelDisruption,
		RegimeCorrelationBreakdown,
		RegimeTradeWarStress,
		RegimeSupplyStress,
		RegimeMacroStress,
		RegimePolicyStress,
		RegimeCalmFundamentals,
		RegimeMixedSignals,
	}
}

// Horizon labels the five forecast horizons.
type Horizon string

const (
	Horizon1Week   Horizon = "1_week"
	Horizon1Month  Horizon = "1_month"
	Horizon3Month  Horizon = "3_month"
	Horizon6Month  Horizon = "6_month"
	Horizon12Month Horizon = "12_month"
)

// AllHorizons returns horizon labels from shortest to longest.
func AllHorizons() []Horizon {
	return []Horizon{Horizon1Week, Horizon1Month, Horizon3Month, Horizon6Month, Horizon12Month}
}

// Recommendation is the discrete trading action label.
type Recommendation string

const (
	RecommendStrongBuy Recommendation = "STRONG BUY"
	RecommendBuy       Recommendation = "BUY"
	RecommendHold      Recommendation = "HOLD"
	RecommendWeakSell  Recommendation = "WEAK SELL"
	RecommendSell      Recommendation = "SELL"
)
