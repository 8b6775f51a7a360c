package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
	applogger "AgriPulse/pkg/logger"
)

// Options names the series and symbols the signal queries run against.
type Options struct {
	Commodity        string // forecast symbol, e.g. "ZS"
	VolIndexSeries   string // volatility index series name
	PriceSeries      string // daily close series for the commodity
	CrossAssetSeries string // cross asset for the hidden correlation
	CorrelationDays  int
}

func (o *Options) applyDefaults() {
	if o.Commodity == "" {
		o.Commodity = "ZS"
	}
	if o.VolIndexSeries == "" {
		o.VolIndexSeries = "soy_vol_index"
	}
	if o.PriceSeries == "" {
		o.PriceSeries = o.Commodity
	}
	if o.CrossAssetSeries == "" {
		o.CrossAssetSeries = "CL"
	}
	if o.CorrelationDays <= 0 {
		o.CorrelationDays = 30
	}
}

// Evaluator runs one full evaluation cycle: seven signals, composite score,
// crisis intensity, regime, horizon forecast and recommendation. It holds no
// state across cycles; the repository is injected, never ambient.
type Evaluator struct {
	repo domrepo.MetricsRepository
	cal  Calibration
	opts Options
	l    *applogger.Logger
}

func NewEvaluator(repo domrepo.MetricsRepository, cal Calibration, opts Options, l *applogger.Logger) *Evaluator {
	opts.applyDefaults()
	return &Evaluator{repo: repo, cal: cal, opts: opts, l: l}
}

func (e *Evaluator) degradedSignal(name models.SignalName, reason string) models.Signal {
	sc := e.cal.Signals[name]
	if e.l != nil {
		e.l.Warn("signal degraded, using neutral default",
			applogger.String("signal", string(name)),
			applogger.String("reason", reason),
		)
	}
	return models.Signal{
		Name:       name,
		Score:      sc.NeutralDefault,
		CrisisFlag: sc.InCrisis(sc.NeutralDefault),
		Degraded:   true,
		Breakdown:  map[string]float64{"degraded": 1},
	}
}

type signalFn func(context.Context, domrepo.MetricsRepository) (models.Signal, error)

func (e *Evaluator) computers() map[models.SignalName]signalFn {
	return map[models.SignalName]signalFn{
		models.SignalVixStress:              e.computeVixStress,
		models.SignalHarvestPace:            e.computeHarvestPace,
		models.SignalChinaRelations:         e.computeChinaRelations,
		models.SignalTariffThreat:           e.computeTariffThreat,
		models.SignalGeopoliticalVolatility: e.computeGeopoliticalVolatility,
		models.SignalBiofuelCascade:         e.computeBiofuelCascade,
		models.SignalHiddenCorrelation:      e.computeHiddenCorrelation,
	}
}

// ComputeSignals runs the seven signal computations concurrently. They are
// independent; each returns an immutable Signal consumed only after all
// seven complete. A primary-signal failure fails the whole set.
func (e *Evaluator) ComputeSignals(ctx context.Context) (models.SignalSet, error) {
	type item struct {
		name models.SignalName
		sig  models.Signal
		err  error
	}

	fns := e.computers()
	ch := make(chan item, len(fns))
	var wg sync.WaitGroup

	for name, fn := range fns {
		wg.Add(1)
		go func(name models.SignalName, fn signalFn) {
			defer wg.Done()
			sig, err := fn(ctx, e.repo)
			ch <- item{name: name, sig: sig, err: err}
		}(name, fn)
	}
	go func() { wg.Wait(); close(ch) }()

	set := make(models.SignalSet, len(fns))
	var firstErr error
	for it := range ch {
		if it.err != nil {
			if firstErr == nil {
				firstErr = it.err
			}
			continue
		}
		set[it.name] = it.sig
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return set, nil
}

// Evaluate performs one full cycle and assembles the report. Primary-signal
// and anchor-price failures abort cleanly with no partial report.
func (e *Evaluator) Evaluate(ctx context.Context) (*models.ForecastReport, error) {
	start := time.Now()

	signals, err := e.ComputeSignals(ctx)
	if err != nil {
		return nil, err
	}

	anchor, _, err := e.repo.LatestPrice(ctx, e.opts.Commodity)
	if err != nil {
		if errors.Is(err, domrepo.ErrNoRows) {
			return nil, ErrNoAnchorPrice
		}
		return nil, fmt.Errorf("anchor price: %w", err)
	}
	if anchor <= 0 {
		return nil, ErrNoAnchorPrice
	}

	composite := CompositeScore(e.cal, signals)
	intensity := CrisisIntensity(e.cal, signals)
	regime := ClassifyRegime(e.cal, signals)
	prices := ProjectHorizonPrices(e.cal, composite, regime, anchor)
	recommendation, action := Recommend(composite, intensity)

	snaps := make(map[models.SignalName]models.SignalSnapshot, len(signals))
	for name, s := range signals {
		snaps[name] = models.SignalSnapshot{
			Score:      s.Score,
			CrisisFlag: s.CrisisFlag,
			Degraded:   s.Degraded,
		}
	}
	rounded := make(map[models.Horizon]float64, len(prices))
	for h, p := range prices {
		rounded[h] = roundTo(p, 2)
	}

	report := &models.ForecastReport{
		Timestamp:       time.Now().UTC(),
		Commodity:       e.opts.Commodity,
		Signals:         snaps,
		CompositeScore:  roundTo(composite, 3),
		CrisisIntensity: roundTo(intensity, 1),
		Regime:          regime,
		AnchorPrice:     anchor,
		HorizonPrices:   rounded,
		ConfidencePct:   ConfidencePct(intensity),
		Recommendation:  recommendation,
		Action:          action,
		PrimaryDriver:   PrimaryDriver(e.cal, signals),
	}

	if e.l != nil {
		e.l.Info("evaluation complete",
			applogger.String("commodity", e.opts.Commodity),
			applogger.String("regime", string(regime)),
			applogger.Any("composite", report.CompositeScore),
			applogger.Any("crisis_intensity", report.CrisisIntensity),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return report, nil
}
