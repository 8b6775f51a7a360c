package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"AgriPulse/internal/domain/models"
	"AgriPulse/internal/engine"
	icache "AgriPulse/internal/service/cache"
	svcmetrics "AgriPulse/internal/service/metrics"
	"AgriPulse/internal/service/ratelimit"
	"AgriPulse/internal/usecase"
	xhttp "AgriPulse/pkg/http"
	applogger "AgriPulse/pkg/logger"
	xutil "AgriPulse/pkg/util"
)

// ForecastHandler serves the evaluation surface over Echo.
type ForecastHandler struct {
	logger *applogger.Logger
	uc     *usecase.EvaluateUseCase
	cache  icache.BytesCache
	rl     *ratelimit.Limiter
	health func() error
}

func NewForecastHandler(logger *applogger.Logger, uc *usecase.EvaluateUseCase) *ForecastHandler {
	svcmetrics.Register()
	return &ForecastHandler{logger: logger, uc: uc, rl: ratelimit.New()}
}

// SetCache injects a short-TTL response cache for the derived endpoints.
func (h *ForecastHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetHealthCheck injects the readiness probe (warehouse ping).
func (h *ForecastHandler) SetHealthCheck(fn func() error) { h.health = fn }

func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/signals", h.Signals)
	g.GET("/regime", h.Regime)
	g.GET("/history", h.History)
	e.GET("/healthz", h.Healthz)
}

func (h *ForecastHandler) Forecast(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.EndpointLatency.WithLabelValues("forecast").Observe(time.Since(start).Seconds())
	}()

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":forecast", 5, 2) {
		return xhttp.AppErrorResponse(c, rateLimitedError())
	}

	ctx := c.Request().Context()
	var report *models.ForecastReport
	var err error
	if req.Fresh {
		report, err = h.uc.Run(ctx, req.Commodity)
	} else {
		report, err = h.uc.CurrentReport(ctx, req.Commodity)
	}
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues("forecast").Inc()
		h.logger.Error("forecast usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, engineError(err))
	}
	svcmetrics.ObserveReport(report)
	return xhttp.SuccessResponse(c, report)
}

type signalsResponse struct {
	Commodity string                                      `json:"commodity"`
	Timestamp time.Time                                   `json:"timestamp"`
	Signals   map[models.SignalName]models.SignalSnapshot `json:"signals"`
}

func (h *ForecastHandler) Signals(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.EndpointLatency.WithLabelValues("signals").Observe(time.Since(start).Seconds())
	}()

	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":signals", 5, 2) {
		return xhttp.AppErrorResponse(c, rateLimitedError())
	}

	cacheKey := "signals:" + req.Commodity
	if b, ok := h.cachedResponse(cacheKey); ok {
		var res signalsResponse
		if err := json.Unmarshal(b, &res); err == nil {
			return xhttp.SuccessResponse(c, &res)
		}
	}

	report, err := h.uc.CurrentReport(c.Request().Context(), req.Commodity)
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues("signals").Inc()
		h.logger.Error("signals usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, engineError(err))
	}
	res := &signalsResponse{
		Commodity: report.Commodity,
		Timestamp: report.Timestamp,
		Signals:   report.Signals,
	}
	h.storeResponse(cacheKey, res, 30*time.Second)
	return xhttp.SuccessResponse(c, res)
}

type regimeResponse struct {
	Commodity       string        `json:"commodity"`
	Timestamp       time.Time     `json:"timestamp"`
	Regime          models.Regime `json:"regime"`
	CrisisIntensity float64       `json:"crisis_intensity"`
	PrimaryDriver   string        `json:"primary_driver"`
}

func (h *ForecastHandler) Regime(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.EndpointLatency.WithLabelValues("regime").Observe(time.Since(start).Seconds())
	}()

	req := &models.RegimeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":regime", 5, 2) {
		return xhttp.AppErrorResponse(c, rateLimitedError())
	}

	cacheKey := "regime:" + req.Commodity
	if b, ok := h.cachedResponse(cacheKey); ok {
		var res regimeResponse
		if err := json.Unmarshal(b, &res); err == nil {
			return xhttp.SuccessResponse(c, &res)
		}
	}

	report, err := h.uc.CurrentReport(c.Request().Context(), req.Commodity)
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues("regime").Inc()
		h.logger.Error("regime usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, engineError(err))
	}
	res := &regimeResponse{
		Commodity:       report.Commodity,
		Timestamp:       report.Timestamp,
		Regime:          report.Regime,
		CrisisIntensity: report.CrisisIntensity,
		PrimaryDriver:   report.PrimaryDriver,
	}
	h.storeResponse(cacheKey, res, 30*time.Second)
	return xhttp.SuccessResponse(c, res)
}

// History lists stored report summaries. Range and limit come from query
// params; the range is aligned to minute boundaries to keep cache-friendly
// query shapes in the warehouse.
func (h *ForecastHandler) History(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.EndpointLatency.WithLabelValues("history").Observe(time.Since(start).Seconds())
	}()

	req := &models.RegimeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":history", 5, 2) {
		return xhttp.AppErrorResponse(c, rateLimitedError())
	}

	now := time.Now()
	from := xhttp.ParseTimeDefault(c.QueryParam("from"), now.Add(-24*time.Hour))
	to := xhttp.ParseTimeDefault(c.QueryParam("to"), now)
	from, to = xutil.AlignRange(from, to, time.Minute)
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 100)

	rows, err := h.uc.History(c.Request().Context(), req.Commodity, from, to, limit)
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues("history").Inc()
		h.logger.Error("history usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, engineError(err))
	}
	return xhttp.SuccessResponse(c, &xhttp.ListDataResponse{
		Rows:  rows,
		Total: int64(len(rows)),
	})
}

func (h *ForecastHandler) Healthz(c echo.Context) error {
	if h.health != nil {
		if err := h.health(); err != nil {
			h.logger.Warn("healthz degraded", applogger.Error(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ForecastHandler) cachedResponse(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("response cache get error", applogger.Error(err))
		return nil, false
	}
	return b, ok
}

func (h *ForecastHandler) storeResponse(key string, v interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, ttl); err != nil {
		h.logger.Warn("response cache set error", applogger.Error(err))
	}
}

func rateLimitedError() *xhttp.AppError {
	return xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", http.StatusTooManyRequests)
}

// engineError maps evaluation failures to HTTP errors: missing market data
// is a 503 (retryable), everything else a 500.
func engineError(err error) *xhttp.AppError {
	if errors.Is(err, engine.ErrDataUnavailable) || errors.Is(err, engine.ErrNoAnchorPrice) {
		return xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "", err.Error(), http.StatusServiceUnavailable).WithError(err)
	}
	return xhttp.InternalError("evaluation failed").WithError(err)
}
