package barchart

import (
	"context"
	"fmt"
	"strings"

	"AgriPulse/internal/domain/models"
	xhttp "AgriPulse/pkg/http"
)

type snapshotResponse struct {
	Status struct {
		Code int `json:"code"`
	} `json:"status"`
	Results []bcQuote `json:"results"`
}

// Snapshot fetches current quotes for all configured symbols over the REST
// API. Used once at startup to seed prices before the stream delivers.
func (c *Client) Snapshot(ctx context.Context) ([]*models.MetricTick, error) {
	if c.restURL == "" {
		return nil, nil
	}

	var res snapshotResponse
	err := c.rest.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.restURL + "/getquote.json",
		QueryParams: map[string][]string{
			"apikey":  {c.apiKey},
			"symbols": {strings.Join(c.symbols, ",")},
		},
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("barchart snapshot: %w", err)
	}
	if res.Status.Code != 0 && res.Status.Code != 200 {
		return nil, fmt.Errorf("barchart snapshot: status %d", res.Status.Code)
	}

	ticks := make([]*models.MetricTick, 0, len(res.Results))
	for _, q := range res.Results {
		if q.Symbol == "" {
			continue
		}
		ticks = append(ticks, &models.MetricTick{
			Symbol:    q.Symbol,
			Timestamp: q.T / 1000,
			Price:     q.Price,
			Volume:    q.Volume,
		})
	}
	return ticks, nil
}
