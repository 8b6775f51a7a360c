package usecase

import (
	"context"
	"fmt"

	"AgriPulse/pkg/queue"
)

// EvaluationRequest is the queue payload asking for a fresh evaluation.
type EvaluationRequest struct {
	Commodity string `json:"commodity"`
}

// EvaluationJob runs queued evaluation requests. The scheduler and the API
// both enqueue through the shared Redis queue when async mode is on.
type EvaluationJob struct {
	uc        *EvaluateUseCase
	commodity string
}

func NewEvaluationJob(uc *EvaluateUseCase, defaultCommodity string) *EvaluationJob {
	return &EvaluationJob{uc: uc, commodity: defaultCommodity}
}

func (j *EvaluationJob) Name() string { return "evaluation-job" }
func (j *EvaluationJob) Type() string { return "evaluation.request" }

func (j *EvaluationJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[EvaluationRequest](payload)
	if err != nil {
		return fmt.Errorf("evaluation payload: %w", err)
	}
	commodity := req.Commodity
	if commodity == "" {
		commodity = j.commodity
	}
	if _, err := j.uc.Run(ctx, commodity); err != nil {
		return fmt.Errorf("evaluation run: %w", err)
	}
	return nil
}

var _ queue.Job = (*EvaluationJob)(nil)
