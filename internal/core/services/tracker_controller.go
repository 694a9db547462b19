package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
	"github.com/comitanigiacomo/kanso-coach/internal/core/workers"
)

// TrackerController is the concurrency-safe front of TrackerService: every
// user action becomes a command executed on the loop.
type TrackerController struct {
	svc     *TrackerService
	loop    *workers.CommandLoop
	gateway domain.SuggestionGateway
	logger  *zap.Logger
}

func NewTrackerController(svc *TrackerService, loop *workers.CommandLoop, gateway domain.SuggestionGateway, logger *zap.Logger) *TrackerController {
	return &TrackerController{
		svc:     svc,
		loop:    loop,
		gateway: gateway,
		logger:  logger,
	}
}

func (c *TrackerController) LoadBatch(ctx context.Context, descriptions []string) error {
	return c.loop.Dispatch(ctx, "load_batch", func() error {
		c.svc.LoadBatch(descriptions)
		return nil
	})
}

func (c *TrackerController) Toggle(ctx context.Context, index int) (domain.Habit, error) {
	var habit domain.Habit
	err := c.loop.Dispatch(ctx, "toggle", func() error {
		var err error
		habit, err = c.svc.ToggleCompletion(index)
		return err
	})
	return habit, err
}

func (c *TrackerController) Snapshot(ctx context.Context) (domain.TrackerSnapshot, error) {
	var snap domain.TrackerSnapshot
	err := c.loop.Dispatch(ctx, "snapshot", func() error {
		snap = c.svc.Snapshot()
		return nil
	})
	return snap, err
}

// SubmitGoal starts a suggestion request and returns as soon as it is in
// flight. The outcome is applied later on the loop; the submit control is
// released on every path.
func (c *TrackerController) SubmitGoal(ctx context.Context, goal string) error {
	return c.loop.Dispatch(ctx, "submit_goal", func() error {
		cleanGoal, release, err := c.svc.BeginSubmit(goal)
		if err != nil {
			return err
		}

		c.loop.Go(func() {
			habits, fetchErr := c.gateway.RequestSuggestions(context.Background(), cleanGoal)

			postErr := c.loop.Post("apply_suggestions", func() error {
				defer release()
				c.svc.ApplySuggestions(habits, fetchErr)
				return nil
			})
			if postErr != nil {
				c.logger.Warn("suggestions arrived after shutdown, dropping", zap.Error(postErr))
				release()
			}
		})

		c.logger.Info("suggestion request started", zap.String("goal", cleanGoal))
		return nil
	})
}

func (c *TrackerController) SubmitBusy() bool {
	return c.svc.SubmitBusy()
}
