// Package checkout turns a cart into a paid order. The flow is a sequence of
// steps with compensating actions: place the order (which reserves stock),
// charge the payment, clear the cart. If a step fails, every previously
// successful step is compensated in LIFO order, and each transition is
// appended to the durable checkout log.
package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/ecommerce-core/internal/checkout/checkoutlog"
)

// Step represents a single unit of work in the checkout flow.
// Each step must have a compensating action to undo its effects.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Coordinator manages the execution of a collection of Steps.
type Coordinator struct {
	checkoutID string
	steps      []Step
	logRepo    checkoutlog.Repository // nil-safe: logging skipped if nil
}

// NewCoordinator builds a coordinator for one checkout run. The checkout ID
// is typically the order ID so the log can be joined with business data and
// correlated with the OTel trace. logRepo may be nil, in which case state
// transitions are not persisted.
func NewCoordinator(checkoutID string, steps []Step, logRepo checkoutlog.Repository) *Coordinator {
	return &Coordinator{checkoutID: checkoutID, steps: steps, logRepo: logRepo}
}

// Run executes the steps sequentially. If a step fails, it triggers the
// compensation of all previously successful steps and returns the step's
// error.
func (c *Coordinator) Run(ctx context.Context, payload string) error {
	c.log(ctx, checkoutlog.StatusStarted, "", payload, nil)

	var done []Step
	for _, step := range c.steps {
		slog.InfoContext(ctx, "executing checkout step", "checkout_id", c.checkoutID, "step", step.Name())
		if err := c.execute(ctx, step); err != nil {
			slog.ErrorContext(ctx, "checkout step failed, starting rollback",
				"checkout_id", c.checkoutID, "step", step.Name(), "error", err)
			errs := []string{fmt.Sprintf("step %s failed: %v", step.Name(), err)}
			c.log(ctx, checkoutlog.StatusCompensating, step.Name(), "", errs)
			errs = append(errs, c.rollback(ctx, done)...)
			c.log(ctx, checkoutlog.StatusFailed, step.Name(), "", errs)
			return err
		}
		c.log(ctx, checkoutlog.StatusStepDone, step.Name(), "", nil)
		// Track successful step for potential compensation (LIFO).
		done = append(done, step)
	}

	c.log(ctx, checkoutlog.StatusCompleted, "", "", nil)
	return nil
}

func (c *Coordinator) execute(ctx context.Context, step Step) (err error) {
	// A panicking step must not take the whole request down before
	// compensation has a chance to run.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %s panicked: %v", step.Name(), r)
		}
	}()
	return step.Execute(ctx)
}

// rollback compensates the given steps in reverse order and returns the
// messages of any compensations that themselves failed.
func (c *Coordinator) rollback(ctx context.Context, steps []Step) []string {
	var errs []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.InfoContext(ctx, "compensating checkout step", "checkout_id", c.checkoutID, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to compensate checkout step",
				"checkout_id", c.checkoutID, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	return errs
}

func (c *Coordinator) log(ctx context.Context, status checkoutlog.Status, step, payload string, errs []string) {
	if c.logRepo == nil {
		return
	}
	entry := checkoutlog.NewEntry(ctx, c.checkoutID, status, step, payload, errs)
	if err := c.logRepo.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to persist checkout log entry",
			"checkout_id", c.checkoutID, "status", string(status), "error", err)
	}
}
