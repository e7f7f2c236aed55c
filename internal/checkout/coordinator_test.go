package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-core/internal/checkout/checkoutlog"
)

type fakeStep struct {
	name        string
	executeErr  error
	panicOnExec bool

	executed    bool
	compensated bool
	journal     *[]string // shared across steps to capture ordering
}

func (s *fakeStep) Name() string { return s.name }

func (s *fakeStep) Execute(ctx context.Context) error {
	if s.panicOnExec {
		panic("boom")
	}
	s.executed = true
	*s.journal = append(*s.journal, "exec:"+s.name)
	return s.executeErr
}

func (s *fakeStep) Compensate(ctx context.Context) error {
	s.compensated = true
	*s.journal = append(*s.journal, "comp:"+s.name)
	return nil
}

type memoryLog struct {
	mu      sync.Mutex
	entries []*checkoutlog.Entry
}

func (m *memoryLog) Save(ctx context.Context, e *checkoutlog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryLog) statuses() []checkoutlog.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]checkoutlog.Status, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Status
	}
	return out
}

func TestCoordinatorRunsAllSteps(t *testing.T) {
	journal := []string{}
	steps := []Step{
		&fakeStep{name: "first", journal: &journal},
		&fakeStep{name: "second", journal: &journal},
	}
	log := &memoryLog{}

	err := NewCoordinator("42", steps, log).Run(context.Background(), `{"order_id":42}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"exec:first", "exec:second"}, journal)
	assert.Equal(t, []checkoutlog.Status{
		checkoutlog.StatusStarted,
		checkoutlog.StatusStepDone,
		checkoutlog.StatusStepDone,
		checkoutlog.StatusCompleted,
	}, log.statuses())

	// The payload is written once, on the STARTED row.
	assert.Equal(t, `{"order_id":42}`, log.entries[0].Payload)
	assert.Empty(t, log.entries[1].Payload)
}

func TestCoordinatorCompensatesInReverseOrder(t *testing.T) {
	journal := []string{}
	boom := errors.New("charge declined")
	steps := []Step{
		&fakeStep{name: "first", journal: &journal},
		&fakeStep{name: "second", journal: &journal},
		&fakeStep{name: "third", journal: &journal, executeErr: boom},
	}
	log := &memoryLog{}

	err := NewCoordinator("42", steps, log).Run(context.Background(), "")
	assert.ErrorIs(t, err, boom)

	// Only the successful steps are compensated, last-in first-out. The
	// failing step must clean up after itself.
	assert.Equal(t, []string{
		"exec:first", "exec:second", "exec:third",
		"comp:second", "comp:first",
	}, journal)

	statuses := log.statuses()
	assert.Equal(t, checkoutlog.StatusCompensating, statuses[len(statuses)-2])
	assert.Equal(t, checkoutlog.StatusFailed, statuses[len(statuses)-1])
}

func TestCoordinatorRecoversPanickingStep(t *testing.T) {
	journal := []string{}
	steps := []Step{
		&fakeStep{name: "first", journal: &journal},
		&fakeStep{name: "second", journal: &journal, panicOnExec: true},
	}

	err := NewCoordinator("42", steps, nil).Run(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, []string{"exec:first", "comp:first"}, journal)
}

func TestCoordinatorNilLogRepo(t *testing.T) {
	journal := []string{}
	steps := []Step{&fakeStep{name: "only", journal: &journal}}

	// A nil log repository disables persistence without breaking the run.
	require.NoError(t, NewCoordinator("42", steps, nil).Run(context.Background(), ""))
	assert.Equal(t, []string{"exec:only"}, journal)
}
