package form

import (
	"context"
	"encoding/json"
	"log/slog"
)

// StepPredicate reports whether the fields required by one step are valid.
type StepPredicate func(values map[string]string) bool

// Controller is a linear multi-step form state machine. Steps are numbered
// 1..N; Next is gated by the current step's predicate, Prev and Skip are
// unconditional. Every distinct value change persists the whole snapshot to
// the draft store, which is the sole durability for in-progress work.
type Controller struct {
	formKey    string
	steps      []StepPredicate
	drafts     DraftStore
	step       int
	values     map[string]string
	lastSaved  []byte
	submitting bool
}

// NewController builds a controller over len(steps) steps starting at step 1.
// formKey is the fixed draft-store key for this form type and user.
func NewController(formKey string, steps []StepPredicate, drafts DraftStore) *Controller {
	return &Controller{
		formKey: formKey,
		steps:   steps,
		drafts:  drafts,
		step:    1,
		values:  make(map[string]string),
	}
}

// Restore loads the persisted draft snapshot, if any. Called once at mount;
// a corrupt or missing snapshot leaves the form empty.
func (c *Controller) Restore(ctx context.Context) error {
	snapshot, err := c.drafts.Load(ctx, c.formKey)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return nil
	}
	values := make(map[string]string)
	if err := json.Unmarshal(snapshot, &values); err != nil {
		slog.Warn("Discarding unreadable draft snapshot.", "formKey", c.formKey, "error", err)
		return nil
	}
	c.values = values
	c.lastSaved = snapshot
	return nil
}

func (c *Controller) Step() int { return c.step }

// Values returns a copy of the current field values.
func (c *Controller) Values() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Set records one field value and persists the snapshot when it differs from
// the last persisted one. Persistence failures are logged, not surfaced: a
// lost draft is an accepted degradation, not a form error.
func (c *Controller) Set(ctx context.Context, field, value string) {
	c.values[field] = value

	snapshot, err := json.Marshal(c.values)
	if err != nil {
		slog.Error("Failed to serialize form snapshot.", "formKey", c.formKey, "error", err)
		return
	}
	if string(snapshot) == string(c.lastSaved) {
		return
	}
	if err := c.drafts.Save(ctx, c.formKey, snapshot); err != nil {
		slog.Warn("Failed to persist draft snapshot.", "formKey", c.formKey, "error", err)
		return
	}
	c.lastSaved = snapshot
}

// Next advances one step when the current step's fields validate. At the
// last step it is a no-op; submission is a distinct action.
func (c *Controller) Next() bool {
	if c.step >= len(c.steps) {
		return false
	}
	if !c.steps[c.step-1](c.values) {
		return false
	}
	c.step++
	return true
}

// Prev moves back one step, flooring at the first.
func (c *Controller) Prev() {
	if c.step > 1 {
		c.step--
	}
}

// Skip advances one step without consulting the validity gate.
func (c *Controller) Skip() {
	if c.step < len(c.steps) {
		c.step++
	}
}

// CanSubmit reports whether the form sits at its final step.
func (c *Controller) CanSubmit() bool {
	return c.step == len(c.steps)
}

// BeginSubmit marks the form as submitting, returning false when a submit is
// already in flight. This flag only disables duplicate submission; there is
// no cancellation of in-flight work.
func (c *Controller) BeginSubmit() bool {
	if c.submitting || !c.CanSubmit() {
		return false
	}
	c.submitting = true
	return true
}

// FinishSubmit clears the submitting flag. On success the persisted draft is
// deleted and the form resets to its initial state.
func (c *Controller) FinishSubmit(ctx context.Context, success bool) {
	c.submitting = false
	if !success {
		return
	}
	if err := c.drafts.Delete(ctx, c.formKey); err != nil {
		slog.Warn("Failed to delete draft snapshot after submission.", "formKey", c.formKey, "error", err)
	}
	c.step = 1
	c.values = make(map[string]string)
	c.lastSaved = nil
}
