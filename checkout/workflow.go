// Package checkout drives the vendor's multi-step order checkout.
//
// The workflow is a strictly linear state machine. Each step is one POST
// whose response status must be in the success set before the next step
// runs; the first failure ends the run in Failed and nothing further is
// sent. A failed run cannot be resumed and must start again from
// CreateOrder.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/aluiziolira/selectm/models"
	"github.com/aluiziolira/selectm/session"
)

// State is a workflow position.
type State int

const (
	CreateOrder State = iota
	SelectDelivery
	SelectBarrels
	ScheduleVisit
	Confirm
	OrderComplete
	Done
	Failed
)

var stateNames = [...]string{
	CreateOrder:    "create_order",
	SelectDelivery: "select_delivery",
	SelectBarrels:  "select_barrels",
	ScheduleVisit:  "schedule_visit",
	Confirm:        "confirm",
	OrderComplete:  "order_complete",
	Done:           "done",
	Failed:         "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// Next returns the state that follows a successful s.
func Next(s State) State {
	if s >= CreateOrder && s < Done {
		return s + 1
	}
	return s
}

// Order is the selection carried by the barrels step.
type Order struct {
	BrandID  string
	FamilyID string
	Barrels  int
}

// OrderFor builds an order for barrels of p.
func OrderFor(p models.Product, barrels int) Order {
	return Order{BrandID: p.ItemID, FamilyID: p.FamilyID, Barrels: barrels}
}

// Step is the request issued while in State.
type Step struct {
	State State
	Path  string
	Form  url.Values
}

// Steps returns the six workflow steps in order.
func Steps(o Order) []Step {
	return []Step{
		{State: CreateOrder, Path: CreateOrderPath, Form: createOrderForm()},
		{State: SelectDelivery, Path: SelectDeliveryPath, Form: selectDeliveryForm()},
		{State: SelectBarrels, Path: SelectBarrelsPath, Form: selectBarrelsForm(o)},
		{State: ScheduleVisit, Path: ScheduleVisitPath, Form: scheduleVisitForm()},
		{State: Confirm, Path: ConfirmPath, Form: confirmForm()},
		{State: OrderComplete, Path: OrderCompletePath, Form: orderCompleteForm()},
	}
}

// WorkflowError names the step that stopped the workflow. Status is zero
// when the step never got a response.
type WorkflowError struct {
	Step   State
	Status int
	Err    error
}

func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("checkout step %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("checkout step %s returned status %d", e.Step, e.Status)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithMetrics records step outcomes on m.
func WithMetrics(m *session.Metrics) Option {
	return func(w *Workflow) {
		w.metrics = m
	}
}

// WithObserver calls fn with every state the workflow enters, starting
// with CreateOrder and ending with Done or Failed.
func WithObserver(fn func(State)) Option {
	return func(w *Workflow) {
		w.observer = fn
	}
}

// Workflow runs the checkout for one order.
type Workflow struct {
	steps    map[State]Step
	metrics  *session.Metrics
	observer func(State)
}

// New builds a workflow for o.
func New(o Order, opts ...Option) *Workflow {
	w := &Workflow{steps: make(map[State]Step)}
	for _, step := range Steps(o) {
		w.steps[step.State] = step
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run walks every step from CreateOrder to Done.
func (w *Workflow) Run(ctx context.Context, sess session.Sender) error {
	if err := session.RequireAuth(sess); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	state := CreateOrder
	w.enter(state)
	for !state.Terminal() {
		next, err := w.transition(ctx, sess, w.steps[state])
		w.enter(next)
		if err != nil {
			return err
		}
		state = next
	}
	slog.Info("checkout complete")
	return nil
}

func (w *Workflow) transition(ctx context.Context, sess session.Sender, step Step) (State, error) {
	name := step.State.String()

	resp, err := session.PostForm(ctx, sess, step.Path, nil, step.Form)
	if err != nil {
		w.metrics.IncStep(name, "error")
		return Failed, &WorkflowError{Step: step.State, Err: err}
	}
	if !session.IsSuccess(resp.StatusCode) {
		w.metrics.IncStep(name, "rejected")
		return Failed, &WorkflowError{Step: step.State, Status: resp.StatusCode}
	}

	w.metrics.IncStep(name, "ok")
	slog.Info("checkout step complete",
		slog.String("step", name),
		slog.Int("status", resp.StatusCode),
	)
	return Next(step.State), nil
}

func (w *Workflow) enter(s State) {
	if w.observer != nil {
		w.observer(s)
	}
}
