package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"delivery-mitra-service/internal/domain"
	"delivery-mitra-service/internal/ports"
	"delivery-mitra-service/internal/signature"
)

// State is the single delivery-lifecycle state. Every reachable combination
// of "navigating / closing / done" is one of these values; there are no
// independent flags to drift apart.
type State int

const (
	StateLoggedOut State = iota
	StateAuthenticating
	StateTaskLoading
	// Logged in with no open order. Valid resting state, not an error;
	// Refresh re-runs task acquisition.
	StateIdle
	// Task loaded, navigation not started.
	StateAssigned
	// Task status is "Out for Delivery".
	StateNavigating
	// Signature pad open, waiting for proof of delivery.
	StateClosurePending
	// Delivery finished; Refresh looks for the next task.
	StateJobComplete
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateAuthenticating:
		return "authenticating"
	case StateTaskLoading:
		return "task_loading"
	case StateIdle:
		return "idle"
	case StateAssigned:
		return "assigned"
	case StateNavigating:
		return "navigating"
	case StateClosurePending:
		return "closure_pending"
	case StateJobComplete:
		return "job_complete"
	default:
		return "unknown"
	}
}

// Task is the in-memory view of the active order, enriched for display.
// Traffic is filled in asynchronously and may stay nil.
type Task struct {
	Order      domain.Order
	DistanceKm *float64
	Traffic    *domain.TrafficSnapshot
}

// Signature pad surface dimensions, fixed for every closure.
const (
	padWidth  = 400
	padHeight = 200
)

var phonePattern = regexp.MustCompile(`^9[0-9]{9}$`)

// Deps are the collaborators a lifecycle needs. Constructed once at process
// start and injected; there is no package-level client.
type Deps struct {
	Agents     ports.AgentRepository
	Orders     ports.OrderRepository
	Signatures ports.SignatureStore
	Enricher   *Enricher            // optional
	Events     ports.EventPublisher // optional
}

// Lifecycle is the delivery-lifecycle state machine for one agent session:
// login, task acquisition, navigation start, and proof-of-delivery closure.
// All session state lives here and is guarded by mu; operations of one
// session never run in parallel with each other.
type Lifecycle struct {
	deps Deps

	mu    sync.Mutex
	state State
	agent *domain.Agent
	task  *Task
	pad   *signature.Pad

	// epoch is bumped on every task load and on logout. Enrichment results
	// carry the epoch they were requested under; a stale epoch means the
	// response belongs to a task or session that no longer exists and is
	// discarded.
	epoch uint64
}

func NewLifecycle(deps Deps) *Lifecycle {
	return &Lifecycle{deps: deps, state: StateLoggedOut}
}

// Authenticate validates the phone number, looks the agent up, and on
// success immediately acquires the agent's current task.
// Returns domain.ErrInvalidPhone or domain.ErrAgentNotFound with the state
// unchanged on the respective failures.
func (l *Lifecycle) Authenticate(ctx context.Context, phone string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateLoggedOut {
		return domain.ErrInvalidTransition
	}
	if !phonePattern.MatchString(phone) {
		return domain.ErrInvalidPhone
	}

	l.state = StateAuthenticating
	agent, found, err := l.deps.Agents.FindByPhone(ctx, phone)
	if err != nil {
		l.state = StateLoggedOut
		return fmt.Errorf("authenticate: %w", err)
	}
	if !found {
		l.state = StateLoggedOut
		return domain.ErrAgentNotFound
	}

	l.agent = agent
	return l.loadTask(ctx)
}

// loadTask acquires the agent's most recent open order. Caller holds mu.
// No matching order is a valid outcome: the session parks in StateIdle.
func (l *Lifecycle) loadTask(ctx context.Context) error {
	l.state = StateTaskLoading
	l.task = nil
	l.epoch++
	epoch := l.epoch

	order, found, err := l.deps.Orders.FindActiveByAgent(ctx, l.agent.AgentID)
	if err != nil {
		// Revert to the last stable logged-in state.
		l.state = StateIdle
		return fmt.Errorf("acquire task: %w", err)
	}
	if !found {
		l.state = StateIdle
		return nil
	}

	l.task = &Task{
		Order:      *order,
		DistanceKm: domain.DistanceKm(l.agent.Store.Coords, order.Customer.Coords),
	}
	if order.Status == domain.StatusOutForDelivery {
		l.state = StateNavigating
	} else {
		l.state = StateAssigned
	}

	if l.deps.Enricher != nil {
		origin := l.agent.Store.Coords
		dest := order.Customer.Coords
		go func() {
			snap := l.deps.Enricher.Snapshot(context.Background(), origin, dest)
			l.applyTraffic(epoch, snap)
		}()
	}
	return nil
}

// applyTraffic attaches an enrichment result to the current task, unless
// the session has moved on since the request was issued.
func (l *Lifecycle) applyTraffic(epoch uint64, snap domain.TrafficSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if epoch != l.epoch || l.task == nil {
		log.Printf("enrichment discarded: stale epoch=%d current=%d", epoch, l.epoch)
		return
	}
	l.task.Traffic = &snap
}

// StartNavigation marks the active order "Out for Delivery". On persistence
// failure the in-memory state does not advance and the caller may retry.
func (l *Lifecycle) StartNavigation(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateAssigned || l.task == nil {
		return domain.ErrInvalidTransition
	}

	if err := l.deps.Orders.UpdateStatus(ctx, l.task.Order.OrderID, l.task.Order.Status, domain.StatusOutForDelivery); err != nil {
		return &domain.PersistenceError{Op: "start navigation", Err: err}
	}

	l.task.Order.Status = domain.StatusOutForDelivery
	l.state = StateNavigating
	l.publish(ctx, l.task.Order.OrderID, domain.StatusOutForDelivery)
	return nil
}

// RequestClosure opens the proof-of-delivery step with a fresh signature pad.
func (l *Lifecycle) RequestClosure() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateNavigating {
		return domain.ErrInvalidTransition
	}
	l.pad = signature.NewPad(padWidth, padHeight)
	l.state = StateClosurePending
	return nil
}

// CancelClosure returns to navigating without side effects; the partially
// drawn signature is discarded.
func (l *Lifecycle) CancelClosure() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateClosurePending {
		return domain.ErrInvalidTransition
	}
	l.pad = nil
	l.state = StateNavigating
	return nil
}

// RecordStroke commits one freehand stroke (an ordered list of points) to
// the open signature pad.
func (l *Lifecycle) RecordStroke(points []signature.Point) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateClosurePending || l.pad == nil {
		return domain.ErrInvalidTransition
	}
	if len(points) == 0 {
		return nil
	}

	l.pad.BeginStroke(points[0])
	for _, pt := range points[1:] {
		l.pad.ExtendStroke(pt)
	}
	l.pad.EndStroke()
	return nil
}

// FinalizeClosure marks the order "Delivered", stores the signature
// artifact, and completes the job. On persistence failure the session stays
// in closure and may retry; signature storage and event publishing are
// best-effort once the status itself is durable.
func (l *Lifecycle) FinalizeClosure(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateClosurePending || l.task == nil {
		return domain.ErrInvalidTransition
	}

	orderID := l.task.Order.OrderID
	if err := l.deps.Orders.UpdateStatus(ctx, orderID, l.task.Order.Status, domain.StatusDelivered); err != nil {
		return &domain.PersistenceError{Op: "finalize closure", Err: err}
	}

	if l.deps.Signatures != nil && l.pad != nil && !l.pad.Empty() {
		if png, err := l.pad.EncodePNG(); err != nil {
			log.Printf("encode signature failed: order=%d err=%v", orderID, err)
		} else if err := l.deps.Signatures.SaveSignature(ctx, orderID, png); err != nil {
			log.Printf("save signature failed: order=%d err=%v", orderID, err)
		}
	}

	l.publish(ctx, orderID, domain.StatusDelivered)
	l.task = nil
	l.pad = nil
	l.state = StateJobComplete
	return nil
}

// Refresh re-runs task acquisition: the "find next delivery" affordance
// after a completed job, or a manual refresh while idle.
func (l *Lifecycle) Refresh(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateJobComplete && l.state != StateIdle {
		return domain.ErrInvalidTransition
	}
	if l.agent == nil {
		return domain.ErrInvalidTransition
	}
	return l.loadTask(ctx)
}

// Logout drops all session state unconditionally. No persistence side
// effect; in-flight enrichment results become stale and are discarded.
func (l *Lifecycle) Logout() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.epoch++
	l.agent = nil
	l.task = nil
	l.pad = nil
	l.state = StateLoggedOut
}

// View is a point-in-time copy of the session for rendering. Task is a
// value copy; mutating it does not touch the session.
type View struct {
	State State
	Agent *domain.Agent
	Task  *Task
}

func (l *Lifecycle) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()

	v := View{State: l.state}
	if l.agent != nil {
		agent := *l.agent
		v.Agent = &agent
	}
	if l.task != nil {
		task := *l.task
		if l.task.Traffic != nil {
			traffic := *l.task.Traffic
			task.Traffic = &traffic
		}
		v.Task = &task
	}
	return v
}

// publish is best-effort; failures are logged, never returned. Caller
// holds mu.
func (l *Lifecycle) publish(ctx context.Context, orderID int, status domain.OrderStatus) {
	if l.deps.Events == nil || l.agent == nil {
		return
	}
	ev := ports.OrderStatusEvent{
		OrderID:    orderID,
		AgentID:    l.agent.AgentID,
		Status:     string(status),
		OccurredAt: time.Now().UTC(),
	}
	if err := l.deps.Events.PublishStatus(ctx, ev); err != nil {
		log.Printf("publish status event failed: order=%d status=%q err=%v", orderID, status, err)
	}
}
