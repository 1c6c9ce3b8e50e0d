package zipcode

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// Phase is the address form's current mode.
type Phase string

const (
	// PhaseZip means we are waiting for a valid 5-digit code.
	PhaseZip Phase = "zip"
	// PhaseLoading means a lookup is pending or in flight.
	PhaseLoading Phase = "loading"
	// PhaseAutofilled means the lookup populated state/city/colonies.
	PhaseAutofilled Phase = "autofilled"
	// PhaseManual means the lookup failed or the user opted out; every
	// field is hand-edited.
	PhaseManual Phase = "manual"
)

const defaultDebounce = 400 * time.Millisecond

// FormState is a snapshot of the address form's derived fields.
type FormState struct {
	Phase      Phase    `json:"phase"`
	PostalCode string   `json:"postalCode"`
	State      string   `json:"state"`
	City       string   `json:"city"`
	Colonies   []string `json:"colonies"`
	Colony     string   `json:"colony"`

	// AutoAdvance is set when the form reached autofilled with at most
	// one colony, so the caller can move focus past the colony field.
	AutoAdvance bool `json:"autoAdvance"`
}

// LookupFunc resolves a postal code. *Client.Lookup satisfies it.
type LookupFunc func(ctx context.Context, code string) (*Result, error)

// Resolver drives the progressive address form: it debounces postal code
// input and keeps at most one lookup in flight. Each Input bumps a
// generation counter and cancels the previous lookup; a response whose
// generation is stale is dropped without any state transition, so a slow
// response can never overwrite a newer one.
type Resolver struct {
	mu       sync.Mutex
	lookup   LookupFunc
	debounce time.Duration
	timer    *time.Timer
	cancel   context.CancelFunc
	gen      uint64
	state    FormState
	closed   bool
}

// NewResolver creates a Resolver. debounce <= 0 uses the default 400ms.
func NewResolver(lookup LookupFunc, debounce time.Duration) *Resolver {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Resolver{
		lookup:   lookup,
		debounce: debounce,
		state:    FormState{Phase: PhaseZip},
	}
}

// Input records a postal code edit. Anything other than exactly 5 digits
// resets to the zip phase and discards derived values without a network
// call. A valid code enters loading and (re)starts the debounce timer;
// only the last code within a quiet period triggers a lookup.
func (r *Resolver) Input(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	r.supersedeLocked()
	r.state.PostalCode = code

	if !ValidPostalCode(code) {
		r.clearDerivedLocked()
		r.state.Phase = PhaseZip
		return
	}

	r.state.Phase = PhaseLoading
	gen := r.gen
	r.timer = time.AfterFunc(r.debounce, func() {
		r.fire(gen, code)
	})
}

// ManualOverride switches an autofilled form to manual editing, keeping
// the resolved values as a starting point.
func (r *Resolver) ManualOverride() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Phase != PhaseAutofilled {
		return
	}
	r.state.Phase = PhaseManual
	r.state.AutoAdvance = false
}

// SelectColony records the user's colony choice. When the form is
// autofilled the choice must come from the resolved set; in manual mode
// any value is accepted.
func (r *Resolver) SelectColony(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Phase == PhaseAutofilled {
		for _, c := range r.state.Colonies {
			if c == name {
				r.state.Colony = name
				return
			}
		}
		return
	}
	r.state.Colony = name
}

// Snapshot returns a copy of the current form state.
func (r *Resolver) Snapshot() FormState {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	s.Colonies = append([]string(nil), r.state.Colonies...)
	return s
}

// Close cancels any pending or in-flight lookup. The resolver ignores
// further input after Close.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.supersedeLocked()
	r.closed = true
}

func (r *Resolver) fire(gen uint64, code string) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.mu.Unlock()

	result, err := r.lookup(ctx, code)

	r.mu.Lock()
	defer r.mu.Unlock()

	// Superseded or cancelled lookups cause no transition.
	if gen != r.gen || errors.Is(err, context.Canceled) {
		return
	}
	r.cancel = nil

	if err != nil || (result.State == "" && result.City == "") {
		if err != nil && !errors.Is(err, ErrNotFound) {
			log.Printf("zip lookup failed for %s: %v", code, err)
		}
		r.clearDerivedLocked()
		r.state.Phase = PhaseManual
		return
	}

	r.state.Phase = PhaseAutofilled
	r.state.State = result.State
	r.state.City = result.City
	r.state.Colonies = append([]string(nil), result.Colonies...)
	r.state.Colony = ""
	if len(result.Colonies) == 1 {
		r.state.Colony = result.Colonies[0]
	}
	r.state.AutoAdvance = len(result.Colonies) <= 1
}

// supersedeLocked invalidates any pending timer and in-flight lookup.
func (r *Resolver) supersedeLocked() {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Resolver) clearDerivedLocked() {
	r.state.State = ""
	r.state.City = ""
	r.state.Colonies = nil
	r.state.Colony = ""
	r.state.AutoAdvance = false
}
