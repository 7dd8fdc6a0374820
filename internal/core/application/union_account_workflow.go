package application

import (
	"context"
	"errors"

	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/pkg/wallet/destination"
	multisig "github.com/vulpemventures/uniond/pkg/wallet/multi-sig"
)

const (
	Idle WorkflowState = iota
	Collecting
	Validating
	Building
	Persisting
	Done
	Failed
)

const (
	MinUnionAccountKeys = 2
	MaxUnionAccountKeys = 5
)

var (
	stateString = map[WorkflowState]string{
		Idle:       "Idle",
		Collecting: "Collecting",
		Validating: "Validating",
		Building:   "Building",
		Persisting: "Persisting",
		Done:       "Done",
		Failed:     "Failed",
	}
)

type WorkflowState int

func (s WorkflowState) String() string {
	return stateString[s]
}

// UnionAccountRequest holds the form of a union account creation attempt.
// NumOfKeys is the number of active descriptor slots, Required the number of
// signatures needed to spend.
type UnionAccountRequest struct {
	Name        string
	NumOfKeys   int
	Required    int
	Descriptors []string
}

// UnionAccountResult is what a successful attempt returns.
type UnionAccountResult struct {
	Script  string
	Address string
	Account *domain.UnionAccount
}

// UnionAccountWorkflow drives a single union account creation attempt from
// the descriptors to the registered account:
// Idle -> Collecting -> Validating -> Building -> Persisting -> Done.
// Any failure moves the workflow to Failed. Every attempt starts from a
// cleared state and runs to a terminal one, nothing is retried.
type UnionAccountWorkflow struct {
	resolver *KeyResolver
	codec    ports.AddressCodec
	store    ports.AccountStore

	state   WorkflowState
	request *UnionAccountRequest
	keys    []*multisig.PublicKey
	script  *multisig.ThresholdScript
	result  *UnionAccountResult
	failure *Failure
}

func NewUnionAccountWorkflow(
	codec ports.AddressCodec, store ports.AccountStore,
) *UnionAccountWorkflow {
	return &UnionAccountWorkflow{
		resolver: NewKeyResolver(codec, store),
		codec:    codec,
		store:    store,
	}
}

func (w *UnionAccountWorkflow) State() WorkflowState {
	return w.state
}

// Request returns a copy of the request of a failed attempt so that it can
// be corrected, nil otherwise.
func (w *UnionAccountWorkflow) Request() *UnionAccountRequest {
	if w.state != Failed || w.request == nil {
		return nil
	}
	req := *w.request
	req.Descriptors = append([]string(nil), w.request.Descriptors...)
	return &req
}

func (w *UnionAccountWorkflow) Result() *UnionAccountResult {
	return w.result
}

func (w *UnionAccountWorkflow) Failure() *Failure {
	return w.failure
}

// Reset brings the workflow back to Idle and clears any state of the
// previous attempt.
func (w *UnionAccountWorkflow) Reset() {
	w.state = Idle
	w.request = nil
	w.keys = nil
	w.script = nil
	w.result = nil
	w.failure = nil
}

// Run executes a new attempt for the given request.
func (w *UnionAccountWorkflow) Run(
	ctx context.Context, req UnionAccountRequest,
) (*UnionAccountResult, error) {
	w.Reset()

	steps := []func(context.Context) *Failure{
		w.collect(req), w.validate, w.build, w.persist,
	}
	for _, step := range steps {
		if failure := step(ctx); failure != nil {
			w.state = Failed
			w.failure = failure
			return nil, failure
		}
	}

	w.state = Done
	w.request = nil
	return w.result, nil
}

func (w *UnionAccountWorkflow) collect(
	req UnionAccountRequest,
) func(context.Context) *Failure {
	return func(context.Context) *Failure {
		w.state = Collecting
		w.request = &UnionAccountRequest{
			Name:        req.Name,
			NumOfKeys:   req.NumOfKeys,
			Required:    req.Required,
			Descriptors: append([]string(nil), req.Descriptors...),
		}

		if req.Name == "" || len(req.Descriptors) <= 0 || req.Descriptors[0] == "" {
			return newFailure(InputMissing, nil, "missing account name or primary key")
		}
		if req.NumOfKeys < MinUnionAccountKeys || req.NumOfKeys > MaxUnionAccountKeys {
			return newFailure(
				KeyCountMismatch, nil, "number of keys must be in range [%d, %d]",
				MinUnionAccountKeys, MaxUnionAccountKeys,
			)
		}
		if len(req.Descriptors) > MaxUnionAccountKeys {
			return newFailure(
				KeyCountMismatch, nil, "at most %d keys can be supplied",
				MaxUnionAccountKeys,
			)
		}
		for i := 0; i < req.NumOfKeys; i++ {
			if i >= len(req.Descriptors) || req.Descriptors[i] == "" {
				return newFailure(InputMissing, nil, "missing key %d", i+1)
			}
		}
		for i := req.NumOfKeys; i < len(req.Descriptors); i++ {
			if req.Descriptors[i] != "" {
				return newFailure(
					KeyCountMismatch, nil,
					"got key %d, but only %d keys are expected", i+1, req.NumOfKeys,
				)
			}
		}

		if err := multisig.ValidateThreshold(req.Required, req.NumOfKeys); err != nil {
			return thresholdFailure(err)
		}

		seen := make(map[string]struct{}, req.NumOfKeys)
		for _, descriptor := range w.descriptors() {
			if _, ok := seen[descriptor]; ok {
				return newFailure(DuplicateKey, nil, "duplicate key %s", descriptor)
			}
			seen[descriptor] = struct{}{}
		}
		return nil
	}
}

func (w *UnionAccountWorkflow) validate(ctx context.Context) *Failure {
	w.state = Validating

	descriptors := w.descriptors()

	numOfOwnKeys := 0
	for _, descriptor := range descriptors {
		if w.resolver.Owns(ctx, descriptor) {
			numOfOwnKeys++
		}
	}
	if numOfOwnKeys != 1 {
		return newFailure(
			NotExactlyOneOwnKey, nil,
			"expected exactly one owned key, got %d", numOfOwnKeys,
		)
	}

	keys := make([]*multisig.PublicKey, 0, len(descriptors))
	for _, descriptor := range descriptors {
		key, err := w.resolver.Resolve(ctx, descriptor)
		if err != nil {
			return toFailure(err)
		}
		keys = append(keys, key)
	}

	for i := range keys {
		for j := i + 1; j < len(keys); j++ {
			if keys[i].Equal(keys[j]) {
				return newFailure(
					DuplicateKey, nil, "keys %d and %d are the same", i+1, j+1,
				)
			}
		}
	}

	w.keys = keys
	return nil
}

func (w *UnionAccountWorkflow) build(context.Context) *Failure {
	w.state = Building

	script, err := multisig.NewThresholdScript(w.request.Required, w.keys)
	if err != nil {
		return thresholdFailure(err)
	}
	w.script = script
	return nil
}

func (w *UnionAccountWorkflow) persist(ctx context.Context) *Failure {
	w.state = Persisting

	addr, err := w.codec.Encode(destination.FromRedeemScript(w.script.Script))
	if err != nil {
		return newFailure(Unknown, err, "failed to encode address: %s", err)
	}

	account, err := w.store.RegisterAccount(ctx, w.request.Name, w.script.Script)
	if err != nil {
		var f *Failure
		if errors.As(err, &f) {
			return f
		}
		return newFailure(AddMultiAddressFailed, err, "")
	}

	w.result = &UnionAccountResult{
		Script:  w.script.Hex(),
		Address: addr,
		Account: account,
	}
	return nil
}

func (w *UnionAccountWorkflow) descriptors() []string {
	return w.request.Descriptors[:w.request.NumOfKeys]
}

func thresholdFailure(err error) *Failure {
	switch {
	case errors.Is(err, multisig.ErrMissingRequiredSigs),
		errors.Is(err, multisig.ErrNotEnoughKeys):
		return newFailure(InsufficientKeys, err, "")
	case errors.Is(err, multisig.ErrTooManyKeys):
		return newFailure(TooManyKeys, err, "")
	case errors.Is(err, multisig.ErrScriptTooLarge):
		return newFailure(ScriptTooLarge, err, "")
	case errors.Is(err, multisig.ErrMissingPublicKey):
		return newFailure(KeyInvalid, err, "")
	default:
		return newFailure(Unknown, err, "")
	}
}

func toFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return newFailure(Unknown, err, "")
}
