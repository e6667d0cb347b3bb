package lasr

import (
	"sort"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"
)

// Handler turns a call into outputs. Handlers run synchronously and any
// error they return reaches the caller of Start unchanged.
type Handler func(call *Call) (*Outputs, error)

// Methods maps op names to handlers.
type Methods map[string]Handler

// Program dispatches calls to the handler registered for their op.
//
// The method table is copied at construction and never changes afterwards.
// A Program runs one call at a time; use one Program per concurrent caller.
type Program struct {
	name      string
	methods   map[string]Handler
	codec     *AmountCodec
	log       log.Logger
	executing atomic.Bool
}

// NewProgram creates a program over a copy of methods.
func NewProgram(methods Methods, opts ...ProgramOption) *Program {
	p := &Program{
		name:    "program",
		methods: make(map[string]Handler, len(methods)),
		codec:   defaultCodec,
		log:     log.Root(),
	}
	for op, h := range methods {
		if h != nil {
			p.methods[op] = h
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With("program", p.name)
	return p
}

// Name returns the program name.
func (p *Program) Name() string {
	return p.name
}

// HasMethod returns true if an op is registered.
func (p *Program) HasMethod(op string) bool {
	_, ok := p.methods[op]
	return ok
}

// MethodNames returns the registered ops in sorted order.
func (p *Program) MethodNames() []string {
	names := make([]string, 0, len(p.methods))
	for name := range p.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start runs the handler registered for the call's op and returns its
// outputs. An unregistered op fails with UnknownMethodError and no handler
// runs. Handler errors and panics are not recovered.
func (p *Program) Start(call *Call) (*Outputs, error) {
	if call == nil {
		return nil, ErrInvalidCall
	}
	op := call.Operation()
	handler, ok := p.methods[op]
	if !ok {
		p.log.Debug("Unknown method", "op", op)
		return nil, &UnknownMethodError{Op: op}
	}
	if !p.executing.CompareAndSwap(false, true) {
		return nil, ErrProgramBusy
	}
	defer p.executing.Store(false)

	c := *call
	c.codec = p.codec

	p.log.Debug("Dispatching call", "op", op, "from", call.Transaction.From, "tx", call.Transaction.Hash)
	out, err := handler(&c)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNoOutputs
	}
	p.log.Trace("Call completed", "op", op, "instructions", out.Len())
	return out, nil
}
