package rpc

import (
	"context"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/vincentlao/libnop/codec"
	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
)

// Handler invokes one method's implementation against a decoded argument
// tuple. A Handler that returns a variant.Result-shaped value encodes its
// own error, per spec §4.I's last line; Serve does not additionally wrap
// the returned error into the response frame.
type Handler func(ctx context.Context, args codec.Tuple) (any, error)

// DispatchOption configures a Dispatcher built by BindInterface.
type DispatchOption func(*Dispatcher)

// WithLogger attaches a zerolog.Logger the Dispatcher uses for debug-level
// request decode/dispatch/encode failure events. Omitting it leaves the
// Dispatcher silent (spec §5: the core is otherwise log-free).
func WithLogger(logger zerolog.Logger) DispatchOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// Dispatcher is a table keyed by selector whose entries are type-erased
// handlers (spec §4.I).
type Dispatcher struct {
	iface    *Interface
	handlers map[uint64]Handler
	logger   zerolog.Logger
}

// BindInterface builds a Dispatcher for iface, pairing each declared
// Method's selector with the handler named in handlers.
func BindInterface(iface *Interface, handlers map[string]Handler, opts ...DispatchOption) (*Dispatcher, error) {
	d := &Dispatcher{iface: iface, handlers: make(map[uint64]Handler, len(iface.Methods)), logger: zerolog.Nop()}
	for _, m := range iface.Methods {
		h, ok := handlers[m.Name]
		if !ok {
			return nil, errors.New(errors.InvalidInterfaceMethod, "rpc: no handler registered for method %q", m.Name)
		}
		d.handlers[m.Selector()] = h
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Serve implements the five-step dispatch loop from spec §4.I: read a
// request frame's selector, look up the handler, decode the argument
// tuple under a request-scoped BoundedReader, invoke the handler, encode
// its return value as the response frame. It processes exactly one
// request/response pair per call; a caller wanting to serve a connection
// continuously calls Serve in a loop (typically from its own goroutine,
// since transport is outside this module's scope).
func (d *Dispatcher) Serve(ctx context.Context, r streambuf.Reader, w streambuf.Writer) error {
	receiver := NewMethodReceiver(r, w)

	selector, args, err := receiver.ReadRequest(d.argTypesFor)
	if err != nil {
		d.logger.Debug().Err(err).Msg("rpc: request decode failed")
		return err
	}

	h, ok := d.handlers[selector]
	if !ok {
		err := errors.New(errors.InvalidInterfaceMethod, "rpc: unknown method selector %#x", selector)
		d.logger.Debug().Uint64("selector", selector).Msg("rpc: unknown selector")
		return err
	}

	result, err := h(ctx, args)
	if err != nil {
		d.logger.Debug().Err(err).Uint64("selector", selector).Msg("rpc: handler failed")
		return err
	}

	if err := receiver.WriteResponse(result); err != nil {
		d.logger.Debug().Err(err).Uint64("selector", selector).Msg("rpc: response encode failed")
		return err
	}
	return nil
}

func (d *Dispatcher) argTypesFor(selector uint64) ([]reflect.Type, error) {
	m, ok := d.iface.Lookup(selector)
	if !ok {
		return nil, errors.New(errors.InvalidInterfaceMethod, "rpc: unknown method selector %#x", selector)
	}
	if m.In == nil {
		return nil, nil
	}
	fields := make([]reflect.Type, m.In.NumField())
	for i := range fields {
		fields[i] = m.In.Field(i).Type
	}
	return fields, nil
}
