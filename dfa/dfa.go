// Package dfa implements the byte-wise finite-state automaton used to decode
// MUTF-8 sequences into UTF-16 code units.
//
// The automaton consumes one byte per transition. A decode context holds the
// automaton state together with the partially accumulated code unit, and is
// owned by the caller: it may be stored between calls and resumed with the
// next chunk of input, so a sequence split across arbitrary buffer boundaries
// decodes exactly as if it had been contiguous.
//
// Each byte is first classified by its top four bits:
//
//	0x00-0x7F : 0, single byte
//	0x80-0xBF : 1, continuation byte
//	0xC0-0xDF : 2, lead byte of a 2-byte sequence
//	0xE0-0xEF : 3, lead byte of a 3-byte sequence
//	0xF0-0xFF : 4, invalid lead byte (MUTF-8 has no 4-byte form)
//
// and the class selects the transition out of the current state:
//
//	state \ class   0       1       2       3       4
//	Accept          Accept  Reject  Need1   Need2   Reject
//	Need1           Reject  Accept  Reject  Reject  Reject
//	Need2           Reject  Need1   Reject  Reject  Reject
//	Reject          Reject  Reject  Reject  Reject  Reject
package dfa

// Decoder states.
const (
	// Accept is the initial state and the state after a complete code unit.
	Accept State = iota
	// Need1 expects one more continuation byte, which completes the unit.
	Need1
	// Need2 expects two more continuation bytes.
	Need2
	// Reject is the absorbing sink entered on invalid input.
	Reject
)

// Byte classes.
const (
	ClassSingle       = 0 // 0xxxxxxx
	ClassContinuation = 1 // 10xxxxxx
	ClassLead2        = 2 // 110xxxxx
	ClassLead3        = 3 // 1110xxxx
	ClassInvalid      = 4 // 1111xxxx
	nClasses          = 5
)

// classes maps the top four bits of a byte to its class.
var classes = [16]uint8{
	0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 1, 1,
	2, 2,
	3,
	4,
}

// transitions maps a state and a byte class to the next state.
var transitions = [...][nClasses]State{
	Accept: {Accept, Reject, Need1, Need2, Reject},
	Need1:  {Reject, Accept, Reject, Reject, Reject},
	Need2:  {Reject, Need1, Reject, Reject, Reject},
	Reject: {Reject, Reject, Reject, Reject, Reject},
}

// State is the state of the decoder automaton.
type State uint8

func (s State) String() string {
	switch s {
	case Accept:
		return "accept"
	case Need1:
		return "need 1"
	case Need2:
		return "need 2"
	case Reject:
		return "reject"
	default:
		return "<unknown state>"
	}
}

// Class returns the class of b, between 0 and 4.
func Class(b byte) uint8 {
	return classes[b>>4]
}

// Context is a decode context: the automaton state and the code unit
// accumulated so far. The zero value is ready to use.
//
// A Context describes a single sequential byte stream and must not be
// stepped by more than one goroutine at a time.
type Context struct {
	// Current automaton state.
	State State
	// Code unit being accumulated; complete when State is Accept.
	Unit uint16
}

// Step advances the automaton by one input byte and returns the new state.
//
// In the Accept state b is a lead byte and its payload bits replace the
// accumulator; the mask 0xFF>>class isolates them because every lead class
// has its fixed high bits immediately above the payload. In the Need states
// b is expected to be a continuation byte and its low six bits are appended.
// Once the context is in the Reject state it stays there and the
// accumulator is meaningless.
func (ctx *Context) Step(b byte) State {
	class := classes[b>>4]
	if ctx.State == Accept {
		ctx.Unit = uint16(b & (0xFF >> class))
	} else {
		ctx.Unit = ctx.Unit<<6 | uint16(b&0x3F)
	}

	ctx.State = transitions[ctx.State][class]
	return ctx.State
}

// Next returns the context that results from stepping ctx with b.
func (ctx Context) Next(b byte) Context {
	ctx.Step(b)
	return ctx
}

// Reset returns the context to its initial state.
func (ctx *Context) Reset() {
	*ctx = Context{}
}

// Done reports whether ctx holds a complete code unit.
func (ctx Context) Done() bool {
	return ctx.State == Accept
}

// Pending reports whether ctx is in the middle of a sequence,
// waiting for continuation bytes.
func (ctx Context) Pending() bool {
	return ctx.State == Need1 || ctx.State == Need2
}

// Feed steps ctx over p until a code unit completes, the input is rejected,
// or p is exhausted. It returns the resulting context and the number of bytes
// of p consumed; bytes following a completed unit or the rejecting byte are
// never read.
//
// A context that is still pending after Feed returns may be fed the next
// chunk of input to continue the same sequence.
func Feed(ctx Context, p []byte) (Context, int) {
	for i, b := range p {
		switch ctx.Step(b) {
		case Accept, Reject:
			return ctx, i + 1
		}
	}
	return ctx, len(p)
}
