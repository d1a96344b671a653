// Package calls describes runtime calls independently of any connection.
//
// A Call names a pallet method and carries SCALE encodable arguments.
// Arguments may themselves be Calls (or slices of Calls); those are
// resolved against chain metadata when the call is encoded.
package calls

import (
	"fmt"
	"strings"
)

type Call struct {
	Pallet string
	Method string
	Args   []interface{}
	// Note is a human readable description used in logs and plans.
	Note string
}

// New returns a call of pallet.method with the given arguments.
func New(pallet, method string, args ...interface{}) Call {
	return Call{Pallet: pallet, Method: method, Args: args}
}

// Name is "Pallet.method", the form used for metadata lookups.
func (c Call) Name() string {
	return c.Pallet + "." + c.Method
}

func (c Call) WithNote(format string, a ...interface{}) Call {
	c.Note = fmt.Sprintf(format, a...)
	return c
}

func (c Call) String() string {
	if c.Note == "" {
		return c.Name()
	}
	return c.Name() + " (" + c.Note + ")"
}

// LengthOf is resolved to the compact encoded length of Call. It is
// used for the length bound of council proposals.
type LengthOf struct {
	Call Call
}

// Sudo dispatches call with Root origin.
func Sudo(call Call) Call {
	return New("Sudo", "sudo", call).WithNote("%s", call.Name())
}

// AsDerivative dispatches call from the derivative sub-account index of
// the signer.
func AsDerivative(index uint16, call Call) Call {
	return New("Utility", "as_derivative", U16(index), call).WithNote("#%d %s", index, call.Name())
}

// BatchAll dispatches calls atomically.
func BatchAll(calls []Call) Call {
	return New("Utility", "batch_all", calls).WithNote("%d calls", len(calls))
}

// CouncilPropose submits proposal to the general council.
func CouncilPropose(threshold uint32, proposal Call) Call {
	return New("GeneralCouncil", "propose",
		NewCompact(uint64(threshold)),
		proposal,
		LengthOf{Call: proposal},
	).WithNote("threshold %d, %s", threshold, proposal.Name())
}

// Origin describes how a (possibly wrapped) call is dispatched.
func Origin(c Call) string {
	switch c.Name() {
	case "Sudo.sudo":
		return "root"
	case "Utility.as_derivative":
		if idx, ok := c.Args[0].(U16); ok {
			return fmt.Sprintf("derivative(%d)", idx)
		}
		return "derivative"
	case "GeneralCouncil.propose":
		return "council"
	default:
		return "signed"
	}
}

// Unwrap strips dispatch wrappers and returns the innermost call.
func Unwrap(c Call) Call {
	for {
		var inner interface{}
		switch c.Name() {
		case "Sudo.sudo":
			inner = c.Args[0]
		case "Utility.as_derivative", "GeneralCouncil.propose":
			inner = c.Args[1]
		default:
			return c
		}
		next, ok := inner.(Call)
		if !ok {
			return c
		}
		c = next
	}
}

// Flatten lists the calls of a batch, or the call itself.
func Flatten(c Call) []Call {
	if c.Name() != "Utility.batch_all" && c.Name() != "Utility.batch" {
		return []Call{c}
	}
	batch, ok := c.Args[0].([]Call)
	if !ok {
		return []Call{c}
	}
	return batch
}

// Describe renders a call tree on one line, e.g.
// "Sudo.sudo(Assets.force_create)".
func Describe(c Call) string {
	var b strings.Builder
	describe(&b, c)
	return b.String()
}

func describe(b *strings.Builder, c Call) {
	b.WriteString(c.Name())
	var nested []Call
	for _, a := range c.Args {
		switch v := a.(type) {
		case Call:
			nested = append(nested, v)
		case []Call:
			nested = append(nested, v...)
		}
	}
	if len(nested) == 0 {
		return
	}
	b.WriteByte('(')
	for i, n := range nested {
		if i > 0 {
			b.WriteString(", ")
		}
		describe(b, n)
	}
	b.WriteByte(')')
}
