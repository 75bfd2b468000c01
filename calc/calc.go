// Package calc is the four-function calculator state machine.
package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"scratchcalc/internal/numfmt"
)

// Operator is a binary operation.
type Operator rune

const (
	OpNone Operator = 0
	OpAdd  Operator = '+'
	OpSub  Operator = '-'
	OpMul  Operator = '×'
	OpDiv  Operator = '÷'
)

func (o Operator) String() string {
	if o == OpNone {
		return ""
	}
	return string(rune(o))
}

// ParseOperator accepts the keypad glyphs and their ASCII stand-ins.
func ParseOperator(r rune) (Operator, bool) {
	switch r {
	case '+':
		return OpAdd, true
	case '-':
		return OpSub, true
	case '×', '*', 'x', 'X':
		return OpMul, true
	case '÷', '/':
		return OpDiv, true
	}
	return OpNone, false
}

const (
	errorText   = "Error"
	maxDisplay  = 12
	maxInputLen = 32
	expDigits   = 6
)

var (
	ErrIncomplete     = errors.New("calc: no pending operation")
	ErrDivisionByZero = errors.New("calc: division by zero")
	ErrNotFinite      = errors.New("calc: result is not finite")
	ErrBadOperator    = errors.New("calc: unknown operator")
)

// Calculator holds the display and the pending binary operation.
type Calculator struct {
	display    string
	pending    float64
	hasPending bool
	op         Operator
	awaitFresh bool
	err        error
}

func New() *Calculator {
	return &Calculator{display: "0"}
}

// Display returns the raw display string.
func (c *Calculator) Display() string { return c.display }

// DisplayText returns the display as shown, switching long values to
// exponent notation.
func (c *Calculator) DisplayText() string {
	if len(c.display) <= maxDisplay {
		return c.display
	}
	v, err := strconv.ParseFloat(c.display, 64)
	if err != nil {
		return c.display
	}
	return numfmt.Exponential(v, expDigits)
}

// Pending describes the stored operand and operator, e.g. "12 +".
func (c *Calculator) Pending() string {
	if !c.hasPending || c.op == OpNone {
		return ""
	}
	return numfmt.Display(c.pending) + " " + c.op.String()
}

// Err returns the error of the last failed operation, cleared by new input.
func (c *Calculator) Err() error { return c.err }

// InputDigit appends a digit 0-9.
func (c *Calculator) InputDigit(d rune) {
	if d < '0' || d > '9' {
		return
	}
	c.err = nil
	if c.awaitFresh || c.display == errorText {
		c.display = string(d)
		c.awaitFresh = false
		return
	}
	if c.display == "0" {
		c.display = string(d)
		return
	}
	if len(c.display) >= maxInputLen {
		return
	}
	c.display += string(d)
}

// InputDecimal adds a decimal point unless one is already present.
func (c *Calculator) InputDecimal() {
	c.err = nil
	if c.awaitFresh || c.display == errorText {
		c.display = "0."
		c.awaitFresh = false
		return
	}
	if strings.Contains(c.display, ".") || len(c.display) >= maxInputLen {
		return
	}
	c.display += "."
}

// InputOperator stores op. With an operation already pending and a new
// operand entered, the pending operation is evaluated first and its result
// becomes the display. Pressing another operator before entering an operand
// only replaces the operator.
func (c *Calculator) InputOperator(op Operator) error {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
	default:
		return ErrBadOperator
	}
	if c.hasPending && c.awaitFresh {
		c.op = op
		return nil
	}
	v, err := c.value()
	if err != nil {
		return err
	}
	if c.hasPending && c.op != OpNone {
		r, err := apply(c.pending, v, c.op)
		if err != nil {
			c.fail(err)
			return err
		}
		c.display = numfmt.Display(r)
		v = r
	}
	c.pending = v
	c.hasPending = true
	c.op = op
	c.awaitFresh = true
	c.err = nil
	return nil
}

// Equals evaluates the pending operation and clears it. The display keeps
// the second operand until SetResult.
func (c *Calculator) Equals() (float64, error) {
	if !c.hasPending || c.op == OpNone {
		return 0, ErrIncomplete
	}
	v, err := c.value()
	if err != nil {
		return 0, err
	}
	r, err := apply(c.pending, v, c.op)
	if err != nil {
		c.fail(err)
		return 0, err
	}
	c.hasPending = false
	c.op = OpNone
	c.awaitFresh = true
	c.err = nil
	return r, nil
}

// SetResult shows a revealed result. The next digit starts a new number.
func (c *Calculator) SetResult(v float64) {
	c.display = numfmt.Display(v)
	c.awaitFresh = true
}

// Clear resets everything.
func (c *Calculator) Clear() {
	*c = Calculator{display: "0"}
}

func (c *Calculator) value() (float64, error) {
	v, err := strconv.ParseFloat(c.display, 64)
	if err != nil {
		return 0, ErrIncomplete
	}
	return v, nil
}

func (c *Calculator) fail(err error) {
	*c = Calculator{display: errorText, awaitFresh: true, err: err}
}

func apply(a, b float64, op Operator) (float64, error) {
	var r float64
	switch op {
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpMul:
		r = a * b
	case OpDiv:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		r = a / b
	default:
		return 0, ErrBadOperator
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, ErrNotFinite
	}
	return r, nil
}
