package interpreter

import (
	"strconv"

	"github.com/Nirlep5252/fun/pkg/runtime"
)

// readNumber blocks for the next whitespace separated word on the input
// stream. Anything that is not a number, including end of input, reads as null.
func (i *Interpreter) readNumber() runtime.Value {
	if !i.input.Scan() {
		return runtime.NilValue{}
	}
	val, err := strconv.ParseFloat(i.input.Text(), 64)
	if err != nil {
		return runtime.NilValue{}
	}
	return runtime.NumberValue{Val: val}
}
