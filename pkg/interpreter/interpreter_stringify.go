package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Nirlep5252/fun/pkg/runtime"
)

// Stringify converts a value to the text `print` writes.
func Stringify(val runtime.Value) string {
	switch v := val.(type) {
	case nil, runtime.NilValue:
		return "NULL"
	case runtime.BoolValue:
		return strconv.FormatBool(v.Val)
	case runtime.NumberValue:
		return formatNumber(v.Val)
	case *runtime.FunctionValue:
		return v.String()
	default:
		return fmt.Sprintf("<%s>", val.Kind())
	}
}

// formatNumber prints the shortest text that round-trips. Integral values get
// no fractional part; very large and very small magnitudes use an exponent.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
