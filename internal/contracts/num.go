package contracts

import (
	"encoding/json"
	"math"
	"strconv"
)

// Num is an optional number threaded through every fundamentals computation.
// ⭐ SSOT: 결측값 전파 규칙은 여기서만 정의
//
// Any arithmetic over one or more unknown operands yields Unknown. Division by
// zero and non-finite results also yield Unknown.
type Num struct {
	v  float64
	ok bool
}

// Unknown is the absent value
var Unknown = Num{}

// NumOf wraps a known value. NaN and ±Inf are treated as unknown.
func NumOf(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Unknown
	}
	return Num{v: v, ok: true}
}

// NumPtr converts a nullable float (e.g. a scanned SQL column) into a Num
func NumPtr(v *float64) Num {
	if v == nil {
		return Unknown
	}
	return NumOf(*v)
}

// Valid reports whether the value is known
func (n Num) Valid() bool {
	return n.ok
}

// Get returns the value and whether it is known
func (n Num) Get() (float64, bool) {
	return n.v, n.ok
}

// Or returns the value, or def when unknown
func (n Num) Or(def float64) float64 {
	if !n.ok {
		return def
	}
	return n.v
}

// Add returns n + o
func (n Num) Add(o Num) Num {
	if !n.ok || !o.ok {
		return Unknown
	}
	return NumOf(n.v + o.v)
}

// Sub returns n - o
func (n Num) Sub(o Num) Num {
	if !n.ok || !o.ok {
		return Unknown
	}
	return NumOf(n.v - o.v)
}

// Div returns n / o, unknown when o is zero
func (n Num) Div(o Num) Num {
	if !n.ok || !o.ok || o.v == 0 {
		return Unknown
	}
	return NumOf(n.v / o.v)
}

// Trunc drops the fractional part (integer cast of monetary and count fields)
func (n Num) Trunc() Num {
	if !n.ok {
		return Unknown
	}
	return NumOf(math.Trunc(n.v))
}

// Mean averages all values; unknown if any value is unknown or nums is empty
func Mean(nums ...Num) Num {
	if len(nums) == 0 {
		return Unknown
	}
	sum := NumOf(0)
	for _, n := range nums {
		sum = sum.Add(n)
	}
	return sum.Div(NumOf(float64(len(nums))))
}

// GreaterThan compares two values as a tri-state indicator
func (n Num) GreaterThan(o Num) Indicator {
	if !n.ok || !o.ok {
		return IndicatorUnknown
	}
	return indicatorOf(n.v > o.v)
}

// LessThan compares two values as a tri-state indicator
func (n Num) LessThan(o Num) Indicator {
	if !n.ok || !o.ok {
		return IndicatorUnknown
	}
	return indicatorOf(n.v < o.v)
}

// AtMost reports n <= o as a tri-state indicator
func (n Num) AtMost(o Num) Indicator {
	if !n.ok || !o.ok {
		return IndicatorUnknown
	}
	return indicatorOf(n.v <= o.v)
}

// String formats the value for reports ("n/a" when unknown)
func (n Num) String() string {
	if !n.ok {
		return "n/a"
	}
	return strconv.FormatFloat(n.v, 'f', -1, 64)
}

// Format formats the value with a fixed precision ("n/a" when unknown)
func (n Num) Format(prec int) string {
	if !n.ok {
		return "n/a"
	}
	return strconv.FormatFloat(n.v, 'f', prec, 64)
}

// MarshalJSON encodes unknown as null
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.ok {
		return []byte("null"), nil
	}
	return json.Marshal(n.v)
}

// UnmarshalJSON decodes null as unknown
func (n *Num) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Unknown
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NumOf(v)
	return nil
}
