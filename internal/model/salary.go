package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// NotSpecified is the placeholder stored in place of a missing value.
const NotSpecified = "not specified"

// Salary is the lower bound of a listing's pay range. It is either a known
// amount or unspecified; the zero value is unspecified.
type Salary struct {
	amount float64
	known  bool
}

// KnownSalary returns a salary with the given lower bound.
func KnownSalary(amount float64) Salary {
	return Salary{amount: amount, known: true}
}

// UnspecifiedSalary returns a salary with no amount.
func UnspecifiedSalary() Salary {
	return Salary{}
}

// Amount returns the lower bound and whether it is known.
func (s Salary) Amount() (float64, bool) {
	return s.amount, s.known
}

// IsKnown reports whether the salary has an amount.
func (s Salary) IsKnown() bool {
	return s.known
}

// Valid reports whether the salary is unspecified or a finite, non-negative
// amount.
func (s Salary) Valid() bool {
	return !s.known || validAmount(s.amount)
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func checkAmount(v float64) error {
	if !validAmount(v) {
		return fmt.Errorf("salary %v: must be a finite non-negative number", v)
	}
	return nil
}

// String returns the storage text: a plain decimal or NotSpecified.
func (s Salary) String() string {
	if !s.known {
		return NotSpecified
	}
	return strconv.FormatFloat(s.amount, 'f', -1, 64)
}

// ParseSalary converts storage text back into a Salary.
func ParseSalary(text string) (Salary, error) {
	if text == NotSpecified {
		return UnspecifiedSalary(), nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Salary{}, fmt.Errorf("parse salary %q: %w", text, err)
	}
	if err := checkAmount(v); err != nil {
		return Salary{}, fmt.Errorf("parse salary %q: %w", text, err)
	}
	return KnownSalary(v), nil
}

// MarshalJSON encodes a known salary as a number and an unspecified one as
// the NotSpecified string.
func (s Salary) MarshalJSON() ([]byte, error) {
	if !s.known {
		return json.Marshal(NotSpecified)
	}
	return json.Marshal(s.amount)
}

// UnmarshalJSON accepts a number, the NotSpecified string or null.
func (s *Salary) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = UnspecifiedSalary()
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := ParseSalary(text)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	var amount float64
	if err := json.Unmarshal(data, &amount); err != nil {
		return fmt.Errorf("salary must be a number or %q: %w", NotSpecified, err)
	}
	if err := checkAmount(amount); err != nil {
		return err
	}
	*s = KnownSalary(amount)
	return nil
}
