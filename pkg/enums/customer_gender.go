package enums

import "fmt"

// CustomerGender captures the gender recorded on a sale for dashboard ratios.
type CustomerGender string

const (
	CustomerGenderMale   CustomerGender = "male"
	CustomerGenderFemale CustomerGender = "female"
	CustomerGenderOther  CustomerGender = "other"
)

var validCustomerGenders = []CustomerGender{
	CustomerGenderMale,
	CustomerGenderFemale,
	CustomerGenderOther,
}

// String implements fmt.Stringer.
func (g CustomerGender) String() string {
	return string(g)
}

// IsValid reports whether the value is a known CustomerGender.
func (g CustomerGender) IsValid() bool {
	for _, candidate := range validCustomerGenders {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseCustomerGender converts raw input into a CustomerGender.
func ParseCustomerGender(value string) (CustomerGender, error) {
	for _, candidate := range validCustomerGenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer gender %q", value)
}
