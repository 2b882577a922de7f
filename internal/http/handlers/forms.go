package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var fieldLabels = map[string]string{
	"Phone":              "Phone",
	"Password":           "Password",
	"Name":               "Name",
	"Email":              "Email",
	"CurrentPassword":    "Current password",
	"NewPassword":        "New password",
	"AmountMg":           "Amount",
	"SlabAmountPaise":    "Monthly amount",
	"Code":               "SGX code",
	"MonthlyAmountPaise": "Monthly amount",
	"ProductType":        "Product type",
	"ProductWeightMg":    "Weight",
	"PickupStoreID":      "Pickup store",
}

// validationMessage turns the first validator failure into an inline form message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input"
	}
	fe := verrs[0]
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "email":
		return "Enter a valid email"
	case "gt":
		return "Enter a valid amount"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return label + " is invalid"
	}
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// formInt reads an optional integer field; anything unparsable is zero and left to
// validation.
func formInt(r *http.Request, key string) int64 {
	v, err := strconv.ParseInt(formValue(r, key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
