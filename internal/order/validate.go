package order

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mtzalva/backend-taller/internal/common"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// intake is the validated portion of an order payload.
type intake struct {
	Customer Customer `validate:"required"`
	Vehicle  Vehicle  `validate:"required"`
}

// ValidateIntake checks the customer and vehicle blocks and returns an
// AppError with the collected human-readable messages when invalid. Messages
// use the same friendly field names as backend field errors.
func ValidateIntake(customer Customer, vehicle Vehicle) error {
	err := validate.Struct(intake{Customer: customer, Vehicle: vehicle})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.NewAppError("UNPROCESSABLE", "Los datos enviados no pudieron procesarse.", http.StatusUnprocessableEntity, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[wireField(fe)] = ruleMessage(fe)
	}
	appErr := common.ClassifyStatus(http.StatusUnprocessableEntity, err)
	appErr.Details = common.FieldErrorMessages(fields)
	return appErr
}

// wireField converts a validator namespace like "intake.Customer.Name" into
// the wire identifier "customer.name".
func wireField(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p == "VIN" {
			parts[i] = "vin"
			continue
		}
		parts[i] = strings.ToLower(p[:1]) + p[1:]
	}
	return strings.Join(parts, ".")
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "no es un correo válido"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser al menos %s", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("no debe exceder %s caracteres", fe.Param())
		}
		return fmt.Sprintf("no debe exceder %s", fe.Param())
	case "len":
		return fmt.Sprintf("debe tener exactamente %s caracteres", fe.Param())
	default:
		return "no es válido"
	}
}
