package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation on a request DTO and
// converts the first violation into a 400 AppError.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if ok := toValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			first := verrs[0]
			return NewAppError(fiber.StatusBadRequest,
				fmt.Sprintf("field %s failed on the %s rule", first.Field(), first.Tag()))
		}
		return NewAppError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func toValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}
