package validators

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"kaifacademy/middleware"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	notBlankTag = "notblank"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// report json names instead of Go field names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		if str, ok := fl.Field().Interface().(string); ok {
			return strings.TrimSpace(str) != ""
		}
		return true
	})
	_ = Validate.RegisterTranslation(notBlankTag, Translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string { return fe.Field() + " cannot be blank" },
	)
}

// Struct validates s and returns field -> message, nil when valid
func Struct(s interface{}) map[string]string {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"body": err.Error()}
	}
	result := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		result[fe.Field()] = fe.Translate(Translator)
	}
	return result
}

// Body parses the JSON body into reqData and validates it.
// It writes the error response itself and returns false when the request must stop.
func Body(c *fiber.Ctx, reqData interface{}) (bool, error) {
	if err := c.BodyParser(reqData); err != nil {
		return false, middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
	}
	if errs := Struct(reqData); errs != nil {
		return false, middleware.ValidationErrorResponse(c, errs)
	}
	return true, nil
}

// Query is Body for query strings
func Query(c *fiber.Ctx, reqData interface{}) (bool, error) {
	if err := c.QueryParser(reqData); err != nil {
		return false, middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters!")
	}
	if errs := Struct(reqData); errs != nil {
		return false, middleware.ValidationErrorResponse(c, errs)
	}
	return true, nil
}

// ParseID reads a positive integer route parameter
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// IDParam validates the named route parameter and stores it in c.Locals(local) as uint
func IDParam(param, local, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := ParseID(c.Params(param))
		if !ok {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid "+label+" ID!")
		}
		c.Locals(local, id)
		return c.Next()
	}
}
