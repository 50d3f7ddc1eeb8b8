package utils

import (
	"html"
	"reflect"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"
)

type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool
	policy      *bluemonday.Policy
}

var (
	instance      *Validator
	once          sync.Once
	configuration *truemail.Configuration

	// Letters of any script, spaces, apostrophes, dots and hyphens.
	namePattern = regexp.MustCompile(`^[\p{L}][\p{L}\p{M} .'\-]*$`)
)

// VerifierEmail is the sender address truemail uses for its SMTP probes.
var VerifierEmail = "do-not-reply@urlshrinker.app"

// EmailValidationType is the truemail validation layer: regex, mx, mx_blacklist or smtp.
var EmailValidationType = "regex"

func GetValidator() *Validator {
	once.Do(func() {
		var err error
		configuration, err = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         VerifierEmail,
			ValidationTypeDefault: EmailValidationType,
			SmtpFailFast:          true,
		})
		if err != nil {
			LogMessage("warn", "Email verification disabled: "+err.Error())
		}

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: validateEmail,
			policy:      bluemonday.StrictPolicy(),
		}

		registerCustomValidators(instance.Validate)
	})

	return instance
}

func validateEmail(email string) bool {
	if configuration == nil {
		return true
	}
	return truemail.IsValid(email, configuration)
}

// IsValidURL reports whether s is an absolute URI with a scheme.
func (v *Validator) IsValidURL(s string) bool {
	return v.Validate.Var(s, "url") == nil
}

// SanitizeData strips markup from every string field tagged with `sanitize:"strict"`.
// The policy escapes what it keeps, the result is unescaped back to plain text so names like O'Brien survive.
// obj must be a pointer to a struct.
func (v *Validator) SanitizeData(obj interface{}) error {
	value := reflect.ValueOf(obj)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return &validator.InvalidValidationError{Type: reflect.TypeOf(obj)}
	}

	elem := value.Elem()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		if field.Kind() != reflect.String || !field.CanSet() {
			continue
		}
		if elem.Type().Field(i).Tag.Get("sanitize") != "strict" {
			continue
		}
		field.SetString(html.UnescapeString(v.policy.Sanitize(field.String())))
	}

	return nil
}

func registerCustomValidators(v *validator.Validate) {
	err := v.RegisterValidation("name_validation", nameValidation)
	if err != nil {
		return
	}
}

func nameValidation(fl validator.FieldLevel) bool {
	return namePattern.MatchString(fl.Field().String())
}
