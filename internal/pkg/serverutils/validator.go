package serverutils

import (
	"errors"
	"reflect"
	"strings"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/apperror"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const msgValidationFailed = "Validation failed"

// requestValidator is built once and only read afterwards.
var requestValidator = newRequestValidator()

type validatorWithTrans struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() *validatorWithTrans {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	// Optional fields validate as their pointer: nil (unset) is skipped by omitempty
	v.RegisterCustomTypeFunc(optionalValue, dto.Optional[string]{}, dto.Optional[bool]{})

	_ = v.RegisterValidation("subject", func(fl validator.FieldLevel) bool {
		return entity.Subject(fl.Field().String()).Valid()
	})

	enT := en.New()
	uni := ut.New(enT, enT)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	_ = v.RegisterTranslation("subject", trans,
		func(t ut.Translator) error {
			return t.Add("subject", "{0} must be one of: "+subjectList(), true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("subject", fe.Field())
			return msg
		},
	)

	return &validatorWithTrans{validate: v, trans: trans}
}

func optionalValue(field reflect.Value) interface{} {
	switch o := field.Interface().(type) {
	case dto.Optional[string]:
		return o.Ptr()
	case dto.Optional[bool]:
		return o.Ptr()
	}
	return nil
}

func subjectList() string {
	names := make([]string, 0, len(entity.Subjects))
	for _, s := range entity.Subjects {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// ValidateRequest checks the struct tags of req and returns a Validation
// error keyed by json field name.
func ValidateRequest(req interface{}) error {
	err := requestValidator.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.Internal(err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fe.Field()] = fe.Translate(requestValidator.trans)
	}
	return apperror.Validation(msgValidationFailed, fields)
}
