package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator:
//
//	notblank  string with at least one non-space character
//	filekind  one of the file kind names (html, css, js, jpg, png, mp4, other)
//
// Request structs report fields by their json name.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err = v.RegisterValidation("notblank", notBlank); err != nil {
			return
		}
		err = v.RegisterValidation("filekind", fileKind)
	})
	return err
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func fileKind(fl validator.FieldLevel) bool {
	_, ok := filetype.ParseKind(fl.Field().String())
	return ok
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// ValidationMessage flattens validator errors into "name (tag), ..." or
// returns "" when err is not a validation failure.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ""
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" ("+fe.Tag()+")")
	}
	return "validation failed on " + strings.Join(parts, ", ")
}
