// Package validation configures request validation and turns binding
// failures into field-level messages for the API error payload.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PayloadField keys errors that concern the body as a whole.
const PayloadField = "payload"

// Init configures the validator behind gin binding.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register reports fields by their JSON names and adds the aliases used by
// request structs: refid for required UUID references and sortorder for the
// list order parameter.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("refid", "required,uuid")
	v.RegisterAlias("sortorder", "omitempty,oneof=asc desc ASC DESC")
}

// ToDetails converts a binding error into map[field]message.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		fieldErrs validator.ValidationErrors
	)
	switch {
	case errors.Is(err, io.EOF):
		return map[string]string{PayloadField: "request body is required"}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return map[string]string{PayloadField: "invalid json"}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = PayloadField
		}
		return map[string]string{field: "must be of type " + typeErr.Type.String()}
	case errors.As(err, &fieldErrs):
		out := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			out[fe.Field()] = message(fe)
		}
		return out
	}
	return map[string]string{PayloadField: "invalid payload"}
}

var fixedMessages = map[string]string{
	"required": "is required",
	"uuid":     "must be a valid UUID",
	"uuid4":    "must be a valid UUID",
	"email":    "must be a valid email",
	"url":      "must be a valid URL",
}

var boundMessages = map[string]string{
	"min": "must be at least %s%s",
	"max": "must be at most %s%s",
	"len": "must be exactly %s%s",
	"gte": "must be greater than or equal to %s%s",
	"lte": "must be less than or equal to %s%s",
}

func message(fe validator.FieldError) string {
	tag, param := fe.ActualTag(), fe.Param()
	if msg, ok := fixedMessages[tag]; ok {
		return msg
	}
	if format, ok := boundMessages[tag]; ok {
		return fmt.Sprintf(format, param, sizeUnit(tag, fe.Kind()))
	}
	if tag == "oneof" {
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	}
	if param != "" {
		return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
	}
	return fmt.Sprintf("validation failed for '%s'", tag)
}

// sizeUnit qualifies length bounds; numeric bounds read as plain values.
func sizeUnit(tag string, k reflect.Kind) string {
	if tag == "gte" || tag == "lte" {
		return ""
	}
	switch k {
	case reflect.String:
		return " characters long"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	default:
		return ""
	}
}
