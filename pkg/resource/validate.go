package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator for variant configuration structs.
// Field names in reported errors follow the json tag.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeConfig strictly decodes raw JSON into a variant configuration
// struct. Unknown fields and wrongly typed values are reported as
// VALIDATION_ERRORs so front ends can render them and re-prompt.
func decodeConfig(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return NewValidationError(typeErr.Field, nil,
				fmt.Sprintf("expected %s", typeErr.Type))
		}
		return NewValidationError("", nil, fmt.Sprintf("invalid configuration: %v", err))
	}
	return nil
}

// checkStruct runs the shared validator over a configuration struct and
// translates the first failure into a VALIDATION_ERROR carrying the
// field name and its allowed set.
func checkStruct(cfg any) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewValidationError("", nil, err.Error())
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "oneof":
		return NewValidationError(fe.Field(), strings.Fields(fe.Param()),
			fmt.Sprintf("invalid value %v", fe.Value()))
	case "required":
		return NewValidationError(fe.Field(), nil, "field is required")
	default:
		return NewValidationError(fe.Field(), nil,
			fmt.Sprintf("failed %s constraint", fe.Tag()))
	}
}
