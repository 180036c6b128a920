package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	validate.RegisterValidation("notify_scope", oneOfString("people", "government", "both"))
	validate.RegisterValidation("report_status", oneOfString("submitted", "under_review", "approved", "rejected", "archived"))
	validate.RegisterValidation("report_priority", oneOfString("low", "normal", "high", "critical"))
	validate.RegisterValidation("dispatch_status", oneOfString("pending", "notified", "acknowledged", "dismissed"))
	validate.RegisterValidation("notification_type", oneOfString("system", "report_update", "verification", "reminder"))
	validate.RegisterValidation("delivery_channel", oneOfString("in_app", "push", "sms", "email"))
	validate.RegisterValidation("media_type", oneOfString("image", "video"))
}

func oneOfString(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "latitude":
			errors[field] = "Invalid latitude"
		case "longitude":
			errors[field] = "Invalid longitude"
		case "notify_scope":
			errors[field] = "Invalid scope. Must be: people, government, or both"
		case "report_status":
			errors[field] = "Invalid status. Must be: submitted, under_review, approved, rejected, or archived"
		case "report_priority":
			errors[field] = "Invalid priority. Must be: low, normal, high, or critical"
		case "dispatch_status":
			errors[field] = "Invalid status. Must be: pending, notified, acknowledged, or dismissed"
		case "notification_type":
			errors[field] = "Invalid type. Must be: system, report_update, verification, or reminder"
		case "delivery_channel":
			errors[field] = "Invalid channel. Must be: in_app, push, sms, or email"
		case "media_type":
			errors[field] = "Invalid media type. Must be: image or video"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
