package wizard

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vibelink-events/vibelink-api/catalog"
)

// ghanaPhonePattern matches 0XX XXX XXXX and +233 XX XXX XXXX numbers on MTN, Telecel and AT prefixes
var ghanaPhonePattern = regexp.MustCompile(`^(\+233|0)(2[0-9]|5[0-9])[0-9]{7}$`)

// FieldErrors maps a json field name to a human readable message
type FieldErrors map[string]string

// ValidationError is returned when one or more wizard steps fail validation
type ValidationError struct {
	Code    string
	Message string
	Fields  FieldErrors
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "ghphone", func(fl validator.FieldLevel) bool {
		return IsGhanaPhone(fl.Field().String())
	})
	mustRegister(v, "date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	mustRegister(v, "event_type", func(fl validator.FieldLevel) bool {
		_, ok := catalog.FindEventType(fl.Field().String())
		return ok
	})
	mustRegister(v, "package", func(fl validator.FieldLevel) bool {
		_, ok := catalog.FindPackage(fl.Field().String())
		return ok
	})
	mustRegister(v, "addon", func(fl validator.FieldLevel) bool {
		_, ok := catalog.FindAddOn(fl.Field().String())
		return ok
	})
	mustRegister(v, "palette", func(fl validator.FieldLevel) bool {
		_, ok := catalog.FindPalette(fl.Field().String())
		return ok
	})
	mustRegister(v, "style", func(fl validator.FieldLevel) bool {
		_, ok := catalog.FindStyle(fl.Field().String())
		return ok
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// NormalizePhone strips spaces, dashes and brackets from a phone number
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// IsGhanaPhone reports whether the number is a valid Ghana mobile number
func IsGhanaPhone(phone string) bool {
	return ghanaPhonePattern.MatchString(NormalizePhone(phone))
}

var fieldLabels = map[string]string{
	"event_type":              "Event type",
	"event_title":             "Event title",
	"event_date":              "Event date",
	"event_time":              "Event time",
	"event_venue":             "Venue name",
	"event_address":           "Address",
	"celebrant_names":         "Names",
	"additional_info":         "Additional info",
	"color_palette":           "Color palette",
	"style_preference":        "Design style",
	"custom_colors":           "Custom colors",
	"design_notes":            "Design notes",
	"selected_package":        "Package",
	"selected_add_ons":        "Add-ons",
	"delivery_urgency":        "Delivery urgency",
	"preferred_delivery_date": "Preferred delivery date",
	"full_name":               "Full name",
	"email":                   "Email address",
	"phone":                   "Phone number",
	"whatsapp":                "WhatsApp number",
	"hear_about_us":           "Referral source",
}

var selectMessages = map[string]string{
	"event_type":       "Please select an event type",
	"color_palette":    "Please select a color palette",
	"style_preference": "Please select a design style",
	"selected_package": "Please select a package",
}

func label(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		if msg, ok := selectMessages[field]; ok {
			return msg
		}
		return label(field) + " is required"
	case "max":
		return fmt.Sprintf("%s must be less than %s characters", label(field), fe.Param())
	case "email":
		return "Please enter a valid email address"
	case "ghphone":
		if field == "whatsapp" {
			return "Please enter a valid WhatsApp number"
		}
		return "Please enter a valid Ghana phone number (e.g., 024 XXX XXXX or +233 24 XXX XXXX)"
	case "date":
		return label(field) + " must be a date in YYYY-MM-DD format"
	case "hexcolor":
		return "Custom colors must be hex values like #6B46C1"
	case "unique":
		return "Add-ons must not be repeated"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label(field), fe.Param())
	case "event_type", "package", "palette", "style", "addon":
		if msg, ok := selectMessages[field]; ok {
			return msg
		}
		return fmt.Sprintf("Unknown %s: %v", strings.ToLower(label(field)), fe.Value())
	}
	return label(field) + " is invalid"
}

// check validates a step payload struct and returns its field errors
func check(payload interface{}) FieldErrors {
	errs := FieldErrors{}
	if err := validate.Struct(payload); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs["_"] = err.Error()
			return errs
		}
		for _, fe := range validationErrs {
			if _, exists := errs[fe.Field()]; !exists {
				errs[fe.Field()] = messageFor(fe)
			}
		}
	}
	return errs
}
