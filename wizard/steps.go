package wizard

import (
	"strings"

	"github.com/vibelink-events/vibelink-api/catalog"
)

// Step identifies a page of the order wizard
type Step int

const (
	StepEventType Step = iota + 1
	StepEventDetails
	StepStyle
	StepPackage
	StepAddOns
	StepTimeline
	StepContact
)

const (
	FirstStep = StepEventType
	LastStep  = StepContact
)

var stepNames = map[Step]string{
	StepEventType:    "Event Type",
	StepEventDetails: "Event Details",
	StepStyle:        "Style & Colors",
	StepPackage:      "Package",
	StepAddOns:       "Add-ons",
	StepTimeline:     "Timeline",
	StepContact:      "Contact & Submit",
}

// Name returns the display name of the step
func (s Step) Name() string {
	return stepNames[s]
}

// Valid reports whether s is one of the seven wizard steps
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// StepPayload is the statically typed data collected on one step
type StepPayload interface {
	Step() Step
	// Complete reports whether the step's required selections are present
	Complete() bool
	// Validate checks every field of the step
	Validate() FieldErrors
}

type EventTypeStep struct {
	EventType string `json:"event_type" validate:"required,event_type"`
}

func (p EventTypeStep) Step() Step            { return StepEventType }
func (p EventTypeStep) Complete() bool        { return p.EventType != "" }
func (p EventTypeStep) Validate() FieldErrors { return check(p) }

type EventDetailsStep struct {
	EventTitle     string `json:"event_title" validate:"required,max=100"`
	EventDate      string `json:"event_date" validate:"required,date"`
	EventTime      string `json:"event_time" validate:"max=20"`
	EventVenue     string `json:"event_venue" validate:"required,max=200"`
	EventAddress   string `json:"event_address" validate:"max=300"`
	CelebrantNames string `json:"celebrant_names" validate:"max=200"`
	AdditionalInfo string `json:"additional_info" validate:"max=1000"`
}

func (p EventDetailsStep) Step() Step { return StepEventDetails }
func (p EventDetailsStep) Complete() bool {
	return p.EventTitle != "" && p.EventDate != "" && p.EventVenue != ""
}
func (p EventDetailsStep) Validate() FieldErrors { return check(p) }

type StyleStep struct {
	ColorPalette    string   `json:"color_palette" validate:"required,palette"`
	CustomColors    []string `json:"custom_colors" validate:"dive,hexcolor"`
	StylePreference string   `json:"style_preference" validate:"required,style"`
	DesignNotes     string   `json:"design_notes" validate:"max=1000"`
}

func (p StyleStep) Step() Step     { return StepStyle }
func (p StyleStep) Complete() bool { return p.ColorPalette != "" && p.StylePreference != "" }
func (p StyleStep) Validate() FieldErrors {
	errs := check(p)
	if p.ColorPalette == catalog.CustomPaletteID && len(p.CustomColors) != 2 {
		errs["custom_colors"] = "Please choose two custom colors"
	}
	return errs
}

type PackageStep struct {
	SelectedPackage string `json:"selected_package" validate:"required,package"`
}

func (p PackageStep) Step() Step            { return StepPackage }
func (p PackageStep) Complete() bool        { return p.SelectedPackage != "" }
func (p PackageStep) Validate() FieldErrors { return check(p) }

// AddOnsStep has no required selection
type AddOnsStep struct {
	SelectedAddOns []string `json:"selected_add_ons" validate:"unique,dive,addon"`
}

func (p AddOnsStep) Step() Step            { return StepAddOns }
func (p AddOnsStep) Complete() bool        { return true }
func (p AddOnsStep) Validate() FieldErrors { return check(p) }

// TimelineStep defaults to standard delivery so it is always complete
type TimelineStep struct {
	DeliveryUrgency       string `json:"delivery_urgency" validate:"required,oneof=standard rush"`
	PreferredDeliveryDate string `json:"preferred_delivery_date" validate:"omitempty,date"`
}

func (p TimelineStep) Step() Step            { return StepTimeline }
func (p TimelineStep) Complete() bool        { return true }
func (p TimelineStep) Validate() FieldErrors { return check(p) }

type ContactStep struct {
	FullName    string `json:"full_name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Phone       string `json:"phone" validate:"required,ghphone"`
	WhatsApp    string `json:"whatsapp" validate:"omitempty,ghphone"`
	HearAboutUs string `json:"hear_about_us" validate:"max=100"`
}

func (p ContactStep) Step() Step            { return StepContact }
func (p ContactStep) Complete() bool        { return p.FullName != "" && p.Phone != "" }
func (p ContactStep) Validate() FieldErrors { return check(p) }

// Payload extracts the typed payload of a step from the form
func (f OrderFormData) Payload(step Step) StepPayload {
	switch step {
	case StepEventType:
		return EventTypeStep{EventType: f.EventType}
	case StepEventDetails:
		return EventDetailsStep{
			EventTitle:     strings.TrimSpace(f.EventTitle),
			EventDate:      f.EventDate,
			EventTime:      strings.TrimSpace(f.EventTime),
			EventVenue:     strings.TrimSpace(f.EventVenue),
			EventAddress:   strings.TrimSpace(f.EventAddress),
			CelebrantNames: strings.TrimSpace(f.CelebrantNames),
			AdditionalInfo: strings.TrimSpace(f.AdditionalInfo),
		}
	case StepStyle:
		return StyleStep{
			ColorPalette:    f.ColorPalette,
			CustomColors:    f.ActiveCustomColors(),
			StylePreference: f.StylePreference,
			DesignNotes:     strings.TrimSpace(f.DesignNotes),
		}
	case StepPackage:
		return PackageStep{SelectedPackage: f.SelectedPackage}
	case StepAddOns:
		return AddOnsStep{SelectedAddOns: f.SelectedAddOns}
	case StepTimeline:
		return TimelineStep{
			DeliveryUrgency:       f.DeliveryUrgency,
			PreferredDeliveryDate: f.PreferredDeliveryDate,
		}
	case StepContact:
		return ContactStep{
			FullName:    strings.TrimSpace(f.FullName),
			Email:       strings.ToLower(strings.TrimSpace(f.Email)),
			Phone:       NormalizePhone(f.Phone),
			WhatsApp:    NormalizePhone(f.WhatsApp),
			HearAboutUs: strings.TrimSpace(f.HearAboutUs),
		}
	}
	return nil
}

// IsStepComplete reports whether a step satisfies its completion predicate
func (f OrderFormData) IsStepComplete(step Step) bool {
	payload := f.Payload(step)
	if payload == nil {
		return false
	}
	return payload.Complete()
}

// ValidateStep runs the field validation of a single step
func (f OrderFormData) ValidateStep(step Step) FieldErrors {
	payload := f.Payload(step)
	if payload == nil {
		return FieldErrors{"step": "Unknown step"}
	}
	return payload.Validate()
}

// Validate checks the whole form and the image limit before submission
func (f OrderFormData) Validate() error {
	all := FieldErrors{}
	for step := FirstStep; step <= LastStep; step++ {
		for field, msg := range f.ValidateStep(step) {
			all[field] = msg
		}
	}
	if len(f.ReferenceImages) > MaxReferenceImages {
		all["reference_images"] = "You can upload at most 5 reference images"
	}
	if len(all) > 0 {
		return &ValidationError{
			Code:    "VALIDATION_ERROR",
			Message: "Order form is incomplete or invalid",
			Fields:  all,
		}
	}
	return nil
}

// Normalized returns a copy of the form with trimmed text, lower-cased email and
// compact phone numbers, ready to be stored
func (f OrderFormData) Normalized() OrderFormData {
	details := f.Payload(StepEventDetails).(EventDetailsStep)
	style := f.Payload(StepStyle).(StyleStep)
	contact := f.Payload(StepContact).(ContactStep)

	out := f
	out.EventTitle = details.EventTitle
	out.EventTime = details.EventTime
	out.EventVenue = details.EventVenue
	out.EventAddress = details.EventAddress
	out.CelebrantNames = details.CelebrantNames
	out.AdditionalInfo = details.AdditionalInfo
	out.CustomColors = style.CustomColors
	out.DesignNotes = style.DesignNotes
	out.SelectedAddOns = dedupe(f.SelectedAddOns)
	out.FullName = contact.FullName
	out.Email = contact.Email
	out.Phone = contact.Phone
	out.WhatsApp = contact.WhatsApp
	out.HearAboutUs = contact.HearAboutUs
	if out.DeliveryUrgency == "" {
		out.DeliveryUrgency = "standard"
	}
	return out
}
