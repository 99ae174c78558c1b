package wizard

import (
	"github.com/vibelink-events/vibelink-api/catalog"
	"github.com/vibelink-events/vibelink-api/pricing"
)

// MaxReferenceImages is the most inspiration images an order can carry
const MaxReferenceImages = 5

// DateLayout is the wire format for event and delivery dates
const DateLayout = "2006-01-02"

// OrderFormData is the draft order collected across the wizard steps
type OrderFormData struct {
	// Step 1: event type
	EventType string `json:"event_type"`

	// Step 2: event details
	EventTitle     string `json:"event_title"`
	EventDate      string `json:"event_date"` // YYYY-MM-DD
	EventTime      string `json:"event_time"`
	EventVenue     string `json:"event_venue"`
	EventAddress   string `json:"event_address"`
	CelebrantNames string `json:"celebrant_names"`
	AdditionalInfo string `json:"additional_info"`

	// Step 3: style and colours
	ColorPalette    string   `json:"color_palette"`
	CustomColors    []string `json:"custom_colors"`
	StylePreference string   `json:"style_preference"`
	ReferenceImages []string `json:"reference_images"`
	DesignNotes     string   `json:"design_notes"`

	// Step 4: package
	SelectedPackage string `json:"selected_package"`

	// Step 5: add-ons
	SelectedAddOns []string `json:"selected_add_ons"`

	// Step 6: timeline
	DeliveryUrgency       string `json:"delivery_urgency"`
	PreferredDeliveryDate string `json:"preferred_delivery_date"` // YYYY-MM-DD

	// Step 7: contact
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	WhatsApp    string `json:"whatsapp"`
	HearAboutUs string `json:"hear_about_us"`
}

// NewFormData returns an empty draft with the default delivery timeline
func NewFormData() OrderFormData {
	return OrderFormData{
		CustomColors:    []string{},
		ReferenceImages: []string{},
		SelectedAddOns:  []string{},
		DeliveryUrgency: pricing.DeliveryStandard,
	}
}

// Selection returns the price-relevant part of the form
func (f OrderFormData) Selection() pricing.Selection {
	return pricing.Selection{
		PackageID:       f.SelectedPackage,
		AddOnIDs:        f.SelectedAddOns,
		DeliveryUrgency: f.DeliveryUrgency,
	}
}

// Quote prices the current form
func (f OrderFormData) Quote() pricing.Quote {
	return pricing.Calculate(f.Selection())
}

// ActiveCustomColors returns the custom colours only when the custom palette is chosen
func (f OrderFormData) ActiveCustomColors() []string {
	if f.ColorPalette != catalog.CustomPaletteID {
		return nil
	}
	return f.CustomColors
}

// FormPatch is a partial update to the form. Nil fields are left unchanged.
type FormPatch struct {
	EventType             *string   `json:"event_type"`
	EventTitle            *string   `json:"event_title"`
	EventDate             *string   `json:"event_date"`
	EventTime             *string   `json:"event_time"`
	EventVenue            *string   `json:"event_venue"`
	EventAddress          *string   `json:"event_address"`
	CelebrantNames        *string   `json:"celebrant_names"`
	AdditionalInfo        *string   `json:"additional_info"`
	ColorPalette          *string   `json:"color_palette"`
	CustomColors          *[]string `json:"custom_colors"`
	StylePreference       *string   `json:"style_preference"`
	DesignNotes           *string   `json:"design_notes"`
	SelectedPackage       *string   `json:"selected_package"`
	SelectedAddOns        *[]string `json:"selected_add_ons"`
	DeliveryUrgency       *string   `json:"delivery_urgency"`
	PreferredDeliveryDate *string   `json:"preferred_delivery_date"`
	FullName              *string   `json:"full_name"`
	Email                 *string   `json:"email"`
	Phone                 *string   `json:"phone"`
	WhatsApp              *string   `json:"whatsapp"`
	HearAboutUs           *string   `json:"hear_about_us"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// apply merges the patch into the form without validating it
func (p FormPatch) apply(f *OrderFormData) {
	setString(&f.EventType, p.EventType)
	setString(&f.EventTitle, p.EventTitle)
	setString(&f.EventDate, p.EventDate)
	setString(&f.EventTime, p.EventTime)
	setString(&f.EventVenue, p.EventVenue)
	setString(&f.EventAddress, p.EventAddress)
	setString(&f.CelebrantNames, p.CelebrantNames)
	setString(&f.AdditionalInfo, p.AdditionalInfo)
	setString(&f.StylePreference, p.StylePreference)
	setString(&f.DesignNotes, p.DesignNotes)
	setString(&f.SelectedPackage, p.SelectedPackage)
	setString(&f.DeliveryUrgency, p.DeliveryUrgency)
	setString(&f.PreferredDeliveryDate, p.PreferredDeliveryDate)
	setString(&f.FullName, p.FullName)
	setString(&f.Email, p.Email)
	setString(&f.Phone, p.Phone)
	setString(&f.WhatsApp, p.WhatsApp)
	setString(&f.HearAboutUs, p.HearAboutUs)

	// with a palette in the patch the colours go through Wizard.SetColorPalette
	if p.CustomColors != nil && p.ColorPalette == nil {
		f.CustomColors = append([]string{}, (*p.CustomColors)...)
	}
	if p.SelectedAddOns != nil {
		f.SelectedAddOns = dedupe(*p.SelectedAddOns)
	}
}

func (f *OrderFormData) setPalette(id string) {
	f.ColorPalette = id
	if id != catalog.CustomPaletteID {
		f.CustomColors = []string{}
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
