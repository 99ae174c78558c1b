package catalog

import "github.com/shopspring/decimal"

// EventType is a category of event we design invitations for
type EventType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Package is one of the priced invitation packages
type Package struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Popular     bool            `json:"popular"`
	HeroImages  int             `json:"hero_images"`
	Hosting     string          `json:"hosting"`
	Revisions   string          `json:"revisions"`
	Features    []string        `json:"features"`
}

// AddOn is an optional extra that can be added to any package
type AddOn struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	PriceLabel string          `json:"price_label"`
	Category   string          `json:"category"` // delivery, design, features, language, hosting
}

// ColorPalette is a preset colour scheme
type ColorPalette struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
	Mood   string   `json:"mood"`
}

// StylePreference is a design direction the customer can pick
type StylePreference struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

const (
	// RushAddOnID is the add-on that already covers the rush delivery fee
	RushAddOnID = "rush"
	// CustomPaletteID marks a palette whose colours are chosen by the customer
	CustomPaletteID = "custom"
)

// RushFee is charged for rush delivery unless the rush add-on is selected
var RushFee = decimal.NewFromInt(300)

var EventTypes = []EventType{
	{ID: "wedding", Name: "Wedding", Description: "Celebrate your love story"},
	{ID: "funeral", Name: "Funeral", Description: "Honor a life well-lived"},
	{ID: "graduation", Name: "Graduation", Description: "Celebrate achievements"},
	{ID: "birthday", Name: "Birthday", Description: "Make birthdays special"},
	{ID: "naming", Name: "Naming Ceremony", Description: "Welcome new life"},
	{ID: "corporate", Name: "Corporate Event", Description: "Professional gatherings"},
	{ID: "anniversary", Name: "Anniversary", Description: "Milestone celebrations"},
	{ID: "church", Name: "Church Event", Description: "Faith-based gatherings"},
}

var Packages = []Package{
	{
		ID:          "starter",
		Name:        "Starter Vibe",
		Price:       decimal.NewFromInt(500),
		Description: "Best for simple, intimate events",
		HeroImages:  1,
		Hosting:     "30 days",
		Revisions:   "1 round",
		Features: []string{
			"1 hero banner image",
			"Pre-designed template",
			"Event details section",
			"Countdown timer",
			"Google Maps directions",
			"WhatsApp share button",
			"Mobile responsive",
			"30-day hosting",
			"1 revision round",
		},
	},
	{
		ID:          "classic",
		Name:        "Classic Vibe",
		Price:       decimal.NewFromInt(1200),
		Description: "Best for weddings, funerals, most events",
		Popular:     true,
		HeroImages:  2,
		Hosting:     "90 days",
		Revisions:   "2 rounds",
		Features: []string{
			"2 hero banner images",
			"Everything in Starter",
			"Custom color scheme",
			"Photo gallery (10 photos)",
			"Background music",
			"RSVP tracking",
			"Add to calendar",
			"Contact cards",
			"90-day hosting",
			"2 revision rounds",
		},
	},
	{
		ID:          "prestige",
		Name:        "Prestige Vibe",
		Price:       decimal.NewFromInt(2500),
		Description: "Best for premium celebrations",
		HeroImages:  3,
		Hosting:     "1 year",
		Revisions:   "Unlimited",
		Features: []string{
			"3 hero banner images",
			"Everything in Classic",
			"Fully custom design",
			"Unlimited photos",
			"Video integration",
			"MoMo contribution collection",
			"Guest Messaging Wall",
			"Post-event memorial page",
			"Guest analytics dashboard",
			"Custom domain option",
			"1-year hosting",
			"Unlimited revisions",
			"Priority WhatsApp support",
		},
	},
	{
		ID:          "royal",
		Name:        "Royal Vibe",
		Price:       decimal.NewFromInt(5000),
		Description: "Best for exclusive, luxury events",
		HeroImages:  5,
		Hosting:     "2 years",
		Revisions:   "Unlimited",
		Features: []string{
			"5 hero banner images",
			"Everything in Prestige",
			"Multiple event pages",
			"White-label (our brand removed)",
			"Advanced animations",
			"2-year hosting",
			"Dedicated account manager",
			"Professional consultation",
		},
	},
}

var AddOns = []AddOn{
	{ID: "rush", Name: "Rush Delivery (48 hours)", Price: decimal.NewFromInt(300), PriceLabel: "GHS 300", Category: "delivery"},
	{ID: "extra-revision", Name: "Extra Revision Round", Price: decimal.NewFromInt(100), PriceLabel: "GHS 100", Category: "design"},
	{ID: "hosting-6m", Name: "Extended Hosting (6 months)", Price: decimal.NewFromInt(150), PriceLabel: "GHS 150", Category: "hosting"},
	{ID: "hosting-1y", Name: "Extended Hosting (1 year)", Price: decimal.NewFromInt(300), PriceLabel: "GHS 300", Category: "hosting"},
	{ID: "custom-domain", Name: "Custom Domain", Price: decimal.NewFromInt(200), PriceLabel: "GHS 200/yr", Category: "hosting"},
	{ID: "video-bg", Name: "Video Background", Price: decimal.NewFromInt(200), PriceLabel: "GHS 200", Category: "design"},
	{ID: "extra-photos", Name: "Extra Photos (+10)", Price: decimal.NewFromInt(100), PriceLabel: "GHS 100", Category: "design"},
	{ID: "extra-language", Name: "Additional Language Version", Price: decimal.NewFromInt(150), PriceLabel: "GHS 150", Category: "language"},
	{ID: "livestream", Name: "Live Stream Embed", Price: decimal.NewFromInt(150), PriceLabel: "GHS 150", Category: "features"},
	{ID: "thank-you", Name: "Post-Event Thank You Page", Price: decimal.NewFromInt(200), PriceLabel: "GHS 200", Category: "features"},
	{ID: "messaging-wall", Name: "Guest Messaging Wall", Price: decimal.NewFromInt(150), PriceLabel: "GHS 150", Category: "features"},
	{ID: "photo-booth", Name: "Photo Booth Frame", Price: decimal.NewFromInt(100), PriceLabel: "GHS 100", Category: "features"},
	{ID: "timeline", Name: "Event Timeline/Program Display", Price: decimal.NewFromInt(100), PriceLabel: "GHS 100", Category: "features"},
	{ID: "tribute-wall", Name: "Memory Tribute Wall (funerals)", Price: decimal.NewFromInt(200), PriceLabel: "GHS 200", Category: "features"},
	{ID: "bilingual-twi", Name: "Bilingual (English + Twi)", Price: decimal.NewFromInt(150), PriceLabel: "GHS 150", Category: "language"},
	{ID: "bilingual-french", Name: "Bilingual (English + French)", Price: decimal.NewFromInt(150), PriceLabel: "GHS 150", Category: "language"},
	{ID: "memorial-renewal", Name: "Memorial Page Annual Renewal", Price: decimal.NewFromInt(100), PriceLabel: "GHS 100/yr", Category: "hosting"},
	{ID: "bg-music", Name: "Background Music", Price: decimal.NewFromInt(50), PriceLabel: "GHS 50", Category: "features"},
	{ID: "rsvp", Name: "RSVP Tracking", Price: decimal.NewFromInt(100), PriceLabel: "GHS 100", Category: "features"},
}

var ColorPalettes = []ColorPalette{
	{ID: "elegant-gold", Name: "Elegant Gold", Colors: []string{"#D4AF37", "#1a1a2e", "#FFFAF0", "#8B7355"}, Mood: "Luxurious & Sophisticated"},
	{ID: "romantic-blush", Name: "Romantic Blush", Colors: []string{"#E8B4B8", "#67595E", "#EED6D3", "#A49393"}, Mood: "Soft & Romantic"},
	{ID: "royal-purple", Name: "Royal Purple", Colors: []string{"#6B46C1", "#1a1a2e", "#E9D5FF", "#9F7AEA"}, Mood: "Regal & Majestic"},
	{ID: "natural-green", Name: "Natural Green", Colors: []string{"#2D5A27", "#F5F5DC", "#90B77D", "#42855B"}, Mood: "Organic & Fresh"},
	{ID: "ocean-blue", Name: "Ocean Blue", Colors: []string{"#1E40AF", "#F0F9FF", "#60A5FA", "#1E3A5F"}, Mood: "Calm & Serene"},
	{ID: "sunset-warm", Name: "Sunset Warm", Colors: []string{"#DC2626", "#FEF3C7", "#F59E0B", "#7C2D12"}, Mood: "Warm & Vibrant"},
	{ID: "modern-mono", Name: "Modern Mono", Colors: []string{"#18181B", "#FFFFFF", "#71717A", "#F4F4F5"}, Mood: "Clean & Contemporary"},
	{ID: "burgundy-classic", Name: "Burgundy Classic", Colors: []string{"#800020", "#F5F5DC", "#D4A373", "#3D0C11"}, Mood: "Timeless & Elegant"},
	{ID: "teal-coral", Name: "Teal & Coral", Colors: []string{"#0D9488", "#FECACA", "#F97316", "#134E4A"}, Mood: "Fresh & Playful"},
	{ID: "dusty-rose", Name: "Dusty Rose", Colors: []string{"#BE8A7C", "#FFF5F5", "#D4A5A5", "#8B5A5A"}, Mood: "Vintage & Delicate"},
	{ID: "forest-gold", Name: "Forest & Gold", Colors: []string{"#14532D", "#FBBF24", "#F0FDF4", "#166534"}, Mood: "Nature & Luxury"},
	{ID: "custom", Name: "Custom Colors", Colors: []string{"#6B46C1", "#D4AF37", "#1a1a2e", "#FFFFFF"}, Mood: "Choose your own"},
}

var StylePreferences = []StylePreference{
	{ID: "minimalist", Name: "Minimalist", Description: "Clean lines, lots of white space, simple elegance"},
	{ID: "luxurious", Name: "Luxurious", Description: "Gold accents, rich textures, opulent details"},
	{ID: "romantic", Name: "Romantic", Description: "Soft florals, flowing scripts, dreamy vibes"},
	{ID: "modern", Name: "Modern", Description: "Bold typography, geometric shapes, contemporary feel"},
	{ID: "traditional", Name: "Traditional", Description: "Classic layouts, timeless patterns, formal elegance"},
	{ID: "playful", Name: "Playful", Description: "Bright colors, fun elements, energetic design"},
	{ID: "rustic", Name: "Rustic", Description: "Natural textures, earthy tones, organic feel"},
	{ID: "cultural", Name: "Cultural/Afrocentric", Description: "Kente patterns, African motifs, heritage-inspired"},
}

// FindPackage looks up a package by id
func FindPackage(id string) (Package, bool) {
	for _, p := range Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// FindAddOn looks up an add-on by id
func FindAddOn(id string) (AddOn, bool) {
	for _, a := range AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}

// FindEventType looks up an event type by id
func FindEventType(id string) (EventType, bool) {
	for _, e := range EventTypes {
		if e.ID == id {
			return e, true
		}
	}
	return EventType{}, false
}

// FindPalette looks up a colour palette by id
func FindPalette(id string) (ColorPalette, bool) {
	for _, p := range ColorPalettes {
		if p.ID == id {
			return p, true
		}
	}
	return ColorPalette{}, false
}

// FindStyle looks up a style preference by id
func FindStyle(id string) (StylePreference, bool) {
	for _, s := range StylePreferences {
		if s.ID == id {
			return s, true
		}
	}
	return StylePreference{}, false
}
