package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibelink-events/vibelink-api/catalog"
	"github.com/vibelink-events/vibelink-api/models"
	"github.com/vibelink-events/vibelink-api/pricing"
)

// WhatsAppURL builds the wa.me deep link that opens a chat with the business
// pre-filled with the order summary
func WhatsAppURL(businessNumber string, order *models.Order) string {
	message := WhatsAppMessage(order)
	// wa.me expects %20 for spaces
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", businessNumber, encoded)
}

// WhatsAppMessage renders the order summary sent to the business
func WhatsAppMessage(order *models.Order) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}
	optional := func(label, value string) {
		if value != "" {
			line("• %s: %s", label, value)
		}
	}

	line("🎉 *New Order from VibeLink Ghana!*")
	line("")
	line("📋 *Order ID:* %s", order.ID.String()[:8])
	line("")
	line("👤 *Client Details:*")
	line("• Name: %s", order.ClientName)
	line("• Phone: %s", order.ClientPhone)
	line("• Email: %s", order.ClientEmail)
	optional("WhatsApp", order.ClientWhatsApp)
	line("")
	line("📅 *Event Details:*")
	line("• Type: %s", eventTypeName(order.EventType))
	line("• Title: %s", order.EventTitle)
	line("• Date: %s", orTBD(formatDate(order.EventDate, "2 January 2006")))
	line("• Time: %s", orTBD(order.EventTime))
	line("• Venue: %s", order.VenueName)
	optional("Address", order.VenueAddress)
	optional("Celebrant(s)", order.CelebrantNames)
	line("")
	line("🎨 *Design Preferences:*")
	line("• Package: %s (GHS %s)", order.PackageName, FormatAmount(order.PackagePrice))
	line("• Color Palette: %s", order.ColorPalette)
	line("• Style: %s", order.StylePreference)
	if len(order.AddOns) > 0 {
		names := make([]string, 0, len(order.AddOns))
		for _, item := range order.AddOns {
			names = append(names, item.Name)
		}
		line("• Add-ons: %s", strings.Join(names, ", "))
	}
	if order.DeliveryType == pricing.DeliveryRush {
		line("• Delivery: Rush (48h)")
	} else {
		line("• Delivery: Standard")
	}
	optional("Preferred Delivery", formatDate(order.PreferredDeliveryDate, "02/01/2006"))
	line("")
	line("💰 *Total:* GHS %s", FormatAmount(order.TotalPrice))
	if order.SpecialMessage != "" {
		line("")
		line("📝 *Additional Notes:* %s", order.SpecialMessage)
	}
	if order.SpecialRequests != "" {
		line("🎯 *Design Notes:* %s", order.SpecialRequests)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatAmount renders a GHS amount with thousands separators, e.g. 1,200 or 1,250.50
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	whole, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		whole, frac = fixed[:i], fixed[i+1:]
	}

	sign := ""
	if strings.HasPrefix(whole, "-") {
		sign, whole = "-", whole[1:]
	}

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	if frac == "00" {
		return sign + grouped.String()
	}
	return sign + grouped.String() + "." + frac
}

func eventTypeName(id string) string {
	if et, ok := catalog.FindEventType(id); ok {
		return et.Name
	}
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

func formatDate(value, layout string) string {
	if value == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return value
	}
	return t.Format(layout)
}

func orTBD(value string) string {
	if value == "" {
		return "TBD"
	}
	return value
}
