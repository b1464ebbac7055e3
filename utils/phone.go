// utils/phone.go
package utils

import (
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ToWhatsappPhone normalizes an Argentine phone number to the form WhatsApp
// addresses: country code 54 plus the mobile 9 prefix, no plus sign
// ("011-4555-1234" becomes "5491145551234"). Numbers the library can parse
// are formatted properly; free-form local shorthand falls back to the
// digit-prefix rules the office has always used.
func ToWhatsappPhone(raw string) string {
	if num, err := phonenumbers.Parse(raw, "AR"); err == nil && phonenumbers.IsValidNumber(num) {
		e164 := strings.TrimPrefix(phonenumbers.Format(num, phonenumbers.E164), "+")
		if strings.HasPrefix(e164, "549") {
			return e164
		}
		if strings.HasPrefix(e164, "54") {
			return "549" + e164[2:]
		}
		return e164
	}

	digits := keepDigits(raw)
	if digits == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(digits, "549"):
		return digits
	case strings.HasPrefix(digits, "54"):
		return "549" + digits[2:]
	case strings.HasPrefix(digits, "0"):
		return "549" + digits[1:]
	default:
		return "549" + digits
	}
}

// WhatsappLink builds the messaging deep link for a phone, with an optional
// preset message.
func WhatsappLink(phone, message string) string {
	link := "https://api.whatsapp.com/send?phone=" + ToWhatsappPhone(phone)
	if message != "" {
		link += "&text=" + url.QueryEscape(message)
	}
	return link
}

func keepDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
