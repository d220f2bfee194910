package order

import (
	"net/url"
	"strings"
	"unicode"
)

const chatBaseURL = "https://wa.me/"

// ChatLink builds the wa.me link that opens a chat with phone pre-filled
// with message. Non-digits in phone are dropped.
func ChatLink(phone, message string) string {
	return chatBaseURL + Digits(phone) + "?text=" + EncodeComponent(message)
}

// componentUnescaper undoes the escapes url.QueryEscape applies beyond
// encodeURIComponent: spaces become %20 and !'()* stay literal.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent escapes s the way encodeURIComponent does.
func EncodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

func Digits(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}
