// Package whatsapp builds wa.me deep links used to hand customer
// conversations off to the business WhatsApp number. The links are
// fire-and-forget: nothing comes back from WhatsApp.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// LinkBuilder renders wa.me links against a single business number.
type LinkBuilder struct {
	number string
}

// NewLinkBuilder validates the business number and returns a builder.
// The number must be in international format without a leading plus,
// e.g. 254712345678.
func NewLinkBuilder(businessNumber string) (*LinkBuilder, error) {
	number := normalizeNumber(businessNumber)
	if number == "" {
		return nil, fmt.Errorf("whatsapp business number required")
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("whatsapp business number must be digits only, got %q", businessNumber)
		}
	}
	return &LinkBuilder{number: number}, nil
}

// Link returns a wa.me URL that opens a chat pre-filled with message.
// An empty message yields a bare chat link.
func (b *LinkBuilder) Link(message string) string {
	base := "https://wa.me/" + b.number
	if strings.TrimSpace(message) == "" {
		return base
	}
	return base + "?text=" + url.QueryEscape(message)
}

// ConsultationLink pre-fills the consultation hand-off message shown to
// back-office staff responding to a request.
func (b *LinkBuilder) ConsultationLink(name, topic string) string {
	message := fmt.Sprintf("Hello %s, thank you for your consultation request about %s. How can we help?", strings.TrimSpace(name), strings.TrimSpace(topic))
	return b.Link(message)
}

// ProductInquiryLink pre-fills a customer product question.
func (b *LinkBuilder) ProductInquiryLink(productName string) string {
	message := fmt.Sprintf("Hi, I would like to know more about %s.", strings.TrimSpace(productName))
	return b.Link(message)
}

func normalizeNumber(raw string) string {
	number := strings.TrimSpace(raw)
	number = strings.TrimPrefix(number, "+")
	number = strings.ReplaceAll(number, " ", "")
	number = strings.ReplaceAll(number, "-", "")
	return number
}
