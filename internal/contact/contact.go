// Package contact builds click-to-chat and map links.
package contact

import (
	"net/url"
	"strings"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	apperrors "github.com/MaazSiddiqui25/Baqir-Sons/pkg/errors"
)

// DefaultWhatsAppNumber is the company's WhatsApp number in international
// format without the leading plus.
const DefaultWhatsAppNumber = "923458440115"

const greeting = "Hello Baqir & Sons, "

// Topic selects a prefilled inquiry message.
type Topic string

const (
	TopicServices Topic = "services"
	TopicProducts Topic = "products"
	TopicProject  Topic = "project"
	TopicCompany  Topic = "company"
	TopicPrivacy  Topic = "privacy"
)

var topicMessages = map[Topic]string{
	TopicServices: "I would like to know more about your services.",
	TopicProducts: "I would like to inquire about your products.",
	TopicProject:  "I would like to discuss a project.",
	TopicCompany:  "I would like to know more about your company.",
	TopicPrivacy:  "I have a question about your privacy policy.",
}

// Message returns the prefilled text for t, falling back to the services
// message.
func Message(t Topic) string {
	msg, ok := topicMessages[t]
	if !ok {
		msg = topicMessages[TopicServices]
	}
	return greeting + msg
}

// Linker builds wa.me links for one number.
type Linker struct {
	number string
}

// NewLinker keeps only the digits of number.
func NewLinker(number string) (*Linker, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if len(digits) < 8 {
		return nil, apperrors.InvalidInput("whatsapp number must have at least 8 digits")
	}
	return &Linker{number: digits}, nil
}

// Number returns the normalized number.
func (l *Linker) Number() string {
	return l.number
}

// Link returns https://wa.me/<number>?text=<text> with the text
// percent-encoded. An empty text omits the parameter.
func (l *Linker) Link(text string) string {
	link := "https://wa.me/" + l.number
	if text == "" {
		return link
	}
	return link + "?text=" + encodeComponent(text)
}

// TopicLink returns the link for a prefilled topic message.
func (l *Linker) TopicLink(t Topic) string {
	return l.Link(Message(t))
}

// ProductLink returns an inquiry link naming the product in lang.
func (l *Linker) ProductLink(p *domain.Product, lang string) string {
	title := domain.Localized(p.Title, p.TitleUrdu, lang)
	return l.Link(greeting + "I would like to inquire about " + title)
}

// MapsSearchURL returns a map search link for address.
func MapsSearchURL(address string) string {
	q := strings.Join(strings.Fields(strings.ReplaceAll(address, ",", " ")), " ")
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(q)
}

// encodeComponent escapes s for a query value with spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
