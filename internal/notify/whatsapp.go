package notify

import (
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type MessageSender interface {
	Send(to string, body string) error
}

type TwilioWhatsAppSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioWhatsAppSender(accountSID, authToken, from string) *TwilioWhatsAppSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioWhatsAppSender{
		client: client,
		from:   from,
	}
}

func (s *TwilioWhatsAppSender) Send(to string, body string) error {
	if s.from == "" {
		return fmt.Errorf("twilio sender not configured")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(whatsAppAddr(to))
	params.SetFrom(whatsAppAddr(s.from))
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}

	return nil
}

func whatsAppAddr(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
