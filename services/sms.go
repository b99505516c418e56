package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/portfolio-backend/models"
)

const maxSMSLength = 320

// MessageCreator is the part of the Twilio REST API used for SMS
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts a short summary of each contact submission
type SMSNotifier struct {
	api  MessageCreator
	from string
	to   []string
}

// NewTwilioNotifier builds an SMS notifier backed by the Twilio REST client
func NewTwilioNotifier(accountSID, authToken, from string, to []string) (*SMSNotifier, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER are required")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewSMSNotifier(client.Api, from, to), nil
}

func NewSMSNotifier(api MessageCreator, from string, to []string) *SMSNotifier {
	return &SMSNotifier{api: api, from: from, to: to}
}

func (n *SMSNotifier) Name() string { return "sms" }

func (n *SMSNotifier) Notify(ctx context.Context, c *models.Contact) error {
	body := []rune(contactSummary(c))
	if len(body) > maxSMSLength {
		body = append(body[:maxSMSLength-1], '…')
	}

	var errList []error
	for _, to := range n.to {
		if err := ctx.Err(); err != nil {
			return err
		}
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(n.from)
		params.SetBody(string(body))

		msg, err := n.api.CreateMessage(params)
		if err != nil {
			errList = append(errList, fmt.Errorf("send to %s: %w", to, err))
			continue
		}
		if msg != nil && msg.Sid != nil {
			log.Debug().Str("sid", *msg.Sid).Msg("Contact SMS queued")
		}
	}
	return errors.Join(errList...)
}
