package utils

import (
	"os"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

// SendMail delivers a transactional email through Mailjet. Returns whether
// the message was accepted.
func SendMail(to string, subject string, html string) (bool, error) {
	client := mailjet.NewMailjetClient(
		os.Getenv("MAILJET_API_KEY"),
		os.Getenv("MAILJET_SECRET_KEY"),
	)

	messagesInfo := []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: os.Getenv("MAILJET_FROM_EMAIL"),
				Name:  "Dream Homes",
			},
			To: &mailjet.RecipientsV31{
				mailjet.RecipientV31{
					Email: to,
				},
			},
			Subject:  subject,
			HTMLPart: html,
		},
	}

	messages := mailjet.MessagesV31{Info: messagesInfo}
	res, err := client.SendMailV31(&messages)
	if err != nil {
		return false, err
	}

	return len(res.ResultsV31) > 0, nil
}
