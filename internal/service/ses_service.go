package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/fadilmartias/pitch-analyzer/internal/config"
	"github.com/fadilmartias/pitch-analyzer/internal/model"
)

const charsetUTF8 = "UTF-8"

// SESClient is the part of *ses.Client used to send mail.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESNotifier struct {
	client SESClient
	from   string
}

func NewSESNotifier(client SESClient, from string) *SESNotifier {
	return &SESNotifier{client: client, from: from}
}

// NewSESNotifierFromConfig resolves AWS credentials from the default chain.
func NewSESNotifierFromConfig(ctx context.Context, cfg *config.EmailConfig) (*SESNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSESNotifier(ses.NewFromConfig(awsCfg), cfg.FromEmail), nil
}

func (n *SESNotifier) Provider() string {
	return config.EmailSES
}

func (n *SESNotifier) Send(ctx context.Context, to string, result model.EvaluationResult) error {
	html, err := renderReport(result)
	if err != nil {
		return err
	}

	_, err = n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.from),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(reportSubject(result)), Charset: aws.String(charsetUTF8)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(html), Charset: aws.String(charsetUTF8)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}
