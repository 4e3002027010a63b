package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// Translator turns a food name into the nutrition provider's language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// NopTranslator is used with providers that understand the user's language.
type NopTranslator struct{}

func (NopTranslator) Translate(_ context.Context, text string) (string, error) { return text, nil }

type TranslateAPI interface {
	TranslateText(ctx context.Context, params *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

// AWSTranslateService translates names to English with Amazon Translate.
type AWSTranslateService struct {
	client TranslateAPI
	target string
}

func NewAWSTranslateService(client TranslateAPI) *AWSTranslateService {
	return &AWSTranslateService{client: client, target: "en"}
}

func (s *AWSTranslateService) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	out, err := s.client.TranslateText(ctx, &translate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String("auto"),
		TargetLanguageCode: aws.String(s.target),
	})
	if err != nil {
		return "", fmt.Errorf("translate %q: %w", text, err)
	}
	return aws.ToString(out.TranslatedText), nil
}
