package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aadykin95/telegram-food-bot-render/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const EventMealLogged = "meal.logged"

// EventPublisher announces appended log records to whoever listens.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.LogEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.LogEvent) error { return nil }

type SNSAPI interface {
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

// SNSPublisher sends events as JSON to a topic. The kind and user go into
// message attributes so subscriptions can filter on them.
type SNSPublisher struct {
	sns      SNSAPI
	topicArn string
}

func NewSNSPublisher(client SNSAPI, topicArn string) *SNSPublisher {
	return &SNSPublisher{sns: client, topicArn: topicArn}
}

func (p *SNSPublisher) Publish(ctx context.Context, ev models.LogEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = p.sns.Publish(ctx, &awssns.PublishInput{
		TopicArn: aws.String(p.topicArn),
		Message:  aws.String(string(raw)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"kind":    {DataType: aws.String("String"), StringValue: aws.String(ev.Kind)},
			"user_id": {DataType: aws.String("String"), StringValue: aws.String(ev.UserID)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
