package services

import (
	"context"
	"fmt"

	"github.com/aadykin95/telegram-food-bot-render/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type RekognitionAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

type RekognitionService struct {
	client RekognitionAPI
}

func NewRekognitionService(client RekognitionAPI) *RekognitionService {
	return &RekognitionService{client: client}
}

// DetectLabels returns the labels Rekognition sees on raw image bytes,
// most confident first.
func (r *RekognitionService) DetectLabels(ctx context.Context, image []byte) ([]models.Label, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(20),
		MinConfidence: aws.Float32(60),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect labels: %w", err)
	}

	labels := make([]models.Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		labels = append(labels, models.Label{
			Name:       *l.Name,
			Confidence: float64(aws.ToFloat32(l.Confidence)),
		})
	}
	return labels, nil
}
