package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/domain"
	pkgkafka "github.com/youneszerotohero-coder/mb-backend/pkg/kafka"
)

// Kafka topic constants for campaign domain events.
const (
	TopicCampaignCreated     = "store.campaign.created"
	TopicCampaignUpdated     = "store.campaign.updated"
	TopicCampaignDeleted     = "store.campaign.deleted"
	TopicPerformanceRecorded = "store.campaign.performance_recorded"
)

// Aggregate type constant.
const AggregateTypeCampaign = "campaign"

// Source identifier for events originating from the campaign module.
const SourceCampaign = "campaign"

// CampaignData is the payload for campaign.created and campaign.updated events.
type CampaignData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Platform string `json:"platform,omitempty"`
	Cost     int64  `json:"cost"`
	IsActive bool   `json:"is_active"`
}

// CampaignDeletedData is the payload for a campaign.deleted event.
type CampaignDeletedData struct {
	ID string `json:"id"`
}

// PerformanceData is the payload for a performance_recorded event.
type PerformanceData struct {
	CampaignID string         `json:"campaign_id"`
	ProductID  string         `json:"product_id"`
	Metrics    domain.Metrics `json:"metrics"`
}

// Producer publishes campaign domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the campaign module.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func campaignData(c *domain.Campaign) CampaignData {
	return CampaignData{
		ID:       c.ID,
		Name:     c.Name,
		Platform: c.Platform,
		Cost:     c.Cost,
		IsActive: c.IsActive,
	}
}

// PublishCampaignCreated publishes a campaign.created event.
func (p *Producer) PublishCampaignCreated(ctx context.Context, campaign *domain.Campaign) error {
	return p.publishCampaign(ctx, TopicCampaignCreated, campaign)
}

// PublishCampaignUpdated publishes a campaign.updated event.
func (p *Producer) PublishCampaignUpdated(ctx context.Context, campaign *domain.Campaign) error {
	return p.publishCampaign(ctx, TopicCampaignUpdated, campaign)
}

func (p *Producer) publishCampaign(ctx context.Context, topic string, campaign *domain.Campaign) error {
	event, err := pkgkafka.NewEvent(topic, campaign.ID, AggregateTypeCampaign, SourceCampaign, campaignData(campaign))
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published campaign event",
		slog.String("topic", topic),
		slog.String("campaign_id", campaign.ID),
	)

	return nil
}

// PublishCampaignDeleted publishes a campaign.deleted event.
func (p *Producer) PublishCampaignDeleted(ctx context.Context, id string) error {
	event, err := pkgkafka.NewEvent(TopicCampaignDeleted, id, AggregateTypeCampaign, SourceCampaign, CampaignDeletedData{ID: id})
	if err != nil {
		return fmt.Errorf("create campaign.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCampaignDeleted, event); err != nil {
		return fmt.Errorf("publish campaign.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published campaign event",
		slog.String("topic", TopicCampaignDeleted),
		slog.String("campaign_id", id),
	)

	return nil
}

// PublishPerformanceRecorded publishes a performance_recorded event.
func (p *Producer) PublishPerformanceRecorded(ctx context.Context, campaignID, productID string, metrics domain.Metrics) error {
	data := PerformanceData{CampaignID: campaignID, ProductID: productID, Metrics: metrics}

	event, err := pkgkafka.NewEvent(TopicPerformanceRecorded, campaignID, AggregateTypeCampaign, SourceCampaign, data)
	if err != nil {
		return fmt.Errorf("create performance_recorded event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPerformanceRecorded, event); err != nil {
		return fmt.Errorf("publish performance_recorded event: %w", err)
	}

	p.logger.DebugContext(ctx, "published campaign event",
		slog.String("topic", TopicPerformanceRecorded),
		slog.String("campaign_id", campaignID),
		slog.String("product_id", productID),
	)

	return nil
}
