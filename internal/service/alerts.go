package service

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// AlertNotifier posts alert events to the configured webhook.
type AlertNotifier struct {
	httpClient *resty.Client
	webhookURL string
	logger     *zap.Logger
}

var _ Notifier = (*AlertNotifier)(nil)

func NewAlertNotifier(webhookURL string, timeout time.Duration, logger *zap.Logger) *AlertNotifier {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &AlertNotifier{
		httpClient: client,
		webhookURL: webhookURL,
		logger:     logger,
	}
}

func (n *AlertNotifier) Notify(event *AlertEvent) error {
	n.logger.Info("Sending alert webhook",
		zap.String("site_name", event.SiteName),
		zap.String("status", event.Status),
		zap.Float64("fuel_level_percent", event.FuelLevelPercent),
	)

	resp, err := n.httpClient.R().
		SetBody(event).
		Post(n.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to post alert webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("alert webhook returned %s", resp.Status())
	}

	return nil
}
