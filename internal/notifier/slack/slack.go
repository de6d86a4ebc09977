package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/notifier"
	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Config tunes the Slack notifier.
type Config struct {
	// RatePerSecond caps outgoing posts. Zero or less disables the limit.
	RatePerSecond float64
	DryRun        bool
	// Location is used to render match times. Defaults to UTC.
	Location *time.Location
}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api     slackClient
	limiter *rate.Limiter
	dryRun  bool
	loc     *time.Location
}

// NewNotifier creates a new Notifier.
func NewNotifier(token string, cfg Config) *Notifier {
	return NewNotifierWithAPI(slack.New(token), cfg)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, cfg Config) *Notifier {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		api:     api,
		limiter: rate.NewLimiter(limit, 1),
		dryRun:  cfg.DryRun,
		loc:     loc,
	}
}

// NotifyParticipant sends a DM. In Slack, you can send DMs by using the user ID as the channel.
func (s *Notifier) NotifyParticipant(ctx context.Context, playerID string, ev domain.Event) error {
	_, _, err := s.sendMessage(ctx, playerID, s.formatEvent(ev, true))
	return err
}

// NotifyChannel posts the event to a public channel.
func (s *Notifier) NotifyChannel(ctx context.Context, channelRef string, ev domain.Event) error {
	_, _, err := s.sendMessage(ctx, channelRef, s.formatEvent(ev, false))
	return err
}

func (s *Notifier) sendMessage(ctx context.Context, channelID string, message slack.Message) (string, string, error) {
	if s.dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", "", fmt.Errorf("rate limiter: %w", err)
	}

	respChannel, timestamp, err := s.api.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionText(message.Text, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		log.Warn("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	log.Info("Successfully sent Slack message", "channel", respChannel, "timestamp", timestamp)
	return respChannel, timestamp, nil
}
