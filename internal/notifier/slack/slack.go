package slack

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtline/internal/metrics"
	"github.com/mauv0809/courtline/internal/notifier"
	"github.com/mauv0809/courtline/internal/stats"
	"github.com/mauv0809/courtline/internal/tennis"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// MatchScheduled posts a message announcing a newly scheduled match.
func (s *Notifier) MatchScheduled(match *tennis.Match) error {
	return s.sendMessage(s.formatScheduled(match))
}

// MatchCompleted posts a message announcing a recorded result.
func (s *Notifier) MatchCompleted(match *tennis.Match) error {
	return s.sendMessage(s.formatCompleted(match))
}

// formatScheduled creates the Slack message for a new match using Block Kit.
func (s *Notifier) formatScheduled(match *tennis.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match scheduled! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Opponent: %s\nDate: %s%s\nSurface: %s\nSeason: %s",
		match.Player2, match.Date, startTimeSuffix(match), match.Surface, match.Season)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatCompleted creates the Slack message for a recorded result using Block Kit.
func (s *Notifier) formatCompleted(match *tennis.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match finished! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s vs %s on %s (%s)", match.Player1, match.Player2, match.Date, match.Surface)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	scoreline := stats.Scoreline(*match)
	if scoreline == "" {
		scoreline = "No scores reported."
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Result: "+scoreline, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func startTimeSuffix(match *tennis.Match) string {
	if match.StartTime == nil || *match.StartTime == "" {
		return ""
	}
	return " at " + *match.StartTime
}
