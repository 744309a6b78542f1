package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/mauv0809/tennis-ledger/internal/cost"
	"github.com/mauv0809/tennis-ledger/internal/metrics"
	"github.com/mauv0809/tennis-ledger/internal/notifier"
	"github.com/mauv0809/tennis-ledger/internal/stats"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// maxRivals caps the rivals listed in a stats summary.
const maxRivals = 3

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

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchResult(ctx context.Context, match *tennis.Match) error {
	msg := s.formatMatchResult(match)
	_, _, err := s.sendMessage(ctx, msg, notifier.IsDryRun(ctx))
	return err
}

func (s *Notifier) SendStatsSummary(ctx context.Context, owner string, summary stats.Stats) error {
	msg := s.formatStatsSummary(owner, summary)
	_, _, err := s.sendMessage(ctx, msg, notifier.IsDryRun(ctx))
	return err
}

// formatMatchResult creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) formatMatchResult(match *tennis.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match recorded! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Details
	details := fmt.Sprintf("%s vs %s\nDate: %s", match.Player1Name, match.Player2Name, formatDate(match.Date))
	if match.VenueName != nil && *match.VenueName != "" {
		details += "\nVenue: " + *match.VenueName
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", details, true, false), nil, nil))

	// Result with one field per set
	winner := match.Player2Name
	if match.UserWon {
		winner = match.Player1Name
	}
	resultText := fmt.Sprintf("Result: %s won! 🏆", winner)
	var setFields []*slack.TextBlockObject
	for i, set := range match.Sets {
		text := fmt.Sprintf("Set %d\n%d-%d", i+1, set.S1, set.S2)
		if set.TieBreak {
			text += " (tie-break)"
		}
		setFields = append(setFields, slack.NewTextBlockObject("plain_text", text, true, false))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), setFields, nil))

	// Context
	var contextElements []slack.MixedElement
	if match.TotalCost > 0 {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "💰 Court cost: "+cost.Format(match.TotalCost), true, false))
	}
	if notes := strings.TrimSpace(match.Notes); notes != "" {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "📝 "+notes, true, false))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatStatsSummary creates a Slack message with an owner's aggregated stats.
func (s *Notifier) formatStatsSummary(owner string, summary stats.Stats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("📊 Stats for %s 📊", owner)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	if summary.Total == 0 {
		noStatsText := slack.NewTextBlockObject("plain_text", "No matches recorded yet. Go play some tennis!", false, false)
		blocks = append(blocks, slack.NewSectionBlock(noStatsText, nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	streak := "-"
	if summary.StreakDirection != "" {
		streak = fmt.Sprintf("%d %s", summary.Streak, summary.StreakDirection)
	}
	overview := fmt.Sprintf("> *Match Win %%*: %d%% (%d/%d)\n> *Streak*: %s\n> *Sets*: %d-%d\n> *Games*: %d-%d\n> *Spent*: %s (avg %s)",
		summary.WinRate,
		summary.Wins,
		summary.Total,
		streak,
		summary.SetsWon,
		summary.SetsLost,
		summary.GamesWon,
		summary.GamesLost,
		cost.Format(summary.TotalSpent),
		summary.AvgCostText,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", overview, false, false), nil, nil))

	if len(summary.Rivals) > 0 {
		lines := []string{"*Top rivals*"}
		for _, r := range summary.Rivals[:min(len(summary.Rivals), maxRivals)] {
			lines = append(lines, fmt.Sprintf("• %s: %d played (%d-%d)", r.Name, r.Played, r.Won, r.Lost))
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))
	}

	form := make([]string, len(summary.RecentForm))
	for i, o := range summary.RecentForm {
		form[i] = string(o)
	}
	formText := slack.NewTextBlockObject("plain_text", "Recent form: "+strings.Join(form, " "), true, false)
	blocks = append(blocks, slack.NewContextBlock("", formText))

	return slack.NewBlockMessage(blocks...)
}

func formatDate(date string) string {
	d, err := time.Parse(tennis.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("Monday 02 Jan 2006")
}
