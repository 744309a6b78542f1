package slack

import (
	"context"
	"errors"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/tennis-ledger/internal/metrics"
	"github.com/mauv0809/tennis-ledger/internal/notifier"
	"github.com/mauv0809/tennis-ledger/internal/stats"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(context.Background(), message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(context.Background(), message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(context.Background(), slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendMatchResult_DryRunFromContext(t *testing.T) {
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			t.Fatal("PostMessageContext must not be called in dry-run mode")
			return "", "", nil
		},
	}
	n := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	ctx := notifier.WithDryRun(context.Background(), true)
	err := n.SendMatchResult(ctx, &tennis.Match{Player1Name: "Me", Player2Name: "Bob", Sets: []tennis.Set{{}}})
	require.NoError(t, err)
}

func TestSendStatsSummary_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	n := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	err := n.SendStatsSummary(context.Background(), "Me", stats.Default())
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendStatsSummary")
}

func TestFormatMatchResult(t *testing.T) {
	venue := "Riverside Courts"
	match := &tennis.Match{
		Player1Name: "Me",
		Player2Name: "Bob",
		VenueName:   &venue,
		Date:        "2025-07-09",
		Sets:        []tennis.Set{{S1: 6, S2: 2}, {S1: 7, S2: 6, TieBreak: true}},
		UserWon:     true,
		TotalCost:   34,
		Notes:       "Windy",
	}
	client := &Notifier{channelID: "C123"}
	msg := client.formatMatchResult(match)

	require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, "🎾 Match recorded! 🎾", header.Text.Text)

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Me vs Bob\nDate: Wednesday 09 Jul 2025\nVenue: Riverside Courts", details.Text.Text)

	result, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Result: Me won! 🏆", result.Text.Text)
	require.Len(t, result.Fields, 2)
	assert.Equal(t, "Set 1\n6-2", result.Fields[0].Text)
	assert.Equal(t, "Set 2\n7-6 (tie-break)", result.Fields[1].Text)

	contextBlock, ok := msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
	require.True(t, ok)
	require.Len(t, contextBlock.ContextElements.Elements, 2)
	costElement, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "💰 Court cost: 34.00", costElement.Text)
}

func TestFormatMatchResult_LossWithoutExtras(t *testing.T) {
	match := &tennis.Match{
		Player1Name: "Me",
		Player2Name: "Bob",
		Date:        "2025-07-09",
		Sets:        []tennis.Set{{S1: 2, S2: 6}},
	}
	client := &Notifier{channelID: "C123"}
	msg := client.formatMatchResult(match)

	require.Len(t, msg.Blocks.BlockSet, 3, "No context block without cost or notes")
	result, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Result: Bob won! 🏆", result.Text.Text)
}

func TestFormatStatsSummary(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("formats a populated summary", func(t *testing.T) {
		summary := stats.Stats{
			Total:           10,
			Wins:            7,
			Losses:          3,
			WinRate:         70,
			Streak:          3,
			StreakDirection: stats.DirectionWin,
			RecentForm:      []stats.Outcome{stats.Loss, stats.Win, stats.Win, stats.Win, stats.Win},
			Rivals: []stats.Rival{
				{Name: "Alice", Played: 5, Won: 3, Lost: 2},
				{Name: "Bob", Played: 3, Won: 2, Lost: 1},
				{Name: "Carl", Played: 1, Won: 1},
				{Name: "Dina", Played: 1, Won: 1},
			},
			SetsWon:     15,
			SetsLost:    8,
			GamesWon:    120,
			GamesLost:   90,
			TotalSpent:  200,
			AvgCost:     20,
			AvgCostText: "20.00",
		}

		msg := client.formatStatsSummary("Me", summary)
		require.Len(t, msg.Blocks.BlockSet, 4)

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "📊 Stats for Me 📊", header.Text.Text)

		overview, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, overview.Text.Text, "> *Match Win %*: 70% (7/10)")
		assert.Contains(t, overview.Text.Text, "> *Streak*: 3 win")
		assert.Contains(t, overview.Text.Text, "> *Spent*: 200.00 (avg 20.00)")

		rivals, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, rivals.Text.Text, "• Alice: 5 played (3-2)")
		assert.NotContains(t, rivals.Text.Text, "Dina")

		form, ok := msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
		require.True(t, ok)
		formText, ok := form.ContextElements.Elements[0].(*slackapi.TextBlockObject)
		require.True(t, ok)
		assert.Equal(t, "Recent form: L W W W W", formText.Text)
	})

	t.Run("displays message when no matches are recorded", func(t *testing.T) {
		msg := client.formatStatsSummary("Me", stats.Default())
		require.Len(t, msg.Blocks.BlockSet, 2, "Expected 2 blocks (header + message)")

		message, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "No matches recorded yet. Go play some tennis!", message.Text.Text)
	})
}
