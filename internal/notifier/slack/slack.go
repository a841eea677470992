package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pitchboard/internal/metrics"
	"github.com/mauv0809/pitchboard/internal/notifier"
	"github.com/mauv0809/pitchboard/internal/stats"
	"github.com/slack-go/slack"
)

const (
	displayTimezone = "Europe/Istanbul"
	timeLayout      = "Monday 02 Jan, 15:04"
	dateLayout      = "Monday 02 Jan"
	leaderboardSize = 10
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
	loc       *time.Location
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	loc, err := time.LoadLocation(displayTimezone)
	if err != nil {
		log.Warn("Falling back to UTC for Slack timestamps", "timezone", displayTimezone, "error", err)
		loc = time.UTC
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		loc:       loc,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
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

// Implement the Notifier interface
func (s *Notifier) SendMatchResult(result *notifier.MatchResult, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatMatchResult(result), dryRun)
	return err
}

func (s *Notifier) SendPitchSchedule(schedule *notifier.PitchSchedule, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatPitchSchedule(schedule), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(players []stats.PlayerStats, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatLeaderboard(players), dryRun)
	return err
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

// formatMatchResult creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) formatMatchResult(result *notifier.MatchResult) slack.Message {
	blocks := make([]slack.Block, 0)

	blocks = append(blocks, slack.NewHeaderBlock(plainText("⚽ Match finished! ⚽")))

	details := fmt.Sprintf("%s on %s", result.MatchType, result.Date.In(s.loc).Format(dateLayout))
	blocks = append(blocks, slack.NewSectionBlock(plainText(details), nil, nil))

	var resultText string
	switch {
	case result.TeamAScore > result.TeamBScore:
		resultText = fmt.Sprintf("Result: Team A won %d-%d! 🏆", result.TeamAScore, result.TeamBScore)
	case result.TeamBScore > result.TeamAScore:
		resultText = fmt.Sprintf("Result: Team B won %d-%d! 🏆", result.TeamBScore, result.TeamAScore)
	default:
		resultText = fmt.Sprintf("Result: %d-%d draw", result.TeamAScore, result.TeamBScore)
	}
	fields := []*slack.TextBlockObject{
		plainText(teamText("Team A", result.TeamA)),
		plainText(teamText("Team B", result.TeamB)),
	}
	blocks = append(blocks, slack.NewSectionBlock(plainText(resultText), fields, nil))

	if len(result.Scorers) > 0 {
		var lines []string
		for _, sc := range result.Scorers {
			line := fmt.Sprintf("• %s (%s)", sc.Name, sc.Team)
			if sc.Goals > 1 {
				line += fmt.Sprintf(" x%d", sc.Goals)
			}
			lines = append(lines, line)
		}
		blocks = append(blocks, slack.NewSectionBlock(plainText("Scorers:\n"+strings.Join(lines, "\n")), nil, nil))
	}

	if result.Notes != "" {
		blocks = append(blocks, slack.NewContextBlock("", plainText(result.Notes)))
	}

	return slack.NewBlockMessage(blocks...)
}

func teamText(label string, names []string) string {
	if len(names) == 0 {
		return label + ":\n-"
	}
	return label + ":\n" + strings.Join(names, "\n")
}

// formatPitchSchedule creates the Slack message announcing the next game.
func (s *Notifier) formatPitchSchedule(schedule *notifier.PitchSchedule) slack.Message {
	blocks := make([]slack.Block, 0)

	blocks = append(blocks, slack.NewHeaderBlock(plainText("📅 Next game scheduled! 📅")))

	details := fmt.Sprintf("Format: %s\nOpens: %s", schedule.MatchType, schedule.ScheduledAt.In(s.loc).Format(timeLayout))
	blocks = append(blocks, slack.NewSectionBlock(plainText(details), nil, nil))

	if len(schedule.Players) > 0 {
		var lines []string
		for _, name := range schedule.Players {
			lines = append(lines, "• "+name)
		}
		blocks = append(blocks, slack.NewSectionBlock(plainText("Already on the pitch:\n"+strings.Join(lines, "\n")), nil, nil))
	}

	blocks = append(blocks, slack.NewContextBlock("", plainText("Grab a slot once the pitch opens.")))
	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the top scorers.
func (s *Notifier) formatLeaderboard(players []stats.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	blocks = append(blocks, slack.NewHeaderBlock(plainText("🏆 Top Scorers 🏆")))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(plainText("No stats available yet. Go play some matches!"), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	if len(players) > leaderboardSize {
		players = players[:leaderboardSize]
	}
	for i, stat := range players {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> Goals: %d | Matches: %d | Goals/Match: %.2f",
			rank,
			medal,
			stat.PlayerName,
			stat.TotalGoals,
			stat.TotalMatches,
			stat.GoalsPerMatch,
		)
		blocks = append(blocks, slack.NewSectionBlock(plainText(playerText), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
