package slack

import (
	"fmt"

	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/slack-go/slack"
)

const timeLayout = "Monday 02 Jan, 15:04 MST"

func mention(playerID string) string {
	return fmt.Sprintf("<@%s>", playerID)
}

// formatEvent builds the Block Kit message for an event. direct selects the
// wording used in a DM to a participant.
func (s *Notifier) formatEvent(ev domain.Event, direct bool) slack.Message {
	var header, body string
	versus := fmt.Sprintf("%s vs %s", mention(ev.PlayerAID), mention(ev.PlayerBID))
	when := ev.ScheduledAt.In(s.loc).Format(timeLayout)

	switch ev.Kind {
	case domain.EventMatchScheduled:
		header = "📅 New duel scheduled"
		body = fmt.Sprintf("%s\nTime: %s", versus, when)
	case domain.EventReminder:
		header = "⏰ Duel starts in 5 minutes!"
		body = fmt.Sprintf("%s\nTime: %s", versus, when)
		if direct {
			body = "Get ready! " + body
		}
	case domain.EventMatchStarting:
		header = "⚔️ Duel starting now!"
		body = versus
		if direct {
			body = "Your duel has begun. Report the result when you are done.\n" + body
		}
	case domain.EventMatchCompleted:
		header = "🏆 Duel finished!"
		body = formatResult(ev)
	case domain.EventMatchCancelled:
		header = "❌ Duel cancelled"
		body = fmt.Sprintf("%s\nWas scheduled for %s", versus, when)
	default:
		header = "Duel update"
		body = versus
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", header, true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", body, false, false), nil, nil),
		slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", fmt.Sprintf("Match ID: %s", ev.MatchID), false, false)),
	}
	msg := slack.NewBlockMessage(blocks...)
	msg.Text = fmt.Sprintf("%s: %s", header, versus)
	return msg
}

func formatResult(ev domain.Event) string {
	if ev.Stats == nil {
		return fmt.Sprintf("%s vs %s", mention(ev.PlayerAID), mention(ev.PlayerBID))
	}
	st := ev.Stats
	if st.Draw {
		return fmt.Sprintf("Draw between %s and %s\nKills: %d - %d",
			mention(st.WinnerID), mention(st.LoserID), st.WinnerKills, st.LoserKills)
	}
	return fmt.Sprintf("%s defeated %s\nKills: %d - %d",
		mention(st.WinnerID), mention(st.LoserID), st.WinnerKills, st.LoserKills)
}
