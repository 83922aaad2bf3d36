// Package notifier sends short event messages to the operator.
package notifier

import (
	"log/slog"

	"github.com/slack-go/slack"
)

type Notifier interface {
	Notify(string)
}

// Notifiers sends each message to all its Notifiers.
type Notifiers []Notifier

func (n Notifiers) Notify(msg string) {
	for _, l := range n {
		l.Notify(msg)
	}
}

var _ Notifier = Notifiers{}

type SLogNotifier struct {
	Logger *slog.Logger
}

var _ Notifier = &SLogNotifier{}

func (s SLogNotifier) Notify(msg string) {
	s.Logger.Info(msg)
}

// SlackNotifier posts each message to the bot's channels.
type SlackNotifier struct {
	Logger *slog.Logger
	Slack  SlackSender
}

type SlackSender interface {
	Send(channel string, attachments []slack.Attachment) error
}

var _ Notifier = &SlackNotifier{}

func (s SlackNotifier) Notify(msg string) {
	if err := s.Slack.Send("", []slack.Attachment{{Color: "good", Text: msg}}); err != nil && s.Logger != nil {
		s.Logger.Error("failed to send slack notification", "err", err)
	}
}
