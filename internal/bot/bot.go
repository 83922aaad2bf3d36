// Package bot exposes the control commands as Slack bot commands.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clambin/absensi/internal/commands"
	"github.com/clambin/go-common/slackbot"
	"github.com/slack-go/slack"
)

type SlackBot interface {
	Add(commands slackbot.Commands)
	Run(ctx context.Context) error
}

type Executor interface {
	Execute(ctx context.Context, input string) (commands.Reply, bool)
}

type Bot struct {
	slack    SlackBot
	executor Executor
	logger   *slog.Logger
}

// New registers every command except exit: stopping the process is only possible from the terminal.
func New(slackBot SlackBot, e Executor, logger *slog.Logger) *Bot {
	b := Bot{
		slack:    slackBot,
		executor: e,
		logger:   logger,
	}
	cmds := make(slackbot.Commands, len(commands.All))
	for _, c := range commands.All {
		if c.Name == "exit" {
			continue
		}
		cmds[c.Name] = b.command(c.Name)
	}
	slackBot.Add(cmds)
	return &b
}

func (b *Bot) Run(ctx context.Context) error {
	b.logger.Debug("started")
	defer b.logger.Debug("stopped")
	if err := b.slack.Run(ctx); err != nil {
		return fmt.Errorf("bot: %w", err)
	}
	return nil
}

func (b *Bot) command(name string) slackbot.HandlerFunc {
	return func(ctx context.Context, _ ...string) []slack.Attachment {
		reply, ok := b.executor.Execute(ctx, name)
		if !ok || len(reply.Lines) == 0 {
			return []slack.Attachment{{Color: "bad", Text: "command failed: " + name}}
		}
		b.logger.Debug("command executed", "command", name)
		return []slack.Attachment{{
			Color: "good",
			Title: name,
			Text:  strings.Join(reply.Lines, "\n"),
		}}
	}
}
