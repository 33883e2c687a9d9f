/* handlers.go
 * Contains testable handler methods that accept the DiscordSession interface
 */

package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	helpCommand  = "$vexhelp"
	shellCommand = "$vex"

	// messageLimit is kept under Discord's 2000 character cap to leave room for the code fence
	messageLimit = 1900
)

// helpMessageHandler handles the $vexhelp command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("VEX Shell\n")
	res.WriteString("`$vex <command>`: runs a shell command in this channel's session. Each channel has its own context stack\n")
	res.WriteString("`$vex comp <sku>`: enter a competition, then `team <number>`, `match load|next|prev|lookup <n>` or `wait`\n")
	res.WriteString("`$vex stats <team|organization>`: statistics, then `summary`, `graph` or `competition <sku>`\n")
	res.WriteString("`$vex team <team|organization>`: team context, then `stats`, `history` or `list` for organizations\n")
	res.WriteString("`$vex global <command>`: run a top level command without leaving the current context\n")
	res.WriteString("`$vex exit`: leave the current context. At the top level this ends the session\n")
	res.WriteString("`$vex help`: commands available in the current context\n")
	res.WriteString("Arguments that contain spaces need to be encased in \" (e.g. \"Science Division\")\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// shellHandler dispatches the rest of a $vex message in the channel's session and replies with the output and the
// next prompt
func (b *Bot) shellHandler(session DiscordSession, message *discordgo.MessageCreate) {
	line := strings.TrimSpace(strings.TrimPrefix(message.Content, shellCommand))

	s, err := b.lockSession(message.ChannelID)
	if err != nil {
		b.logger.Error("failed to start session", zap.String("channel", message.ChannelID), zap.Error(err))
		session.ChannelMessageSend(message.ChannelID, "An error occured starting a session")
		return
	}
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), b.Timeout)
	defer cancel()

	res, err := s.dispatcher.Dispatch(ctx, line)

	var reply strings.Builder
	switch {
	case err != nil:
		b.logger.Debug("line rejected", zap.String("channel", message.ChannelID), zap.String("line", line), zap.Error(err))
		fmt.Fprintf(&reply, "Error: %s\n", err)
	case res.Output != "":
		reply.WriteString(strings.TrimRight(res.Output, "\n"))
		reply.WriteString("\n")
	}

	if res.Terminate {
		b.endSession(message.ChannelID, s)
		reply.WriteString("Session ended")
	} else {
		fmt.Fprintf(&reply, "`%s`", s.dispatcher.Prompt())
	}

	for _, part := range chunk(reply.String(), messageLimit) {
		if _, err := session.ChannelMessageSend(message.ChannelID, part); err != nil {
			b.logger.Warn("failed to send reply", zap.String("channel", message.ChannelID), zap.Error(err))
			return
		}
	}
}

// lockSession returns the channel's session with its lock held. A session ended by `exit` while this message waited
// for the lock is skipped so the line runs in the channel's new session
func (b *Bot) lockSession(channelID string) (*session, error) {
	for {
		s, err := b.sessionFor(channelID)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if b.isCurrent(channelID, s) {
			return s, nil
		}
		s.mu.Unlock()
	}
}

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author == nil || message.Author.ID == botUserID {
		return
	}

	// $vexhelp also starts with $vex, so it is checked first
	switch {
	case strings.HasPrefix(message.Content, helpCommand):
		b.helpMessageHandler(session, message)

	case message.Content == shellCommand || strings.HasPrefix(message.Content, shellCommand+" "):
		b.shellHandler(session, message)
	}
}
