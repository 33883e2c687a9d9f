//go:build !test

/* bot_runtime.go
 * Contains runtime-only Discord bot methods that use *discordgo.Session directly.
 * Delegates to testable handlers in handlers.go to avoid code duplication.
 */

package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Run connects to Discord and serves messages until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	// create a session
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return err
	}
	discord.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	// add a event handler
	discord.AddHandler(b.newMessage)

	// open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	defer discord.Close() // close session, after function termination

	b.logger.Info("VEX Shell bot started")
	<-ctx.Done()
	b.logger.Info("VEX Shell bot stopping")
	return nil
}

// newMessage delegates to the testable newMessageHandler
// *discordgo.Session implements DiscordSession interface
func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}
