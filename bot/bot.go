/* bot.go
 * Contains the Bot type, which hosts one shell session per Discord channel. The Discord connection itself lives in
 * bot_runtime.go and the message handlers in handlers.go
 */

package bot

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"vex-shell/shell"
)

// DefaultTimeout bounds a single dispatched line. It is long because `wait` blocks until a match is scored
const DefaultTimeout = 15 * time.Minute

// DispatcherFactory creates the dispatcher for a new channel session
type DispatcherFactory func() (*shell.Dispatcher, error)

type Bot struct {
	BotToken      string
	NewDispatcher DispatcherFactory
	Timeout       time.Duration

	logger   *zap.Logger
	mu       sync.Mutex
	sessions map[string]*session
}

// session is one channel's shell. Lines for a channel are dispatched one at a time
type session struct {
	mu         sync.Mutex
	dispatcher *shell.Dispatcher
}

func NewBot(botToken string, newDispatcher DispatcherFactory, logger *zap.Logger) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if newDispatcher == nil {
		return nil, fmt.Errorf("a dispatcher factory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Bot{
		BotToken:      botToken,
		NewDispatcher: newDispatcher,
		Timeout:       DefaultTimeout,
		logger:        logger,
		sessions:      make(map[string]*session),
	}, nil
}

// sessionFor returns the session for channelID, creating it on first use
func (b *Bot) sessionFor(channelID string) (*session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.sessions[channelID]; ok {
		return s, nil
	}
	d, err := b.NewDispatcher()
	if err != nil {
		return nil, err
	}
	s := &session{dispatcher: d}
	b.sessions[channelID] = s
	b.logger.Info("session started", zap.String("channel", channelID))
	return s, nil
}

// endSession forgets the session for channelID if s is still the channel's current session
func (b *Bot) endSession(channelID string, s *session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sessions[channelID] != s {
		return
	}
	delete(b.sessions, channelID)
	b.logger.Info("session ended", zap.String("channel", channelID))
}

// isCurrent reports whether s is still the session registered for channelID
func (b *Bot) isCurrent(channelID string, s *session) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions[channelID] == s
}

// sessionCount returns the number of open sessions
func (b *Bot) sessionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}

// chunk splits a reply into pieces no longer than limit bytes, breaking on line ends where possible and never inside
// a UTF-8 character
func chunk(s string, limit int) []string {
	var out []string
	for len(s) > limit {
		cut := strings.LastIndex(s[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(s[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
		}
		out = append(out, s[:cut])
		s = strings.TrimPrefix(s[cut:], "\n")
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
