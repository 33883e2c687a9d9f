/* bot_command_test.go
 * Contains unit tests for bot.go
 */

package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vex-shell/config"
	"vex-shell/shell"
)

func emptyFactory() (*shell.Dispatcher, error) {
	return shell.NewDispatcher(config.Default(), shell.Services{}, nil)
}

// region NewBot tests

func TestNewBot_Success(t *testing.T) {
	bot, err := NewBot("test_token", emptyFactory, nil)

	require.NoError(t, err)
	assert.Equal(t, "test_token", bot.BotToken)
	assert.Equal(t, DefaultTimeout, bot.Timeout)
	assert.NotNil(t, bot.logger)
	assert.Equal(t, 0, bot.sessionCount())
}

func TestNewBot_EmptyToken(t *testing.T) {
	_, err := NewBot("", emptyFactory, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "botToken is required")
}

func TestNewBot_MissingFactory(t *testing.T) {
	_, err := NewBot("test_token", nil, nil)

	assert.Error(t, err)
}

// endregion

// region Session tests

func TestSessionFor_ReusesSession(t *testing.T) {
	bot, err := NewBot("test_token", emptyFactory, nil)
	require.NoError(t, err)

	first, err := bot.sessionFor("chan")
	require.NoError(t, err)
	second, err := bot.sessionFor("chan")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, bot.sessionCount())

	bot.endSession("chan", first)
	assert.Equal(t, 0, bot.sessionCount())
}

// endregion
