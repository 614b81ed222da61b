package bot

import (
	"fmt"
	"strings"
)

const (
	COMMAND_PING        = iota
	COMMAND_SUBSCRIBE   = iota
	COMMAND_UNSUBSCRIBE = iota
	COMMAND_RESYNC      = iota
)

const (
	PARSEID_OK                     = iota
	PARSEID_NO_BOT_PREFIX          = iota
	PARSEID_NO_COMMAND             = iota
	PARSEID_COMMAND_NOT_RECOGNISED = iota
	PARSEID_UNEXPECTED_ARGUMENTS   = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_UNEXPECTED_ARGUMENTS:   "Command `%s` takes no arguments; the match making group is the channel the command is issued in",
}

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
}

// Parse an incoming message against the bot prefix. Subscribe and
// unsubscribe never take a group argument: the group is always the
// channel the command was issued in, so any trailing input is rejected
func Parse(message string, prefix string) ParseResult {

	noArguments := func(command int, commandString string, words []string) ParseResult {
		if len(words) > 0 {
			parseid := PARSEID_UNEXPECTED_ARGUMENTS
			return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
		}
		return ParseResult{command: command, parseid: PARSEID_OK}
	}

	// The message has to start with the bot prefix
	if !strings.HasPrefix(message, prefix) {
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// Get the command if valid
	words := strings.Fields(strings.TrimSpace(message[len(prefix):]))
	if len(words) == 0 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := words[0]
	words = words[1:]

	// Match the command

	switch commandString {
	case "ping":
		return noArguments(COMMAND_PING, commandString, words)
	case "subscribe":
		return noArguments(COMMAND_SUBSCRIBE, commandString, words)
	case "unsubscribe":
		return noArguments(COMMAND_UNSUBSCRIBE, commandString, words)
	case "resync":
		return noArguments(COMMAND_RESYNC, commandString, words)
	default:
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}
}
