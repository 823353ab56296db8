package security

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// ValidCommandNameRegex allows bare binaries and absolute paths
	ValidCommandNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._/+-]+$`)

	// shellMetaChars may not appear in anything that can reach a shell line
	shellMetaChars = []string{
		";", "&", "|", "`", "$", "(", ")", "<", ">", "\n", "\r",
	}
)

// ValidateCommandName validates a binary name taken from configuration.
// Names end up in argv and, for apt, inside a bash -c script.
func ValidateCommandName(name string) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	if len(name) > 255 {
		return fmt.Errorf("command name too long (max 255 characters)")
	}

	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("command name cannot start with a dash: %s", name)
	}

	if !ValidCommandNameRegex.MatchString(name) {
		return fmt.Errorf("invalid command name: %s", name)
	}

	return nil
}

// ValidateCommandArg validates a command-line argument for safety
func ValidateCommandArg(arg string) error {
	if strings.Contains(arg, "\x00") {
		return fmt.Errorf("argument contains null byte")
	}

	for _, char := range shellMetaChars {
		if strings.Contains(arg, char) {
			return fmt.Errorf("argument contains dangerous character: %q", char)
		}
	}

	return nil
}
