package helpers

import (
	"os"

	"golang.org/x/sys/unix"
)

// IsTerminal reports whether fd refers to a terminal
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// Interactive reports whether both stdin and stdout are terminals, i.e.
// blocking prompts can be answered.
func Interactive() bool {
	return IsTerminal(os.Stdin.Fd()) && IsTerminal(os.Stdout.Fd())
}
