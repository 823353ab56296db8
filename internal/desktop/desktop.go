// Package desktop reads and writes freedesktop .desktop entries, used for
// the XDG autostart entry that launches the watcher at login.
package desktop

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/quantmind-br/sysupd/internal/fsops"
	"github.com/spf13/afero"
)

// Entry is the subset of a [Desktop Entry] group sysupd cares about
type Entry struct {
	Type       string
	Name       string
	Exec       string
	Icon       string
	Comment    string
	Categories []string
	Terminal   bool
	Hidden     bool

	// AutostartEnabled maps X-GNOME-Autostart-enabled; nil when absent
	AutostartEnabled *bool
}

// Parse parses a .desktop file from a reader
func Parse(r io.Reader) (*Entry, error) {
	de := &Entry{}
	scanner := bufio.NewScanner(r)
	inDesktopEntry := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			inDesktopEntry = line == "[Desktop Entry]"
			continue
		}

		if !inDesktopEntry {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Type":
			de.Type = value
		case "Name":
			de.Name = value
		case "Exec":
			de.Exec = value
		case "Icon":
			de.Icon = value
		case "Comment":
			de.Comment = value
		case "Categories":
			de.Categories = parseSemicolonList(value)
		case "Terminal":
			de.Terminal = value == "true"
		case "Hidden":
			de.Hidden = value == "true"
		case "X-GNOME-Autostart-enabled":
			enabled := value == "true"
			de.AutostartEnabled = &enabled
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan desktop file: %w", err)
	}

	return de, nil
}

// Write writes a .desktop file to a writer
func Write(w io.Writer, de *Entry) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "[Desktop Entry]")
	fmt.Fprintf(&buf, "Type=%s\n", de.Type)
	fmt.Fprintf(&buf, "Name=%s\n", de.Name)
	fmt.Fprintf(&buf, "Exec=%s\n", de.Exec)

	if de.Icon != "" {
		fmt.Fprintf(&buf, "Icon=%s\n", de.Icon)
	}
	if de.Comment != "" {
		fmt.Fprintf(&buf, "Comment=%s\n", de.Comment)
	}
	if len(de.Categories) > 0 {
		fmt.Fprintf(&buf, "Categories=%s\n", strings.Join(de.Categories, ";")+";")
	}
	fmt.Fprintf(&buf, "Terminal=%t\n", de.Terminal)
	if de.Hidden {
		fmt.Fprintln(&buf, "Hidden=true")
	}
	if de.AutostartEnabled != nil {
		fmt.Fprintf(&buf, "X-GNOME-Autostart-enabled=%t\n", *de.AutostartEnabled)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// Validate checks if the desktop entry has required fields
func Validate(de *Entry) error {
	if de.Type == "" {
		return fmt.Errorf("Type field is required")
	}
	if de.Name == "" {
		return fmt.Errorf("Name field is required")
	}
	if de.Exec == "" {
		return fmt.Errorf("Exec field is required")
	}
	return nil
}

// AutostartEntry builds the login entry that runs "<binary> watch"
func AutostartEntry(binary string) *Entry {
	enabled := true
	return &Entry{
		Type:             "Application",
		Name:             "System Update Checker",
		Exec:             ExecLine(binary, "watch"),
		Icon:             "system-software-update",
		Comment:          "Check for system package updates",
		Categories:       []string{"System", "Utility"},
		AutostartEnabled: &enabled,
	}
}

// ExecLine quotes argv for an Exec key
func ExecLine(argv ...string) string {
	tokens := make([]string, len(argv))
	for i, arg := range argv {
		tokens[i] = escapeExecToken(arg)
	}
	return strings.Join(tokens, " ")
}

// WriteFile validates de and writes it to path, creating parent directories
func WriteFile(fs afero.Fs, path string, de *Entry) error {
	if err := Validate(de); err != nil {
		return fmt.Errorf("invalid desktop entry: %w", err)
	}

	if err := fsops.EnsureParentDir(fs, path); err != nil {
		return err
	}

	file, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create desktop file: %w", err)
	}
	defer file.Close()

	return Write(file, de)
}

// ReadFile parses the entry at path
func ReadFile(fs afero.Fs, path string) (*Entry, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open desktop file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// parseSemicolonList parses semicolon-separated list
func parseSemicolonList(value string) []string {
	value = strings.TrimSuffix(value, ";")
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// escapeExecToken quotes a token containing reserved characters per the
// desktop entry Exec rules.
func escapeExecToken(token string) string {
	if !strings.ContainsAny(token, " \t\n\"'\\><~|&;$*?#()`") {
		return token
	}
	escaped := strings.ReplaceAll(token, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "`", "\\`")
	escaped = strings.ReplaceAll(escaped, `$`, `\$`)
	return `"` + escaped + `"`
}
