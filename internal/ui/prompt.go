package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = errors.New("cancelled by user")

// ConfirmPrompt asks a yes/no confirmation question
func ConfirmPrompt(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	result, err := prompt.Run()
	if err != nil {
		// promptui reports "no" as ErrAbort for confirm prompts
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, ErrCancelled
		}
		return false, err
	}

	// promptui returns "y" for yes
	return strings.EqualFold(result, "y"), nil
}

// SelectPrompt presents a list of options for selection. Typing filters the
// options with fuzzy matching.
func SelectPrompt(label string, items []string) (int, string, error) {
	prompt := promptui.Select{
		Label:    label,
		Items:    items,
		Size:     min(10, len(items)),
		Searcher: FuzzySearcher(items),
	}

	index, result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return -1, "", fmt.Errorf("selection %w", ErrCancelled)
		}
		return -1, "", err
	}

	return index, result, nil
}

// FuzzySearcher matches the prompt input against items case-insensitively
func FuzzySearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if index < 0 || index >= len(items) {
			return false
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return true
		}
		return fuzzy.MatchNormalizedFold(input, items[index])
	}
}

// FilterLines keeps the lines fuzzily matching query. An empty query keeps
// everything.
func FilterLines(lines []string, query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return lines
	}
	var out []string
	for _, line := range lines {
		if fuzzy.MatchNormalizedFold(query, line) {
			out = append(out, line)
		}
	}
	return out
}
