// Package tui renders simulation transcripts for interactive
// terminal sessions.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/botwalk/botwalk/pkg/flow"
)

// NewRenderer returns a function that renders markdown using glamour,
// auto-detecting the terminal background.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// FormatMessage renders one outgoing message for the terminal: the
// content through the markdown renderer, buttons as a numbered list
// the user can answer by index, id or label.
func FormatMessage(msg flow.Message, render func(string) (string, error)) string {
	var sb strings.Builder

	body := msg.Content
	if render != nil {
		if out, err := render(msg.Content); err == nil {
			body = out
		}
	}
	sb.WriteString(body)

	if len(msg.Buttons) > 0 {
		p := termenv.ColorProfile()
		for i, b := range msg.Buttons {
			num := termenv.String(fmt.Sprintf("  [%d]", i+1)).Foreground(p.Color("#818cf8")).Bold()
			sb.WriteString(fmt.Sprintf("%s %s\n", num, b.Label))
		}
	}

	return sb.String()
}

// StatusLine formats a dim one-line status footer.
func StatusLine(status flow.Status, nodeID string) string {
	p := termenv.ColorProfile()
	text := fmt.Sprintf("· %s @ %s", status, nodeID)
	return termenv.String(text).Foreground(p.Color("#6b7280")).Faint().String()
}

// PrintBanner outputs the ASCII art banner shown by interactive runs.
func PrintBanner() {
	p := termenv.ColorProfile()
	lines := []string{
		` _           _                 _ _    `,
		`| |__   ___ | |___      ____ _| | | __`,
		`| '_ \ / _ \| __\ \ /\ / / _' | | |/ /`,
		`| |_) | (_) | |_ \ V  V / (_| | |   < `,
		`|_.__/ \___/ \__| \_/\_/ \__,_|_|_|\_\`,
	}
	colors := []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

	fmt.Println()
	for i, line := range lines {
		fmt.Println(termenv.String("  " + line).Foreground(p.Color(colors[i])))
	}
	fmt.Println()
}
