// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler for finiq CLI.
//
// Handles the "finiq ask" command which sends one question to the mentor
// and prints the response to stdout.
//
// Command: ask [question]
// Aliases: a
//
// Examples:
//   finiq ask "What is an expense ratio?"
//   finiq ask --file portfolio.md "Review my allocation"
//   finiq ask --json "Define liquidity" | jq .response
//
// Flags:
//   -f, --file FILE     Include file content with the question
//   -m, --model NAME    Use specific model (overrides config)
//   --plain             Skip term definitions below the response
//   --json              Output response as JSON
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/finiq-ai/finiq-tui/internal/config"
	"github.com/finiq-ai/finiq-tui/internal/jargon"
	"github.com/finiq-ai/finiq-tui/internal/mentor"
)

const (
	// MaxFileSize is the maximum context file size to include (50KB).
	MaxFileSize = 50 * 1024
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the global glamour renderer for markdown output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse displays a response with markdown rendering when appropriate.
// Only renders markdown when stdout is a TTY to avoid corrupting piped output.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAsk handles the "ask" command and exits with an appropriate code.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleAskCommand sends a single question to the mentor and prints the
// response. The question comes from the arguments, or from stdin when the
// input is piped.
func HandleAskCommand(args Args) error {
	question := strings.TrimSpace(args.Query)

	// Piped input becomes the question when none was given on the command line
	if question == "" && !IsTTY() {
		data, err := io.ReadAll(io.LimitReader(os.Stdin, MaxFileSize))
		if err != nil {
			return WrapError(err, "could not read question from stdin")
		}
		question = strings.TrimSpace(string(data))
	}

	if question == "" {
		return ErrMissingArgument("question", `finiq ask "What is dollar cost averaging?"`)
	}

	cfg := config.Global()

	// Optional file context
	if args.File != "" {
		content, err := readFileForContext(args.File)
		if err != nil {
			return err
		}
		question = fmt.Sprintf("%s\n\nContext from %s:\n%s", question, args.File, content)
	}

	client := mentor.NewClientFromConfig(cfg.Mentor)
	if args.Model != "" {
		client.SetModel(args.Model)
	}
	if !client.IsConfigured() {
		return NewAuthError("", "no API key configured; set FINIQ_API_KEY or run: finiq config set mentor.api_key <key>")
	}

	// Ctrl+C cancels the in-flight request
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if !args.Quiet && IsStderrTTY() {
		fmt.Fprintf(os.Stderr, "%s\n", MutedStyle.Render("Asking "+client.GetModel()+"..."))
	}

	start := time.Now()
	response, err := client.Ask(ctx, question)
	if err != nil {
		return WrapError(err, "mentor request failed")
	}
	elapsed := time.Since(start)

	if args.JSON {
		return printAskJSON(question, response, client.GetModel(), elapsed)
	}

	displayResponse(response)

	// Definitions of financial terms mentioned in the response
	if cfg.UI.ShowDefinitions && !args.Plain {
		printTermDefinitions(response)
	}

	if args.Verbose {
		fmt.Fprintf(os.Stderr, "%s\n", MutedStyle.Render(fmt.Sprintf("(%s, %s)", client.GetModel(), elapsed.Round(100*time.Millisecond))))
	}
	return nil
}

// printAskJSON emits the response as a JSON object for scripting.
func printAskJSON(question, response, model string, elapsed time.Duration) error {
	highlighter := jargon.NewHighlighter(jargon.Terms())
	var terms []string
	for _, t := range highlighter.TermsIn(response) {
		terms = append(terms, t.Term)
	}

	out := map[string]interface{}{
		"question":    question,
		"response":    response,
		"model":       model,
		"elapsed_ms":  elapsed.Milliseconds(),
		"terms_found": terms,
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// printTermDefinitions prints definitions for every financial term the
// response mentions, deduplicated and in order of first appearance.
func printTermDefinitions(response string) {
	highlighter := jargon.NewHighlighter(jargon.Terms())
	terms := highlighter.TermsIn(response)
	if len(terms) == 0 {
		return
	}

	fmt.Println(separatorStyle.Render(strings.Repeat("-", 40)))
	fmt.Println(SectionStyle.Render("Terms in this answer"))
	for _, t := range terms {
		fmt.Printf("  %s %s\n", TermStyle.Render(t.Term+":"), WrapText(t.Definition, GetTerminalWidth()-4))
	}
}

// readFileForContext reads a file to include as question context.
// Files larger than MaxFileSize are rejected rather than truncated.
func readFileForContext(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", NewNotFoundError("file", path)
	}
	if info.Size() > MaxFileSize {
		return "", NewValidationError("file", path,
			fmt.Sprintf("file is too large to include (%d bytes, max %d)", info.Size(), MaxFileSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", WrapError(err, "could not read file")
	}
	return string(data), nil
}
