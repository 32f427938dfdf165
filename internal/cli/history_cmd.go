// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Saved session management for finiq CLI.
//
// Subcommands:
//   finiq history                  List saved sessions
//   finiq history show <id>        Show a session transcript
//   finiq history export <id>      Export a session (--format json|md|txt)
//   finiq history delete <id>      Delete a session (--confirm)
//   finiq history clear            Delete all sessions (--confirm)
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/finiq-ai/finiq-tui/internal/config"
	"github.com/finiq-ai/finiq-tui/internal/history"
	"github.com/finiq-ai/finiq-tui/internal/model"
	"github.com/finiq-ai/finiq-tui/internal/util"
)

// HandleHistory handles the "history" command and exits on error.
func HandleHistory(args Args) {
	if err := HandleHistoryCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleHistoryCommand dispatches history subcommands.
func HandleHistoryCommand(args Args) error {
	store, err := openStore(args)
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "list", "ls":
		return historyList(store, args)
	case "show":
		return historyShow(store, args)
	case "export":
		return historyExport(store, args)
	case "delete", "rm":
		return historyDelete(store, args)
	case "clear":
		return historyClear(store, args)
	default:
		return NewValidationError("subcommand", args.Subcommand,
			"expected one of: list, show, export, delete, clear")
	}
}

// openStore opens the history store for the selected profile.
func openStore(args Args) (*history.Store, error) {
	cfg := config.Global()

	dir, err := cfg.HistoryDir()
	if err != nil {
		return nil, WrapError(err, "could not resolve history directory")
	}
	kv, err := history.NewFileKV(dir)
	if err != nil {
		return nil, WrapError(err, "could not open history directory")
	}

	userID := args.Profile
	if userID == "" {
		userID = DefaultProfile
	}

	store := history.NewStore(kv, nil)
	store.LoadAll(userID)
	return store, nil
}

// resolveSession matches a session by full ID or unambiguous ID prefix.
func resolveSession(store *history.Store, id string) (*model.Session, error) {
	if id == "" {
		return nil, ErrMissingArgument("session id", "finiq history show <id>")
	}

	if sess, ok := store.LoadSession(id); ok {
		return sess, nil
	}

	var matches []*model.Session
	for _, sess := range store.Sessions() {
		if strings.HasPrefix(sess.ID, id) {
			matches = append(matches, sess)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, NewNotFoundError("session", id)
	default:
		return nil, NewValidationError("session id", id, "prefix matches multiple sessions")
	}
}

func historyList(store *history.Store, args Args) error {
	sessions := store.Sessions()

	if args.JSON {
		type row struct {
			ID           string `json:"id"`
			Title        string `json:"title"`
			MessageCount int    `json:"message_count"`
			CreatedAt    string `json:"created_at"`
			UpdatedAt    string `json:"updated_at"`
		}
		rows := make([]row, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, row{
				ID:           s.ID,
				Title:        s.Title,
				MessageCount: len(s.Messages),
				CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				UpdatedAt:    s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	}

	if len(sessions) == 0 {
		fmt.Println(MutedStyle.Render("No saved sessions. Start one with: finiq chat"))
		return nil
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Saved sessions (%d)", len(sessions))))
	for _, s := range sessions {
		fmt.Printf("  %s  %-44s %3d msgs  %s\n",
			MutedStyle.Render(s.ID[:8]),
			ValueStyle.Render(util.TruncateRunes(s.Title, 44)),
			len(s.Messages),
			MutedStyle.Render(util.RelativeTime(s.UpdatedAt)))
	}
	return nil
}

func historyShow(store *history.Store, args Args) error {
	sess, err := resolveSession(store, args.SessionID)
	if err != nil {
		return err
	}

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(sess)
	}

	fmt.Println(TitleStyle.Render(sess.Title))
	fmt.Printf("%s %s\n", LabelStyle.Render("Created:"), sess.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Updated:"), sess.UpdatedAt.Format("2006-01-02 15:04"))
	fmt.Println()

	for _, msg := range sess.Messages {
		label := msg.Role.DisplayName()
		style := ValueStyle
		if msg.Role == model.RoleUser {
			style = SuccessStyle
		}
		fmt.Printf("%s %s\n", style.Render(label+":"), MutedStyle.Render(msg.Timestamp.Format("15:04")))
		if IsStdoutTTY() && msg.Role == model.RoleAssistant {
			fmt.Print(renderMarkdown(msg.Content))
		} else {
			fmt.Println(WrapText(msg.Content, 0))
		}
		fmt.Println()
	}
	return nil
}

func historyExport(store *history.Store, args Args) error {
	sess, err := resolveSession(store, args.SessionID)
	if err != nil {
		return err
	}

	format := args.Options["format"]
	if format == "" {
		format = "txt"
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(sess)

	case "md", "markdown":
		fmt.Printf("# %s\n\n", sess.Title)
		fmt.Printf("Exported %s\n\n", sess.UpdatedAt.Format("2006-01-02"))
		for _, msg := range sess.Messages {
			fmt.Printf("## %s (%s)\n\n%s\n\n",
				msg.Role.DisplayName(), msg.Timestamp.Format("2006-01-02 15:04"), msg.Content)
		}
		return nil

	case "txt", "text":
		fmt.Printf("%s\n%s\n\n", sess.Title, strings.Repeat("=", len(sess.Title)))
		for _, msg := range sess.Messages {
			fmt.Printf("[%s] %s:\n%s\n\n",
				msg.Timestamp.Format("15:04"), msg.Role.DisplayName(), msg.Content)
		}
		return nil

	default:
		return ErrUnsupportedFormat(format, []string{"json", "md", "txt"})
	}
}

func historyDelete(store *history.Store, args Args) error {
	sess, err := resolveSession(store, args.SessionID)
	if err != nil {
		return err
	}
	if !args.Confirm {
		return NewValidationError("confirmation", "",
			fmt.Sprintf("deleting %q is permanent; re-run with --confirm", sess.Title))
	}

	store.DeleteSession(sess.ID)
	fmt.Printf("%s %s\n", SuccessStyle.Render("Deleted"), sess.Title)
	return nil
}

func historyClear(store *history.Store, args Args) error {
	count := len(store.Sessions())
	if count == 0 {
		fmt.Println(MutedStyle.Render("No saved sessions."))
		return nil
	}
	if !args.Confirm {
		return NewValidationError("confirmation", "",
			fmt.Sprintf("this deletes all %d sessions for %s; re-run with --confirm", count, store.ActiveUser()))
	}

	store.ClearAll(store.ActiveUser())
	fmt.Printf("%s %d sessions removed for %s\n", SuccessStyle.Render("Cleared"), count, store.ActiveUser())
	return nil
}
