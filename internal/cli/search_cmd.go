// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// search_cmd.go - Full-text session search and index maintenance.
//
// Subcommands:
//   finiq search <query>           Search indexed sessions (--limit, --user)
//   finiq index rebuild            Rebuild the session index from disk
//   finiq index stats              Show index statistics
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/finiq-ai/finiq-tui/internal/config"
	"github.com/finiq-ai/finiq-tui/internal/index"
	"github.com/finiq-ai/finiq-tui/internal/util"
)

// HandleSearch handles the "search" command and exits on error.
func HandleSearch(args Args) {
	if err := HandleSearchCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleSearchCommand searches the full-text session index.
// A missing index is built on first use.
func HandleSearchCommand(args Args) error {
	if args.Query == "" {
		return ErrMissingArgument("query", `finiq search "dollar cost averaging"`)
	}

	idx, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	opts := &index.SearchOptions{
		UserID: args.Profile,
		Limit:  args.Limit,
	}

	results, err := idx.Search(args.Query, opts)
	if errors.Is(err, index.ErrNotIndexed) {
		if buildErr := idx.Index(context.Background()); buildErr != nil {
			return WrapError(buildErr, "could not build session index")
		}
		results, err = idx.Search(args.Query, opts)
	}
	if err != nil {
		return WrapError(err, "search failed")
	}

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println(MutedStyle.Render("No sessions match: " + args.Query))
		return nil
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("%d matching sessions", len(results))))
	for _, r := range results {
		fmt.Printf("  %s  %s  %s\n",
			MutedStyle.Render(r.SessionID[:8]),
			ValueStyle.Render(util.TruncateRunes(r.Title, 44)),
			MutedStyle.Render(util.RelativeTime(r.UpdatedAt)))
		if r.Snippet != "" {
			fmt.Printf("            %s\n", MutedStyle.Render(util.CollapseWhitespace(r.Snippet)))
		}
	}
	return nil
}

// HandleIndex handles the "index" command and exits on error.
func HandleIndex(args Args) {
	if err := HandleIndexCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleIndexCommand dispatches index subcommands.
func HandleIndexCommand(args Args) error {
	idx, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	switch args.Subcommand {
	case "rebuild", "":
		if err := idx.Index(context.Background()); err != nil {
			return WrapError(err, "index rebuild failed")
		}
		stats := idx.Stats()
		fmt.Printf("%s %d sessions across %d profiles\n",
			SuccessStyle.Render("Indexed"), stats.SessionCount, stats.UserCount)
		return nil

	case "stats":
		stats := idx.Stats()
		if args.JSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(stats)
		}
		fmt.Println(TitleStyle.Render("Session index"))
		fmt.Printf("%s %d\n", LabelStyle.Render("Sessions:"), stats.SessionCount)
		fmt.Printf("%s %d\n", LabelStyle.Render("Profiles:"), stats.UserCount)
		if stats.LastIndexed.IsZero() {
			fmt.Printf("%s %s\n", LabelStyle.Render("Last indexed:"), MutedStyle.Render("never"))
		} else {
			fmt.Printf("%s %s\n", LabelStyle.Render("Last indexed:"), util.RelativeTime(stats.LastIndexed))
		}
		fmt.Printf("%s %d KB\n", LabelStyle.Render("Database:"), stats.DatabaseSize/1024)
		return nil

	default:
		return NewValidationError("subcommand", args.Subcommand, "expected one of: rebuild, stats")
	}
}

// openIndex opens the session index next to the history directory.
// The CLI never starts the file watcher; it is a one-shot process.
func openIndex() (*index.HistoryIndex, error) {
	cfg := config.Global()

	dir, err := cfg.HistoryDir()
	if err != nil {
		return nil, WrapError(err, "could not resolve history directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, WrapError(err, "could not create history directory")
	}

	idxCfg := index.DefaultConfig(dir)
	idxCfg.EnableWatch = false

	idx, err := index.New(idxCfg)
	if err != nil {
		return nil, WrapError(err, "could not open session index")
	}
	return idx, nil
}
