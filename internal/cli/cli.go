// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for finiq.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdHistory
	CmdSearch
	CmdGlossary
	CmdProfile
	CmdConfig
	CmdStatus
	CmdIndex
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool   // Output in JSON format
	Model   string // Mentor model override
	Profile string // Profile (user) name override

	// Command-specific
	Query      string
	File       string
	ConfigKey  string
	ConfigVal  string
	Subcommand string
	SessionID  string
	Limit      int
	Confirm    bool
	Plain      bool // Disable term highlighting for this invocation

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options (e.g., --format)
	Options map[string]string
}

const usageText = `finiq - AI financial mentor for the terminal

FinIQ is a terminal client for the FinIQ.ai financial mentor. It keeps
your chat history on your own disk, highlights financial jargon in
responses, and explains every term it highlights.

Usage:
  finiq                          Start TUI (default)
  finiq ask "question"           Ask a single question
  finiq chat                     Interactive chat (REPL)
  finiq history [subcommand]     Saved session management
  finiq search <query>           Full-text search over sessions
  finiq glossary [subcommand]    Financial term glossary
  finiq profile [subcommand]     Profile management
  finiq config [show|get|set]    Configuration
  finiq status, s                Show system status
  finiq index [rebuild|stats]    Session index maintenance
  finiq version                  Show version information
  finiq help                     Show this help

Ask:
  finiq ask "What is an expense ratio?"
  finiq ask --file notes.md "Summarize my notes"
    -f, --file FILE              Include file content with the question
    -m, --model NAME             Use a specific mentor model
    --plain                      Skip term highlighting and definitions
    --json                       Output response as JSON

History Commands:
  finiq history                  List saved sessions
  finiq history show <id>        Show a session transcript
  finiq history export <id>      Export a session
    --format json|md|txt         Export format (default: txt)
  finiq history delete <id>      Delete a session
    --confirm                    Required confirmation flag
  finiq history clear            Delete all sessions for the active profile
    --confirm                    Required confirmation flag

Search:
  finiq search "dollar cost averaging"
    --limit N                    Maximum results (default: 20)
    --user NAME                  Restrict to one profile's sessions

Glossary Commands:
  finiq glossary                 List all known financial terms
  finiq glossary define <term>   Show a term's definition
  finiq glossary search <query>  Search terms and definitions
  finiq glossary categories      List term categories

Profile Commands:
  finiq profile list             List local profiles
  finiq profile create <name>    Create a profile (prompts for passphrase)
  finiq profile delete <name>    Delete a profile
  finiq profile totp <name>      Enroll a profile in TOTP two-factor

Global Flags:
  -q, --quiet                    Minimal output
  -v, --verbose                  Verbose output
  --json                         JSON output where supported
  --model NAME                   Mentor model override
  --profile NAME                 Act as a specific profile

Environment:
  FINIQ_API_KEY                  Mentor API key
  FINIQ_HISTORY_DIR              History directory override
  NO_COLOR                       Disable colored output

Config: ~/.finiq/config.toml
Docs:   https://finiq.ai/docs/cli
`

// Parse parses os.Args and returns the command to execute with its arguments.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

// parse is the testable core of Parse.
func parse(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	// No remaining args defaults to the TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask", "a":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat", "c":
		return CmdChat, parsedArgs

	case "history", "sessions":
		parseHistoryArgs(&parsedArgs, remaining)
		return CmdHistory, parsedArgs

	case "search", "find":
		parseSearchArgs(&parsedArgs, remaining)
		return CmdSearch, parsedArgs

	case "glossary", "terms":
		parseGlossaryArgs(&parsedArgs, remaining)
		return CmdGlossary, parsedArgs

	case "profile", "profiles":
		parseProfileArgs(&parsedArgs, remaining)
		return CmdProfile, parsedArgs

	case "config", "cfg":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "index":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdIndex, parsedArgs

	case "version", "--version", "-V":
		return CmdVersion, parsedArgs

	case "help", "--help", "-h":
		return CmdHelp, parsedArgs

	default:
		// Unknown command: show usage and exit with a usage error
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(ExitUsageError)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from the argument list and returns
// the remaining positional arguments.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{
		Options: make(map[string]string),
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--plain", "--no-highlight":
			parsedArgs.Plain = true
		case "--model":
			if i+1 < len(args) {
				i++
				parsedArgs.Model = args[i]
			}
		case "--profile", "--user":
			if i+1 < len(args) {
				i++
				parsedArgs.Profile = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--model="):
				parsedArgs.Model = strings.TrimPrefix(arg, "--model=")
			case strings.HasPrefix(arg, "--profile="):
				parsedArgs.Profile = strings.TrimPrefix(arg, "--profile=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses flags for the ask command. Everything that is not a
// flag is joined into the question.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--file="):
				args.File = strings.TrimPrefix(arg, "--file=")
			case strings.HasPrefix(arg, "--model="):
				args.Model = strings.TrimPrefix(arg, "--model=")
			case !strings.HasPrefix(arg, "-"):
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseHistoryArgs parses the history subcommand and its flags.
func parseHistoryArgs(args *Args, remaining []string) {
	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "--confirm", "--yes":
			args.Confirm = true
		case "--format":
			if i+1 < len(remaining) {
				i++
				args.Options["format"] = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--format="):
				args.Options["format"] = strings.TrimPrefix(arg, "--format=")
			case strings.HasPrefix(arg, "-"):
				// ignore unknown flags
			case args.Subcommand == "":
				args.Subcommand = strings.ToLower(arg)
			case args.SessionID == "":
				args.SessionID = arg
			}
		}
		i++
	}

	if args.Subcommand == "" {
		args.Subcommand = "list"
	}
}

// parseSearchArgs parses flags for the search command.
func parseSearchArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "--limit", "-n":
			if i+1 < len(remaining) {
				i++
				if n, err := strconv.Atoi(remaining[i]); err == nil && n > 0 {
					args.Limit = n
				}
			}
		case "--user":
			if i+1 < len(remaining) {
				i++
				args.Profile = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--limit="):
				if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--limit=")); err == nil && n > 0 {
					args.Limit = n
				}
			case strings.HasPrefix(arg, "--user="):
				args.Profile = strings.TrimPrefix(arg, "--user=")
			case !strings.HasPrefix(arg, "-"):
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseGlossaryArgs parses the glossary subcommand. The remainder is the
// term or search query; multi-word terms need no quoting.
func parseGlossaryArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "list"
		return
	}

	args.Subcommand = strings.ToLower(remaining[0])
	switch args.Subcommand {
	case "define", "search", "category":
		args.Query = strings.Join(remaining[1:], " ")
	case "list", "categories":
		// no arguments
	default:
		// Bare term: "finiq glossary liquidity" means define it
		args.Query = strings.Join(remaining, " ")
		args.Subcommand = "define"
	}
}

// parseProfileArgs parses the profile subcommand.
func parseProfileArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "list"
		return
	}
	args.Subcommand = strings.ToLower(remaining[0])
	if len(remaining) > 1 {
		args.Query = remaining[1]
	}
	for _, arg := range remaining {
		if arg == "--confirm" || arg == "--yes" {
			args.Confirm = true
		}
	}
}

// parseConfigArgs parses the config subcommand and key/value.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = strings.ToLower(remaining[0])
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = strings.Join(remaining[2:], " ")
		}
	} else {
		args.Subcommand = "show"
	}
}

// =============================================================================
// HELP AND VERSION
// =============================================================================

// HandleHelp prints the usage text.
func HandleHelp() {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	if args.JSON {
		out := map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
			"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(out)
		return
	}

	fmt.Printf("finiq %s\n", Version)
	if args.Verbose {
		fmt.Printf("  commit:   %s\n", GitCommit)
		fmt.Printf("  built:    %s\n", BuildDate)
		fmt.Printf("  go:       %s\n", runtime.Version())
		fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}
}
