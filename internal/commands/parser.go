// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"
	"unicode"
)

// =============================================================================
// INPUT PARSING
// =============================================================================

// ParseResult describes one line of user input after parsing.
// A line is a command when it begins with a slash; anything else is a
// plain chat message and passes through untouched.
type ParseResult struct {
	IsCommand   bool
	Command     *Command // nil when the name matched nothing
	CommandName string   // including the leading slash, e.g. "/define"
	Args        []string
	RawInput    string
	RawArgs     string // argument portion before tokenizing
}

// Parser resolves slash commands against a registry.
type Parser struct {
	registry *Registry
}

func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse tokenizes input and looks up the command name. Non-command
// input comes back with IsCommand false and nothing else set.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)
	result := ParseResult{RawInput: input}

	if !strings.HasPrefix(input, "/") {
		return result
	}
	result.IsCommand = true

	tokens := splitCommandLine(input)
	if len(tokens) == 0 {
		return result
	}

	result.CommandName = tokens[0]
	result.Args = tokens[1:]
	if len(result.Args) > 0 {
		result.RawArgs = strings.TrimSpace(input[len(result.CommandName):])
	}
	result.Command = p.registry.Get(result.CommandName)
	return result
}

// ParseArgs tokenizes a bare argument string the same way Parse does.
func ParseArgs(input string) []string {
	return splitCommandLine(input)
}

// IsCommand reports whether input would be treated as a slash command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// ExtractCommandName returns the leading "/name" token of input, or ""
// when input is not a command.
func ExtractCommandName(input string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return ""
	}
	if cut := strings.IndexFunc(input, unicode.IsSpace); cut >= 0 {
		return input[:cut]
	}
	return input
}

// =============================================================================
// TOKENIZER
// =============================================================================

// splitCommandLine breaks a line into whitespace-separated tokens.
// Single and double quotes group words ("expense ratio" is one token),
// and a backslash inside quotes escapes a quote or another backslash.
func splitCommandLine(input string) []string {
	var (
		tokens  []string
		tok     strings.Builder
		quote   rune // active quote char, or 0
		runes   = []rune(input)
		started bool
	)

	flush := func() {
		if started {
			tokens = append(tokens, tok.String())
			tok.Reset()
			started = false
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0 && r == '\\' && i+1 < len(runes):
			next := runes[i+1]
			if next == '"' || next == '\'' || next == '\\' {
				tok.WriteRune(next)
				started = true
				i++
				continue
			}
			tok.WriteRune(r)
			started = true
		case r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
			started = true
		case quote == 0 && unicode.IsSpace(r):
			flush()
		default:
			tok.WriteRune(r)
			started = true
		}
	}
	flush()
	return tokens
}

// =============================================================================
// ARGUMENT VALIDATION
// =============================================================================

// ValidateArgs checks parsed arguments against a command's declared
// argument list: required arguments must be present, and enum
// arguments must carry one of the allowed values (case-insensitive).
func ValidateArgs(cmd *Command, args []string) error {
	if cmd == nil {
		return nil
	}
	for i, def := range cmd.Args {
		if i >= len(args) {
			if def.Required {
				return &ValidationError{
					Command:  cmd.Name,
					Arg:      def.Name,
					Message:  "required argument missing",
					Expected: def.Description,
				}
			}
			continue
		}
		if def.Type != ArgTypeEnum || len(def.Values) == 0 {
			continue
		}
		if !containsFold(def.Values, args[i]) {
			return &ValidationError{
				Command:  cmd.Name,
				Arg:      def.Name,
				Message:  "invalid value",
				Got:      args[i],
				Expected: strings.Join(def.Values, ", "),
			}
		}
	}
	return nil
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// ValidationError reports a bad or missing command argument.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Command, e.Message)
	if e.Arg != "" {
		fmt.Fprintf(&b, " for argument '%s'", e.Arg)
	}
	if e.Got != "" {
		fmt.Fprintf(&b, " (got: %s)", e.Got)
	}
	if e.Expected != "" {
		fmt.Fprintf(&b, " - expected: %s", e.Expected)
	}
	return b.String()
}
