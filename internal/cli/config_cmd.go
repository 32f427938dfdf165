// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration management for finiq CLI.
//
// Subcommands:
//   finiq config show              Show the effective configuration
//   finiq config get <key>         Show one value (e.g. mentor.model)
//   finiq config set <key> <val>   Set and persist a value
//   finiq config keys              List settable keys
//   finiq config path              Show the config file path
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/finiq-ai/finiq-tui/internal/config"
)

// HandleConfig handles the "config" command and exits on error.
func HandleConfig(args Args) {
	if err := HandleConfigCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleConfigCommand dispatches config subcommands.
func HandleConfigCommand(args Args) error {
	cfg := config.Global()

	switch args.Subcommand {
	case "show", "":
		return configShow(cfg, args)

	case "get":
		if args.ConfigKey == "" {
			return ErrMissingArgument("key", "finiq config get mentor.model")
		}
		value, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return NewNotFoundError("config key", args.ConfigKey)
		}
		fmt.Println(formatConfigValue(args.ConfigKey, value))
		return nil

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return ErrMissingArgument("key and value", "finiq config set mentor.model finiq-mentor-pro")
		}
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return NewValidationError("value", args.ConfigVal, err.Error())
		}
		if err := cfg.Validate(); err != nil {
			return WrapError(err, "rejected: the change left the config invalid")
		}
		if err := config.Save(cfg); err != nil {
			return WrapError(err, "could not save config")
		}
		fmt.Printf("%s %s = %s\n", SuccessStyle.Render("Set"), args.ConfigKey,
			formatConfigValue(args.ConfigKey, args.ConfigVal))
		return nil

	case "keys":
		for _, key := range config.GetAllKeys() {
			fmt.Println("  " + key)
		}
		return nil

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	default:
		return NewValidationError("subcommand", args.Subcommand,
			"expected one of: show, get, set, keys, path")
	}
}

func configShow(cfg *config.Config, args Args) error {
	if args.JSON {
		fmt.Println(cfg.String())
		return nil
	}

	fmt.Println(TitleStyle.Render("Configuration"))
	for _, key := range config.GetAllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("%s %v\n", LabelStyle.Render(key+":"), formatConfigValue(key, value))
	}

	path, err := config.ConfigPathTOML()
	if err == nil {
		fmt.Println()
		fmt.Println(MutedStyle.Render("File: " + path))
	}
	return nil
}

// formatConfigValue redacts secrets in display output.
func formatConfigValue(key string, value interface{}) string {
	s := fmt.Sprintf("%v", value)
	if strings.Contains(key, "api_key") && s != "" {
		if len(s) > 8 {
			return s[:4] + "..." + s[len(s)-4:]
		}
		return "****"
	}
	return s
}
