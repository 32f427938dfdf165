// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// profile_cmd.go - Local profile management for finiq CLI.
//
// Profiles namespace chat history per user on a shared machine. A
// passphrase is optional; TOTP can be layered on top for profiles that
// hold sensitive financial conversations.
//
// Subcommands:
//   finiq profile list             List local profiles
//   finiq profile create <name>    Create a profile (prompts for passphrase)
//   finiq profile delete <name>    Delete a profile (--confirm)
//   finiq profile verify <name>    Check a profile's passphrase
//   finiq profile totp <name>      Enroll in TOTP two-factor
//   finiq profile totp-off <name>  Disable TOTP
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/finiq-ai/finiq-tui/internal/profile"
	"github.com/finiq-ai/finiq-tui/internal/util"
)

// HandleProfile handles the "profile" command and exits on error.
func HandleProfile(args Args) {
	if err := HandleProfileCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleProfileCommand dispatches profile subcommands.
func HandleProfileCommand(args Args) error {
	path, err := profile.DefaultPath()
	if err != nil {
		return WrapError(err, "could not resolve profile store path")
	}
	manager, err := profile.NewManager(path)
	if err != nil {
		return WrapError(err, "could not open profile store")
	}

	switch args.Subcommand {
	case "list", "ls", "":
		return profileList(manager, args)
	case "create", "add":
		return profileCreate(manager, args)
	case "delete", "rm":
		return profileDelete(manager, args)
	case "verify":
		return profileVerify(manager, args)
	case "totp":
		return profileTOTP(manager, args)
	case "totp-off":
		return profileTOTPOff(manager, args)
	default:
		return NewValidationError("subcommand", args.Subcommand,
			"expected one of: list, create, delete, verify, totp, totp-off")
	}
}

func profileList(manager *profile.Manager, args Args) error {
	profiles := manager.List()

	if args.JSON {
		type row struct {
			Name        string `json:"name"`
			UserID      string `json:"user_id"`
			Passphrase  bool   `json:"passphrase"`
			TOTPEnabled bool   `json:"totp_enabled"`
			CreatedAt   string `json:"created_at"`
		}
		rows := make([]row, 0, len(profiles))
		for _, p := range profiles {
			rows = append(rows, row{
				Name:        p.Name,
				UserID:      p.UserID,
				Passphrase:  p.HasPassphrase(),
				TOTPEnabled: p.TOTPEnabled,
				CreatedAt:   p.CreatedAt.Format("2006-01-02"),
			})
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	}

	if len(profiles) == 0 {
		fmt.Println(MutedStyle.Render("No profiles. Chats use the guest profile until you create one."))
		fmt.Println(MutedStyle.Render("Create one with: finiq profile create <name>"))
		return nil
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Profiles (%d)", len(profiles))))
	for _, p := range profiles {
		var badges []string
		if p.HasPassphrase() {
			badges = append(badges, "passphrase")
		}
		if p.TOTPEnabled {
			badges = append(badges, "totp")
		}
		badge := ""
		if len(badges) > 0 {
			badge = MutedStyle.Render("[" + strings.Join(badges, ", ") + "]")
		}
		fmt.Printf("  %-20s created %s  %s\n",
			ValueStyle.Render(p.Name), util.RelativeTime(p.CreatedAt), badge)
	}
	return nil
}

func profileCreate(manager *profile.Manager, args Args) error {
	name := args.Query
	if name == "" {
		return ErrMissingArgument("name", "finiq profile create alice")
	}

	var passphrase string
	if CanPrompt() {
		pass, err := readPassphrase("Passphrase (empty for none): ")
		if err != nil {
			return err
		}
		if pass != "" {
			again, err := readPassphrase("Repeat passphrase: ")
			if err != nil {
				return err
			}
			if pass != again {
				return NewValidationError("passphrase", "", "passphrases do not match")
			}
		}
		passphrase = pass
	}

	p, err := manager.Create(name, passphrase)
	if err != nil {
		return WrapError(err, "could not create profile")
	}

	fmt.Printf("%s profile %s (user id %s)\n",
		SuccessStyle.Render("Created"), ValueStyle.Render(p.Name), MutedStyle.Render(p.UserID))
	fmt.Println(MutedStyle.Render("Use it with: finiq chat --profile " + p.Name))
	return nil
}

func profileDelete(manager *profile.Manager, args Args) error {
	name := args.Query
	if name == "" {
		return ErrMissingArgument("name", "finiq profile delete alice --confirm")
	}
	if _, err := manager.Get(name); err != nil {
		return NewNotFoundError("profile", name)
	}
	if !args.Confirm {
		return NewValidationError("confirmation", "",
			fmt.Sprintf("deleting profile %q is permanent (chat history is kept on disk); re-run with --confirm", name))
	}

	if err := manager.Delete(name); err != nil {
		return WrapError(err, "could not delete profile")
	}
	fmt.Printf("%s %s\n", SuccessStyle.Render("Deleted"), name)
	return nil
}

func profileVerify(manager *profile.Manager, args Args) error {
	name := args.Query
	if name == "" {
		return ErrMissingArgument("name", "finiq profile verify alice")
	}
	if err := RequiresTTY("verify a passphrase"); err != nil {
		return err
	}

	pass, err := readPassphrase("Passphrase: ")
	if err != nil {
		return err
	}

	p, err := manager.Authenticate(name, pass)
	if err != nil {
		return NewAuthError(name, "wrong passphrase")
	}

	if p.TOTPEnabled {
		code, err := readPassphrase("TOTP code: ")
		if err != nil {
			return err
		}
		if err := manager.VerifyTOTP(name, strings.TrimSpace(code)); err != nil {
			return NewAuthError(name, "invalid TOTP code")
		}
	}

	fmt.Println(SuccessStyle.Render("OK"))
	return nil
}

func profileTOTP(manager *profile.Manager, args Args) error {
	name := args.Query
	if name == "" {
		return ErrMissingArgument("name", "finiq profile totp alice")
	}
	if err := RequiresTTY("enroll in TOTP"); err != nil {
		return err
	}

	secret, url, err := manager.EnrollTOTP(name)
	if err != nil {
		return WrapError(err, "could not start TOTP enrollment")
	}

	fmt.Println(SectionStyle.Render("TOTP enrollment"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Secret:"), ValueStyle.Render(secret))
	fmt.Printf("%s %s\n", LabelStyle.Render("URL:"), MutedStyle.Render(url))
	fmt.Println(MutedStyle.Render("Add the secret to your authenticator app, then enter a code to confirm."))

	code, err := readPassphrase("Code: ")
	if err != nil {
		return err
	}
	if err := manager.ConfirmTOTP(name, strings.TrimSpace(code)); err != nil {
		return NewAuthError(name, "code did not verify; enrollment not confirmed")
	}

	fmt.Println(SuccessStyle.Render("TOTP enabled for " + name))
	return nil
}

func profileTOTPOff(manager *profile.Manager, args Args) error {
	name := args.Query
	if name == "" {
		return ErrMissingArgument("name", "finiq profile totp-off alice")
	}
	if err := manager.DisableTOTP(name); err != nil {
		return WrapError(err, "could not disable TOTP")
	}
	fmt.Println(SuccessStyle.Render("TOTP disabled for " + name))
	return nil
}
