package utils

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"
	"gopkg.in/urfave/cli.v1"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// ReadPassword takes the password from the flag or environment, or
// prompts on the terminal. confirm asks twice.
func ReadPassword(ctx *cli.Context, prompt string, confirm bool) (string, error) {
	return readPassword(ctx, PasswordFlag, prompt, confirm)
}

// ReadNewPassword is ReadPassword for the replacement password of
// set-password. A prompt always asks twice.
func ReadNewPassword(ctx *cli.Context) (string, error) {
	return readPassword(ctx, NewPasswordFlag, "New wallet password: ", true)
}

func readPassword(ctx *cli.Context, flag cli.StringFlag, prompt string, confirm bool) (string, error) {
	if ctx.GlobalIsSet(flag.Name) || ctx.GlobalString(flag.Name) != "" {
		return ctx.GlobalString(flag.Name), nil
	}
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) {
		return "", errors.Errorf("no password given and stdin is not a terminal, use --%s", flag.Name)
	}

	password, err := promptPassword(int(fd), prompt)
	if err != nil {
		return "", err
	}
	if confirm {
		again, err := promptPassword(int(fd), "Repeat password: ")
		if err != nil {
			return "", err
		}
		if again != password {
			return "", ErrPasswordMismatch
		}
	}
	return password, nil
}

func promptPassword(fd int, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := terminal.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return string(b), nil
}
