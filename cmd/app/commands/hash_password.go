package commands

import (
	"fmt"

	authService "github.com/dapnet/dbgateway/internal/auth/service"
)

// RunHashPassword hashes a password for seeding user documents by hand.
// The password is read from the first line of the input when not given as a flag.
func RunHashPassword(passwordService authService.PasswordService, io IOTuple, password, format string) error {
	prompt := ""
	if format != "json" && password == "" {
		prompt = "Enter password: "
	}

	plain, err := readSecret(password, io.Reader, io.Writer, prompt)
	if err != nil {
		return err
	}
	if prompt != "" {
		_, _ = fmt.Fprintln(io.Writer)
	}

	hash, err := passwordService.HashPassword(plain)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if format == "json" {
		return writeJSON(io.Writer, map[string]string{"password": hash})
	}

	_, err = fmt.Fprintln(io.Writer, hash)
	return err
}
