package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	authUseCase "github.com/dapnet/dbgateway/internal/auth/usecase"
)

// RunVerifyCredentials authenticates username against the document store and prints the
// resolved identity, roles and permissions. The password is read from the first line of
// the input when not given as a flag.
func RunVerifyCredentials(
	ctx context.Context,
	credentialUseCase authUseCase.CredentialUseCase,
	logger *slog.Logger,
	io IOTuple,
	username string,
	password string,
	format string,
) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username must not be empty")
	}

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

	principal, err := credentialUseCase.Authenticate(ctx, username, plain)
	if err != nil {
		logger.Warn("credential verification failed", slog.String("username", username), slog.Any("error", err))
		return fmt.Errorf("failed to verify credentials: %w", err)
	}

	permissions := make([]string, 0)
	for _, permission := range principal.Permissions() {
		permissions = append(permissions, string(permission))
	}
	roles := principal.Roles
	if roles == nil {
		roles = []string{}
	}

	if format == "json" {
		return writeJSON(io.Writer, map[string]any{
			"identity":    principal.Identity,
			"roles":       roles,
			"permissions": permissions,
		})
	}

	_, _ = fmt.Fprintf(io.Writer, "Identity:    %s\n", principal.Identity)
	_, _ = fmt.Fprintf(io.Writer, "Roles:       %s\n", strings.Join(roles, ", "))
	_, err = fmt.Fprintf(io.Writer, "Permissions: %s\n", strings.Join(permissions, ", "))
	return err
}
