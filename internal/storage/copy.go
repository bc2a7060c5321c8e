package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// CopyProgress is called after each user is processed, whether copied or skipped.
type CopyProgress func(username string, done, total int)

// CopyResult counts what CopyUsers did.
type CopyResult struct {
	Copied  int
	Skipped int
}

// CopyUsers copies every user from src into dst, overwriting users that already
// exist in dst. A listed user whose record cannot be read is skipped with a warning.
func CopyUsers(ctx context.Context, src, dst service.UserStore, progress CopyProgress) (CopyResult, error) {
	var result CopyResult
	if err := validateContext(ctx); err != nil {
		return result, err
	}

	names, err := src.Usernames(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list users: %w", err)
	}

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		user, err := src.Load(ctx, name)
		switch {
		case errors.Is(err, common.ErrNotFound):
			slog.Warn("Skipping unreadable user record", "username", name, "error", err)
			result.Skipped++
		case err != nil:
			return result, fmt.Errorf("failed to load user %q: %w", name, err)
		default:
			if err := dst.Save(ctx, user); err != nil {
				return result, fmt.Errorf("failed to save user %q: %w", name, err)
			}
			result.Copied++
		}

		if progress != nil {
			progress(name, i+1, len(names))
		}
	}

	return result, nil
}
