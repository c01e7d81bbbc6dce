package git

import (
	"strings"

	"git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
)

// GitError simplifies creating a git-scoped ClassifiedError.
func GitError(message string) *errors.ErrorBuilder {
	return errors.NewError(errors.CategoryGit, message)
}

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op string, path string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "object not found") || strings.Contains(l, "reference not found"):
		return errors.WrapError(err, errors.CategoryNotFound, "git object not found").
			WithContext("op", op).
			WithContext("path", path).
			Build()
	case strings.Contains(l, "permission denied"):
		return errors.WrapError(err, errors.CategoryFileSystem, "git repository not readable").
			WithContext("op", op).
			WithContext("path", path).
			Build()
	}
	return GitError("git operation failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("path", path).
		Build()
}
