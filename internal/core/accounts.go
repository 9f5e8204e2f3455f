package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkalyta/taskquest/internal/model"
)

// hashPassword is a djb2-style digest kept for parity with the stored data
// format. It is NOT a cryptographic hash and must not be treated as real
// credential protection; this tool stores everything on the local device
// for a single user.
func hashPassword(password string) string {
	var h uint32 = 5381
	for _, c := range []byte(password) {
		h = h*33 + uint32(c)
	}
	return strconv.FormatUint(uint64(h), 16)
}

// Register creates a user and performs an implicit login.
func (e *Engine) Register(ctx context.Context, username, password, displayName string) (model.User, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if username == "" || password == "" || displayName == "" {
		return model.User{}, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if len(username) < model.MinUsernameLen {
		return model.User{}, fmt.Errorf("%w: username must be at least %d characters", ErrValidation, model.MinUsernameLen)
	}
	if len(password) < model.MinPasswordLen {
		return model.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, model.MinPasswordLen)
	}
	if _, exists := e.doc.Users[username]; exists {
		return model.User{}, ErrConflict
	}

	user := model.User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hashPassword(password),
		CreatedAt:    e.now(),
	}
	e.doc.Users[username] = user
	e.doc.CurrentUser = username
	e.persist(ctx)
	e.log.Info("user registered", "username", username)
	return user, nil
}

// Login verifies credentials and sets the session. Unknown usernames and
// wrong passwords fail identically so usernames cannot be enumerated.
func (e *Engine) Login(ctx context.Context, username, password string) (model.User, error) {
	user, ok := e.doc.Users[strings.TrimSpace(username)]
	if !ok || user.PasswordHash != hashPassword(password) {
		return model.User{}, ErrAuth
	}
	e.doc.CurrentUser = user.Username
	e.persist(ctx)
	e.log.Info("user logged in", "username", user.Username)
	return user, nil
}

// Logout clears the session unconditionally; logging out twice is a no-op.
func (e *Engine) Logout(ctx context.Context) {
	if e.doc.CurrentUser == "" {
		return
	}
	e.doc.CurrentUser = ""
	e.persist(ctx)
}

// CurrentUser returns the active session's user record, if any.
func (e *Engine) CurrentUser() (model.User, bool) {
	if e.doc.CurrentUser == "" {
		return model.User{}, false
	}
	user, ok := e.doc.Users[e.doc.CurrentUser]
	return user, ok
}
