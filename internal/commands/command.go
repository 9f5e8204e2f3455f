package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDone     Type = "done"
	TypeDelete   Type = "delete"
	TypeShow     Type = "show"
	TypeLogin    Type = "login"
	TypeRegister Type = "register"
	TypeLogout   Type = "logout"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title string
}

type DoneArgs struct {
	Target string
}

type DeleteArgs struct {
	Target string
}

type ShowArgs struct {
	Subject string
}

type LoginArgs struct {
	Username string
	Password string
}

type RegisterArgs struct {
	Username    string
	Password    string
	DisplayName string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Done     *DoneArgs
	Delete   *DeleteArgs
	Show     *ShowArgs
	Login    *LoginArgs
	Register *RegisterArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeDelete:
		return parseDelete(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeLogin:
		return parseLogin(input, args)
	case TypeRegister:
		return parseRegister(input, args)
	case TypeLogout:
		return Command{Type: TypeLogout, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires a task id"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Target: args[0]}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires a task id"}
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Target: args[0]}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	switch subject {
	case "tasks", "stats", "badges":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown subject: %s", subject)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}

func parseLogin(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "login requires username and password"}
	}
	return Command{Type: TypeLogin, Raw: raw, Login: &LoginArgs{Username: args[0], Password: args[1]}}, nil
}

func parseRegister(raw string, args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "register requires username, password and display name"}
	}
	display := strings.TrimSpace(strings.Join(args[2:], " "))
	return Command{Type: TypeRegister, Raw: raw, Register: &RegisterArgs{
		Username:    args[0],
		Password:    args[1],
		DisplayName: display,
	}}, nil
}
