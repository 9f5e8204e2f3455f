package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Done     func(DoneArgs) (Result, error)
	Delete   func(DeleteArgs) (Result, error)
	Show     func(ShowArgs) (Result, error)
	Login    func(LoginArgs) (Result, error)
	Register func(RegisterArgs) (Result, error)
	Logout   func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Done)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "delete handler not configured"}
		}
		return handlers.Delete(*cmd.Delete)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "show handler not configured"}
		}
		return handlers.Show(*cmd.Show)
	case TypeLogin:
		if handlers.Login == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "login handler not configured"}
		}
		return handlers.Login(*cmd.Login)
	case TypeRegister:
		if handlers.Register == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "register handler not configured"}
		}
		return handlers.Register(*cmd.Register)
	case TypeLogout:
		if handlers.Logout == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "logout handler not configured"}
		}
		return handlers.Logout()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
