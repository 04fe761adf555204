package types

type StatusKind string

const (
	StatusNone    StatusKind = "none"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the single banner shown to the user
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

func (s Status) Empty() bool {
	return s.Kind == StatusNone || s.Kind == "" || s.Message == ""
}

func NoStatus() Status {
	return Status{Kind: StatusNone}
}

func SuccessStatus(msg string) Status {
	return Status{Kind: StatusSuccess, Message: msg}
}

func ErrorStatus(msg string) Status {
	return Status{Kind: StatusError, Message: msg}
}
