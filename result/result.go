// Package result holds the outcome type every remote operation is folded into.
package result

// NetworkResult is the outcome of a remote operation. Exactly one of Loading,
// Success, SuccessNoData or Error is active; the set is closed.
type NetworkResult[T any] interface {
	isNetworkResult(T)
}

// Loading reports an operation still in flight
type Loading[T any] struct{}

// Success carries the decoded payload of a successful call
type Success[T any] struct {
	Data T
}

// SuccessNoData reports a successful call whose body was empty
type SuccessNoData[T any] struct{}

// Error carries a human readable failure message
type Error[T any] struct {
	Message string
}

func (Loading[T]) isNetworkResult(T)       {}
func (Success[T]) isNetworkResult(T)       {}
func (SuccessNoData[T]) isNetworkResult(T) {}
func (Error[T]) isNetworkResult(T)         {}

// NewLoading returns the in-flight variant
func NewLoading[T any]() NetworkResult[T] {
	return Loading[T]{}
}

// NewSuccess wraps data in the success variant
func NewSuccess[T any](data T) NetworkResult[T] {
	return Success[T]{Data: data}
}

// NewSuccessNoData returns the empty-body success variant
func NewSuccessNoData[T any]() NetworkResult[T] {
	return SuccessNoData[T]{}
}

// NewError returns the failure variant. An empty message is replaced so the
// variant never carries an empty string.
func NewError[T any](message string) NetworkResult[T] {
	if message == "" {
		message = "Unknown error"
	}
	return Error[T]{Message: message}
}

// Handlers lists one callback per variant for Fold
type Handlers[T, U any] struct {
	Loading       func() U
	Success       func(data T) U
	SuccessNoData func() U
	Error         func(message string) U
}

// Fold dispatches r to the matching handler. Every handler must be set.
func Fold[T, U any](r NetworkResult[T], h Handlers[T, U]) U {
	switch v := r.(type) {
	case Loading[T]:
		return h.Loading()
	case Success[T]:
		return h.Success(v.Data)
	case SuccessNoData[T]:
		return h.SuccessNoData()
	case Error[T]:
		return h.Error(v.Message)
	default:
		// nil interface
		return h.Error("Unknown error")
	}
}

// Map converts the payload of a Success and passes every other variant through.
func Map[T, U any](r NetworkResult[T], fn func(T) U) NetworkResult[U] {
	switch v := r.(type) {
	case Loading[T]:
		return Loading[U]{}
	case Success[T]:
		return Success[U]{Data: fn(v.Data)}
	case SuccessNoData[T]:
		return SuccessNoData[U]{}
	case Error[T]:
		return Error[U]{Message: v.Message}
	default:
		return NewError[U]("")
	}
}

// IsSuccess reports whether r is Success or SuccessNoData
func IsSuccess[T any](r NetworkResult[T]) bool {
	switch r.(type) {
	case Success[T], SuccessNoData[T]:
		return true
	}
	return false
}

// ErrorMessage returns the message of an Error variant and false otherwise
func ErrorMessage[T any](r NetworkResult[T]) (string, bool) {
	if e, ok := r.(Error[T]); ok {
		return e.Message, true
	}
	return "", false
}

// ResponseWithToken pairs a payload with the Authorization header returned
// alongside it. Token is empty when the server sent none.
type ResponseWithToken[T any] struct {
	Data  T
	Token string
}

// HasToken reports whether the server issued a token
func (r ResponseWithToken[T]) HasToken() bool {
	return r.Token != ""
}
