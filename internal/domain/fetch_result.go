package domain

// FetchStatus tags the current variant of a FetchResult
type FetchStatus string

const (
	StatusLoading FetchStatus = "loading"
	StatusSuccess FetchStatus = "success"
	StatusFailure FetchStatus = "failure"
)

// Messages shown to visitors when a fetch fails. Transport detail never
// reaches the UI.
const (
	MsgProductsFailed      = "Failed to load products"
	MsgProductDetailFailed = "Failed to load product details"
)

// FetchResult is the outcome of a catalog request: exactly one of loading,
// success with a value, or failure with a message.
type FetchResult[T any] struct {
	Status  FetchStatus
	Value   T
	Message string
}

func Loading[T any]() FetchResult[T] {
	return FetchResult[T]{Status: StatusLoading}
}

func Success[T any](value T) FetchResult[T] {
	return FetchResult[T]{Status: StatusSuccess, Value: value}
}

func Failure[T any](message string) FetchResult[T] {
	return FetchResult[T]{Status: StatusFailure, Message: message}
}

func (r FetchResult[T]) IsLoading() bool { return r.Status == StatusLoading }
func (r FetchResult[T]) IsSuccess() bool { return r.Status == StatusSuccess }
func (r FetchResult[T]) IsFailure() bool { return r.Status == StatusFailure }
