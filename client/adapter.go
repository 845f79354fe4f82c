package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pagao/pagao/result"
)

const (
	// MsgSessionExpired is returned for rejected credentials. Callers use it
	// to send the user back to login.
	MsgSessionExpired = "Session Expired"

	// MsgUnknownError is used when the error body is valid JSON without a message
	MsgUnknownError = "Unknown error"

	// MsgUnreadableError is used when the error body cannot be decoded
	MsgUnreadableError = "Unexpected error response"
)

var errNoResponse = errors.New("no response received")

// Call performs one remote request. It is invoked exactly once by the adapters.
type Call func(ctx context.Context) (*http.Response, error)

// SafeAPICall runs call and folds the outcome into a NetworkResult. It never
// returns an error or panics: every failure ends up in result.Error.
func SafeAPICall[T any](ctx context.Context, call Call) result.NetworkResult[T] {
	return SafeAPICallTransform(ctx, call, func(body T) T { return body })
}

// SafeAPICallTransform is SafeAPICall with a conversion from the wire type R
// to the type handed to the caller.
func SafeAPICallTransform[R, T any](ctx context.Context, call Call, transform func(R) T) (res result.NetworkResult[T]) {
	defer recoverInto(&res)

	resp, err := call(ctx)
	if err != nil {
		return result.NewError[T](err.Error())
	}
	if resp == nil {
		return result.NewError[T](errNoResponse.Error())
	}
	defer drainAndClose(resp.Body)

	if !isSuccessful(resp.StatusCode) {
		return result.NewError[T](failureMessage(resp, http.StatusUnauthorized, http.StatusForbidden))
	}

	var body R
	present, err := decodeBody(resp.Body, &body)
	if err != nil {
		return result.NewError[T](err.Error())
	}
	if !present {
		return result.NewSuccessNoData[T]()
	}
	return result.NewSuccess(transform(body))
}

// SafeAPICallWithToken behaves like SafeAPICall and additionally returns the
// Authorization response header next to the body. Only 401 counts as an
// expired session here.
func SafeAPICallWithToken[T any](ctx context.Context, call Call) (res result.NetworkResult[result.ResponseWithToken[T]]) {
	defer recoverInto(&res)

	resp, err := call(ctx)
	if err != nil {
		return result.NewError[result.ResponseWithToken[T]](err.Error())
	}
	if resp == nil {
		return result.NewError[result.ResponseWithToken[T]](errNoResponse.Error())
	}
	defer drainAndClose(resp.Body)

	if !isSuccessful(resp.StatusCode) {
		return result.NewError[result.ResponseWithToken[T]](failureMessage(resp, http.StatusUnauthorized))
	}

	var body T
	present, err := decodeBody(resp.Body, &body)
	if err != nil {
		return result.NewError[result.ResponseWithToken[T]](err.Error())
	}
	if !present {
		return result.NewSuccessNoData[result.ResponseWithToken[T]]()
	}
	return result.NewSuccess(result.ResponseWithToken[T]{
		Data:  body,
		Token: resp.Header.Get("Authorization"),
	})
}

func recoverInto[T any](res *result.NetworkResult[T]) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			*res = result.NewError[T](err.Error())
			return
		}
		*res = result.NewError[T](fmt.Sprint(r))
	}
}

func isSuccessful(status int) bool {
	return status >= 200 && status < 300
}

// decodeBody reports false for an empty or null body
func decodeBody(r io.Reader, dst any) (bool, error) {
	if r == nil {
		return false, nil
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return false, fmt.Errorf("failed to read response body: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to parse response: %w", err)
	}
	return true, nil
}

func failureMessage(resp *http.Response, sessionStatuses ...int) string {
	for _, status := range sessionStatuses {
		if resp.StatusCode == status {
			return MsgSessionExpired
		}
	}
	return parseErrorMessage(resp.Body)
}

func parseErrorMessage(r io.Reader) string {
	if r == nil {
		return MsgUnreadableError
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return MsgUnreadableError
	}

	// a null body has no error object to read a message from
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return MsgUnreadableError
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil {
		return MsgUnreadableError
	}
	if errResp.Message == nil || *errResp.Message == "" {
		return MsgUnknownError
	}
	return *errResp.Message
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, body)
	body.Close()
}
