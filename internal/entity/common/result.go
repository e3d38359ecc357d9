package common

import (
	"encoding/json"
	"fmt"
)

// AccountError is the in-band result of the account operations. Nothing means success.
type AccountError int

const (
	AccountNothing AccountError = iota
	AccountPassNotMatched
	AccountUserNotExists
	AccountDatabaseError
	AccountUsernameAlreadyExists
	AccountEmailAlreadyExists
)

var accountErrorNames = [...]string{
	AccountNothing:               "Nothing",
	AccountPassNotMatched:        "PassNotMatched",
	AccountUserNotExists:         "UserNotExists",
	AccountDatabaseError:         "DatabaseError",
	AccountUsernameAlreadyExists: "UsernameAlreadyExists",
	AccountEmailAlreadyExists:    "EmailAlreadyExists",
}

func (e AccountError) String() string {
	if e < 0 || int(e) >= len(accountErrorNames) {
		return fmt.Sprintf("AccountError(%d)", int(e))
	}
	return accountErrorNames[e]
}

func (e AccountError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *AccountError) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for idx, candidate := range accountErrorNames {
		if candidate == name {
			*e = AccountError(idx)
			return nil
		}
	}
	return fmt.Errorf("unknown account error %q", name)
}

// BlogError is the in-band result of the blog operations. Nothing means success.
type BlogError int

const (
	BlogNothing BlogError = iota
	BlogAuthError
	BlogDatabaseError
	BlogNetworkError
	BlogPermissionError
)

var blogErrorNames = [...]string{
	BlogNothing:         "Nothing",
	BlogAuthError:       "AuthError",
	BlogDatabaseError:   "DatabaseError",
	BlogNetworkError:    "NetworkError",
	BlogPermissionError: "PermissionError",
}

func (e BlogError) String() string {
	if e < 0 || int(e) >= len(blogErrorNames) {
		return fmt.Sprintf("BlogError(%d)", int(e))
	}
	return blogErrorNames[e]
}

func (e BlogError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *BlogError) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for idx, candidate := range blogErrorNames {
		if candidate == name {
			*e = BlogError(idx)
			return nil
		}
	}
	return fmt.Errorf("unknown blog error %q", name)
}
