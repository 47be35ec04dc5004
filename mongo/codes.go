// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mongo

import (
	"errors"

	mongod "go.mongodb.org/mongo-driver/v2/mongo"
)

// Server error codes the reconciliation relies upon
const (
	// CodeInvalidReplicaSetConfig is returned by replSetGetStatus when the stored
	// configuration no longer makes sense, e.g. after every member lost its state
	CodeInvalidReplicaSetConfig int32 = 93
	// CodeNotYetInitialized is returned by replSetGetStatus on a mongod started
	// with --replSet on which replSetInitiate was never run
	CodeNotYetInitialized int32 = 94
)

// ErrorCode extracts the server error code carried by err
func ErrorCode(err error) (int32, bool) {
	if err == nil {
		return 0, false
	}

	var cmdErr mongod.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code, true
	}

	var cmdErrPtr *mongod.CommandError
	if errors.As(err, &cmdErrPtr) && cmdErrPtr != nil {
		return cmdErrPtr.Code, true
	}
	return 0, false
}

// HasErrorCode reports whether err carries the given server error code
func HasErrorCode(err error, code int32) bool {
	actual, ok := ErrorCode(err)
	return ok && actual == code
}

// NewCommandError builds the error a server returns for a failed command
func NewCommandError(code int32, name, message string) error {
	return mongod.CommandError{Code: code, Name: name, Message: message}
}
