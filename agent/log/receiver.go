// Copyright 2024 Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"). You may not
// use this file except in compliance with the License. A copy of the
// License is located at
//
// http://aws.amazon.com/apache2.0/
//
// or in the "license" file accompanying this file. This file is distributed
// on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND,
// either express or implied. See the License for the specific language governing
// permissions and limitations under the License.

package log

import (
	"io"
	"os"

	"github.com/cihub/seelog"
)

const stderrReceiverName = "stderr"

// streamReceiver writes formatted messages to a stream other than stdout,
// which is reserved for the fingerprint line.
type streamReceiver struct {
	out io.Writer
}

func init() {
	seelog.RegisterReceiver(stderrReceiverName, &streamReceiver{})
}

func (r *streamReceiver) ReceiveMessage(message string, level seelog.LogLevel, context seelog.LogContextInterface) error {
	_, err := io.WriteString(r.out, message)
	return err
}

func (r *streamReceiver) AfterParse(initArgs seelog.CustomReceiverInitArgs) error {
	r.out = os.Stderr
	return nil
}

func (r *streamReceiver) Flush() {}

func (r *streamReceiver) Close() error {
	return nil
}
