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
	"path/filepath"

	"github.com/cihub/seelog"
)

// DefaultConfig returns the seelog configuration used when no seelog.xml override exists.
func DefaultConfig() []byte {
	return loadLog(DefaultLogDir, LogFile, seelog.InfoStr)
}

func loadLog(logDir string, logFile string, minLevel string) []byte {
	if logDir == "" {
		return consoleConfig(minLevel)
	}
	if _, found := seelog.LogLevelFromString(minLevel); !found {
		minLevel = seelog.InfoStr
	}

	logFilePath := filepath.Join(logDir, logFile)
	errorFilePath := filepath.Join(logDir, ErrorFile)

	logConfig := `
<seelog type="sync" minlevel="` + minLevel + `">
    <outputs formatid="fmtinfo">
        <custom name="stderr" formatid="fmtinfo"/>
        `
	logConfig += `<rollingfile type="size" filename="` + logFilePath + `" maxsize="30000000" maxrolls="5"/>`
	logConfig += `
        <filter levels="error,critical" formatid="fmterror">
        `
	logConfig += `<rollingfile type="size" filename="` + errorFilePath + `" maxsize="10000000" maxrolls="5"/>`
	logConfig += `
        </filter>
    </outputs>
    <formats>
        <format id="fmterror" format="%Date %Time %LEVEL [%FuncShort @ %File.%Line] %Msg%n"/>
        <format id="fmtinfo" format="%Date %Time %LEVEL %Msg%n"/>
    </formats>
</seelog>
`
	return []byte(logConfig)
}

// consoleConfig logs to stderr only. Used when no log directory is configured
// and as the fallback for an unparseable override.
func consoleConfig(minLevel string) []byte {
	if _, found := seelog.LogLevelFromString(minLevel); !found {
		minLevel = seelog.InfoStr
	}
	return []byte(`
<seelog type="sync" minlevel="` + minLevel + `">
    <outputs formatid="fmtinfo">
        <custom name="stderr" formatid="fmtinfo"/>
    </outputs>
    <formats>
        <format id="fmtinfo" format="%Date %Time %LEVEL %Msg%n"/>
    </formats>
</seelog>
`)
}
