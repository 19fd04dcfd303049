package protocol

import (
	"bytes"
	"errors"
	"io"

	"github.com/google/shlex"
)

var (
	// ErrEmptyLine is returned by ParseCommand for a line without tokens.
	ErrEmptyLine  = errors.New("empty command line")
	ErrBufferFull = errors.New("buffer full")

	// ErrMalformedLine is returned for a line that only splits cleanly
	// under shell quoting rules.
	ErrMalformedLine = errors.New("malformed command line")
)

// Command is one parsed command line.
type Command struct {
	Name  string
	Param string
}

// ParseCommand splits a received line on spaces into a command name and an
// optional parameter. The line ends at the first EmptyByte or EndChar.
// Tokens after the parameter are ignored.
//
// A line whose shell-style tokens differ from its space-separated ones
// (quotes, comments, tabs) returns ErrMalformedLine, so it is never read
// as a different command. Each call uses its own lexer.
func ParseCommand(line []byte) (Command, error) {
	if i := bytes.IndexByte(line, EmptyByte); i >= 0 {
		line = line[:i]
	}
	if i := bytes.IndexByte(line, EndChar); i >= 0 {
		line = line[:i]
	}

	var cmd Command
	fields := splitSpaces(line)
	if len(fields) == 0 {
		return cmd, ErrEmptyLine
	}

	lex := shlex.NewLexer(bytes.NewReader(line))
	for i := 0; ; i++ {
		tok, err := lex.Next()
		if err == io.EOF {
			if i != len(fields) {
				return cmd, ErrMalformedLine
			}
			break
		}
		if err != nil || i >= len(fields) || tok != fields[i] {
			return cmd, ErrMalformedLine
		}
	}

	cmd.Name = fields[0]
	if len(fields) > 1 {
		cmd.Param = fields[1]
	}
	return cmd, nil
}

// splitSpaces returns the non-empty runs between space bytes
func splitSpaces(line []byte) []string {
	var fields []string
	for _, f := range bytes.Split(line, []byte{' '}) {
		if len(f) > 0 {
			fields = append(fields, string(f))
		}
	}
	return fields
}

// FormatLine returns msg as a wire line: terminated by EndChar and no longer
// than OutputBufferLength. Overlong messages keep their terminator.
func FormatLine(msg string) []byte {
	n := len(msg)
	if n > OutputBufferLength-1 {
		n = OutputBufferLength - 1
	}
	line := make([]byte, n+1)
	copy(line, msg[:n])
	line[n] = EndChar
	return line
}
