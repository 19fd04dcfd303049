package protocol

import (
	"bytes"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    []byte
		want    Command
		wantErr error
	}{
		{"bare", []byte("play"), Command{Name: "play"}, nil},
		{"with param", []byte("select 1"), Command{Name: "select", Param: "1"}, nil},
		{"padded buffer", []byte{'s', 'p', 'e', 'e', 'd', ' ', '2', 0, 0, 0}, Command{Name: "speed", Param: "2"}, nil},
		{"full buffer", []byte("speed 0.01"), Command{Name: "speed", Param: "0.01"}, nil},
		{"carriage return", []byte("info\r"), Command{}, ErrMalformedLine},
		{"double spaces", []byte("  select  3"), Command{Name: "select", Param: "3"}, nil},
		{"extra tokens", []byte("next a b"), Command{Name: "next", Param: "a"}, nil},
		{"terminated", []byte("stop\n"), Command{Name: "stop"}, nil},
		{"quoted", []byte(`select "2"`), Command{}, ErrMalformedLine},
		{"single quoted", []byte(`'info'`), Command{}, ErrMalformedLine},
		{"tab", []byte("select\t2"), Command{}, ErrMalformedLine},
		{"case kept", []byte("PLAY"), Command{Name: "PLAY"}, nil},
		{"empty", []byte{}, Command{}, ErrEmptyLine},
		{"zeroes", make([]byte, InputBufferLength), Command{}, ErrEmptyLine},
		{"spaces", []byte("   "), Command{}, ErrEmptyLine},
		{"comment", []byte("# x"), Command{}, ErrMalformedLine},
		{"hash", []byte("#"), Command{}, ErrMalformedLine},
		{"trailing comment", []byte("play #x"), Command{}, ErrMalformedLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if err != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseCommandUnterminatedQuote(t *testing.T) {
	_, err := ParseCommand([]byte(`play "x`))
	if err != ErrMalformedLine {
		t.Errorf("Expected ErrMalformedLine, got %v", err)
	}
}

func TestFormatLine(t *testing.T) {
	if got := string(FormatLine("Jukebox ON")); got != "Jukebox ON\n" {
		t.Errorf("Expected terminated line, got %q", got)
	}

	long := FormatLine(string(bytes.Repeat([]byte{'a'}, 150)))
	if len(long) != OutputBufferLength {
		t.Errorf("Expected %d bytes, got %d", OutputBufferLength, len(long))
	}
	if long[len(long)-1] != EndChar {
		t.Error("Truncated line must keep its terminator")
	}
}
