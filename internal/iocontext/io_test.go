package iocontext

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestGetIO_Default(t *testing.T) {
	io := GetIO(context.Background())
	if io.Out != os.Stdout || io.ErrOut != os.Stderr || io.In != os.Stdin {
		t.Error("expected standard streams by default")
	}
}

func TestWithIO(t *testing.T) {
	out := &bytes.Buffer{}
	custom := &IO{Out: out, ErrOut: &bytes.Buffer{}, In: strings.NewReader("")}
	got := GetIO(WithIO(context.Background(), custom))
	if got != custom {
		t.Error("expected injected IO")
	}
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"secret\n", "secret", false},
		{"secret\r\nmore\n", "secret", false},
		{"no-newline", "no-newline", false},
		{"", "", true},
	}
	for _, tt := range tests {
		s := &IO{In: strings.NewReader(tt.in)}
		got, err := s.ReadLine()
		if (err != nil) != tt.wantErr {
			t.Errorf("ReadLine(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := (&IO{}).ReadLine(); err == nil {
		t.Error("nil input should fail")
	}
}
