package main

import (
	"io"
	"testing"

	"github.com/chzyer/readline"
)

type fakeLineSource struct {
	line string
	err  error
}

func (f *fakeLineSource) SetPrompt(prompt string) {}
func (f *fakeLineSource) Readline() (string, error) { return f.line, f.err }

func TestReadLineTreatsInterruptAsEOF(t *testing.T) {
	r := rlReader{rl: &fakeLineSource{err: readline.ErrInterrupt}}

	_, err := r.ReadLine("Your answer: ")
	if err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestReadLinePassesInputThrough(t *testing.T) {
	r := rlReader{rl: &fakeLineSource{line: "x is None"}}

	line, err := r.ReadLine("Your answer: ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "x is None" {
		t.Errorf("line = %q, want %q", line, "x is None")
	}
}
