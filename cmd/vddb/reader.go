package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const prompt = "vddb> "

type prompter interface {
	Close()
	Prompt() (string, error)
	AppendHistory(line string)
}

// lineReader reads one command per line from a prompter and records the
// accepted ones in the history file.
type lineReader struct {
	prompt  prompter
	history *historyLog
}

// ReadCommand returns the next non-blank line, trimmed. It returns io.EOF
// when there is no more input.
func (r *lineReader) ReadCommand() (string, error) {
	for {
		line, err := r.prompt.Prompt()
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C discards the current line.
			continue
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// Accept records line in the session and file history.
func (r *lineReader) Accept(line string) {
	r.prompt.AppendHistory(line)
	if r.history != nil {
		r.history.append(line)
	}
}

// Close frees any resources acquired by this reader.
func (r *lineReader) Close() {
	r.prompt.Close()
}

// noninteractive prompter just blindly reads from its input.
type noninteractive struct {
	input *bufio.Reader
}

// newNonInteractive returns a reader that consumes in line by line. Useful
// for scripts and piped input.
func newNonInteractive(in io.Reader, history *historyLog) *lineReader {
	return &lineReader{prompt: &noninteractive{bufio.NewReader(in)}, history: history}
}

func (i *noninteractive) Close() {}

func (i *noninteractive) Prompt() (string, error) {
	return i.input.ReadString('\n')
}

func (i *noninteractive) AppendHistory(string) {}

// interactive prompter provides line editing and history recall.
type interactive struct {
	line *liner.State
}

// newInteractive returns a reader that prompts the user. Earlier sessions'
// lines from history are available for recall.
func newInteractive(history *historyLog) *lineReader {
	i := &interactive{line: liner.NewLiner()}
	i.line.SetCtrlCAborts(true)

	if history != nil {
		if f, err := os.Open(history.path); err == nil {
			_, _ = i.line.ReadHistory(f)
			f.Close()
		}
	}
	return &lineReader{prompt: i, history: history}
}

func (i *interactive) Close() {
	i.line.Close()
}

func (i *interactive) Prompt() (string, error) {
	return i.line.Prompt(prompt)
}

func (i *interactive) AppendHistory(line string) {
	i.line.AppendHistory(line)
}

// historyLog appends accepted lines to a file, one per line.
type historyLog struct {
	path string
	warn func(error)
}

func (h *historyLog) append(line string) {
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		h.fail(err)
		return
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, line); err != nil {
		h.fail(err)
	}
}

func (h *historyLog) fail(err error) {
	if h.warn != nil {
		h.warn(fmt.Errorf("history %s: %w", h.path, err))
	}
}
