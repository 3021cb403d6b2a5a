package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"vddb/internal/dberr"
	"vddb/internal/engine"
	"vddb/internal/logging"
	"vddb/internal/storage/memstore"
)

type Configuration struct {
	HistoryFile string
	LogLevel    string
	LogFile     string
	Script      string
}

func main() {
	config := parseArguments()

	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		log.Fatalf("Invalid -log-level: %v", err)
	}
	if err := logging.Init(level, config.LogFile); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	eng := engine.New(memstore.New())
	if err := eng.Start(); err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}

	in, err := openInput(config)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	defer in.Close()

	if in.interactive {
		fmt.Println("VDDB REPL (type EXIT to quit)")
	}
	if err := runSession(eng, in.lineReader, os.Stdout); err != nil {
		log.Fatalf("Session failed: %v", err)
	}
}

// parseArguments processes command-line flags
func parseArguments() Configuration {
	var config Configuration

	flag.StringVar(&config.HistoryFile, "history", defaultHistoryFile(), "File that records accepted commands (empty disables)")
	flag.StringVar(&config.LogLevel, "log-level", "WARN", "Log level: DEBUG, INFO, WARN or ERROR")
	flag.StringVar(&config.LogFile, "log-file", "", "Append logs to this file instead of stderr")
	flag.StringVar(&config.Script, "script", "", "Run the commands in this file and stop")

	flag.Parse()

	return config
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vddb_history")
}

type input struct {
	*lineReader
	interactive bool
	file        *os.File
}

func (in *input) Close() {
	in.lineReader.Close()
	if in.file != nil {
		in.file.Close()
	}
}

// openInput picks the command source: the script file, an interactive
// terminal, or plain stdin when input is piped.
func openInput(config Configuration) (*input, error) {
	var history *historyLog
	if config.HistoryFile != "" {
		history = &historyLog{
			path: config.HistoryFile,
			warn: func(err error) { logging.GetLogger().Warn("history write failed", "err", err) },
		}
	}

	if config.Script != "" {
		f, err := os.Open(config.Script)
		if err != nil {
			return nil, err
		}
		return &input{lineReader: newNonInteractive(f, history), file: f}, nil
	}

	if stdinIsTerminal() && liner.TerminalSupported() {
		return &input{lineReader: newInteractive(history), interactive: true}, nil
	}
	return &input{lineReader: newNonInteractive(os.Stdin, history)}, nil
}

func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// commandSource is what runSession reads from.
type commandSource interface {
	ReadCommand() (string, error)
	Accept(line string)
}

// runSession feeds commands to eng until EXIT or end of input. Command
// errors are printed and the session continues. An open transaction is
// rolled back when the session ends.
func runSession(eng *engine.DBEngine, in commandSource, out io.Writer) error {
	for {
		line, err := in.ReadCommand()
		if errors.Is(err, io.EOF) {
			return endSession(eng, out)
		}
		if err != nil {
			return err
		}

		res, err := eng.ExecuteLine(line)
		if err != nil {
			if dberr.KindOf(err) != dberr.KindSyntax {
				in.Accept(line)
			}
			fmt.Fprintln(out, renderError(err))
			continue
		}
		in.Accept(line)

		if res.Exit {
			return endSession(eng, out)
		}
		fmt.Fprintln(out, renderResult(res))
	}
}

func endSession(eng *engine.DBEngine, out io.Writer) error {
	if !eng.InTx() {
		return nil
	}
	if _, err := eng.ExecuteLine("ROLLBACK"); err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render("Active transaction rolled back."))
	return nil
}
