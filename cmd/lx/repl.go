package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ppyne/lx"
	"github.com/ppyne/lx/diag"
)

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive Lx session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			it := lx.New("<repl>")
			registerExtensions(it)
			return runREPL(it, os.Stdin, os.Stdout)
		},
	}
}

// runREPL reads one line at a time from in and evaluates it against it,
// printing the resulting value or diagnostic to out. When in is a
// terminal, stdin is put into raw mode for line editing; otherwise lines
// are read with a plain bufio.Scanner (e.g. when piped from a file).
func runREPL(it *lx.Interpreter, in *os.File, out io.Writer) error {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, oldState)
		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{in, out}, "lx> ")
		return replLoop(it, out, func() (string, error) { return t.ReadLine() })
	}

	scanner := bufio.NewScanner(in)
	return replLoop(it, out, func() (string, error) {
		if !scanner.Scan() {
			return "", io.EOF
		}
		return scanner.Text(), nil
	})
}

func replLoop(it *lx.Interpreter, out io.Writer, readLine func() (string, error)) error {
	for {
		line, err := readLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		v := it.Run(line)
		if diag.Present() {
			fmt.Fprintln(out, diag.Format())
			diag.Clear()
			continue
		}
		fmt.Fprintln(out, lx.ToString(v))
	}
}
