package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

// chess run
func Run() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Execute command scripts",
		Args:  cobra.MinimumNArgs(1),
		Long: heredoc.Doc(`run executes every command in each given file against a
			fresh game and prints "<line>: <response>" for each one.
			Blank lines and lines starting with # are skipped.

			With --strict the first response other than Success stops
			the run with an error.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, err := cmd.Flags().GetBool("strict")
			if err != nil {
				return err
			}

			for _, path := range args {
				logrus.WithField("file", path).Debug("running script")
				if err := runFile(path, cmd.OutOrStdout(), strict); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("strict", false, "Fail on the first rejected command")
	return cmd
}

func runFile(path string, out io.Writer, strict bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := runScript(f, out, strict); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// runScript executes r's commands against one new game.
func runScript(r io.Reader, out io.Writer, strict bool) error {
	state := model.NewGameState()

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		res := state.Execute(line)
		fmt.Fprintf(out, "%s: %s\n", line, res)
		if strict && !res.OK() {
			return fmt.Errorf("line %d: %q: %s", lineNo, line, res)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if state.IsFinished() {
		fmt.Fprintf(out, "game over: %s\n", result(state))
	}
	return nil
}
