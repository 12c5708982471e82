package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

// chess play
func Play() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a game by typing commands",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`play starts a game from the standard opening position and
			reads one command per line from standard input. Each command
			is executed for the side to move and the engine's response
			is printed.

			Moves are written as "move x y x y" with coordinates from
			0 to 7, white starting on rows 0 and 1. "board" prints the
			current position and "quit" or "exit" ends the session.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := model.NewGameState()
			out := cmd.OutOrStdout()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "quit", "exit":
					return nil
				case "board":
					if err := state.Debug(out); err != nil {
						return err
					}
					continue
				}

				res := state.Execute(line)
				logrus.WithFields(logrus.Fields{
					"command":  line,
					"response": res,
				}).Trace("executed")
				fmt.Fprintln(out, res)

				if res.OK() && state.IsFinished() {
					fmt.Fprintf(out, "game over: %s\n", result(state))
				}
			}
			return scanner.Err()
		},
	}
}
