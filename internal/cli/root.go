package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:  "chess",
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// If --trace flag is provided, set logging level to Trace.
			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
			}
		},
	}

	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")

	root.AddCommand(Play())
	root.AddCommand(Run())

	return root
}

// result describes a finished game.
func result(state *model.GameState) string {
	if state.Winner() == model.TeamNone {
		return "draw"
	}
	return state.Winner().String() + " wins"
}
