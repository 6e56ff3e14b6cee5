package commands

import (
	"github.com/spf13/cobra"

	"sealchat/internal/domain"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <peer>",
		Short: "Show the full conversation with a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := sessionContext()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			msgs, failed, err := appCtx.Messages.History(ctx, sc, domain.Username(args[0]))
			for _, m := range msgs {
				printMessage(m)
			}
			for _, f := range failed {
				printFailure(f.Message, f.Err)
			}
			return err
		},
	}
}
