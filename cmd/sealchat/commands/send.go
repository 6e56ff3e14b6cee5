package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealchat/internal/domain"
)

// send <peer> <message>: encrypt and send a message to <peer>.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <peer> <message>",
		Short: "Encrypt and send a message to a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := sessionContext()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			m, err := appCtx.Messages.Send(ctx, sc, domain.Username(args[0]), []byte(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("sent #%d\n", m.Number)
			return nil
		},
	}
}
