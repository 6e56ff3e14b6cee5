package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sealchat/internal/domain"
)

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Print incoming messages as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := sessionContext()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = appCtx.Messages.Listen(ctx, sc, appCtx.Config.PollInterval, func(m domain.DecryptedMessage, err error) {
				if err != nil {
					printFailure(domain.Message{From: m.From, Number: m.Number}, err)
					return
				}
				printMessage(m)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
