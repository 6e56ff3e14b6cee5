package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sealchat/internal/domain"
)

// recv: fetch and decrypt queued messages.
func recvCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Fetch and decrypt your queued messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := sessionContext()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			msgs, failed, err := appCtx.Messages.ReceivePending(ctx, sc, limit)
			for _, m := range msgs {
				printMessage(m)
			}
			for _, f := range failed {
				printFailure(f.Message, f.Err)
			}
			return err
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of messages to fetch (0 for all)")
	return cmd
}

func printMessage(m domain.DecryptedMessage) {
	ts := time.Unix(m.Timestamp, 0).Format(time.DateTime)
	fmt.Printf("%s #%d [%s] %s\n", ts, m.Number, m.From, string(m.Plaintext))
}

func printFailure(m domain.Message, err error) {
	fmt.Fprintf(os.Stderr, "#%d [%s] unreadable: %v\n", m.Number, m.From, err)
}
