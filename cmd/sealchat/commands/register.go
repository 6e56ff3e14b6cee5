package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealchat/internal/domain"
	"sealchat/internal/domain/types"
)

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username>",
		Short: "Rotate your signed pre-key and publish your bundle to the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			me := domain.Username(args[0])
			if !types.ValidUsername(me) {
				return fmt.Errorf("%q: %w", me, domain.ErrInvalidUsername)
			}

			if _, err := appCtx.Prekeys.GenerateAndStoreSignedPreKey(passphrase); err != nil {
				return err
			}
			bundle, err := appCtx.Prekeys.LoadPreKeyBundle(passphrase, me)
			if err != nil {
				return err
			}

			ctx, cancel := withTimeout(cmd)
			defer cancel()
			if err := appCtx.Transport.RegisterPreKeyBundle(ctx, bundle); err != nil {
				return err
			}
			if err := appCtx.Accounts.SaveAccountProfile(domain.AccountProfile{
				ServerURL: appCtx.Config.RelayURL,
				Username:  me,
			}); err != nil {
				return err
			}

			fmt.Printf("Registered %s with %s\n", me, appCtx.Config.RelayURL)
			return nil
		},
	}
}
