package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

// sessionCmd reports the stored key and ratchet state for a conversation.
func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session <peer>",
		Short: "Show the session state with a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := localUser()
			if err != nil {
				return err
			}
			peer := domain.Username(args[0])
			sid := domain.NewSessionID(me, peer)

			st, err := appCtx.Sessions.LoadSessionState(sid)
			if err != nil {
				return err
			}
			slots, err := appCtx.Ledger.Len(sid)
			if err != nil {
				return err
			}

			ctx, cancel := withTimeout(cmd)
			defer cancel()
			latest, ok, err := appCtx.Transport.LatestMessageNumber(ctx, me, peer)
			if err != nil {
				return err
			}

			fmt.Printf("Session:      %s\n", sid)
			fmt.Printf("Established:  %t\n", st.Established)
			fmt.Printf("Ledger slots: %d\n", slots)
			if ok {
				fmt.Printf("Relay latest: #%d\n", latest)
			} else {
				fmt.Println("Relay latest: none")
			}
			if st.LastKnownRemoteEphemeral != nil {
				fmt.Printf("Peer ephemeral:  %s\n", crypto.Fingerprint(*st.LastKnownRemoteEphemeral))
			}
			fmt.Printf("Local ephemeral: %t\n", st.LocalEphemeralPrivate != nil)
			return nil
		},
	}
}
