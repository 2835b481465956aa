package system

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	pasetotoken "github.com/thanhyclinic/schedule_backend/pkg/paseto"
)

func NewGenKeyCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "genkey",
		Short: "Generate PASETO key material for authentication.paseto",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := pasetotoken.GenerateKeyHex(pasetotoken.Mode(mode))
			if err != nil {
				return err
			}

			names := make([]string, 0, len(keys))
			for k := range keys {
				names = append(names, k)
			}
			sort.Strings(names)

			fmt.Println("authentication:")
			fmt.Println("  paseto:")
			fmt.Printf("    mode: %s\n", mode)
			for _, k := range names {
				fmt.Printf("    %s: %q\n", k, keys[k])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(pasetotoken.ModeLocal), "key mode: local or public")

	return cmd
}
