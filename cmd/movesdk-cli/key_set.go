// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/movesdk/codec"
)

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the signing key in the config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		keyString, err := cmd.Flags().GetString("key")
		if err != nil {
			return fmt.Errorf("failed to get key flag: %w", err)
		}
		if keyString == "" {
			return errors.New("key is required")
		}

		// Validate the key against the configured scheme before
		// persisting it.
		key, err := resolvePrivateKey(cmd)
		if err != nil {
			return err
		}
		scheme, err := resolveScheme(cmd)
		if err != nil {
			return err
		}

		if err := setConfigValue("key", codec.ToHex(key.Bytes)); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		if err := setConfigValue("scheme", scheme); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}

		return printValue(cmd, keySetCmdResponse{
			Address: key.Address.String(),
			Scheme:  scheme,
		})
	},
}

type keySetCmdResponse struct {
	Address string `json:"address"`
	Scheme  string `json:"scheme"`
}

func (r keySetCmdResponse) String() string {
	return fmt.Sprintf("Key set for address: %s (scheme: %s)", r.Address, r.Scheme)
}

func init() {
	keyCmd.AddCommand(keySetCmd)
}
