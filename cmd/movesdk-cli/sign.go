// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/movesdk/auth"
	"github.com/ava-labs/movesdk/chain"
)

var signCmd = &cobra.Command{
	Use:   "sign [bytes]",
	Short: "Sign a transaction with the configured key",
	Long:  `Sign a transaction, given in its canonical binary or JSON form, and print the signed transaction envelope.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := resolvePrivateKey(cmd)
		if err != nil {
			return err
		}
		factory, err := auth.GetFactory(key)
		if err != nil {
			return fmt.Errorf("failed to create factory: %w", err)
		}

		payload, err := readPayload(cmd, args)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		tx, err := decodeTransactionAuto(payload)
		if err != nil {
			return fmt.Errorf("failed to decode transaction: %w", err)
		}

		signed, err := auth.SignTransaction(tx, factory)
		if err != nil {
			return fmt.Errorf("failed to sign transaction: %w", err)
		}
		wire, err := chain.EncodeSignedTransaction(chain.Binary, signed)
		if err != nil {
			return fmt.Errorf("failed to encode signed transaction: %w", err)
		}
		digest, err := signed.Digest()
		if err != nil {
			return fmt.Errorf("failed to compute digest: %w", err)
		}

		return printValue(cmd, signCmdResponse{
			Signed: base64.StdEncoding.EncodeToString(wire),
			Digest: digest.String(),
			Signer: factory.Address().String(),
		})
	},
}

type signCmdResponse struct {
	Signed string `json:"signed"`
	Digest string `json:"digest"`
	Signer string `json:"signer"`
}

func (r signCmdResponse) String() string {
	return fmt.Sprintf("signer: %s\ndigest: %s\n%s", r.Signer, r.Digest, r.Signed)
}

func init() {
	rootCmd.AddCommand(signCmd)
}
