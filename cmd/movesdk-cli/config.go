// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava-labs/movesdk/auth"
	"github.com/ava-labs/movesdk/chain"
	"github.com/ava-labs/movesdk/codec"
)

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error getting home directory:", err)
		os.Exit(1)
	}

	configDir := filepath.Join(homeDir, ".movesdk-cli")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "Error creating config directory:", err)
		os.Exit(1)
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if _, err := os.Create(configFile); err != nil {
			fmt.Fprintln(os.Stderr, "Error creating config file:", err)
			os.Exit(1)
		}
	}

	// Set config name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
			os.Exit(1)
		}
		// Config file not found; will be created when needed
	}
}

func isJSONOutputRequested(cmd *cobra.Command) (bool, error) {
	output, err := getConfigValue(cmd, "output", false)
	if err != nil {
		return false, fmt.Errorf("failed to get output format: %w", err)
	}
	return strings.ToLower(output) == "json", nil
}

func printValue(cmd *cobra.Command, v fmt.Stringer) error {
	isJSON, err := isJSONOutputRequested(cmd)
	if err != nil {
		return err
	}

	if isJSON {
		jsonBytes, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	} else {
		fmt.Println(v.String())
		return nil
	}
}

func getConfigValue(cmd *cobra.Command, key string, required bool) (string, error) {
	// Check flags first
	if value, err := cmd.Flags().GetString(key); err == nil && value != "" {
		return value, nil
	}

	// Then check viper
	if value := viper.GetString(key); value != "" {
		return value, nil
	}

	if required {
		return "", fmt.Errorf("required value for %s not found", key)
	}

	return "", nil
}

func setConfigValue(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

func decodeFileOrHex(fileNameOrHex string) ([]byte, error) {
	if decoded, err := codec.LoadHex(fileNameOrHex, -1); err == nil {
		return decoded, nil
	}

	if fileContents, err := os.ReadFile(fileNameOrHex); err == nil {
		return fileContents, nil
	}

	return nil, errors.New("unable to decode input as hex, or read as file path")
}

// decodeWire interprets s as base64 or 0x-prefixed hex.
func decodeWire(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") {
		return codec.LoadHex(s, -1)
	}
	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	return nil, errors.New("input is neither base64 nor 0x-prefixed hex")
}

// readPayload returns the wire bytes for a command: the positional
// argument when present (base64, hex, or a file holding either form),
// otherwise stdin. Stdin may also carry the raw binary directly.
func readPayload(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 {
		if decoded, err := decodeWire(args[0]); err == nil {
			return decoded, nil
		}
		if fileContents, err := os.ReadFile(args[0]); err == nil {
			return decodeWire(string(fileContents))
		}
		return nil, errors.New("unable to decode input as base64 or hex, or read as file path")
	}

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if decoded, err := decodeWire(string(raw)); err == nil {
		return decoded, nil
	}
	return raw, nil
}

// readDocument returns the JSON document for a command: the positional
// argument when present (a literal document or a file path), otherwise
// stdin.
func readDocument(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 {
		if isJSONDocument([]byte(args[0])) {
			return []byte(args[0]), nil
		}
		fileContents, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return fileContents, nil
	}

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return raw, nil
}

func isJSONDocument(payload []byte) bool {
	trimmed := bytes.TrimSpace(payload)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// decodeTransactionAuto decodes payload as a canonical transaction,
// accepting the JSON form when the payload is a JSON document.
func decodeTransactionAuto(payload []byte) (*chain.Transaction, error) {
	if isJSONDocument(payload) {
		return chain.DecodeTransaction(chain.Textual, payload)
	}
	return chain.DecodeTransaction(chain.Binary, payload)
}

// resolvePrivateKey loads the configured private key. The key value is a
// hex string or a path to a key file, the scheme value names its
// signature scheme and defaults to ed25519.
func resolvePrivateKey(cmd *cobra.Command) (*auth.PrivateKey, error) {
	keyString, err := getConfigValue(cmd, "key", true)
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	scheme, err := resolveScheme(cmd)
	if err != nil {
		return nil, err
	}

	keyFactory, err := auth.GetPrivateKeyFactory(scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scheme: %w", err)
	}
	keyBytes, err := decodeFileOrHex(keyString)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key: %w", err)
	}
	key, err := keyFactory.LoadPrivateKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to load key: %w", err)
	}
	return key, nil
}

func resolveScheme(cmd *cobra.Command) (string, error) {
	scheme, err := getConfigValue(cmd, "scheme", false)
	if err != nil {
		return "", fmt.Errorf("failed to get scheme: %w", err)
	}
	if scheme == "" {
		scheme = auth.Ed25519Key
	}
	return scheme, nil
}
