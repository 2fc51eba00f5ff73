// Copyright (C) 2024-2025 solkit contributors
// This file is part of solkit
//
// solkit is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// solkit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with solkit.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/solkit/solkit/keystore"
)

var listKeystore string

func init() {
	listCmd.Flags().StringVar(&listKeystore, "keystore", "", "Keystore database to list")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the addresses stored in a keystore",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if listKeystore == "" {
			reportErrorf(errorNoKeystore)
		}
		store, err := keystore.Open(listKeystore)
		if err != nil {
			reportErrorf(errorOpenKeystore, listKeystore, err)
		}
		defer store.Close()

		entries, err := store.List(context.Background())
		if err != nil {
			reportErrorf(errorListKeystore, err)
		}
		if len(entries) == 0 {
			reportInfof(infoKeystoreEmpty, listKeystore)
			return
		}
		for _, e := range entries {
			reportInfof(infoKeystoreEntry, color.CyanString(e.Address), e.Source, e.Created().Format("2006-01-02 15:04:05"))
		}
	},
}
