// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vibelab/vibebatch/cmd/vibebatch/app"
	"github.com/vibelab/vibebatch/pkg/metadata"
	"github.com/vibelab/vibebatch/pkg/source"
	"github.com/vibelab/vibebatch/pkg/source/local"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := app.NewVibebatchCommand(
		map[string]source.SourceFromConfigFunc{
			local.SourceID: local.FromGenericConfig,
		},
		[]metadata.MetadataFunc{local.Metadata},
	)

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}
