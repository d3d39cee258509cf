package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"defi_copilot/internal/app/container"
	"defi_copilot/internal/app/port"
	"defi_copilot/internal/app/provider"
	"defi_copilot/internal/infrastructure/configloader"
	"defi_copilot/internal/pkg/logger"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errSomeFailed = errors.New("one or more vaults returned an error")

func runCheck(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	vaults, _ := cmd.Flags().GetStringSlice("vault")
	vaultsFile, _ := cmd.Flags().GetString("vaults-file")
	llm, _ := cmd.Flags().GetBool("llm")

	cfg, err := configloader.Load(cfgFile)
	if err != nil {
		return err
	}
	zapLogger, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()
	logger.BridgeLibraries(zapLogger)

	list, err := provider.NewVaultProvider(vaults, vaultsFile, zapLogger).GetVaults()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("no vault given: use --vault or --vaults-file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := container.New(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer core.Close(context.Background())

	return printPortfolios(ctx, cmd.OutOrStdout(), core.Portfolio, list, llm, zapLogger)
}

// printPortfolios writes one indented JSON document per vault and fails if any carried an error.
func printPortfolios(ctx context.Context, w io.Writer, svc port.PortfolioService, vaults []string, llm bool, log *zap.Logger) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	failed := 0
	for _, vault := range vaults {
		var (
			doc    any
			errMsg string
		)
		if llm {
			view := svc.GetPortfolioForLLM(ctx, vault)
			doc, errMsg = view, view.Error
		} else {
			summary := svc.GetPortfolioSummary(ctx, vault)
			doc, errMsg = summary, summary.Error
		}
		if errMsg != "" {
			failed++
			log.Warn("Vault check failed", zap.String("vault", vault), zap.String("error", errMsg))
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w (%d of %d)", errSomeFailed, failed, len(vaults))
	}
	return nil
}
