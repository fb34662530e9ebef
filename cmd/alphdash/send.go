package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"alph_dashboard/internal/domain/entity"
	networkdefinition "alph_dashboard/internal/infrastructure/network/definition"
	"alph_dashboard/internal/pkg/utils"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const sendRefreshInterval = 250 * time.Millisecond

type sendFlags struct {
	To     string
	Amount string
}

var sendOpts sendFlags

var sendCmd = &cobra.Command{
	Use:     "send",
	Short:   "Send ALPH from the configured node wallet and wait for confirmation",
	Example: `  alphdash send --to 1DrDyTr9RpRsQnDnXo2YRiPzPW4ooHX5LLoqXrqfMrpQH --amount 1.5`,
	RunE:    runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendOpts.To, "to", "", "recipient address")
	sendCmd.Flags().StringVar(&sendOpts.Amount, "amount", "", "amount of ALPH, e.g. 1.5")
	_ = sendCmd.MarkFlagRequired("to")
	_ = sendCmd.MarkFlagRequired("amount")
}

func runSend(cmd *cobra.Command, _ []string) error {
	a, err := newApp(globalFlags.ConfigPath, true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	unsubscribe, err := a.hub.Subscribe(printNotification)
	if err != nil {
		return err
	}
	defer unsubscribe()

	connectCtx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.Network.RequestTimeoutMillis)*time.Millisecond)
	err = a.wallet.Connect(connectCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to connect wallet %q: %w", a.cfg.Wallet.Name, err)
	}

	account := a.wallet.ActiveAccount()
	pterm.DefaultBox.WithTitle("Transfer").WithTitleTopCenter().Println(
		fmt.Sprintf("From:    %s\nTo:      %s\nAmount:  %s ALPH\nNetwork: %s",
			account.Address, sendOpts.To, sendOpts.Amount, a.networks.Active().Name))

	record, err := a.transfers.SubmitTransfer(ctx, entity.TransferRequest{
		RecipientAddress: sendOpts.To,
		Amount:           sendOpts.Amount,
	})
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Waiting for %s to be confirmed", utils.ShortenID(record.TxID)))
	record, err = waitTerminal(ctx, a.transfers.Current)
	if err != nil {
		spinner.Warning("Stopped waiting, the transaction is still pending")
		renderRecord(record, a.networks.Active())
		return err
	}

	if record.Status == entity.TxStatusConfirmed {
		spinner.Success("Transaction confirmed")
	} else {
		spinner.Fail("Transaction failed: " + record.FailureReason)
	}
	renderRecord(record, a.networks.Active())
	if record.Status == entity.TxStatusFailed {
		return errors.New(record.FailureReason)
	}
	return nil
}

// waitTerminal polls current until the tracked record is terminal or ctx is done.
func waitTerminal(ctx context.Context, current func() (entity.TransactionRecord, bool)) (entity.TransactionRecord, error) {
	ticker := time.NewTicker(sendRefreshInterval)
	defer ticker.Stop()
	for {
		record, ok := current()
		if ok && record.Status.IsTerminal() {
			return record, nil
		}
		select {
		case <-ctx.Done():
			return record, ctx.Err()
		case <-ticker.C:
		}
	}
}

func printNotification(n entity.Notification) {
	text := n.Title
	if n.Description != "" {
		text += ": " + n.Description
	}
	switch n.Severity {
	case entity.SeveritySuccess:
		pterm.Success.Println(text)
	case entity.SeverityError:
		pterm.Error.Println(text)
	default:
		pterm.Info.Println(text)
	}
}

func renderRecord(r entity.TransactionRecord, network entity.NetworkDefinition) {
	amount, _ := utils.FormatBigInt(r.Amount, utils.AlphDecimals)
	data := pterm.TableData{
		{"Field", "Value"},
		{"Transaction", r.TxID},
		{"Status", string(r.Status)},
		{"Recipient", r.Recipient},
		{"Amount", amount + " " + network.NativeSymbol},
		{"Groups", fmt.Sprintf("%d -> %d", r.FromGroup, r.ToGroup)},
		{"Poll attempts", fmt.Sprintf("%d", r.PollAttempts)},
	}
	if r.BlockHash != nil {
		data = append(data, []string{"Block", *r.BlockHash})
	}
	if r.Height != nil && r.ChainFrom != nil && r.ChainTo != nil {
		data = append(data, []string{"Chain / height", fmt.Sprintf("%d -> %d @ %d", *r.ChainFrom, *r.ChainTo, *r.Height)})
	}
	if r.Timestamp != nil {
		data = append(data, []string{"Block time", time.UnixMilli(*r.Timestamp).UTC().Format(time.RFC3339)})
	}
	if r.FailureReason != "" {
		data = append(data, []string{"Failure", r.FailureReason})
	}
	if link := networkdefinition.ExplorerTxURL(network, r.TxID); link != "" {
		data = append(data, []string{"Explorer", link})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
