package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Print information about the configured node and network",
	RunE:  runNetwork,
}

func runNetwork(cmd *cobra.Command, _ []string) error {
	a, err := newApp(globalFlags.ConfigPath, true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(a.cfg.Network.RequestTimeoutMillis)*time.Millisecond)
	defer cancel()

	spinner, _ := pterm.DefaultSpinner.Start("Querying " + a.networks.Active().NodeURL)
	info, err := a.networkInfo.Fetch(ctx)
	if err != nil {
		spinner.Fail("Node query failed")
		return err
	}
	spinner.Success("Node reachable")

	peers := make([]string, 0, len(info.SelfClique.Nodes))
	for _, p := range info.SelfClique.Nodes {
		peers = append(peers, fmt.Sprintf("%s:%d", p.Address, p.RestPort))
	}

	pterm.DefaultSection.Println(info.Network.Name)
	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Field", "Value"},
		{"Network id", fmt.Sprintf("%d", info.ChainParams.NetworkID)},
		{"Node", info.Network.NodeURL},
		{"Explorer", info.Network.ExplorerURL},
		{"Version", info.Version.Version},
		{"Release", info.Node.BuildInfo.ReleaseVersion + " (" + info.Node.BuildInfo.Commit + ")"},
		{"Groups", fmt.Sprintf("%d", info.ChainParams.Groups)},
		{"Clique", info.SelfClique.CliqueID},
		{"Peers", strings.Join(peers, ", ")},
		{"Synced", fmt.Sprintf("%t", info.SelfClique.Synced)},
		{"Difficulty", info.Difficulty},
		{"Hashrate", info.Hashrate},
	}).Render()
}
