package networkdefinition

import (
	"fmt"
	"strings"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/infrastructure/configloader"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger         port.Logger
	allNetworkDefs map[string]entity.NetworkDefinition
	active         entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Mainnet = entity.NetworkDefinition{
		NetworkID:    0,
		Name:         "Alephium Mainnet",
		Identifier:   "mainnet",
		NativeSymbol: "ALPH",
		Decimals:     18,
		NodeURL:      "https://node.mainnet.alephium.org",
		ExplorerURL:  "https://explorer.alephium.org",
	}
	Testnet = entity.NetworkDefinition{
		NetworkID:    1,
		Name:         "Alephium Testnet",
		Identifier:   "testnet",
		NativeSymbol: "ALPH",
		Decimals:     18,
		NodeURL:      "https://node.testnet.alephium.org",
		ExplorerURL:  "https://testnet.alephium.org",
	}
	Devnet = entity.NetworkDefinition{
		NetworkID:    4,
		Name:         "Alephium Devnet",
		Identifier:   "devnet",
		NativeSymbol: "ALPH",
		Decimals:     18,
		NodeURL:      "http://127.0.0.1:22973",
		ExplorerURL:  "http://localhost:23000",
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.NetworkDefinition{
	Mainnet.Identifier: Mainnet,
	Testnet.Identifier: Testnet,
	Devnet.Identifier:  Devnet,
}

// NewNetworkDefinitionProvider selects the configured network and applies the node and
// explorer URL overrides from cfg.
func NewNetworkDefinitionProvider(log port.Logger, cfg configloader.NetworkConfig) (*NetworkDefinitionProvider, error) {
	def, ok := allKnownDefinitions[strings.ToLower(cfg.Identifier)]
	if !ok {
		return nil, fmt.Errorf("unknown network %q (known: mainnet, testnet, devnet)", cfg.Identifier)
	}

	if cfg.NodeURL != "" {
		def.NodeURL = cfg.NodeURL
	}
	if cfg.ExplorerURL != "" {
		def.ExplorerURL = cfg.ExplorerURL
	}
	def.NodeURL = strings.TrimRight(def.NodeURL, "/")
	def.ExplorerURL = strings.TrimRight(def.ExplorerURL, "/")

	all := make(map[string]entity.NetworkDefinition, len(allKnownDefinitions))
	for k, v := range allKnownDefinitions {
		all[k] = v
	}
	all[def.Identifier] = def

	log.Info(fmt.Sprintf("NetworkDefinitionProvider initialized. Active network: %s", def.Name),
		"node", def.NodeURL, "explorer", def.ExplorerURL)

	return &NetworkDefinitionProvider{
		logger:         log,
		allNetworkDefs: all,
		active:         def,
	}, nil
}

// Active returns the network the dashboard is connected to.
func (p *NetworkDefinitionProvider) Active() entity.NetworkDefinition {
	return p.active
}

// GetAllNetworkDefinitions returns every known network, the active one carrying its overrides.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.allNetworkDefs))
	for _, id := range []string{Mainnet.Identifier, Testnet.Identifier, Devnet.Identifier} {
		defs = append(defs, p.allNetworkDefs[id])
	}
	return defs
}

// GetNetworkDefinitionByName returns a specific network definition by its identifier or display name.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(nameOrIdentifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	if def, ok := p.allNetworkDefs[strings.ToLower(nameOrIdentifier)]; ok {
		return def, true
	}
	for _, def := range p.allNetworkDefs {
		if strings.EqualFold(def.Name, nameOrIdentifier) {
			return def, true
		}
	}
	p.logger.Warn(fmt.Sprintf("Network '%s' not found in known definitions.", nameOrIdentifier))
	return entity.NetworkDefinition{}, false
}

// ExplorerTxURL builds the explorer link for txID on the active network.
func (p *NetworkDefinitionProvider) ExplorerTxURL(txID string) string {
	return ExplorerTxURL(p.active, txID)
}

// ExplorerTxURL builds the explorer link for txID on def.
func ExplorerTxURL(def entity.NetworkDefinition, txID string) string {
	if def.ExplorerURL == "" || txID == "" {
		return ""
	}
	return def.ExplorerURL + "/transactions/" + txID
}
