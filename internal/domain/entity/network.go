package entity

// NetworkDefinition holds the configuration for a specific Alephium network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	NetworkID    int32  `json:"networkId" yaml:"networkId"`
	Name         string `json:"name" yaml:"name"`
	Identifier   string `json:"identifier" yaml:"identifier"` // mainnet, testnet, devnet
	NativeSymbol string `json:"nativeSymbol" yaml:"nativeSymbol"`
	Decimals     int32  `json:"decimals" yaml:"decimals"`
	NodeURL      string `json:"nodeUrl" yaml:"nodeUrl"`
	ExplorerURL  string `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
}

// NodeInfo mirrors /infos/node.
type NodeInfo struct {
	BuildInfo struct {
		ReleaseVersion string `json:"releaseVersion"`
		Commit         string `json:"commit"`
	} `json:"buildInfo"`
	Upnp            bool `json:"upnp"`
	ExternalAddress *struct {
		Addr string `json:"addr"`
		Port int    `json:"port"`
	} `json:"externalAddress,omitempty"`
}

// NodeVersion mirrors /infos/version.
type NodeVersion struct {
	Version string `json:"version"`
}

// ChainParams mirrors /infos/chain-params.
type ChainParams struct {
	NetworkID             int32 `json:"networkId"`
	NumZerosAtLeastInHash int32 `json:"numZerosAtLeastInHash"`
	GroupNumPerBroker     int32 `json:"groupNumPerBroker"`
	Groups                int32 `json:"groups"`
}

// PeerAddress is one member of a clique.
type PeerAddress struct {
	Address      string `json:"address"`
	RestPort     int    `json:"restPort"`
	WsPort       int    `json:"wsPort"`
	MinerAPIPort int    `json:"minerApiPort"`
}

// SelfClique mirrors /infos/self-clique.
type SelfClique struct {
	CliqueID  string        `json:"cliqueId"`
	Nodes     []PeerAddress `json:"nodes"`
	SelfReady bool          `json:"selfReady"`
	Synced    bool          `json:"synced"`
}

// NetworkInfo aggregates everything shown on the network page.
type NetworkInfo struct {
	Network     NetworkDefinition `json:"network"`
	Node        NodeInfo          `json:"nodeInfo"`
	Version     NodeVersion       `json:"version"`
	ChainParams ChainParams       `json:"chainParams"`
	SelfClique  SelfClique        `json:"selfClique"`
	Difficulty  string            `json:"currentDifficulty"`
	Hashrate    string            `json:"currentHashrate"`
}
