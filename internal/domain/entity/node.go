package entity

// TxStatusType is the discriminator of the node's /transactions/status reply.
type TxStatusType string

const (
	TxStatusTypeConfirmed  TxStatusType = "Confirmed"
	TxStatusTypeMemPooled  TxStatusType = "MemPooled"
	TxStatusTypeTxNotFound TxStatusType = "TxNotFound"
)

// TxStatusResult is the decoded /transactions/status reply.
type TxStatusResult struct {
	Type                   TxStatusType `json:"type"`
	BlockHash              string       `json:"blockHash,omitempty"`
	TxIndex                int          `json:"txIndex,omitempty"`
	ChainConfirmations     int          `json:"chainConfirmations,omitempty"`
	FromGroupConfirmations int          `json:"fromGroupConfirmations,omitempty"`
	ToGroupConfirmations   int          `json:"toGroupConfirmations,omitempty"`
}

// BlockInfo is the subset of a block entry the dashboard keeps.
type BlockInfo struct {
	Hash      string `json:"hash"`
	Timestamp int64  `json:"timestamp"`
	ChainFrom int32  `json:"chainFrom"`
	ChainTo   int32  `json:"chainTo"`
	Height    int32  `json:"height"`
}

// Val is a typed value as the node encodes contract fields and event fields.
type Val struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// AssetState is the asset output held by a contract.
type AssetState struct {
	AttoAlphAmount string        `json:"attoAlphAmount"`
	Tokens         []TokenAmount `json:"tokens,omitempty"`
}

// ContractState mirrors /contracts/{address}/state.
type ContractState struct {
	Address          string     `json:"address"`
	Bytecode         string     `json:"bytecode"`
	CodeHash         string     `json:"codeHash"`
	InitialStateHash string     `json:"initialStateHash,omitempty"`
	ImmFields        []Val      `json:"immFields"`
	MutFields        []Val      `json:"mutFields"`
	Asset            AssetState `json:"asset"`
}

// ContractEvent is a single event emitted by a contract. TxID is set for lookups by
// block hash, BlockHash for lookups by transaction id.
type ContractEvent struct {
	TxID            string `json:"txId,omitempty"`
	BlockHash       string `json:"blockHash,omitempty"`
	ContractAddress string `json:"contractAddress"`
	EventIndex      int    `json:"eventIndex"`
	Fields          []Val  `json:"fields"`
}

// ContractEvents wraps the events list returned by the /events endpoints.
type ContractEvents struct {
	Events []ContractEvent `json:"events"`
}
