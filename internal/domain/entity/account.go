package entity

// ConnectionStatus is the state of the wallet session.
type ConnectionStatus string

const (
	Disconnected ConnectionStatus = "disconnected"
	Connected    ConnectionStatus = "connected"
)

// Account is the wallet account used as transfer signer.
type Account struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey,omitempty"`
	Group     int32  `json:"group"`
}
