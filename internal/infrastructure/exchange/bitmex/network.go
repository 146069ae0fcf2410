package bitmex

// Network selects between the production and test environments.
type Network int

const (
	Mainnet Network = iota
	Testnet
)

const realtimePath = "/realtime"

func (n Network) Host() string {
	switch n {
	case Testnet:
		return "ws.testnet.bitmex.com"
	default:
		return "ws.bitmex.com"
	}
}

// URL returns the realtime endpoint for this network.
func (n Network) URL() string {
	return "wss://" + n.Host() + realtimePath
}

func (n Network) String() string {
	if n == Testnet {
		return "testnet"
	}
	return "mainnet"
}
