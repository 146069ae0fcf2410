package bitmex

import "encoding/json"

// command is a tagged wire command. The args shape differs per op:
// subscribe carries a topic array, authKeyExpires a positional 3-tuple.
type command struct {
	Op   string      `json:"op"`
	Args interface{} `json:"args"`
}

func subscribeCommand(topics []string) command {
	return command{Op: "subscribe", Args: topics}
}

func authenticateCommand(sig Signature) command {
	return command{Op: "authKeyExpires", Args: sig}
}

func (c command) encode() ([]byte, error) {
	return json.Marshal(c)
}
