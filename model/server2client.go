package model

// ClientMessage asks the server to solve one grid. Agents of 0 accepts any
// number of starts.
type ClientMessage struct {
	Grid   string `json:"grid"`
	Agents int    `json:"agents,omitempty"`
	Brute  bool   `json:"brute,omitempty"`
}

type ServerMessage struct {
	Setup     []Setup    `json:"setup,omitempty"`
	Solutions []Solution `json:"solutions,omitempty"`
	Errors    []string   `json:"errors,omitempty"`
}

type Setup struct {
	Session string `json:"session"`
	Version string `json:"version"`
}

type Pickup struct {
	Agent    int    `json:"agent"`
	Key      string `json:"key"`
	Distance int    `json:"distance"`
}

type Solution struct {
	Digest   string   `json:"digest"`
	Agents   int      `json:"agents"`
	Found    bool     `json:"found"`
	Distance int      `json:"distance"`
	Expanded int      `json:"expanded"`
	Cached   bool     `json:"cached,omitempty"`
	Steps    []Pickup `json:"steps,omitempty"`
}
