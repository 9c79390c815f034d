package protocol

//input structs coming in from the client.

type Join struct {
	Name string `json:"name,omitempty"`
	Room string `json:"room,omitempty"` // defaults to "default"
}

type Spectate struct {
	Room string `json:"room,omitempty"`
}

// Input is the pointer target in world coordinates.
type Input struct {
	TargetX float64 `json:"targetX"`
	TargetY float64 `json:"targetY"`
}

type Action struct {
	Type string `json:"type"` // "split" | "eject"
}

type Chat struct {
	Message string `json:"message"`
}
