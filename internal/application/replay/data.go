package replay

// Op names an engine call
type Op string

const (
	OpLoad   Op = "load"
	OpUnload Op = "unload"
	OpActive Op = "active"
)

// Call records one engine call issued during a transition
type Call struct {
	Seq   int    `json:"seq"`           // Call number
	Op    Op     `json:"op"`            // Engine operation
	Scene string `json:"scene"`         // Scene name
	Err   string `json:"err,omitempty"` // Error returned by the engine
}

// Journal contains every engine call of a session
type Journal struct {
	Version   string `json:"version"`
	StartTime string `json:"startTime"`
	Calls     []Call `json:"calls"`
}
