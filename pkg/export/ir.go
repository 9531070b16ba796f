package export

import (
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/nf"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/spatial"
)

// Deployment is the compiler's intermediate representation: everything the
// emitter needs, fully resolved and ordered. Built once per compile and
// never mutated afterward, so emission is a pure serialization step.
type Deployment struct {
	Wireless   bool // needs wireless emulation primitives
	Containers bool // needs container emulation primitives

	Controller  *ControllerDecl
	AccessCells []APDecl
	Switches    []SwitchDecl
	Hosts       []HostDecl
	DockerHosts []DockerDecl
	Instances   []NFDecl
	GNBs        []GNBDecl
	UEs         []UEDecl

	Links        []LinkDecl
	Associations []spatial.Association

	// Artifacts are the per-instance config documents, written next to the
	// script under the config directory.
	Artifacts []nf.Artifact

	Summary Summary
}

// ControllerDecl declares the single SDN controller.
type ControllerDecl struct {
	Var  string
	IP   string
	Port int
}

// APDecl declares one access point, declared or synthesized from a gNB.
type APDecl struct {
	Var       string
	SSID      string
	Channel   string
	Mode      string
	X, Y      float64
	Range     float64
	TxPower   float64
	Protocols string
	FromGNB   bool
}

type SwitchDecl struct {
	Var       string
	DPID      string
	Protocols string
}

// HostDecl declares a plain host or, when Wireless is set, a station.
type HostDecl struct {
	Var      string
	IP       string
	MAC      string
	CPU      float64
	Memory   int
	Wireless bool
	X, Y     float64
}

type DockerDecl struct {
	Var     string
	Image   string
	IP      string
	MAC     string
	Ports   string
	Volumes string
	CPU     float64
	Memory  int
}

// NFDecl declares one core network-function container.
type NFDecl struct {
	Var          string
	Role         nf.Role
	Name         string
	Image        string
	ArtifactName string
	Env          []EnvVar
}

type GNBDecl struct {
	Var     string
	Image   string
	X, Y    float64
	Range   float64
	TxPower float64
	Env     []EnvVar
	// Companion points at the access cell synthesized for this gNB, nil
	// when the AP capability is disabled.
	Companion *APDecl
}

type UEDecl struct {
	Var     string
	Image   string
	APN     string
	X, Y    float64
	Range   float64
	TxPower float64
	Env     []EnvVar
}

// EnvVar keeps environment ordered; maps would make emission
// iteration-order dependent and break idempotence.
type EnvVar struct {
	Key   string
	Value string
}

// LinkDecl is one post-rewrite link between emitted entity variables.
type LinkDecl struct {
	Left      string
	Right     string
	Bandwidth float64
	Delay     string
	Loss      float64
}

// Summary reports what the compile skipped, defaulted or synthesized.
// Callers always receive it alongside the artifact.
type Summary struct {
	Nodes        int      `json:"nodes"`
	Links        int      `json:"links"`
	EmittedLinks int      `json:"emitted_links"`
	Instances    int      `json:"instances"`
	DroppedLinks []string `json:"dropped_links,omitempty"`
	SkippedItems []string `json:"skipped_items,omitempty"`
	Synthesized  []string `json:"synthesized,omitempty"`
	OutOfRange   []string `json:"out_of_range,omitempty"`
}
