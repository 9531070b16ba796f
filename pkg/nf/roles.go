// Package nf models the Open5GS network functions a core aggregator node
// expands into: role identities, startup dependencies, per-instance
// configuration extraction and config artifact resolution.
package nf

import "fmt"

// Role identifies one Open5GS network function.
type Role string

const (
	UPF  Role = "upf"
	AMF  Role = "amf"
	SMF  Role = "smf"
	NRF  Role = "nrf"
	SCP  Role = "scp"
	AUSF Role = "ausf"
	BSF  Role = "bsf"
	NSSF Role = "nssf"
	PCF  Role = "pcf"
	UDM  Role = "udm"
	UDR  Role = "udr"
)

// AllRoles lists every role in extraction order. The order is load-bearing:
// instance collections, fan-out link targets and summary output all follow it.
var AllRoles = []Role{UPF, AMF, SMF, NRF, SCP, AUSF, BSF, NSSF, PCF, UDM, UDR}

// IsValid reports whether r names a known network function.
func (r Role) IsValid() bool {
	for _, k := range AllRoles {
		if r == k {
			return true
		}
	}
	return false
}

// DaemonName returns the Open5GS daemon binary for the role.
func (r Role) DaemonName() string {
	return fmt.Sprintf("open5gs-%sd", r)
}

// ConfigMountPath is where the container expects its config regardless of the
// host-side artifact name. Every instance of a role mounts to the same path.
func (r Role) ConfigMountPath() string {
	return fmt.Sprintf("/opt/open5gs/etc/open5gs/%s.yaml", r)
}

// ArtifactName returns the host-side config file name for the nth instance of
// the role (1-based). The first instance gets the bare name, later ones a
// numeric suffix, so multiple instances never collide in one config dir.
func (r Role) ArtifactName(ordinal int) string {
	if ordinal <= 1 {
		return fmt.Sprintf("%s.yaml", r)
	}
	return fmt.Sprintf("%s_%d.yaml", r, ordinal)
}

// DefaultInstanceName returns the auto-assigned name for the nth instance of
// the role (1-based) when the snapshot left it unnamed.
func (r Role) DefaultInstanceName(ordinal int) string {
	return fmt.Sprintf("%s%d", r, ordinal)
}
