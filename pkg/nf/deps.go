package nf

// StartupOrder lists the roles in the order their containers must be
// started: registry and routing functions first, session and user-plane
// functions last. Instances of the same role start in extraction order.
var StartupOrder = []Role{NRF, SCP, AUSF, UDM, UDR, PCF, BSF, NSSF, SMF, AMF, UPF}

// dependencies maps each role to the functions that must be reachable
// before it comes up. NRF bootstraps the control plane and needs nothing.
var dependencies = map[Role][]Role{
	NRF:  nil,
	SCP:  {NRF},
	AUSF: {SCP},
	UDM:  {SCP},
	UDR:  {SCP},
	PCF:  {SCP},
	BSF:  {SCP},
	NSSF: {NRF, SCP},
	SMF:  {SCP},
	AMF:  {SCP},
	UPF:  {SCP},
}

// DependsOn returns the roles that must be running before r starts.
func (r Role) DependsOn() []Role {
	return dependencies[r]
}

// Settle delays in seconds between startup tiers. The emitted script sleeps
// after each tier so daemons finish registering before dependents connect.
const (
	CoreSettleSeconds = 10
	GNBSettleSeconds  = 15
	UESettleSeconds   = 20
)

// APNSubnets maps the access point names the editor offers to the UE-side
// data network subnets routed through the tunnel interface after attach.
var APNSubnets = map[string]string{
	"internet":  "10.100.0.0/16",
	"internet2": "10.200.0.0/16",
	"web1":      "10.51.0.0/16",
	"web2":      "10.52.0.0/16",
}
