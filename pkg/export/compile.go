package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/nf"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/spatial"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/topology"
)

// Default container images.
const (
	DefaultCoreImage  = "adaptive/open5gs:latest"
	DefaultRANImage   = "adaptive/ueransim:latest"
	ConfigDirName     = "5g-configs"
	BridgeNetworkName = "netflux5g"
)

// Options tune one compile invocation.
type Options struct {
	// Name labels the generated script header. Defaults to "topology".
	Name string
	// Policy decides how out-of-coverage mobiles associate.
	Policy spatial.Policy
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "topology"
	}
	if o.Policy == "" {
		o.Policy = spatial.NearestFallback
	}
	return o
}

// Compile transforms a topology snapshot into a resolved deployment. It is
// a pure function of its input apart from optional reads of referenced
// config files; it never writes anything.
func Compile(topo *topology.Topology, opts Options) (*Deployment, error) {
	opts = opts.withDefaults()

	if topo == nil || len(topo.Nodes) == 0 {
		return nil, ErrEmptyTopology
	}

	timer := logging.StartTimer(logging.DefaultLogger(), "compile",
		logging.Operation("compile"), logging.Count(len(topo.Nodes)))
	defer timer.End()

	b := topology.Classify(topo)

	dep := &Deployment{
		Wireless:   b.HasWireless(),
		Containers: b.HasContainers(),
	}
	dep.Summary.Nodes = len(topo.Nodes)
	dep.Summary.Links = len(topo.Links)

	var instances []nf.InstanceConfig
	var aggCfg topology.AggregatorConfig
	if agg, ok := b.Aggregator(); ok {
		var report *nf.ExtractReport
		instances, report = nf.Extract(agg)
		aggCfg = topology.AggregatorConfigFrom(agg)
		dep.Summary.SkippedItems = append(dep.Summary.SkippedItems, report.Skipped...)
		for _, role := range report.Synthesized {
			dep.Summary.Synthesized = append(dep.Summary.Synthesized, string(role))
		}
	}
	dep.Summary.Instances = len(instances)

	for _, inst := range instances {
		dep.Artifacts = append(dep.Artifacts, nf.ResolveArtifact(inst))
		dep.Instances = append(dep.Instances, nfDecl(inst, aggCfg))
	}

	cells := spatial.CollectAccessNodes(b)
	dep.Associations = spatial.Resolve(b.UEs, cells, opts.Policy)
	for _, a := range dep.Associations {
		if !a.InRange {
			dep.Summary.OutOfRange = append(dep.Summary.OutOfRange,
				fmt.Sprintf("%s -> %s (%.1fm)", a.MobileID, a.AccessNodeID, a.Distance))
		}
	}

	dep.Controller = controllerDecl(b)
	for _, g := range b.GNBs {
		dep.GNBs = append(dep.GNBs, gnbDecl(g))
	}
	dep.AccessCells = make([]APDecl, 0, len(cells))
	for _, cell := range cells {
		dep.AccessCells = append(dep.AccessCells, apDecl(cell))
		if !cell.FromGNB {
			continue
		}
		gnbVar := topology.SanitizeName(cell.SourceNodeID)
		for i := range dep.GNBs {
			if dep.GNBs[i].Var == gnbVar {
				dep.GNBs[i].Companion = &dep.AccessCells[len(dep.AccessCells)-1]
				break
			}
		}
	}
	for _, sw := range b.Switches {
		cfg := topology.SwitchConfigFrom(sw)
		dep.Switches = append(dep.Switches, SwitchDecl{
			Var:       topology.SanitizeName(sw.ID),
			DPID:      cfg.DPID,
			Protocols: cfg.Protocols,
		})
	}
	for _, h := range b.Hosts {
		dep.Hosts = append(dep.Hosts, hostDecl(h, false))
	}
	for _, s := range b.Stations {
		dep.Hosts = append(dep.Hosts, hostDecl(s, true))
	}
	for _, d := range b.DockerHosts {
		dep.DockerHosts = append(dep.DockerHosts, dockerDecl(d))
	}
	for _, u := range b.UEs {
		dep.UEs = append(dep.UEs, ueDecl(u))
	}

	rw := newRewriter(topo, b, instances, cells)
	dep.Links = rw.rewriteLinks(&dep.Summary)
	dep.Summary.EmittedLinks = len(dep.Links)

	return dep, nil
}

// Export compiles the snapshot and writes the script plus its config
// artifacts under the directory of scriptPath. The artifact directory is
// created next to the script so the emitted volume binds resolve
// relatively. Write failures are environment errors and abort the export.
func Export(topo *topology.Topology, opts Options, scriptPath string) (*Deployment, error) {
	dep, err := Compile(topo, opts)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(scriptPath)
	if len(dep.Artifacts) > 0 {
		configDir := filepath.Join(dir, ConfigDirName)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, &CompileError{Op: "create", Entity: "config dir", ID: configDir,
				Cause: fmt.Errorf("%w: %v", ErrOutputNotWritable, err)}
		}
		for _, art := range dep.Artifacts {
			p := filepath.Join(configDir, art.Name)
			if err := os.WriteFile(p, art.Content, 0644); err != nil {
				return nil, &CompileError{Op: "write", Entity: "artifact", ID: art.Name,
					Cause: fmt.Errorf("%w: %v", ErrOutputNotWritable, err)}
			}
		}
	}

	f, err := os.Create(scriptPath)
	if err != nil {
		return nil, &CompileError{Op: "create", Entity: "script", ID: scriptPath,
			Cause: fmt.Errorf("%w: %v", ErrOutputNotWritable, err)}
	}
	defer f.Close()

	if err := WriteScript(f, dep, opts.withDefaults().Name); err != nil {
		return nil, &CompileError{Op: "write", Entity: "script", ID: scriptPath, Cause: err}
	}
	if err := f.Close(); err != nil {
		return nil, &CompileError{Op: "close", Entity: "script", ID: scriptPath,
			Cause: fmt.Errorf("%w: %v", ErrOutputNotWritable, err)}
	}

	logging.Info("export complete",
		logging.Path(scriptPath),
		logging.Int("emitted_links", dep.Summary.EmittedLinks),
		logging.Int("instances", dep.Summary.Instances))
	return dep, nil
}

func controllerDecl(b *topology.Buckets) *ControllerDecl {
	decl := &ControllerDecl{Var: "c0", IP: "127.0.0.1", Port: 6633}
	if len(b.Controllers) > 0 {
		c := b.Controllers[0]
		cfg := topology.ControllerConfigFrom(c)
		decl.Var = topology.SanitizeName(c.ID)
		decl.IP = cfg.IPAddress
		decl.Port = cfg.Port
	}
	return decl
}

func apDecl(cell spatial.AccessNode) APDecl {
	return APDecl{
		Var:       cell.ID,
		SSID:      cell.SSID,
		Channel:   cell.Channel,
		Mode:      cell.Mode,
		X:         cell.Pos.X,
		Y:         cell.Pos.Y,
		Range:     cell.CoverageRange,
		TxPower:   cellTxPower(cell),
		Protocols: "OpenFlow13",
		FromGNB:   cell.FromGNB,
	}
}

func cellTxPower(cell spatial.AccessNode) float64 {
	if cell.FromGNB {
		return 24
	}
	return 20
}

func hostDecl(n *topology.Node, wireless bool) HostDecl {
	cfg := topology.HostConfigFrom(n)
	return HostDecl{
		Var:      topology.SanitizeName(n.ID),
		IP:       cfg.IPAddress,
		MAC:      cfg.MACAddress,
		CPU:      cfg.CPU,
		Memory:   cfg.Memory,
		Wireless: wireless,
		X:        n.X,
		Y:        n.Y,
	}
}

func dockerDecl(n *topology.Node) DockerDecl {
	cfg := topology.DockerHostConfigFrom(n)
	image := cfg.Image
	if image == "" {
		image = "ubuntu:latest"
	}
	return DockerDecl{
		Var:     topology.SanitizeName(n.ID),
		Image:   image,
		IP:      cfg.IPAddress,
		MAC:     cfg.MACAddress,
		Ports:   cfg.PortForward,
		Volumes: cfg.Volumes,
		CPU:     cfg.CPU,
		Memory:  cfg.Memory,
	}
}

func nfDecl(inst nf.InstanceConfig, aggCfg topology.AggregatorConfig) NFDecl {
	image := inst.Image
	if image == "" {
		image = aggCfg.DockerImage
	}
	if image == "" {
		image = DefaultCoreImage
	}
	dbURI := aggCfg.DatabaseURI
	if dbURI == "" {
		dbURI = "mongodb://mongo/open5gs"
	}
	env := []EnvVar{
		{"DB_URI", dbURI},
		{"COMPONENT_NAME", inst.Name},
	}
	env = append(env, ovsEnv(aggCfg.OVS)...)
	return NFDecl{
		Var:          topology.SanitizeName(inst.Name),
		Role:         inst.Role,
		Name:         inst.Name,
		Image:        image,
		ArtifactName: inst.ArtifactName,
		Env:          env,
	}
}

func gnbDecl(n *topology.Node) GNBDecl {
	cfg := topology.GNBConfigFrom(n)
	env := []EnvVar{
		{"AMF_HOSTNAME", cfg.AMFHostname},
	}
	if cfg.AMFIP != "" {
		// Explicit IP wins over hostname resolution inside the container.
		env = append(env, EnvVar{"AMF_IP", cfg.AMFIP})
	}
	env = append(env,
		EnvVar{"GNB_HOSTNAME", cfg.Hostname},
		EnvVar{"MCC", cfg.MCC},
		EnvVar{"MNC", cfg.MNC},
		EnvVar{"SST", cfg.SST},
		EnvVar{"SD", cfg.SD},
		EnvVar{"TAC", cfg.TAC},
		EnvVar{"N2_IFACE", cfg.N2Iface},
		EnvVar{"N3_IFACE", cfg.N3Iface},
		EnvVar{"RADIO_IFACE", cfg.RadioIface},
	)
	if cfg.AP.Enabled {
		env = append(env,
			EnvVar{"AP_ENABLED", "true"},
			EnvVar{"AP_SSID", cfg.AP.SSID},
			EnvVar{"AP_CHANNEL", cfg.AP.Channel},
			EnvVar{"AP_MODE", cfg.AP.Mode},
		)
	}
	env = append(env, ovsEnv(cfg.OVS)...)
	rng := cfg.Range
	if rng == 0 {
		rng = spatial.DefaultGNBRange
	}
	return GNBDecl{
		Var:     topology.SanitizeName(n.ID),
		Image:   DefaultRANImage,
		X:       n.X,
		Y:       n.Y,
		Range:   rng,
		TxPower: cfg.TxPower,
		Env:     env,
	}
}

func ueDecl(n *topology.Node) UEDecl {
	cfg := topology.UEConfigFrom(n)
	env := []EnvVar{
		{"GNB_HOSTNAME", cfg.GNBHostname},
	}
	if cfg.GNBIP != "" {
		env = append(env, EnvVar{"GNB_IP", cfg.GNBIP})
	}
	env = append(env,
		EnvVar{"APN", cfg.APN},
		EnvVar{"MCC", cfg.MCC},
		EnvVar{"MNC", cfg.MNC},
		EnvVar{"SST", cfg.SST},
		EnvVar{"SD", cfg.SD},
		EnvVar{"TAC", cfg.TAC},
		EnvVar{"KEY", cfg.Key},
		EnvVar{"OP_TYPE", cfg.OPType},
		EnvVar{"OP", cfg.OP},
		EnvVar{"IMEI", cfg.IMEI},
		EnvVar{"IMEISV", cfg.IMEISV},
		EnvVar{"TUNNEL_IFACE", cfg.TunnelIface},
		EnvVar{"SESSION_TYPE", cfg.SessionType},
		EnvVar{"PDU_SESSIONS", fmt.Sprintf("%d", cfg.PDUSessions)},
	)
	if cfg.MSISDN != "" {
		env = append(env, EnvVar{"MSISDN", cfg.MSISDN})
	}
	return UEDecl{
		Var:     topology.SanitizeName(n.ID),
		Image:   DefaultRANImage,
		APN:     cfg.APN,
		X:       n.X,
		Y:       n.Y,
		Range:   cfg.Range,
		TxPower: cfg.TxPower,
		Env:     env,
	}
}

func ovsEnv(cfg topology.OVSConfig) []EnvVar {
	if !cfg.Enabled {
		return nil
	}
	// Fixed key order keeps emission deterministic.
	m := cfg.Env()
	keys := []string{
		"OVS_ENABLED", "OVS_CONTROLLER", "OVS_BRIDGE_NAME", "OVS_FAIL_MODE",
		"OPENFLOW_PROTOCOLS", "OVS_DATAPATH", "CONTROLLER_PORT",
		"BRIDGE_PRIORITY", "STP_ENABLED",
	}
	var out []EnvVar
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out = append(out, EnvVar{k, v})
		}
	}
	return out
}
