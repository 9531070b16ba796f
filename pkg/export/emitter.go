package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/nf"
)

// scriptWriter wraps a buffered writer and remembers the first error, so
// emission code stays free of per-line error checks.
type scriptWriter struct {
	w   *bufio.Writer
	err error
}

func (s *scriptWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *scriptWriter) line(text string) {
	s.printf("%s\n", text)
}

// WriteScript serializes the deployment into an executable emulation
// script. Output depends only on the deployment, never on map iteration or
// wall clock, so identical inputs produce byte-identical scripts.
func WriteScript(w io.Writer, dep *Deployment, name string) error {
	s := &scriptWriter{w: bufio.NewWriter(w)}

	writeHeader(s, dep, name)
	writeImports(s, dep)
	writeUtilities(s, dep)
	writeTopologyFunc(s, dep)
	writeMain(s)

	if s.err != nil {
		return s.err
	}
	return s.w.Flush()
}

func writeHeader(s *scriptWriter, dep *Deployment, name string) {
	s.line("#!/usr/bin/env python")
	s.line("")
	s.line(`"""`)
	s.printf("NetFlux5G - %s\n", name)
	s.printf("Docker Network: %s\n", BridgeNetworkName)
	s.line("")
	s.line("This script creates a network emulation topology from a declarative")
	s.line("snapshot. Core component configs live in ./5g-configs/ next to this")
	s.line("script; first instance of a role is {role}.yaml, later instances are")
	s.line("{role}_{n}.yaml, and every instance mounts its file to")
	s.line("/opt/open5gs/etc/open5gs/{role}.yaml inside the container.")
	s.line(`"""`)
	s.line("")
}

func writeImports(s *scriptWriter, dep *Deployment) {
	s.line("import sys")
	s.line("import os")
	s.line("from mininet.net import Mininet")
	s.line("from mininet.link import TCLink, Link, Intf")
	s.line("from mininet.node import RemoteController, OVSKernelSwitch, Host, Node")
	s.line("from mininet.log import setLogLevel, info")
	if dep.Wireless {
		s.line("from mn_wifi.node import Station, OVSKernelAP")
		s.line("from mn_wifi.link import wmediumd, Intf")
		s.line("from mn_wifi.wmediumdConnector import interference")
	}
	if dep.Containers {
		s.line("from containernet.net import Containernet")
		s.line("from containernet.cli import CLI")
		s.line("from containernet.node import DockerSta")
		s.line("from containernet.term import makeTerm as makeTerm2")
	} else {
		s.line("from mininet.cli import CLI")
	}
	s.line("from subprocess import call")
	s.line("")
	s.line("")
}

func writeUtilities(s *scriptWriter, dep *Deployment) {
	if len(dep.Artifacts) > 0 {
		s.line("def check_5g_configs():")
		s.line(`    """Warn when expected core config files are missing."""`)
		s.line("    script_dir = os.path.dirname(os.path.abspath(__file__))")
		s.printf("    configs_dir = os.path.join(script_dir, %q)\n", ConfigDirName)
		s.line("    if not os.path.exists(configs_dir):")
		s.line(`        print("WARNING: 5g-configs directory not found!")`)
		s.line("        return False")
		s.line("    import glob")
		s.line(`    configs = glob.glob(os.path.join(configs_dir, "*.yaml"))`)
		s.line("    if not configs:")
		s.line(`        print("WARNING: no configuration files in 5g-configs!")`)
		s.line("        return False")
		s.line(`    print(f"Found {len(configs)} core configuration files")`)
		s.line("    return True")
		s.line("")
	}

	if dep.Containers {
		s.line("def create_docker_network_if_needed():")
		s.line(`    """Create the shared bridge network when it does not exist yet."""`)
		s.line("    import subprocess")
		s.printf("    network_name = %q\n", BridgeNetworkName)
		s.line("    try:")
		s.line("        result = subprocess.run(")
		s.line(`            ["docker", "network", "ls", "--filter", f"name={network_name}", "--format", "{{.Name}}"],`)
		s.line("            capture_output=True, text=True, timeout=10)")
		s.line(`        if result.returncode == 0 and network_name in result.stdout.strip().split("\n"):`)
		s.line("            return True")
		s.line("        result = subprocess.run(")
		s.line(`            ["docker", "network", "create", "--driver", "bridge", "--attachable", network_name],`)
		s.line("            capture_output=True, text=True, timeout=30)")
		s.line("        return result.returncode == 0")
		s.line("    except Exception as e:")
		s.line(`        print(f"Error preparing Docker network: {e}")`)
		s.line("        return False")
		s.line("")
	}

	s.line("def update_hosts(net):")
	s.line(`    """Propagate every node's name and IP into each node's /etc/hosts."""`)
	s.line(`    all_nodes = []`)
	s.line(`    for node in set(list(net.values()) + net.hosts + getattr(net, "stations", [])):`)
	s.line(`        if hasattr(node, "cmd") and hasattr(node, "name"):`)
	s.line("            all_nodes.append(node)")
	s.line("    entries = []")
	s.line("    seen = set()")
	s.line("    for node in all_nodes:")
	s.line("        try:")
	s.line(`            ip = node.IP() if callable(getattr(node, "IP", None)) else getattr(node, "ip", None)`)
	s.line(`            if ip and ip != "127.0.0.1":`)
	s.line(`                entry = f"{ip} {node.name}"`)
	s.line("                if entry not in seen:")
	s.line("                    entries.append(entry)")
	s.line("                    seen.add(entry)")
	s.line("        except Exception:")
	s.line("            continue")
	s.line("    for node in all_nodes:")
	s.line("        try:")
	s.line(`            node.cmd("sed -i '/# NetFlux5G entries/,/# End NetFlux5G entries/d' /etc/hosts")`)
	s.line("            if entries:")
	s.line(`                node.cmd("echo '# NetFlux5G entries' >> /etc/hosts")`)
	s.line("                for entry in entries:")
	s.line(`                    node.cmd(f"echo '{entry}' >> /etc/hosts")`)
	s.line(`                node.cmd("echo '# End NetFlux5G entries' >> /etc/hosts")`)
	s.line("        except Exception:")
	s.line("            continue")
	s.line("")
	s.line("export_dir = os.path.dirname(os.path.abspath(__file__))")
	s.line("")
	s.line("")
}

func writeTopologyFunc(s *scriptWriter, dep *Deployment) {
	s.line("def topology(args):")
	s.line(`    """Create network topology."""`)
	if len(dep.Artifacts) > 0 {
		s.line(`    info("*** Checking 5G configuration files\n")`)
		s.line("    check_5g_configs()")
	}
	if dep.Containers {
		s.line(`    info("*** Setting up Docker network\n")`)
		s.line("    create_docker_network_if_needed()")
		s.printf("    NETWORK_MODE = %q\n", BridgeNetworkName)
	}
	s.line("")

	writeNetInit(s, dep)
	writeController(s, dep)
	writeStaticNodes(s, dep)
	writeInstances(s, dep)
	writeGNBs(s, dep)
	writeUEs(s, dep)
	writeAssociations(s, dep)
	if dep.Wireless {
		s.line(`    info("*** Configuring propagation model\n")`)
		s.line(`    net.setPropagationModel(model="logDistance", exp=3)`)
		s.line("")
		s.line(`    info("*** Configuring nodes\n")`)
		s.line("    net.configureWifiNodes()")
		s.line("")
	}
	writeLinks(s, dep)
	if dep.Wireless {
		s.line(`    if "-p" not in args:`)
		s.line("        net.plotGraph(max_x=1000, max_y=1000)")
		s.line("")
	}
	writeStartup(s, dep)

	s.line(`    info("*** Running CLI\n")`)
	s.line("    CLI(net)")
	s.line("")
	s.line(`    info("*** Stopping network\n")`)
	s.line("    net.stop()")
	s.line("")
	s.line("")
}

func writeNetInit(s *scriptWriter, dep *Deployment) {
	if dep.Wireless || dep.Containers {
		s.line("    net = Containernet(topo=None,")
		s.line("                       build=False,")
		s.line("                       link=wmediumd, wmediumd_mode=interference,")
		s.line("                       ipBase='10.0.0.0/8')")
	} else {
		s.line("    net = Mininet(topo=None, build=False, ipBase='10.0.0.0/8')")
	}
	s.line("")
}

func writeController(s *scriptWriter, dep *Deployment) {
	c := dep.Controller
	s.line(`    info("*** Adding controller\n")`)
	s.printf("    %s = net.addController(name='%s',\n", c.Var, c.Var)
	s.line("                           controller=RemoteController,")
	s.printf("                           ip='%s',\n", c.IP)
	s.printf("                           port=%d)\n", c.Port)
	s.line("")
}

func writeStaticNodes(s *scriptWriter, dep *Deployment) {
	if len(dep.AccessCells) > 0 || len(dep.Switches) > 0 {
		s.line(`    info("*** Add APs & Switches\n")`)
	}
	for _, ap := range dep.AccessCells {
		if ap.FromGNB {
			continue // companions are declared next to their gNB
		}
		writeAPDecl(s, ap, "standalone", "user")
	}
	for _, sw := range dep.Switches {
		s.printf("    %s = net.addSwitch('%s', cls=OVSKernelSwitch, protocols=\"%s\"", sw.Var, sw.Var, sw.Protocols)
		if sw.DPID != "" {
			s.printf(", dpid='%s'", sw.DPID)
		}
		s.line(")")
	}
	if len(dep.AccessCells) > 0 || len(dep.Switches) > 0 {
		s.line("")
	}

	if len(dep.Hosts) > 0 {
		s.line(`    info("*** Add hosts & stations\n")`)
	}
	for _, h := range dep.Hosts {
		call := "addHost"
		if h.Wireless {
			call = "addStation"
		}
		s.printf("    %s = net.%s('%s'", h.Var, call, h.Var)
		if h.IP != "" {
			s.printf(", ip='%s'", h.IP)
		}
		if h.MAC != "" {
			s.printf(", mac='%s'", h.MAC)
		}
		if h.CPU > 0 {
			s.printf(", cpu=%g", h.CPU)
		}
		if h.Memory > 0 {
			s.printf(", mem=%d", h.Memory)
		}
		if h.Wireless {
			s.printf(", position='%.1f,%.1f,0'", h.X, h.Y)
		}
		s.line(")")
	}
	if len(dep.Hosts) > 0 {
		s.line("")
	}

	for _, d := range dep.DockerHosts {
		s.printf("    %s = net.addHost('%s', cls=Docker, dimage='%s'", d.Var, d.Var, d.Image)
		if d.Ports != "" {
			s.printf(", ports='%s'", d.Ports)
		}
		if d.Volumes != "" {
			s.printf(", volumes='%s'", d.Volumes)
		}
		if d.IP != "" {
			s.printf(", ip='%s'", d.IP)
		}
		if d.MAC != "" {
			s.printf(", mac='%s'", d.MAC)
		}
		if d.CPU > 0 {
			s.printf(", cpu=%g", d.CPU)
		}
		if d.Memory > 0 {
			s.printf(", mem=%d", d.Memory)
		}
		s.line(")")
	}
	if len(dep.DockerHosts) > 0 {
		s.line("")
	}
}

func writeAPDecl(s *scriptWriter, ap APDecl, failMode, datapath string) {
	s.printf("    %s = net.addAccessPoint('%s', cls=OVSKernelAP, ssid='%s', failMode='%s', datapath='%s',\n",
		ap.Var, ap.Var, ap.SSID, failMode, datapath)
	s.printf("                             channel='%s', mode='%s', position='%.1f,%.1f,0', range=%g, txpower=%g, protocols=\"%s\")\n",
		ap.Channel, ap.Mode, ap.X, ap.Y, ap.Range, ap.TxPower, ap.Protocols)
}

func writeInstances(s *scriptWriter, dep *Deployment) {
	if len(dep.Instances) == 0 {
		return
	}
	s.line(`    info("*** Add 5G core components\n")`)
	for _, inst := range dep.Instances {
		s.printf("    %s = net.addDocker('%s', cap_add=[\"net_admin\"], network_mode=NETWORK_MODE, publish_all_ports=True, dcmd=\"/bin/bash\", cls=DockerSta, dimage='%s'",
			inst.Var, inst.Var, inst.Image)
		s.printf(", volumes=[export_dir + \"/%s/%s:%s\", export_dir + \"/log-%s/:/logging/\"]",
			ConfigDirName, inst.ArtifactName, inst.Role.ConfigMountPath(), inst.Var)
		writeEnvList(s, inst.Env)
		s.line(")")
	}
	s.line("")
}

func writeGNBs(s *scriptWriter, dep *Deployment) {
	if len(dep.GNBs) == 0 {
		return
	}
	s.line(`    info("*** Add gNBs\n")`)
	for _, g := range dep.GNBs {
		s.printf("    %s = net.addDocker('%s', cap_add=[\"net_admin\"], network_mode=NETWORK_MODE, publish_all_ports=True, privileged=True, dcmd=\"/bin/bash\", cls=DockerSta, dimage='%s'",
			g.Var, g.Var, g.Image)
		s.printf(", volumes=[\"/lib/modules:/lib/modules:ro\", export_dir + \"/log-%s/:/logging/\"]", g.Var)
		s.printf(", position='%.1f,%.1f,0', range=%g, txpower=%g", g.X, g.Y, g.Range, g.TxPower)
		writeEnvList(s, g.Env)
		s.line(")")
		if g.Companion != nil {
			// The companion cell sits just beside its gNB on the canvas.
			cell := *g.Companion
			cell.X -= 2.3
			writeAPDecl(s, cell, "standalone", "user")
		}
	}
	s.line("")
}

func writeUEs(s *scriptWriter, dep *Deployment) {
	if len(dep.UEs) == 0 {
		return
	}
	s.line(`    info("*** Add UEs\n")`)
	for _, u := range dep.UEs {
		s.printf("    %s = net.addDocker('%s', devices=[\"/dev/net/tun\"], cap_add=[\"net_admin\"], network_mode=NETWORK_MODE, dcmd=\"/bin/bash\", cls=DockerSta, dimage='%s'",
			u.Var, u.Var, u.Image)
		s.printf(", volumes=[export_dir + \"/log-%s/:/logging/\"]", u.Var)
		s.printf(", range=%g", u.Range)
		if u.TxPower > 0 {
			s.printf(", txpower=%g", u.TxPower)
		}
		s.printf(", position='%.1f,%.1f,0'", u.X, u.Y)
		writeEnvList(s, u.Env)
		s.line(")")
	}
	s.line("")
}

func writeEnvList(s *scriptWriter, env []EnvVar) {
	if len(env) == 0 {
		return
	}
	s.printf(", environment={")
	for i, e := range env {
		if i > 0 {
			s.printf(", ")
		}
		s.printf("%q: %q", e.Key, e.Value)
	}
	s.printf("}")
}

func writeAssociations(s *scriptWriter, dep *Deployment) {
	if len(dep.Associations) == 0 {
		return
	}
	s.line(`    info("*** Assigning mobile stations to access points\n")`)
	for _, a := range dep.Associations {
		if a.InRange {
			s.printf("    # %s -> %s (SSID: %s, distance: %.1fm)\n",
				a.MobileID, a.AccessNodeID, a.SSID, a.Distance)
		} else {
			s.printf("    # %s -> %s (SSID: %s, distance: %.1fm) [OUT OF RANGE - connecting to closest]\n",
				a.MobileID, a.AccessNodeID, a.SSID, a.Distance)
		}
	}
	for _, a := range dep.Associations {
		s.printf("    %s.cmd(\"iw dev %s-wlan0 connect %s\")\n", a.MobileID, a.MobileID, a.SSID)
	}
	s.line("")
}

func writeLinks(s *scriptWriter, dep *Deployment) {
	s.line(`    info("*** Creating links\n")`)
	var hasCompanion bool
	for _, g := range dep.GNBs {
		if g.Companion != nil {
			if !hasCompanion {
				s.line("    # Link cells to their gNBs")
				hasCompanion = true
			}
			s.printf("    net.addLink(%s, %s)\n", g.Companion.Var, g.Var)
		}
	}
	for _, l := range dep.Links {
		s.printf("    net.addLink(%s, %s", l.Left, l.Right)
		if l.Bandwidth > 0 {
			s.printf(", cls=TCLink, bw=%g", l.Bandwidth)
		}
		if l.Delay != "" {
			s.printf(", delay='%s'", l.Delay)
		}
		if l.Loss > 0 {
			s.printf(", loss=%g", l.Loss)
		}
		s.line(")")
	}
	s.line("")
}

func writeStartup(s *scriptWriter, dep *Deployment) {
	s.line(`    info("*** Starting network\n")`)
	s.line("    net.build()")
	s.printf("    %s.start()\n", dep.Controller.Var)
	for _, ap := range dep.AccessCells {
		s.printf("    net.get(\"%s\").start([%s])\n", ap.Var, dep.Controller.Var)
	}
	for _, sw := range dep.Switches {
		s.printf("    net.get(\"%s\").start([%s])\n", sw.Var, dep.Controller.Var)
	}
	s.line("")
	s.line("    update_hosts(net)")
	s.line("")

	if len(dep.Instances) > 0 {
		for _, role := range nf.StartupOrder {
			var started bool
			for _, inst := range dep.Instances {
				if inst.Role != role {
					continue
				}
				if !started {
					s.printf("    info(\"*** Starting %s components\\n\")\n", strings.ToUpper(string(role)))
					started = true
				}
				s.printf("    %s.cmd(\"setsid nohup /opt/open5gs/etc/open5gs/entrypoint.sh %s 2>&1 | tee -a /logging/%s.log &\")\n",
					inst.Var, role.DaemonName(), inst.Var)
			}
			if started {
				s.line("")
			}
		}
		s.printf("    CLI.do_sh(net, \"sleep %d\")\n", nf.CoreSettleSeconds)
		s.line("")
	}

	if len(dep.GNBs) > 0 {
		s.line(`    info("*** Starting gNBs\n")`)
		for _, g := range dep.GNBs {
			s.printf("    %s.cmd(\"setsid nohup /entrypoint.sh gnb 2>&1 | tee -a /logging/%s.log &\")\n", g.Var, g.Var)
		}
		s.line("")
		s.printf("    CLI.do_sh(net, \"sleep %d\")\n", nf.GNBSettleSeconds)
		s.line("")
	}

	if len(dep.UEs) > 0 {
		s.line(`    info("*** Starting UEs\n")`)
		for _, u := range dep.UEs {
			s.printf("    %s.cmd(\"setsid nohup /entrypoint.sh ue 2>&1 | tee -a /logging/%s.log &\")\n", u.Var, u.Var)
		}
		s.line("")
		s.printf("    CLI.do_sh(net, \"sleep %d\")\n", nf.UESettleSeconds)
		s.line("")

		s.line(`    info("*** Route traffic on UEs\n")`)
		for _, u := range dep.UEs {
			if subnet, ok := nf.APNSubnets[u.APN]; ok {
				s.printf("    %s.cmd(\"ip route add %s dev uesimtun0\")\n", u.Var, subnet)
			} else {
				s.printf("    info(\"*** %s APN '%s' has no routed subnet, check your configuration\\n\")\n", u.Var, u.APN)
			}
		}
		s.line("")
	}
}

func writeMain(s *scriptWriter) {
	s.line("if __name__ == '__main__':")
	s.line("    setLogLevel('info')")
	s.line("    topology(sys.argv)")
}
