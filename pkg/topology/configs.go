package topology

import (
	"fmt"
	"strings"
)

// Typed per-role configuration structs. Each FromNode constructor reads the
// node's property bag once, through the fallback key chains the editor's
// dialogs historically wrote under, and fills every optional field with its
// documented default. Downstream components never touch raw property maps.

// Default identity constants used across 5G components.
const (
	DefaultMCC = "999"
	DefaultMNC = "70"
	DefaultSST = "1"
	DefaultSD  = "0xffffff"
	DefaultTAC = "1"
)

// OVSConfig is the optional Open vSwitch block shared by gNB, UE and
// aggregator configurations.
type OVSConfig struct {
	Enabled        bool
	Controller     string
	BridgeName     string
	FailMode       string
	Protocols      string
	Datapath       string
	ControllerPort string
	BridgePriority string
	STPEnabled     bool
}

// Env renders the block as runtime environment variables.
func (c OVSConfig) Env() map[string]string {
	env := map[string]string{
		"OVS_ENABLED": boolString(c.Enabled),
	}
	if !c.Enabled {
		return env
	}
	env["OVS_CONTROLLER"] = c.Controller
	env["OVS_BRIDGE_NAME"] = c.BridgeName
	env["OVS_FAIL_MODE"] = c.FailMode
	env["OPENFLOW_PROTOCOLS"] = c.Protocols
	env["OVS_DATAPATH"] = c.Datapath
	env["CONTROLLER_PORT"] = c.ControllerPort
	env["BRIDGE_PRIORITY"] = c.BridgePriority
	env["STP_ENABLED"] = boolString(c.STPEnabled)
	return env
}

func ovsConfigFrom(n *Node, prefix string) OVSConfig {
	enabled, _ := n.GetBool(prefix+"_OVS_Enabled", "ovs_ovs_enabled", "OVS_ENABLED")
	cfg := OVSConfig{
		Enabled:        enabled,
		BridgeName:     "br-open5gs",
		FailMode:       "standalone",
		Protocols:      "OpenFlow13",
		Datapath:       "kernel",
		ControllerPort: "6633",
		BridgePriority: "32768",
	}
	if v, ok := n.GetString(prefix+"_OVS_Controller", "ovs_controller"); ok {
		cfg.Controller = v
	}
	if v, ok := n.GetString(prefix+"_OVS_BridgeName", "ovs_bridge_name"); ok {
		cfg.BridgeName = v
	}
	if v, ok := n.GetString(prefix+"_OVS_FailMode", "ovs_fail_mode"); ok {
		cfg.FailMode = v
	}
	if v, ok := n.GetString(prefix+"_OpenFlow_Protocols", "openflow_protocols"); ok {
		cfg.Protocols = v
	}
	if v, ok := n.GetString(prefix+"_OVS_Datapath", "ovs_datapath"); ok {
		cfg.Datapath = v
	}
	if v, ok := n.GetString(prefix+"_Controller_Port", "controller_port"); ok {
		cfg.ControllerPort = v
	}
	if v, ok := n.GetString(prefix+"_Bridge_Priority", "bridge_priority"); ok {
		cfg.BridgePriority = v
	}
	if v, ok := n.GetBool(prefix+"_STP_Enabled", "stp_enabled"); ok {
		cfg.STPEnabled = v
	}
	return cfg
}

// HostConfig covers Host and STA nodes.
type HostConfig struct {
	IPAddress    string
	MACAddress   string
	DefaultRoute string
	CPU          float64 // 0 means unset
	Memory       int     // MB, 0 means unset
}

// HostConfigFrom extracts host parameters. The editor writes the
// placeholder 192.168.1.1 into untouched dialogs; it is treated as unset.
func HostConfigFrom(n *Node) HostConfig {
	cfg := HostConfig{}
	if ip, ok := n.GetString("Host_IPAddress", "STA_IPAddress", "lineEdit_2"); ok && ip != "192.168.1.1" {
		cfg.IPAddress = ip
	}
	if mac, ok := n.GetString("Host_MACAddress", "STA_MACAddress", "lineEdit"); ok {
		cfg.MACAddress = mac
	}
	if route, ok := n.GetString("Host_DefaultRoute", "STA_DefaultRoute", "lineEdit_3"); ok {
		cfg.DefaultRoute = route
	}
	if cpu, ok := n.GetFloat("Host_AmountCPU", "STA_AmountCPU", "doubleSpinBox"); ok && cpu != 1.0 {
		cfg.CPU = cpu
	}
	if mem, ok := n.GetInt("Host_Memory", "STA_Memory", "spinBox"); ok && mem > 0 {
		cfg.Memory = mem
	}
	return cfg
}

// DockerHostConfig covers standalone container hosts.
type DockerHostConfig struct {
	Image       string
	PortForward string
	Volumes     string
	HostConfig
}

func DockerHostConfigFrom(n *Node) DockerHostConfig {
	cfg := DockerHostConfig{HostConfig: HostConfig{}}
	if img, ok := n.GetString("DockerHost_ContainerImage", "lineEdit_10"); ok {
		cfg.Image = img
	}
	if ports, ok := n.GetString("DockerHost_PortForward", "lineEdit_11"); ok {
		cfg.PortForward = ports
	}
	if vols, ok := n.GetString("DockerHost_VolumeMapping", "lineEdit_12"); ok {
		cfg.Volumes = vols
	}
	if ip, ok := n.GetString("DockerHost_IPAddress", "lineEdit_2"); ok && ip != "192.168.1.1" {
		cfg.IPAddress = ip
	}
	if mac, ok := n.GetString("DockerHost_MACAddress", "lineEdit"); ok {
		cfg.MACAddress = mac
	}
	if cpu, ok := n.GetFloat("DockerHost_AmountCPU", "doubleSpinBox"); ok && cpu != 1.0 {
		cfg.CPU = cpu
	}
	if mem, ok := n.GetInt("DockerHost_Memory", "spinBox"); ok && mem > 0 {
		cfg.Memory = mem
	}
	return cfg
}

// SwitchConfig covers Switch and Router nodes.
type SwitchConfig struct {
	DPID      string
	Protocols string
}

func SwitchConfigFrom(n *Node) SwitchConfig {
	cfg := SwitchConfig{Protocols: "OpenFlow13"}
	if dpid, ok := n.GetString("Switch_DPID", "Router_DPID", "AP_DPID", "lineEdit_4"); ok {
		cfg.DPID = dpid
	}
	if proto, ok := n.GetString("Switch_Protocol", "comboBox"); ok && proto != "OpenFlow" {
		cfg.Protocols = proto
	}
	return cfg
}

// ControllerConfig covers SDN controller nodes.
type ControllerConfig struct {
	IPAddress string
	Port      int
}

func ControllerConfigFrom(n *Node) ControllerConfig {
	cfg := ControllerConfig{IPAddress: "127.0.0.1", Port: 6633}
	if ip, ok := n.GetString("Controller_IPAddress"); ok {
		cfg.IPAddress = ip
	}
	if port, ok := n.GetInt("Controller_Port"); ok && port > 0 {
		cfg.Port = port
	}
	return cfg
}

// APConfig covers declared access points and the AP capability block of a
// gNB. Range 0 means "derive from tx-power".
type APConfig struct {
	SSID    string
	Channel string
	Mode    string
	Range   float64
	TxPower float64
}

func APConfigFrom(n *Node) APConfig {
	cfg := APConfig{
		SSID:    SanitizeName(n.ID) + "-ssid",
		Channel: "36",
		Mode:    "a",
	}
	if ssid, ok := n.GetString("AP_SSID", "lineEdit_5"); ok {
		cfg.SSID = ssid
	}
	if ch, ok := n.GetString("AP_Channel", "spinBox_2"); ok {
		cfg.Channel = ch
	} else if ch, ok := n.GetInt("AP_Channel", "spinBox_2"); ok {
		cfg.Channel = fmt.Sprintf("%d", ch)
	}
	if mode, ok := n.GetString("AP_Mode", "comboBox_2"); ok {
		cfg.Mode = mode
	}
	if r, ok := n.GetFloat("AP_Range", "range", "lineEdit_6", "spinBox_3"); ok {
		cfg.Range = r
	}
	if p, ok := n.GetFloat("AP_Power", "AP_TxPower", "txpower", "power"); ok {
		cfg.TxPower = p
	}
	return cfg
}

// GNBAPCapability is the optional "gNB doubles as an access point" block.
type GNBAPCapability struct {
	Enabled bool
	SSID    string
	Channel string
	Mode    string
	Range   float64
	TxPower float64
}

// GNBConfig covers radio base station nodes.
type GNBConfig struct {
	AMFHostname string
	AMFIP       string
	Hostname    string
	MCC         string
	MNC         string
	SST         string
	SD          string
	TAC         string
	N2Iface     string
	N3Iface     string
	RadioIface  string
	NetIface    string
	TxPower     float64
	Range       float64 // 0 means unset; resolver falls back to power or role default
	AP          GNBAPCapability
	OVS         OVSConfig
}

func GNBConfigFrom(n *Node) GNBConfig {
	cfg := GNBConfig{
		AMFHostname: "amf",
		Hostname:    "localhost",
		MCC:         DefaultMCC,
		MNC:         DefaultMNC,
		SST:         DefaultSST,
		SD:          DefaultSD,
		TAC:         DefaultTAC,
		N2Iface:     "eth0",
		N3Iface:     "eth0",
		RadioIface:  "eth0",
		NetIface:    "eth0",
		TxPower:     30,
	}
	if v, ok := n.GetString("GNB_AMF_Hostname", "amf_hostname"); ok {
		cfg.AMFHostname = v
	}
	if v, ok := n.GetString("GNB_AMF_IP", "amf_ip"); ok {
		cfg.AMFIP = v
	}
	if v, ok := n.GetString("GNB_Hostname", "gnb_hostname"); ok {
		cfg.Hostname = v
	}
	if v, ok := n.GetString("GNB_MCC"); ok {
		cfg.MCC = v
	}
	if v, ok := n.GetString("GNB_MNC"); ok {
		cfg.MNC = v
	}
	if v, ok := n.GetString("GNB_SST"); ok {
		cfg.SST = v
	}
	if v, ok := n.GetString("GNB_SD"); ok {
		cfg.SD = v
	}
	if v, ok := n.GetString("GNB_TAC"); ok {
		cfg.TAC = v
	}
	if v, ok := n.GetString("GNB_N2_Iface"); ok {
		cfg.N2Iface = v
	}
	if v, ok := n.GetString("GNB_N3_Iface"); ok {
		cfg.N3Iface = v
	}
	if v, ok := n.GetString("GNB_Radio_Iface"); ok {
		cfg.RadioIface = v
	}
	if v, ok := n.GetFloat("GNB_Power", "GNB_TxPower", "txpower", "power"); ok {
		cfg.TxPower = v
	}
	if v, ok := n.GetFloat("GNB_Range", "wireless_range", "range", "lineEdit_6", "spinBox_3"); ok {
		cfg.Range = v
	}

	cfg.AP = gnbAPCapabilityFrom(n, cfg.Hostname)
	cfg.OVS = ovsConfigFrom(n, "GNB")
	return cfg
}

func gnbAPCapabilityFrom(n *Node, hostname string) GNBAPCapability {
	cap := GNBAPCapability{
		SSID:    "gnb-hotspot",
		Channel: "36",
		Mode:    "a",
		Range:   600,
		TxPower: 24,
	}
	enabled, ok := n.GetBool("GNB_APEnabled", "AP_ENABLED", "ap_enabled", "enable_ap", "checkBox_ap_enable")
	if !ok {
		// Last resort: any property named like an AP-enable toggle counts.
		for key, value := range n.Properties {
			lower := strings.ToLower(key)
			if strings.Contains(lower, "ap") && strings.Contains(lower, "enable") {
				if b, isBool := value.(bool); isBool && b {
					enabled = true
					break
				}
				if s, isStr := value.(string); isStr && strings.EqualFold(s, "true") {
					enabled = true
					break
				}
			}
		}
	}
	cap.Enabled = enabled
	if ssid, ok := n.GetString("GNB_AP_SSID", "AP_SSID", "ap_ap_ssid", "lineEdit_ap_ssid"); ok {
		cap.SSID = ssid
	} else if hostname != "" && hostname != "localhost" {
		cap.SSID = hostname + "-ssid"
	}
	if ch, ok := n.GetString("GNB_AP_Channel", "AP_CHANNEL"); ok {
		cap.Channel = ch
	}
	if mode, ok := n.GetString("GNB_AP_Mode", "AP_MODE"); ok {
		cap.Mode = mode
	}
	if r, ok := n.GetFloat("GNB_AP_Range", "AP_RANGE"); ok {
		cap.Range = r
	}
	if p, ok := n.GetFloat("GNB_AP_TxPower", "AP_TXPOWER"); ok {
		cap.TxPower = p
	}
	return cap
}

// UEConfig covers mobile user equipment nodes.
type UEConfig struct {
	GNBHostname string
	GNBIP       string
	APN         string
	MSISDN      string
	MCC         string
	MNC         string
	SST         string
	SD          string
	TAC         string
	Key         string
	OPType      string
	OP          string
	IMEI        string
	IMEISV      string
	TunnelIface string
	RadioIface  string
	SessionType string
	PDUSessions int
	Mobility    bool
	Range       float64
	TxPower     float64 // 0 means unset
}

func UEConfigFrom(n *Node) UEConfig {
	cfg := UEConfig{
		GNBHostname: "localhost",
		APN:         "internet",
		MCC:         DefaultMCC,
		MNC:         DefaultMNC,
		SST:         DefaultSST,
		SD:          DefaultSD,
		TAC:         DefaultTAC,
		Key:         "465B5CE8B199B49FAA5F0A2EE238A6BC",
		OPType:      "OPC",
		OP:          "E8ED289DEBA952E4283B54E88E6183CA",
		IMEI:        "356938035643803",
		IMEISV:      "4370816125816151",
		TunnelIface: "uesimtun0",
		RadioIface:  "eth0",
		SessionType: "IPv4",
		PDUSessions: 1,
		Range:       116,
	}
	if v, ok := n.GetString("UE_GNB_Hostname", "gnb_hostname"); ok {
		cfg.GNBHostname = v
	}
	if v, ok := n.GetString("UE_GNB_IP", "gnb_ip"); ok {
		cfg.GNBIP = v
	}
	if v, ok := n.GetString("UE_APN"); ok {
		cfg.APN = v
	}
	if v, ok := n.GetString("UE_MSISDN"); ok {
		cfg.MSISDN = v
	}
	if v, ok := n.GetString("UE_MCC"); ok {
		cfg.MCC = v
	}
	if v, ok := n.GetString("UE_MNC"); ok {
		cfg.MNC = v
	}
	if v, ok := n.GetString("UE_SST"); ok {
		cfg.SST = v
	}
	if v, ok := n.GetString("UE_SD"); ok {
		cfg.SD = v
	}
	if v, ok := n.GetString("UE_TAC"); ok {
		cfg.TAC = v
	}
	if v, ok := n.GetString("UE_Key"); ok {
		cfg.Key = v
	}
	if v, ok := n.GetString("UE_OP_Type"); ok {
		cfg.OPType = v
	}
	if v, ok := n.GetString("UE_OP"); ok {
		cfg.OP = v
	}
	if v, ok := n.GetString("UE_IMEI"); ok {
		cfg.IMEI = v
	}
	if v, ok := n.GetString("UE_IMEISV"); ok {
		cfg.IMEISV = v
	}
	if v, ok := n.GetString("UE_TunnelIface"); ok {
		cfg.TunnelIface = v
	}
	if v, ok := n.GetString("UE_SessionType"); ok {
		cfg.SessionType = v
	}
	if v, ok := n.GetInt("UE_PDUSessions"); ok && v > 0 {
		cfg.PDUSessions = v
	}
	if v, ok := n.GetBool("UE_Mobility", "mobility"); ok {
		cfg.Mobility = v
	}
	if v, ok := n.GetFloat("UE_Range", "range"); ok {
		cfg.Range = v
	}
	if v, ok := n.GetFloat("UE_Power", "UE_TxPower", "txpower", "power"); ok {
		cfg.TxPower = v
	}
	return cfg
}

// AggregatorConfig covers the VGcore node. Per-role instance lists live in
// the property bag and are extracted separately; this struct holds the
// shared deployment parameters every extracted instance inherits.
type AggregatorConfig struct {
	DockerImage  string
	DatabaseURI  string
	NetIface     string
	EnableNAT    bool
	MCC          string
	MNC          string
	SST          string
	SD           string
	TAC          string
	OVS          OVSConfig
}

func AggregatorConfigFrom(n *Node) AggregatorConfig {
	cfg := AggregatorConfig{
		DockerImage: "adaptive/open5gs:latest",
		DatabaseURI: "mongodb://mongo/open5gs",
		NetIface:    "eth0",
		EnableNAT:   true,
		MCC:         DefaultMCC,
		MNC:         DefaultMNC,
		SST:         DefaultSST,
		SD:          DefaultSD,
		TAC:         DefaultTAC,
	}
	if v, ok := n.GetString("VGcore_DockerImage", "Component5G_Image", "docker_image"); ok {
		cfg.DockerImage = v
	}
	if v, ok := n.GetString("VGcore_DatabaseURI", "database_uri"); ok {
		cfg.DatabaseURI = v
	}
	if v, ok := n.GetString("VGcore_NetworkInterface", "network_interface"); ok {
		cfg.NetIface = v
	}
	if v, ok := n.GetBool("VGcore_EnableNAT", "enable_nat"); ok {
		cfg.EnableNAT = v
	}
	if v, ok := n.GetString("VGcore_MCC"); ok {
		cfg.MCC = v
	}
	if v, ok := n.GetString("VGcore_MNC"); ok {
		cfg.MNC = v
	}
	if v, ok := n.GetString("VGcore_SST"); ok {
		cfg.SST = v
	}
	if v, ok := n.GetString("VGcore_SD"); ok {
		cfg.SD = v
	}
	if v, ok := n.GetString("VGcore_TAC"); ok {
		cfg.TAC = v
	}
	cfg.OVS = ovsConfigFrom(n, "VGcore")
	return cfg
}

// LinkConfig covers per-link shaping parameters.
type LinkConfig struct {
	Bandwidth float64 // Mbit/s, 0 means unshaped
	Delay     string  // e.g. "5ms", empty means none
	Loss      float64 // percent, 0 means none
}

// LinkConfigFrom reads shaping parameters from a link's property bag.
func LinkConfigFrom(l *Link) LinkConfig {
	cfg := LinkConfig{}
	if l.Properties == nil {
		return cfg
	}
	probe := Node{Properties: l.Properties}
	if bw, ok := probe.GetFloat("Link_Bandwidth", "bandwidth", "bw"); ok && bw > 0 {
		cfg.Bandwidth = bw
	}
	if delay, ok := probe.GetString("Link_Delay", "delay"); ok {
		cfg.Delay = delay
	}
	if loss, ok := probe.GetFloat("Link_Loss", "loss"); ok && loss > 0 {
		cfg.Loss = loss
	}
	return cfg
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
