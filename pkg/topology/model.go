package topology

import (
	"regexp"
	"strconv"
	"strings"
)

// NodeType identifies the semantic role a node was declared with on the canvas.
type NodeType string

const (
	TypeHost           NodeType = "Host"
	TypeStation        NodeType = "STA"
	TypeUE             NodeType = "UE"
	TypeGNB            NodeType = "GNB"
	TypeAccessPoint    NodeType = "AP"
	TypeSwitch         NodeType = "Switch"
	TypeRouter         NodeType = "Router"
	TypeController     NodeType = "Controller"
	TypeDockerHost     NodeType = "DockerHost"
	TypeCoreAggregator NodeType = "VGcore"
)

// KnownTypes lists every declared node type in a fixed order.
var KnownTypes = []NodeType{
	TypeHost, TypeStation, TypeUE, TypeGNB, TypeAccessPoint,
	TypeSwitch, TypeRouter, TypeController, TypeDockerHost, TypeCoreAggregator,
}

// IsKnown reports whether t is one of the declared node types.
func (t NodeType) IsKnown() bool {
	for _, k := range KnownTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Node is one vertex of the topology snapshot. Properties is the free-form
// bag the editor's dialogs populate; the compiler only reads it through the
// typed accessors below and the config structs in configs.go.
type Node struct {
	ID         string         `json:"id" yaml:"id"`
	Type       NodeType       `json:"type" yaml:"type"`
	X          float64        `json:"x" yaml:"x"`
	Y          float64        `json:"y" yaml:"y"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Link connects two nodes by id. Endpoints are resolved (and possibly
// rewritten) at compile time; an endpoint that no longer exists makes the
// link droppable, never fatal.
type Link struct {
	Source      string         `json:"source" yaml:"source"`
	Destination string         `json:"destination" yaml:"destination"`
	Properties  map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Topology is one immutable snapshot of the editor canvas.
type Topology struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Links []Link `json:"links" yaml:"links"`
}

// NodeByID returns the first node with the given id.
func (t *Topology) NodeByID(id string) (*Node, bool) {
	for i := range t.Nodes {
		if t.Nodes[i].ID == id {
			return &t.Nodes[i], true
		}
	}
	return nil, false
}

// GetString returns the first non-empty string value among the given
// property keys. Dialog widgets historically wrote under several names, so
// accessors accept a fallback chain with the canonical key first.
func (n *Node) GetString(keys ...string) (string, bool) {
	for _, key := range keys {
		v, ok := n.Properties[key]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// GetFloat returns the first property among keys coercible to a float64.
func (n *Node) GetFloat(keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := n.Properties[key]; ok {
			if f, ok := toFloat(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// GetInt returns the first property among keys coercible to an int.
func (n *Node) GetInt(keys ...string) (int, bool) {
	for _, key := range keys {
		if v, ok := n.Properties[key]; ok {
			if f, ok := toFloat(v); ok {
				return int(f), true
			}
		}
	}
	return 0, false
}

// GetBool returns the first property among keys coercible to a bool.
// String forms "true"/"false" (any case) are accepted because checkbox
// state round-trips through string properties in older snapshots.
func (n *Node) GetBool(keys ...string) (bool, bool) {
	for _, key := range keys {
		v, ok := n.Properties[key]
		if !ok {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b, true
		case string:
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "true", "yes", "1":
				return true, true
			case "false", "no", "0":
				return false, true
			}
		}
	}
	return false, false
}

// GetList returns the first property among keys holding a list.
func (n *Node) GetList(keys ...string) ([]any, bool) {
	for _, key := range keys {
		if v, ok := n.Properties[key]; ok {
			if l, ok := v.([]any); ok && len(l) > 0 {
				return l, true
			}
		}
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

var identPattern = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeName converts a display name into an identifier the emitted
// script can use as a variable name. Invalid runes collapse to underscores
// and a leading digit is prefixed.
func SanitizeName(name string) string {
	clean := identPattern.ReplaceAllString(name, "_")
	if clean != "" && clean[0] >= '0' && clean[0] <= '9' {
		clean = "_" + clean
	}
	if clean == "" {
		return "node"
	}
	return clean
}
