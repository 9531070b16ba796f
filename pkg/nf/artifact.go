package nf

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// ArtifactOrigin tags which step of the resolution chain produced the
// config document.
type ArtifactOrigin string

const (
	OriginEmbedded ArtifactOrigin = "embedded"
	OriginFile     ArtifactOrigin = "file"
	OriginTemplate ArtifactOrigin = "template"
	OriginMinimal  ArtifactOrigin = "minimal"
)

// Artifact is one resolved config document ready to be written to the
// host-side config directory and mounted into the container.
type Artifact struct {
	Name    string // host-side file name, from the instance's naming contract
	Content []byte
	Origin  ArtifactOrigin
}

// ResolveArtifact materializes the config document for one instance. The
// precedence chain never fails: embedded content wins, then a readable
// referenced file, then the bundled role template, then a minimal default.
// An unreadable referenced file is logged and falls through, it does not
// abort the compile.
func ResolveArtifact(inst InstanceConfig) Artifact {
	if inst.ConfigContent != "" {
		return Artifact{Name: inst.ArtifactName, Content: canonicalYAML([]byte(inst.ConfigContent)), Origin: OriginEmbedded}
	}

	if inst.ConfigFilePath != "" {
		data, err := os.ReadFile(inst.ConfigFilePath)
		if err == nil {
			return Artifact{Name: inst.ArtifactName, Content: data, Origin: OriginFile}
		}
		logging.Warn("referenced config file unreadable, falling back to template",
			logging.Role(string(inst.Role)), logging.Instance(inst.Name),
			logging.Path(inst.ConfigFilePath), logging.Error(err))
	}

	if data, err := templateFS.ReadFile(fmt.Sprintf("templates/%s.yaml", inst.Role)); err == nil {
		return Artifact{Name: inst.ArtifactName, Content: data, Origin: OriginTemplate}
	}

	return Artifact{Name: inst.ArtifactName, Content: minimalConfig(inst.Role), Origin: OriginMinimal}
}

// canonicalYAML re-serializes a document so equivalent inputs produce the
// same bytes. Content that does not parse as YAML is written verbatim; the
// daemon in the container is the one that has to care.
func canonicalYAML(data []byte) []byte {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil || len(node.Content) == 0 {
		return data
	}
	out, err := yaml.Marshal(node.Content[0])
	if err != nil {
		return data
	}
	return out
}

// minimalConfig is the last-resort document: just enough for the daemon to
// start and register against the shared control plane.
func minimalConfig(role Role) []byte {
	doc := fmt.Sprintf(`logger:
  file:
    path: /opt/open5gs/var/log/open5gs/%s.log

%s:
  sbi:
    server:
      - address: 0.0.0.0
        port: 7777
    client:
      scp:
        - uri: http://scp:7777
`, role, role)
	return []byte(doc)
}
