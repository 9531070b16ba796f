package nf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveArtifactEmbeddedWins(t *testing.T) {
	inst := InstanceConfig{
		Role:           AMF,
		Name:           "amf1",
		ArtifactName:   "amf.yaml",
		ConfigContent:  "amf:\n  custom: true\n",
		ConfigFilePath: "/nonexistent/ignored.yaml",
	}
	art := ResolveArtifact(inst)
	if art.Origin != OriginEmbedded {
		t.Fatalf("origin = %s", art.Origin)
	}
	if !strings.Contains(string(art.Content), "custom: true") {
		t.Errorf("embedded content lost: %q", art.Content)
	}
	if art.Name != "amf.yaml" {
		t.Errorf("artifact name %q", art.Name)
	}
}

func TestEmbeddedContentCanonicalized(t *testing.T) {
	// Two stylistic variants of the same document end up byte-identical.
	a := ResolveArtifact(InstanceConfig{
		Role: AMF, Name: "amf1", ArtifactName: "amf.yaml",
		ConfigContent: "amf: {ngap: {port: 38412}}\n",
	})
	b := ResolveArtifact(InstanceConfig{
		Role: AMF, Name: "amf1", ArtifactName: "amf.yaml",
		ConfigContent: "amf:\n  ngap:\n    port: 38412\n",
	})
	if string(a.Content) != string(b.Content) {
		t.Errorf("equivalent documents serialized differently:\n%q\n%q", a.Content, b.Content)
	}
}

func TestEmbeddedNonYAMLWrittenVerbatim(t *testing.T) {
	content := "{{ not yaml at all"
	art := ResolveArtifact(InstanceConfig{
		Role: AMF, Name: "amf1", ArtifactName: "amf.yaml", ConfigContent: content,
	})
	if string(art.Content) != content {
		t.Errorf("unparseable content should pass through verbatim, got %q", art.Content)
	}
}

func TestResolveArtifactReferencedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smf-custom.yaml")
	if err := os.WriteFile(path, []byte("smf:\n  mtu: 1500\n"), 0644); err != nil {
		t.Fatal(err)
	}
	art := ResolveArtifact(InstanceConfig{
		Role: SMF, Name: "smf1", ArtifactName: "smf.yaml", ConfigFilePath: path,
	})
	if art.Origin != OriginFile {
		t.Fatalf("origin = %s", art.Origin)
	}
	if !strings.Contains(string(art.Content), "mtu: 1500") {
		t.Errorf("file content not read")
	}
}

func TestResolveArtifactUnreadableFileFallsThrough(t *testing.T) {
	art := ResolveArtifact(InstanceConfig{
		Role: UPF, Name: "upf1", ArtifactName: "upf.yaml",
		ConfigFilePath: "/nonexistent/upf.yaml",
	})
	if art.Origin != OriginTemplate {
		t.Fatalf("unreadable path should fall back to the template, got %s", art.Origin)
	}
	if !strings.Contains(string(art.Content), "upf:") {
		t.Errorf("template content missing role section")
	}
}

func TestResolveArtifactTemplatesExistForEveryRole(t *testing.T) {
	for _, role := range AllRoles {
		art := ResolveArtifact(InstanceConfig{
			Role: role, Name: string(role) + "1", ArtifactName: role.ArtifactName(1),
		})
		if art.Origin != OriginTemplate {
			t.Errorf("%s: expected a bundled template, got origin %s", role, art.Origin)
		}
		if !strings.Contains(string(art.Content), string(role)+":") {
			t.Errorf("%s: template missing role section", role)
		}
	}
}

func TestMinimalConfigIsLastResort(t *testing.T) {
	art := ResolveArtifact(InstanceConfig{
		Role: Role("mme"), Name: "mme1", ArtifactName: "mme.yaml",
	})
	if art.Origin != OriginMinimal {
		t.Fatalf("unknown role has no template, expected minimal default, got %s", art.Origin)
	}
	if !strings.Contains(string(art.Content), "sbi:") {
		t.Errorf("minimal default should still declare an sbi block")
	}
}
