package config

import (
	"strings"
	"testing"
)

func TestDefaultRegistries(t *testing.T) {
	r, err := DefaultRegistries()
	if err != nil {
		t.Fatalf("DefaultRegistries: %v", err)
	}

	if got := r.Index("minecraft:dimension_type", "minecraft:overworld"); got != 0 {
		t.Errorf("overworld index = %d, want 0", got)
	}
	if got := r.Index("minecraft:worldgen/biome", "minecraft:plains"); got < 0 {
		t.Error("plains biome missing")
	}
	if got := r.Index("minecraft:damage_type", "minecraft:generic"); got < 0 {
		t.Error("generic damage type missing")
	}
	if got := r.Index("minecraft:nope", "minecraft:overworld"); got != -1 {
		t.Errorf("unknown registry index = %d", got)
	}
}

func TestLoadRegistries(t *testing.T) {
	path := writeFile(t, "reg.toml", `
[[registry]]
id = "minecraft:dimension_type"
entries = ["minecraft:the_end", "minecraft:overworld"]
`)
	r, err := LoadRegistries(path)
	if err != nil {
		t.Fatalf("LoadRegistries: %v", err)
	}
	if got := r.Index("minecraft:dimension_type", "minecraft:overworld"); got != 1 {
		t.Errorf("overworld index = %d, want 1", got)
	}
}

func TestRegistriesValidate(t *testing.T) {
	testCases := []struct {
		desc string
		doc  string
		msg  string
	}{
		{desc: "Empty", doc: ``, msg: "dimension_type is required"},
		{desc: "Duplicate", doc: "[[registry]]\nid = \"a\"\nentries = [\"x\"]\n[[registry]]\nid = \"a\"\nentries = [\"y\"]\n", msg: "duplicate"},
		{desc: "No entries", doc: "[[registry]]\nid = \"minecraft:dimension_type\"\nentries = []\n", msg: "no entries"},
		{desc: "No id", doc: "[[registry]]\nentries = [\"x\"]\n", msg: "without id"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			_, err := parseRegistries(tC.doc, "test")
			if err == nil || !strings.Contains(err.Error(), tC.msg) {
				t.Errorf("got %v, want error containing %q", err, tC.msg)
			}
		})
	}
}
