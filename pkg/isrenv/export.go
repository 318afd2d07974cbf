// pkg/isrenv/export.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package isrenv

import (
	"encoding/json"

	"github.com/iancoleman/orderedmap"
)

// ExportSchema is the schema tag written into every exported environment or
// mission file.
const ExportSchema = "isr_env_v1"

// ExportEnvironment serializes env and its drone configs into the k=1
// ("not segmented") export shape. Fields are written via an orderedmap so
// that Export(env)->Import produces byte-identical output given the same
// logical content, regardless of Go's (unspecified) struct-to-map
// iteration order: Export(env)->Import must hash identically, per the
// round-trip testable property, and that requires canonical field order,
// not just canonical values.
func ExportEnvironment(env *Environment, drones []DroneConfig) ([]byte, error) {
	envMap := orderedmap.New()
	envMap.Set("airports", env.Airports)
	envMap.Set("targets", env.Targets)
	envMap.Set("sams", env.SAMs)
	if len(env.SyntheticStarts) > 0 {
		envMap.Set("synthetic_starts", env.SyntheticStarts)
	}
	envMap.Set("drone_configs", drones)

	root := orderedmap.New()
	root.Set("schema", ExportSchema)
	root.Set("is_segmented", false)
	root.Set("env", envMap)

	return json.MarshalIndent(root, "", "  ")
}

// environmentExport is the shape ExportEnvironment produces, used to parse
// it back in ImportAny.
type environmentExport struct {
	Schema      string `json:"schema"`
	IsSegmented bool   `json:"is_segmented"`
	Env         struct {
		Airports        []Airport        `json:"airports"`
		Targets         []Target         `json:"targets"`
		SAMs            []SAMZone        `json:"sams"`
		SyntheticStarts []SyntheticStart `json:"synthetic_starts"`
		DroneConfigs    []DroneConfig    `json:"drone_configs"`
	} `json:"env"`
}

// ImportEnvironment parses the k=1 export shape produced by
// ExportEnvironment, applying the same validation as ParseEnvironment.
func ImportEnvironment(raw []byte) (*Environment, []DroneConfig, error) {
	var ee environmentExport
	if err := json.Unmarshal(raw, &ee); err != nil {
		return nil, nil, err
	}

	normalized, err := ParseEnvironment(mustMarshalEnvFields(ee))
	if err != nil {
		return nil, nil, err
	}
	return normalized, ee.Env.DroneConfigs, nil
}

// mustMarshalEnvFields re-serializes the parsed env fields into the raw
// shape ParseEnvironment expects, so import always runs through the same
// validation/normalization path as a fresh environment, rather than
// maintaining two parallel code paths that could drift apart.
func mustMarshalEnvFields(ee environmentExport) []byte {
	b, err := json.Marshal(struct {
		Airports        []Airport        `json:"airports"`
		Targets         []Target         `json:"targets"`
		SAMs            []SAMZone        `json:"sams"`
		SyntheticStarts []SyntheticStart `json:"synthetic_starts"`
	}{ee.Env.Airports, ee.Env.Targets, ee.Env.SAMs, ee.Env.SyntheticStarts})
	if err != nil {
		// Re-marshaling already-unmarshaled data cannot fail.
		panic(err)
	}
	return b
}
