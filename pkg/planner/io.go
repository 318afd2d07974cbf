// pkg/planner/io.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package planner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/iancoleman/orderedmap"
	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/mission"
)

// filenameSegmentCount extracts k from an export filename's "_N{k}_"
// marker. ImportAny requires the marker, with k>1, only for the legacy
// segmented shape; the current segmented shape is recognized by its
// is_segmented flag whatever the filename says.
var filenameSegmentCount = regexp.MustCompile(`_N(\d+)_`)

// ExportMission serializes every committed segment into the k>1 mission
// export shape. Solutions are never exported: a mission file only records
// enough to re-derive them by solving each segment in order, the same way
// ExportEnvironment's k=1 shape never carries a solution either.
func ExportMission(segments []mission.Segment) ([]byte, error) {
	segMaps := make([]*orderedmap.OrderedMap, len(segments))
	for i, seg := range segments {
		envMap := orderedmap.New()
		envMap.Set("airports", seg.Env.Airports)
		envMap.Set("targets", seg.Env.Targets)
		envMap.Set("sams", seg.Env.SAMs)
		if len(seg.Env.SyntheticStarts) > 0 {
			envMap.Set("synthetic_starts", seg.Env.SyntheticStarts)
		}

		sm := orderedmap.New()
		sm.Set("index", seg.Index)
		sm.Set("env", envMap)
		if seg.Index > 0 {
			sm.Set("cutDistance", seg.CutDistance)
			sm.Set("cutPositions", seg.CutPositions)
		}
		sm.Set("drone_configs", seg.Drones)
		segMaps[i] = sm
	}

	root := orderedmap.New()
	root.Set("schema", isrenv.ExportSchema)
	root.Set("is_segmented", true)
	root.Set("segment_count", len(segments))
	root.Set("segments", segMaps)
	return json.MarshalIndent(root, "", "  ")
}

// ImportedSegment is one segment recovered from ImportAny, ready to be
// re-solved (its Env/Drones) and, once solved, committed via
// mission.Store.AddSegment with its CutDistance/CutPositions/
// VisitedTargets/IsCheckpointReplan attached.
type ImportedSegment struct {
	Index              int
	Env                isrenv.Environment
	Drones             []isrenv.DroneConfig
	CutDistance        float64
	CutPositions       map[string]geom.Point
	VisitedTargets     []string
	IsCheckpointReplan bool
}

type missionExport struct {
	Schema       string `json:"schema"`
	IsSegmented  bool   `json:"is_segmented"`
	SegmentCount int    `json:"segment_count"`
	Segments     []struct {
		Index int `json:"index"`
		Env   struct {
			Airports        []isrenv.Airport        `json:"airports"`
			Targets         []isrenv.Target         `json:"targets"`
			SAMs            []isrenv.SAMZone        `json:"sams"`
			SyntheticStarts []isrenv.SyntheticStart `json:"synthetic_starts"`
		} `json:"env"`
		CutDistance  float64                `json:"cutDistance"`
		CutPositions map[string]geom.Point  `json:"cutPositions"`
		DroneConfigs []isrenv.DroneConfig   `json:"drone_configs"`
	} `json:"segments"`
}

type legacyExport struct {
	Type        string           `json:"type"`
	Airports    []isrenv.Airport `json:"airports"`
	Targets     []isrenv.Target  `json:"targets"`
	SAMs        []isrenv.SAMZone `json:"sams"`
	SegmentInfo struct {
		SegmentCuts []struct {
			DronePositions  map[string]geom.Point `json:"dronePositions"`
			VisitedTargets  []string              `json:"visitedTargets"`
			TotalDistance   *float64              `json:"totalDistance"`
			DistanceTraveled *float64             `json:"distanceTraveled"`
		} `json:"segmentCuts"`
	} `json:"segmentInfo"`
}

// ImportAny dispatches between the three shapes ExportMission/
// ExportEnvironment's importers must understand: the current k=1 shape
// (is_segmented:false), the current k>1 shape (is_segmented:true), and
// the legacy "segmentInfo.segmentCuts" shape. The shape is read from the
// content. The filename's "_N{k}_" marker is checked only for the legacy
// shape, which is rejected unless the marker names k>1; the current k>1
// shape is accepted without a marker, and a marker's k is not compared
// with the file's segment count.
func ImportAny(raw []byte, filename string) ([]ImportedSegment, error) {
	k := 1
	if m := filenameSegmentCount.FindStringSubmatch(filename); m != nil {
		var err error
		if k, err = parseSegmentCount(m[1]); err != nil {
			return nil, invalidInput("mission import: %v", err)
		}
	}

	var probe struct {
		Type        string `json:"type"`
		IsSegmented bool   `json:"is_segmented"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, invalidInput("mission import: not valid JSON: %v", err)
	}

	switch {
	case probe.Type == "segmented":
		if k <= 1 {
			return nil, invalidInput("mission import: legacy segmented shape requires a _N{k}_ filename marker with k>1")
		}
		return importLegacy(raw)
	case probe.IsSegmented:
		return importMission(raw)
	default:
		env, drones, err := isrenv.ImportEnvironment(raw)
		if err != nil {
			return nil, invalidInput("mission import: %v", err)
		}
		return []ImportedSegment{{Index: 0, Env: *env, Drones: drones}}, nil
	}
}

func parseSegmentCount(s string) (int, error) {
	var k int
	if _, err := fmt.Sscanf(s, "%d", &k); err != nil {
		return 0, fmt.Errorf("malformed segment count %q", s)
	}
	return k, nil
}

func importMission(raw []byte) ([]ImportedSegment, error) {
	var me missionExport
	if err := json.Unmarshal(raw, &me); err != nil {
		return nil, invalidInput("mission import: %v", err)
	}
	out := make([]ImportedSegment, len(me.Segments))
	for i, s := range me.Segments {
		normalized, err := isrenv.ParseEnvironment(mustMarshalFields(s.Env.Airports, s.Env.Targets, s.Env.SAMs, s.Env.SyntheticStarts))
		if err != nil {
			return nil, invalidInput("mission import: segment %d: %v", s.Index, err)
		}
		out[i] = ImportedSegment{
			Index:              s.Index,
			Env:                *normalized,
			Drones:             s.DroneConfigs,
			CutDistance:        s.CutDistance,
			CutPositions:       s.CutPositions,
			IsCheckpointReplan: s.Index > 0,
		}
	}
	return out, nil
}

func mustMarshalFields(airports []isrenv.Airport, targets []isrenv.Target, sams []isrenv.SAMZone, starts []isrenv.SyntheticStart) []byte {
	b, err := json.Marshal(struct {
		Airports        []isrenv.Airport        `json:"airports"`
		Targets         []isrenv.Target         `json:"targets"`
		SAMs            []isrenv.SAMZone        `json:"sams"`
		SyntheticStarts []isrenv.SyntheticStart `json:"synthetic_starts"`
	}{airports, targets, sams, starts})
	if err != nil {
		panic(err)
	}
	return b
}

// importLegacy reconstructs segments from the legacy
// "segmentInfo.segmentCuts" shape, which carries one airports/targets/sams
// roster shared across every segment (unlike the current shape's
// per-segment env) plus per-cut drone positions and visited-target sets.
// Where both totalDistance and distanceTraveled are present for the same
// cut, the smaller is used, per the defensive rule this shape's producers
// warrant only loosely.
func importLegacy(raw []byte) ([]ImportedSegment, error) {
	var le legacyExport
	if err := json.Unmarshal(raw, &le); err != nil {
		return nil, invalidInput("mission import: %v", err)
	}
	baseEnv := isrenv.Environment{Airports: le.Airports, Targets: le.Targets, SAMs: le.SAMs}

	out := make([]ImportedSegment, 0, len(le.SegmentInfo.SegmentCuts)+1)
	out = append(out, ImportedSegment{Index: 0, Env: baseEnv})

	visitedSoFar := map[string]bool{}
	for i, cut := range le.SegmentInfo.SegmentCuts {
		dist := legacyDistance(cut.TotalDistance, cut.DistanceTraveled)
		for _, id := range cut.VisitedTargets {
			visitedSoFar[id] = true
		}
		segEnv := baseEnv
		segEnv.Targets = nil
		for _, t := range baseEnv.Targets {
			if !visitedSoFar[t.ID] {
				segEnv.Targets = append(segEnv.Targets, t)
			}
		}

		droneIDs := make([]string, 0, len(cut.DronePositions))
		for id := range cut.DronePositions {
			droneIDs = append(droneIDs, id)
		}
		sort.Strings(droneIDs)
		for _, id := range droneIDs {
			pos := cut.DronePositions[id]
			segEnv.SyntheticStarts = append(segEnv.SyntheticStarts, isrenv.SyntheticStart{
				ID: id + "_START", X: pos[0], Y: pos[1],
			})
		}

		visited := append([]string(nil), cut.VisitedTargets...)
		sort.Strings(visited)
		out = append(out, ImportedSegment{
			Index:              i + 1,
			Env:                segEnv,
			CutDistance:        dist,
			CutPositions:       cut.DronePositions,
			VisitedTargets:     visited,
			IsCheckpointReplan: true,
		})
	}
	return out, nil
}

func legacyDistance(total, traveled *float64) float64 {
	switch {
	case total != nil && traveled != nil:
		if *total < *traveled {
			return *total
		}
		return *traveled
	case total != nil:
		return *total
	case traveled != nil:
		return *traveled
	default:
		return 0
	}
}
