// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ottdsave.
//
// ottdsave is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ottdsave is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ottdsave.  If not, see <https://www.gnu.org/licenses/>.

// Package linkgraph projects a decoded LGRP chunk into the per-cargo
// weighted directed multigraph that OpenTTD's own link-graph code builds
// from it: each node's edge list is a sparse linked list over destination
// columns (threaded through next_edge, rather than stored densely), so
// walking it calls for the same linked-list traversal the game uses
// rather than a plain index scan.
package linkgraph

import (
	"fmt"

	"github.com/openttd-tools/ottdsave"
)

// Edge is one directed, non-zero-capacity flow between two stations for a
// given cargo.
type Edge struct {
	Cargo    int64
	From     int64
	To       int64
	Capacity int64
	Usage    int64
}

// Project walks every record in an LGRP chunk's record set and returns the
// flattened list of edges described by each record's node/edge lists.
//
// Record and field layout is exactly what the table-chunk decoder
// produces for LGRP: a "cargo" scalar, a "nodes" list of records each
// carrying "station" and an "edges" list of records each carrying
// "capacity", "usage", and "next_edge".
func Project(records *ottdsave.RecordSet) ([]Edge, error) {
	var edges []Edge
	for _, id := range records.Keys() {
		rec, _ := records.Get(id)
		graphEdges, err := projectRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("project LGRP record %s: %w", id, err)
		}
		edges = append(edges, graphEdges...)
	}
	return edges, nil
}

func projectRecord(rec ottdsave.Record) ([]Edge, error) {
	cargo, err := intField(rec, "cargo")
	if err != nil {
		return nil, err
	}

	nodesVal, ok := rec["nodes"]
	if !ok {
		return nil, fmt.Errorf("missing %q field", "nodes")
	}
	nodes, ok := nodesVal.([]ottdsave.Value)
	if !ok {
		return nil, fmt.Errorf("%q field is not a list", "nodes")
	}

	type node struct {
		station int64
		edges   []edgeEntry
	}
	parsed := make([]node, len(nodes))
	for i, nv := range nodes {
		nodeRec, ok := nv.(ottdsave.Record)
		if !ok {
			return nil, fmt.Errorf("node %d is not a record", i)
		}
		station, err := intField(nodeRec, "station")
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		edgeEntries, err := parseEdges(nodeRec)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		parsed[i] = node{station: station, edges: edgeEntries}
	}

	var result []Edge
	for i := range parsed {
		origin := parsed[i]
		if len(origin.edges) == 0 {
			continue
		}
		visited := make([]bool, len(origin.edges))
		current := i
		for {
			if current < 0 || current >= len(origin.edges) {
				return nil, fmt.Errorf("node %d: next_edge index %d out of range", i, current)
			}
			next := int(origin.edges[current].nextEdge)
			if next == i {
				break
			}
			if next < 0 || next >= len(origin.edges) || next >= len(parsed) {
				return nil, fmt.Errorf("node %d: next_edge index %d out of range", i, next)
			}
			if visited[next] {
				return nil, fmt.Errorf("node %d: next_edge chain cycles at index %d without returning to origin", i, next)
			}
			visited[next] = true
			current = next
			e := origin.edges[current]
			if e.capacity == 0 {
				continue
			}
			result = append(result, Edge{
				Cargo:    cargo,
				From:     origin.station,
				To:       parsed[current].station,
				Capacity: e.capacity,
				Usage:    e.usage,
			})
		}
	}
	return result, nil
}

type edgeEntry struct {
	capacity int64
	usage    int64
	nextEdge int64
}

func parseEdges(nodeRec ottdsave.Record) ([]edgeEntry, error) {
	edgesVal, ok := nodeRec["edges"]
	if !ok {
		return nil, fmt.Errorf("missing %q field", "edges")
	}
	rawEdges, ok := edgesVal.([]ottdsave.Value)
	if !ok {
		return nil, fmt.Errorf("%q field is not a list", "edges")
	}

	entries := make([]edgeEntry, len(rawEdges))
	for i, ev := range rawEdges {
		edgeRec, ok := ev.(ottdsave.Record)
		if !ok {
			return nil, fmt.Errorf("edge %d is not a record", i)
		}
		capacity, err := intField(edgeRec, "capacity")
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		usage, err := intField(edgeRec, "usage")
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		nextEdge, err := intField(edgeRec, "next_edge")
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		entries[i] = edgeEntry{capacity: capacity, usage: usage, nextEdge: nextEdge}
	}
	return entries, nil
}

// intField extracts field name from rec as an int64, accepting either of
// the two integer representations readField produces (int64 for signed
// field types, uint64 for unsigned ones).
func intField(rec ottdsave.Record, name string) (int64, error) {
	v, ok := rec[name]
	if !ok {
		return 0, fmt.Errorf("missing %q field", name)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%q field has unexpected type %T", name, v)
	}
}
