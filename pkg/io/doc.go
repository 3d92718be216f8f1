// Package io provides JSON import and export for hierarchy graphs.
//
// # Overview
//
// hierarchytrix uses a simple JSON format as its interchange format for
// graph instances: a rooted cluster hierarchy plus a set of non-tree
// "bottom" edges between leaves.
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": "root", "parent": null, "type": "root"},
//	    {"id": "a", "parent": "root", "type": "cluster"},
//	    {"id": "a1", "parent": "a", "type": "leaf"},
//	    {"id": "a2", "parent": "a", "type": "leaf"}
//	  ],
//	  "edges": [
//	    {"source": "a1", "target": "a2"}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: unique string identifier
//
// Optional:
//   - parent: the parent node's id, omitted or null for the root
//   - type: "root", "cluster", "leaf", or "node" (defaults to "node"; leafness
//     is always derived from structure, never trusted from this field)
//   - meta: freeform object for arbitrary metadata
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate the decoded graph with
// [hierarchy.Graph.Validate] before returning it:
//
//	g, err := io.ImportJSON("instance.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to
// any io.Writer:
//
//	err := io.ExportJSON(g, "output.json")
package io
