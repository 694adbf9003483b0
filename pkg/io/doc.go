// Package io provides JSON import and export for reconciled dependency
// graphs.
//
// # JSON Format
//
// The format has two required top-level arrays and an optional graph
// metadata object:
//
//	{
//	  "meta": {"module": ":app"},
//	  "nodes": [
//	    {"id": ":app", "kind": "root"},
//	    {"id": "com.example:util:3.0.+", "meta": {"promoted": true}},
//	    {"id": "com.example:util:3.2.1"},
//	    {"id": ":lib", "kind": "module"}
//	  ],
//	  "edges": [
//	    {"from": ":app", "to": "com.example:util:3.0.+"},
//	    {"from": "com.example:util:3.0.+", "to": "com.example:util:3.2.1", "meta": {"promotion": true}},
//	    {"from": ":app", "to": ":lib"}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: coordinate text for libraries, module path for modules and the root
//
// Optional:
//   - kind: "root" or "module" (libraries omit it)
//   - meta: freeform object; the engine writes containers, declared,
//     resolved, promoted, version, declared_version, message, dangling and
//     target_variants
//
// # Import and Export
//
// [WriteJSON] and [ExportJSON] write a graph; [ReadJSON] and [ImportJSON]
// read one back and reject duplicate IDs and unknown edge endpoints.
// A round trip preserves node kinds, metadata and edge metadata.
package io
