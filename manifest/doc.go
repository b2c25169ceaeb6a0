// Package manifest loads declarative YAML route manifests into a dispatch
// engine. A manifest names routes, their parameter declarations and their
// success statuses; handler functions are resolved by name through a
// Registry populated at startup, so the mapping stays explicit with no
// reflection-based discovery.
//
//	routes:
//	  - method: POST
//	    path: /api/calculate
//	    handler: calculate
//	    params:
//	      - {name: operand1, in: field, type: int}
//	      - {name: operator, in: field, type: string}
//	      - {name: operand2, in: field, type: int}
//	  - method: DELETE
//	    path: /api/resource/{id}
//	    handler: deleteResource
//	    status: 204
//	    params:
//	      - {name: id, in: path, type: int}
//
// Load and apply:
//
//	doc, err := manifest.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := doc.Apply(e, manifest.Registry{
//	    "calculate":      calculateHandler,
//	    "deleteResource": deleteHandler,
//	}); err != nil {
//	    log.Fatal(err)
//	}
//
// Describe performs the reverse direction for inspection: it builds a
// manifest document from an engine's registered routes.
package manifest
