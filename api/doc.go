// Package api defines the request and response shapes of the FlowCanvas
// HTTP API.
//
// # API Overview
//
// FlowCanvas provides a RESTful API for:
//   - Flow document state: export, validate, import/merge
//   - Canvas editing: nodes, edges, ordering moves
//   - Handoff target listing and reordering
//   - Document change events over WebSocket
//   - Health monitoring and metrics
//
// # Authentication
//
// When auth is enabled, endpoints accept either the X-API-Key header:
//
//	X-API-Key: your-api-key
//
// or a Bearer JWT:
//
//	Authorization: Bearer <token>
//
// # Base URL
//
// The default base URL for the API is:
//
//	http://localhost:8080
package api
