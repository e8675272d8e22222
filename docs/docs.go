// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

// Package docs holds the generated OpenAPI description of the CoMoLive API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/comolive/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/artifacts/{name}": {
            "get": {
                "description": "Streams a cached plot image or vector file.",
                "produces": ["image/jpeg", "application/postscript"],
                "tags": ["Artifacts"],
                "summary": "Download a rendered artifact",
                "parameters": [
                    {"type": "string", "description": "Artifact file name (key plus extension)", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "No such artifact", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports cache writability, render tool readiness and per-route latency.",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "Service is alive", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Service is ready", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Service is not ready", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/nodes/{node}/modules": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Nodes"],
                "summary": "List a node's modules",
                "parameters": [
                    {"type": "string", "description": "Node address", "name": "node", "in": "path", "required": true},
                    {"type": "string", "description": "Only modules offering this format", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Node unreachable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/nodes/{node}/navigate": {
            "get": {
                "description": "Computes the window reached by a zoom or pan action.",
                "produces": ["application/json"],
                "tags": ["Nodes"],
                "summary": "Navigate a time window",
                "parameters": [
                    {"type": "string", "description": "Node address", "name": "node", "in": "path", "required": true},
                    {"enum": ["zoom_in", "zoom_out", "forward", "backward", "until_now"], "type": "string", "description": "Navigation action", "name": "action", "in": "query", "required": true},
                    {"type": "integer", "description": "Window start (epoch seconds)", "name": "start", "in": "query", "required": true},
                    {"type": "integer", "description": "Window end (epoch seconds)", "name": "end", "in": "query", "required": true},
                    {"type": "string", "description": "Bound backward moves by this module's earliest data", "name": "module", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Node unreachable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/nodes/{node}/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Nodes"],
                "summary": "Node status",
                "parameters": [
                    {"type": "string", "description": "Node address", "name": "node", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid node", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Node unreachable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/query": {
            "get": {
                "description": "Fetches module output from a CoMo node, renders plots and caches the result.",
                "produces": ["application/json"],
                "tags": ["Query"],
                "summary": "Query a module",
                "parameters": [
                    {"type": "string", "description": "Node address (host:port or port)", "name": "node", "in": "query", "required": true},
                    {"type": "string", "description": "Module name", "name": "module", "in": "query", "required": true},
                    {"enum": ["gnuplot", "html", "plain", "pretty", "sidebox"], "type": "string", "default": "gnuplot", "description": "Output format", "name": "format", "in": "query"},
                    {"type": "integer", "description": "Window start (epoch seconds)", "name": "start", "in": "query"},
                    {"type": "integer", "description": "Window end (epoch seconds)", "name": "end", "in": "query"},
                    {"type": "string", "description": "Packet filter overriding the module's", "name": "filter", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "description": "Top-N entries for top-list modules", "name": "topn", "in": "query"},
                    {"type": "string", "description": "Restrict to a destination IP or prefix", "name": "ip", "in": "query"},
                    {"type": "boolean", "description": "Use the BLINC view of top-list modules", "name": "blincview", "in": "query"},
                    {"type": "boolean", "description": "Return the artifact bytes instead of JSON", "name": "raw", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "204": {"description": "Empty plot with raw=1"},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "403": {"description": "Node not allowed", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "502": {"description": "Module unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Node unreachable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true},
                "message": {"type": "string"}
            }
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/models.APIError"},
                "metadata": {"$ref": "#/definitions/models.Metadata"},
                "status": {"type": "string"}
            }
        },
        "models.Metadata": {
            "type": "object",
            "properties": {
                "cached": {"type": "boolean"},
                "query_time_ms": {"type": "integer"},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3860",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "CoMoLive API",
	Description:      "Query, plot and cache service for CoMo traffic monitoring nodes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
