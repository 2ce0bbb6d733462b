package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "NexPlan API",
        "description": "Personal calendar with AI-assisted event extraction",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Events", "description": "Calendar event management"},
        {"name": "Calendar", "description": "View navigation"},
        {"name": "Assistant", "description": "AI draft reconciliation"},
        {"name": "Imports", "description": "External event sources"},
        {"name": "Export", "description": "Agenda downloads"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Create event",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/events/conflicts": {
            "get": {
                "tags": ["Events"],
                "summary": "Probe a time range for overlaps",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"},
                    {"name": "exclude", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Get event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Events"],
                "summary": "Update event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Events"],
                "summary": "Delete event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/events/{id}/move": {
            "post": {
                "tags": ["Events"],
                "summary": "Reschedule an event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/calendar/navigate": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Step the displayed date",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "view", "in": "query", "required": true, "type": "string", "enum": ["Day", "Month", "Year"]},
                    {"name": "direction", "in": "query", "type": "string", "enum": ["next", "prev"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/assistant/submissions": {
            "post": {
                "tags": ["Assistant"],
                "summary": "Submit content for event extraction",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Submission already in progress"},
                    "502": {"description": "Extraction failed"}
                }
            }
        },
        "/api/v1/assistant/session": {
            "get": {
                "tags": ["Assistant"],
                "summary": "Get the current session snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Assistant"],
                "summary": "Discard the session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/assistant/drafts/{index}": {
            "patch": {
                "tags": ["Assistant"],
                "summary": "Edit one draft",
                "parameters": [
                    {"name": "index", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DraftPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Assistant"],
                "summary": "Remove one draft",
                "parameters": [
                    {"name": "index", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/assistant/confirm": {
            "post": {
                "tags": ["Assistant"],
                "summary": "Commit all remaining drafts",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/imports/classroom": {
            "post": {
                "tags": ["Imports"],
                "summary": "Schedule a classroom assignment import",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/export/agenda.ics": {
            "get": {
                "tags": ["Export"],
                "summary": "Download ICS feed",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/export/agenda.csv": {
            "get": {
                "tags": ["Export"],
                "summary": "Download CSV agenda",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/export/agenda.pdf": {
            "get": {
                "tags": ["Export"],
                "summary": "Download PDF agenda",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "category": {"type": "string", "enum": ["Business", "Student", "Personal", "Other"]},
                "color": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "source": {"type": "string", "enum": ["user", "ai", "classroom-import"]}
            }
        },
        "SaveEventRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "category": {"type": "string"},
                "color": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"}
            },
            "required": ["title", "start", "end"]
        },
        "MoveEventRequest": {
            "type": "object",
            "properties": {
                "anchor": {"type": "string"},
                "granularity": {"type": "string", "enum": ["date", "time"]}
            },
            "required": ["anchor"]
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "attachment": {"$ref": "#/definitions/AttachmentPayload"},
                "reference_time": {"type": "string"}
            }
        },
        "AttachmentPayload": {
            "type": "object",
            "properties": {
                "mime_type": {"type": "string"},
                "base64_data": {"type": "string"}
            },
            "required": ["mime_type", "base64_data"]
        },
        "DraftPatch": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "category": {"type": "string"},
                "color": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"}
            }
        },
        "SessionView": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["idle", "submitting", "drafted", "errored"]},
                "judgement": {"$ref": "#/definitions/Judgement"},
                "drafts": {"type": "array", "items": {"$ref": "#/definitions/DraftView"}},
                "error": {"type": "string"}
            }
        },
        "DraftView": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "draft": {"$ref": "#/definitions/Event"},
                "conflict": {"type": "boolean"}
            }
        },
        "Judgement": {
            "type": "object",
            "properties": {
                "confidence_score": {"type": "integer"},
                "reasoning": {"type": "string"},
                "ambiguity_detected": {"type": "boolean"},
                "suggestions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
