package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Imports subject sheets, manages slot locks and generates weekly timetables for every student group.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Datasets", "description": "Scheduling inputs: subjects and building order"},
        {"name": "Locks", "description": "Slots reserved before any subject is placed"},
        {"name": "Timetables", "description": "Generated weekly tables and exports"}
    ],
    "paths": {
        "/datasets/import": {
            "post": {
                "tags": ["Datasets"],
                "summary": "Import a dataset from a published Google Sheet",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportDatasetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Sheet could not be parsed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Sheet could not be fetched", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/datasets": {
            "get": {
                "tags": ["Datasets"],
                "summary": "List datasets",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Datasets"],
                "summary": "Create a dataset from inline subjects",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDatasetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/datasets/{id}": {
            "get": {
                "tags": ["Datasets"],
                "summary": "Get a dataset",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Datasets"],
                "summary": "Delete a dataset with its locks (ADMIN)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/datasets/{id}/subjects": {
            "get": {
                "tags": ["Datasets"],
                "summary": "List the subject rows of a dataset",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/datasets/{id}/locks": {
            "get": {
                "tags": ["Locks"],
                "summary": "List locks",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Locks"],
                "summary": "Reserve a slot for some or all groups",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLockRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid lock", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/datasets/{id}/locks/{lockId}": {
            "delete": {
                "tags": ["Locks"],
                "summary": "Remove a lock",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "lockId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/datasets/{id}/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate the timetables of a dataset",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Run interrupted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/datasets/{id}/timetables/export": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Download timetables as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]},
                    {"name": "group", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        },
        "/datasets/{id}/timetables/{group}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get one group's timetable",
                "description": "Group ids contain slashes and must be URL encoded.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "group", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown group", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ImportDatasetRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "sheetUrl": {"type": "string"},
                "subjectGid": {"type": "string"},
                "buildingGid": {"type": "string"},
                "refresh": {"type": "boolean"}
            },
            "required": ["name", "sheetUrl", "subjectGid"]
        },
        "SubjectInput": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "credit": {"type": "number"},
                "teacher": {"type": "string"},
                "weight": {"type": "number"},
                "group": {"type": "string"},
                "actualRooms": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["code", "group"]
        },
        "BuildingInput": {
            "type": "object",
            "properties": {
                "letter": {"type": "string"},
                "number": {"type": "integer"}
            },
            "required": ["letter"]
        },
        "CreateDatasetRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/SubjectInput"}},
                "buildings": {"type": "array", "items": {"$ref": "#/definitions/BuildingInput"}}
            },
            "required": ["name", "subjects"]
        },
        "CreateLockRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "rooms": {"type": "string", "example": "ม.4/1-3"},
                "day": {"type": "string", "example": "จันทร์"},
                "periods": {"type": "string", "example": "1-3,5"}
            },
            "required": ["name", "rooms", "day", "periods"]
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "groups": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
