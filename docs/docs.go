// Package docs holds the swagger spec served at /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/tests": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tests"],
                "summary": "List tests",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tests"],
                "summary": "Create a test",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/tests/{testID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tests"],
                "summary": "Get a test with derived totals",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["tests"],
                "summary": "Delete a test and everything it owns",
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/tests/{testID}/mark-scheme": {
            "get": {
                "produces": ["application/json"],
                "tags": ["mark-scheme"],
                "summary": "Mark-scheme entries ordered by question number",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["mark-scheme"],
                "summary": "Upload a mark scheme (replaces the existing one)",
                "responses": {"200": {"description": "OK"}, "422": {"description": "Row or mapping error"}}
            }
        },
        "/tests/{testID}/pages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Pages in capture order",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Capture an answer-sheet page",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/tests/{testID}/pages/{pageID}/process": {
            "post": {
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Extract answers from one page via the vision model",
                "responses": {"200": {"description": "OK"}, "502": {"description": "Extraction failed"}}
            }
        },
        "/tests/{testID}/process": {
            "post": {
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Extract answers from all pending pages, in page order",
                "responses": {"200": {"description": "OK"}, "502": {"description": "Extraction failed"}}
            }
        },
        "/tests/{testID}/score": {
            "post": {
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "Score the test and record the result",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tests/{testID}/result": {
            "get": {
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "Current result for the test",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tests/{testID}/result/details": {
            "get": {
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "Per-question breakdown, recomputed from the current mark scheme",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tests/{testID}/export": {
            "get": {
                "produces": ["application/json"],
                "tags": ["export"],
                "summary": "JSON export of mark scheme, result and breakdown",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tests/{testID}/export/pdf": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["export"],
                "summary": "PDF results sheet",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Intellimark API",
	Description:      "Grade photographed multiple-choice answer sheets against an uploaded mark scheme.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
