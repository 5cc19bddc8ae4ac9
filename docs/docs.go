// Package docs registers the OpenAPI description served at /swagger/*any.
// The paths below are the route index; `swag init -g cmd/api/main.go -o docs` regenerates
// this file with the full schemas from the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new account", "responses": {"201": {"description": "Account created"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "Login successful"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Get current account", "responses": {"200": {"description": "Current account"}}}},
        "/organizations/members": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["organizations"], "summary": "List organizers", "responses": {"200": {"description": "Organizers"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["organizations"], "summary": "Add an organizer", "responses": {"200": {"description": "Organizer attached"}}}
        },
        "/organizations/members/{organizerId}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["organizations"], "summary": "Remove an organizer", "parameters": [{"type": "string", "name": "organizerId", "in": "path", "required": true}], "responses": {"200": {"description": "Organizer removed"}}}},
        "/organizations/mine": {"get": {"security": [{"BearerAuth": []}], "tags": ["organizations"], "summary": "List my organizations", "responses": {"200": {"description": "Organizations"}}}},
        "/competitions": {
            "get": {"tags": ["competitions"], "summary": "List competitions", "responses": {"200": {"description": "Competitions"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["competitions"], "summary": "Create a competition", "responses": {"201": {"description": "Competition created"}}}
        },
        "/competitions/{id}": {
            "get": {"tags": ["competitions"], "summary": "Get a competition", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Competition"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["competitions"], "summary": "Delete a competition", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Competition deleted"}}}
        },
        "/competitions/{id}/status": {"get": {"tags": ["competitions"], "summary": "Get competition status", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Status"}}}},
        "/competitions/{id}/applications": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["competitions"], "summary": "List competition applications", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Applications"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["applications"], "summary": "Apply to a competition", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Application submitted"}}}
        },
        "/applications/mine": {"get": {"security": [{"BearerAuth": []}], "tags": ["applications"], "summary": "List my applications", "responses": {"200": {"description": "Applications"}}}},
        "/applications/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["applications"], "summary": "Get an application", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Application"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["applications"], "summary": "Update an application", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Application updated"}}}
        },
        "/applications/{id}/qrcode": {"get": {"security": [{"BearerAuth": []}], "produces": ["image/png"], "tags": ["applications"], "summary": "Get application QR code", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "QR code image"}}}},
        "/health": {"get": {"tags": ["system"], "summary": "Health check", "responses": {"200": {"description": "ok"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT token for authorization",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "FormCo API",
	Description:      "Competition publishing, applications and attendance for student organizations",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
