// Package docs registers the OpenAPI description served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/users/register": {"post": {"tags": ["users"], "summary": "Register a student account", "responses": {"201": {"description": "Token pair"}, "400": {"description": "Validation error"}}}},
        "/users/token": {"post": {"tags": ["users"], "summary": "Obtain a token pair", "responses": {"200": {"description": "Token pair"}, "401": {"description": "Invalid credentials"}}}},
        "/users/token/refresh": {"post": {"tags": ["users"], "summary": "Refresh an access token", "responses": {"200": {"description": "Access token"}}}},
        "/users/token/verify": {"post": {"tags": ["users"], "summary": "Verify a token", "responses": {"200": {"description": "Valid"}}}},
        "/users/google/login": {"post": {"tags": ["users"], "summary": "Sign in with Google", "responses": {"200": {"description": "Token pair"}}}},
        "/users/logout": {"post": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "Revoke a refresh token", "responses": {"200": {"description": "Logged out"}}}},
        "/users/profile": {
            "get": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "Current profile", "responses": {"200": {"description": "Profile"}}},
            "patch": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "Update profile", "responses": {"200": {"description": "Profile"}}},
            "delete": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "Delete account", "responses": {"204": {"description": "Deleted"}}}
        },
        "/users/codes/redeem": {"post": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "Redeem an access code", "responses": {"200": {"description": "Redeemed"}, "400": {"description": "Invalid or used code"}}}},
        "/courses": {
            "get": {"tags": ["courses"], "summary": "List courses", "responses": {"200": {"description": "Courses"}}},
            "post": {"tags": ["courses"], "security": [{"BearerAuth": []}], "summary": "Create a course", "responses": {"201": {"description": "Course"}}}
        },
        "/courses/{name}/themes": {
            "get": {"tags": ["courses"], "summary": "Course with its themes", "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Themes"}}},
            "post": {"tags": ["courses"], "security": [{"BearerAuth": []}], "summary": "Create a theme", "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Theme"}}}
        },
        "/courses/{name}/themes/{theme}/lessons/{lessonID}": {
            "get": {"tags": ["courses"], "summary": "Lesson with materials", "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}, {"name": "theme", "in": "path", "required": true, "type": "string"}, {"name": "lessonID", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Lesson"}, "403": {"description": "Prime lesson not bought"}}}
        },
        "/quizzes": {
            "get": {"tags": ["quizzes"], "summary": "List quizzes", "responses": {"200": {"description": "Quizzes"}}},
            "post": {"tags": ["quizzes"], "security": [{"BearerAuth": []}], "summary": "Create a quiz", "responses": {"201": {"description": "Quiz"}}}
        },
        "/quizzes/{id}/questions": {"get": {"tags": ["quizzes"], "summary": "Quiz overview with weekly results", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Overview"}}}},
        "/quizzes/{id}/answers/{questionID}": {"post": {"tags": ["quizzes"], "security": [{"BearerAuth": []}], "summary": "Toggle a pending answer", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "questionID", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Removed"}, "201": {"description": "Recorded"}}}},
        "/quizzes/results/{id}": {"post": {"tags": ["quizzes"], "security": [{"BearerAuth": []}], "summary": "Score pending answers", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Total score"}}}},
        "/ai-quiz/{quizID}": {"post": {"tags": ["quizzes"], "security": [{"BearerAuth": []}], "summary": "Draft questions with Gemini", "parameters": [{"name": "quizID", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Drafted questions"}}}}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Natije API",
	Description:      "Courses, lessons and quizzes for the Natije learning platform.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
