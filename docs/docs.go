// Package docs holds the OpenAPI document served by the API.
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
        "/oauth/login/": {
            "get": {
                "tags": ["OAuth"],
                "summary": "Start Quran Foundation sign-in",
                "parameters": [
                    {"type": "string", "name": "redirect_uri", "in": "query", "required": true, "description": "Frontend page to return to"}
                ],
                "responses": {
                    "302": {"description": "Redirect to the authorization endpoint"},
                    "503": {"description": "Quran Foundation credentials are not configured", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/oauth/callback/": {
            "get": {
                "tags": ["OAuth"],
                "summary": "Authorization callback",
                "parameters": [
                    {"type": "string", "name": "code", "in": "query"},
                    {"type": "string", "name": "state", "in": "query"},
                    {"type": "string", "name": "error", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Redirect to the frontend with a one-time code or an error reason"}
                }
            }
        },
        "/oauth/exchange/": {
            "get": {
                "tags": ["OAuth"],
                "summary": "Redeem a one-time code",
                "parameters": [
                    {"type": "string", "name": "code", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Token set", "schema": {"$ref": "#/definitions/domain.TokenSet"}},
                    "400": {"description": "Invalid or expired code", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/oauth/me/": {
            "get": {
                "tags": ["OAuth"],
                "summary": "Session status",
                "responses": {
                    "200": {"description": "Signed in", "schema": {"$ref": "#/definitions/domain.SessionStatus"}},
                    "401": {"description": "Not signed in", "schema": {"$ref": "#/definitions/domain.SessionStatus"}}
                }
            }
        },
        "/oauth/logout/": {
            "post": {
                "tags": ["OAuth"],
                "summary": "Clear the OAuth session",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/register/": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a local account",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.UserSummary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/auth/token/": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in with email and password",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/auth/token/refresh/": {
            "post": {
                "tags": ["Auth"],
                "summary": "Refresh an access token",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/auth/logout/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Log out",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}}}
            }
        },
        "/auth/me/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UserSummary"}}}
            }
        },
        "/auth/bookmarks/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Bookmarks"],
                "summary": "List bookmarks",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Bookmark"}}}}
            }
        },
        "/auth/bookmarks/create/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Bookmarks"],
                "summary": "Create or update a bookmark",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.CreateBookmarkRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/domain.Bookmark"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Bookmark"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/auth/bookmarks/{verse_key}/": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Bookmarks"],
                "summary": "Delete a bookmark",
                "parameters": [
                    {"type": "string", "name": "verse_key", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/chapters/": {
            "get": {
                "tags": ["Content"],
                "summary": "List chapters",
                "parameters": [{"type": "string", "default": "en", "name": "language", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}}
            }
        },
        "/chapters/{id}/": {
            "get": {
                "tags": ["Content"],
                "summary": "Chapter metadata",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "default": "en", "name": "language", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}}
            }
        },
        "/chapters/{id}/verses/": {
            "get": {
                "tags": ["Content"],
                "summary": "Verses of a chapter",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "default": "131", "name": "translations", "in": "query"},
                    {"type": "integer", "default": 1, "name": "audio", "in": "query"},
                    {"type": "boolean", "name": "words", "in": "query"},
                    {"type": "string", "name": "tafsirs", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "per_page", "in": "query"},
                    {"type": "boolean", "name": "tajweed", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}}
            }
        },
        "/juzs/": {
            "get": {"tags": ["Content"], "summary": "List juzs", "responses": {"200": {"description": "OK"}}}
        },
        "/juzs/{number}/verses/": {
            "get": {
                "tags": ["Content"],
                "summary": "Verses of a juz",
                "parameters": [
                    {"type": "integer", "name": "number", "in": "path", "required": true},
                    {"type": "string", "default": "131", "name": "translations", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "per_page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/pages/{number}/verses/": {
            "get": {
                "tags": ["Content"],
                "summary": "Verses of a mushaf page",
                "parameters": [
                    {"type": "integer", "name": "number", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}}
            }
        },
        "/verses/by_key/{key}/": {
            "get": {
                "tags": ["Content"],
                "summary": "One verse",
                "parameters": [{"type": "string", "name": "key", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/translations/": {
            "get": {"tags": ["Content"], "summary": "Available translations", "responses": {"200": {"description": "OK"}}}
        },
        "/recitations/": {
            "get": {"tags": ["Content"], "summary": "Available reciters", "responses": {"200": {"description": "OK"}}}
        },
        "/tafsirs/": {
            "get": {"tags": ["Content"], "summary": "Available tafsirs", "responses": {"200": {"description": "OK"}}}
        },
        "/tafsirs/{id}/": {
            "get": {
                "tags": ["Content"],
                "summary": "Tafsir for a verse or chapter",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "verse_key", "in": "query"},
                    {"type": "integer", "name": "chapter_number", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}}
            }
        },
        "/search/": {
            "get": {
                "tags": ["Content"],
                "summary": "Full-text search",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "size", "in": "query"},
                    {"type": "string", "default": "en", "name": "language", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string", "example": "invalid request body"}}
        },
        "http.StatusResponse": {
            "type": "object",
            "properties": {"status": {"type": "string", "example": "ok"}}
        },
        "domain.TokenSet": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "id_token": {"type": "string"},
                "expires_in": {"type": "integer"}
            }
        },
        "domain.SessionStatus": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "access_token": {"type": "string"},
                "id_token": {"type": "string"}
            }
        },
        "domain.RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "domain.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "domain.RefreshRequest": {
            "type": "object",
            "properties": {"refresh_token": {"type": "string"}}
        },
        "domain.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "expires_at": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.UserSummary"}
            }
        },
        "domain.UserSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "active": {"type": "boolean"},
                "created_at": {"type": "string"},
                "last_login_at": {"type": "string"}
            }
        },
        "domain.CreateBookmarkRequest": {
            "type": "object",
            "properties": {
                "verse_key": {"type": "string", "example": "2:255"},
                "chapter_id": {"type": "integer"},
                "verse_number": {"type": "integer"},
                "text_preview": {"type": "string"}
            }
        },
        "domain.Bookmark": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "verse_key": {"type": "string"},
                "chapter_id": {"type": "integer"},
                "verse_number": {"type": "integer"},
                "text_preview": {"type": "string"},
                "created_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT Bearer token. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Quran BFF API",
	Description:      "Backend-for-frontend for a Quran reading app: Quran Foundation sign-in, local accounts, bookmarks and a cached content proxy.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
