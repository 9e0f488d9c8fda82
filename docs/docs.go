// Package docs registers the OpenAPI document served under /swagger.
//
// The template mirrors the godoc annotations on the handlers; regenerate it
// with `swag init -g cmd/server/main.go` after changing an endpoint.
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
        "/chapters": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Reader"],
                "summary": "List chapters",
                "operationId": "listChapters",
                "parameters": [
                    {"type": "string", "description": "Preferred languages", "name": "Accept-Language", "in": "header"},
                    {"type": "string", "description": "Overrides Accept-Language", "name": "lang", "in": "query"},
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListChaptersResponse"}},
                    "304": {"description": "Not Modified"}
                }
            }
        },
        "/chapters/{number}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Reader"],
                "summary": "Get a chapter",
                "operationId": "getChapter",
                "parameters": [
                    {"type": "integer", "maximum": 114, "minimum": 1, "description": "Chapter number", "name": "number", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.ChapterView"}},
                    "304": {"description": "Not Modified"},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Chapter not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/chapters/{number}/verses/{verse}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Reader"],
                "summary": "Get a verse",
                "operationId": "getVerse",
                "parameters": [
                    {"type": "integer", "maximum": 114, "minimum": 1, "description": "Chapter number", "name": "number", "in": "path", "required": true},
                    {"type": "integer", "minimum": 1, "description": "Verse number", "name": "verse", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/corpus.Verse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Chapter or verse not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/pages/{page}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Reader"],
                "summary": "Get a print page",
                "operationId": "getPage",
                "parameters": [
                    {"type": "integer", "minimum": 1, "description": "Page number", "name": "page", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.PageResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Page not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Search verses",
                "operationId": "searchVerses",
                "parameters": [
                    {"type": "string", "description": "User ID (demo header)", "name": "X-User-ID", "in": "header"},
                    {"type": "string", "description": "Search text", "name": "q", "in": "query"},
                    {"type": "integer", "maximum": 114, "minimum": 1, "description": "Restrict to a chapter", "name": "chapter", "in": "query"},
                    {"type": "integer", "minimum": 1, "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "maximum": 100, "minimum": 1, "default": 20, "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SearchResponse"}},
                    "400": {"description": "Bad request or query too long", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Chapter not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/highlight": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Highlight text",
                "operationId": "highlightText",
                "parameters": [
                    {"type": "string", "description": "Text to highlight", "name": "text", "in": "query", "required": true},
                    {"type": "string", "description": "Search text", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HighlightResponse"}},
                    "400": {"description": "Query too long", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/recent-searches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "List recent searches",
                "operationId": "listRecentSearches",
                "parameters": [
                    {"type": "string", "description": "User ID (demo header)", "name": "X-User-ID", "in": "header"},
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RecentSearchesResponse"}},
                    "304": {"description": "Not Modified"},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Search"],
                "summary": "Clear recent searches",
                "operationId": "clearRecentSearches",
                "parameters": [
                    {"type": "string", "description": "User ID (demo header)", "name": "X-User-ID", "in": "header"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/recent-searches/{query}": {
            "delete": {
                "tags": ["Search"],
                "summary": "Remove a recent search",
                "operationId": "deleteRecentSearch",
                "parameters": [
                    {"type": "string", "description": "User ID (demo header)", "name": "X-User-ID", "in": "header"},
                    {"type": "string", "description": "Query to remove", "name": "query", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not in the list", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/preferences": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Get reader preferences",
                "operationId": "getPreferences",
                "parameters": [
                    {"type": "string", "description": "User ID (demo header)", "name": "X-User-ID", "in": "header"},
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Preferences"}},
                    "304": {"description": "Not Modified"},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Update reader preferences",
                "operationId": "updatePreferences",
                "parameters": [
                    {"type": "string", "description": "User ID (demo header)", "name": "X-User-ID", "in": "header"},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdatePreferencesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Preferences"}},
                    "400": {"description": "Bad request or invalid value", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/preferences/font-size/increase": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Increase font size",
                "operationId": "increaseFontSize",
                "parameters": [
                    {"type": "string", "description": "User ID (demo header)", "name": "X-User-ID", "in": "header"},
                    {"type": "string", "description": "Replay key", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Preferences"}},
                    "400": {"description": "Invalid Idempotency-Key", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/preferences/font-size/decrease": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Decrease font size",
                "operationId": "decreaseFontSize",
                "parameters": [
                    {"type": "string", "description": "User ID (demo header)", "name": "X-User-ID", "in": "header"},
                    {"type": "string", "description": "Replay key", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Preferences"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/preferences/display-mode/toggle": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Toggle display mode",
                "operationId": "toggleDisplayMode",
                "parameters": [
                    {"type": "string", "description": "User ID (demo header)", "name": "X-User-ID", "in": "header"},
                    {"type": "string", "description": "Replay key", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Preferences"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/preferences/ui-visible/toggle": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Toggle UI visibility",
                "operationId": "toggleUIVisible",
                "parameters": [
                    {"type": "string", "description": "User ID (demo header)", "name": "X-User-ID", "in": "header"},
                    {"type": "string", "description": "Replay key", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Preferences"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "corpus.Verse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "chapter_number": {"type": "integer"},
                "chapter_name_native": {"type": "string"},
                "chapter_name_latin": {"type": "string"},
                "page_number": {"type": "integer"},
                "verse_number": {"type": "integer"},
                "text": {"type": "string"}
            }
        },
        "domain.Preferences": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "font_size": {"type": "integer", "minimum": 18, "maximum": 40},
                "font_type": {"type": "string", "enum": ["warsh", "qaloun"]},
                "display_mode": {"type": "string", "enum": ["continuous", "separate"]},
                "ui_visible": {"type": "boolean"},
                "last_chapter": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.RecentSearch": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "query": {"type": "string"},
                "searched_at": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.HighlightResponse": {
            "type": "object",
            "properties": {
                "segments": {"type": "array", "items": {"$ref": "#/definitions/search.TextSegment"}}
            }
        },
        "handlers.ListChaptersResponse": {
            "type": "object",
            "properties": {
                "chapters": {"type": "array", "items": {"$ref": "#/definitions/services.ChapterSummary"}}
            }
        },
        "handlers.PageResponse": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "verses": {"type": "array", "items": {"$ref": "#/definitions/corpus.Verse"}}
            }
        },
        "handlers.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        },
        "handlers.RecentSearchesResponse": {
            "type": "object",
            "properties": {
                "recent_searches": {"type": "array", "items": {"$ref": "#/definitions/domain.RecentSearch"}}
            }
        },
        "handlers.SearchResponse": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/services.SearchHit"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "handlers.UpdatePreferencesRequest": {
            "type": "object",
            "properties": {
                "font_size": {"type": "integer", "example": 28},
                "font_type": {"type": "string", "example": "warsh"},
                "display_mode": {"type": "string", "example": "separate"},
                "ui_visible": {"type": "boolean", "example": true},
                "last_chapter": {"type": "integer", "example": 2}
            }
        },
        "search.TextSegment": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "is_highlighted": {"type": "boolean"}
            }
        },
        "services.ChapterSummary": {
            "type": "object",
            "properties": {
                "number": {"type": "integer"},
                "name_native": {"type": "string"},
                "name_latin": {"type": "string"},
                "display_name": {"type": "string"},
                "verse_count": {"type": "integer"},
                "first_page": {"type": "integer"}
            }
        },
        "services.ChapterView": {
            "type": "object",
            "properties": {
                "number": {"type": "integer"},
                "name_native": {"type": "string"},
                "name_latin": {"type": "string"},
                "display_name": {"type": "string"},
                "verse_count": {"type": "integer"},
                "first_page": {"type": "integer"},
                "verses": {"type": "array", "items": {"$ref": "#/definitions/corpus.Verse"}},
                "prev": {"type": "integer"},
                "next": {"type": "integer"}
            }
        },
        "services.SearchHit": {
            "type": "object",
            "properties": {
                "verse": {"$ref": "#/definitions/corpus.Verse"},
                "segments": {"type": "array", "items": {"$ref": "#/definitions/search.TextSegment"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Mushaf Reader API",
	Description:      "Chapters, pages, diacritic-insensitive verse search and per-user reader preferences.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
