// Package swagger embeds the OpenAPI document served under /swagger.
package swagger

import _ "embed"

// FileName is the path segment the document is served at.
const FileName = "usuarios.swagger.json"

//go:embed usuarios.swagger.json
var Document []byte
