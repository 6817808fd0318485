package web

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"
)

// requestSchemas maps the public schema names to the request bodies they describe.
var requestSchemas = map[string]any{
	"venda":          saleCreateBody{},
	"venda-update":   saleUpdateBody{},
	"categoria":      categoryBody{},
	"produto":        productCreateBody{},
	"produto-update": productUpdateBody{},
	"cliente":        customerCreateBody{},
	"cliente-update": customerUpdateBody{},
}

// reflectSchema builds a self-contained JSON Schema for v that rejects unknown fields,
// matching the strict decoding done by decodeJSON.
func reflectSchema(v any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(v)
}

// apiListSchemas handles GET /api/v1/schemas.
func (h *Handler) apiListSchemas(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(requestSchemas))
	for name := range requestSchemas {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, names)
}

// apiGetSchema handles GET /api/v1/schemas/{name}.
func (h *Handler) apiGetSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	v, ok := requestSchemas[name]
	if !ok {
		writeError(w, r, "schema "+name+": not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_ = json.NewEncoder(w).Encode(reflectSchema(v))
}
