package spec

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// preprocessV2ForCompatibility rewrites Swagger 2.0 operations that kin's
// converter rejects:
//   - several body parameters are merged into one object-typed body;
//   - body mixed with formData is turned into formData, and the operation
//     is marked as consuming multipart/form-data.
//
// On error the original bytes are returned with modified=false.
func preprocessV2ForCompatibility(data []byte) ([]byte, bool, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return data, false, err
	}
	modified := false
	eachV2Operation(doc, func(_, _ string, op map[string]any) {
		params, ok := op["parameters"].([]any)
		if !ok || len(params) == 0 {
			return
		}
		bodyCount, hasFormData := 0, false
		for _, p := range params {
			pm, _ := p.(map[string]any)
			switch strings.ToLower(asString(pm["in"])) {
			case "body":
				bodyCount++
			case "formdata":
				hasFormData = true
			}
		}
		switch {
		case bodyCount == 0:
		case hasFormData:
			op["parameters"] = bodyParamsToFormData(params)
			var consumes []any
			if c, ok := op["consumes"].([]any); ok {
				consumes = c
			}
			if !containsString(consumes, "multipart/form-data") {
				op["consumes"] = append(consumes, "multipart/form-data")
			}
			modified = true
		case bodyCount > 1:
			op["parameters"] = mergeBodyParams(params)
			modified = true
		}
	})
	if !modified {
		return data, false, nil
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return data, false, err
	}
	return out, true, nil
}

// eachV2Operation calls fn for every operation object under paths.
func eachV2Operation(doc map[string]any, fn func(path, method string, op map[string]any)) {
	paths, _ := doc["paths"].(map[string]any)
	for path, item := range paths {
		pi, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for method, raw := range pi {
			ml := strings.ToLower(method)
			switch ml {
			case "get", "post", "put", "delete", "patch", "options", "head":
			default:
				continue
			}
			if op, ok := raw.(map[string]any); ok {
				fn(path, ml, op)
			}
		}
	}
}

func bodyParamsToFormData(params []any) []any {
	out := make([]any, 0, len(params))
	for _, p := range params {
		pm, _ := p.(map[string]any)
		if pm == nil {
			continue
		}
		if strings.EqualFold(asString(pm["in"]), "body") {
			out = append(out, formDataFromBodyParam(pm))
			continue
		}
		out = append(out, pm)
	}
	return out
}

func mergeBodyParams(params []any) []any {
	props := map[string]any{}
	var required []any
	rest := make([]any, 0, len(params))
	for _, p := range params {
		pm, _ := p.(map[string]any)
		if pm == nil {
			continue
		}
		if !strings.EqualFold(asString(pm["in"]), "body") {
			rest = append(rest, p)
			continue
		}
		name := asString(pm["name"])
		if name == "" {
			name = "field"
		}
		schema := extractSchemaFromParam(pm)
		if schema == nil {
			schema = map[string]any{"type": "string"}
		}
		props[name] = schema
		if rb, _ := pm["required"].(bool); rb {
			required = append(required, name)
		}
	}
	bodySchema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		bodySchema["required"] = required
	}
	merged := map[string]any{"in": "body", "name": "body", "schema": bodySchema}
	return append([]any{merged}, rest...)
}

// v2CollectionFormats returns collectionFormat values of formData parameters,
// keyed by operation ID ("<method> <path>") and parameter name. The v2->v3
// conversion folds formData into a multipart schema and loses them.
func v2CollectionFormats(raw []byte) map[string]map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	out := map[string]map[string]string{}
	eachV2Operation(doc, func(path, method string, op map[string]any) {
		params, _ := op["parameters"].([]any)
		for _, p := range params {
			pm, _ := p.(map[string]any)
			if !strings.EqualFold(asString(pm["in"]), "formData") {
				continue
			}
			cf := asString(pm["collectionFormat"])
			if cf == "" {
				continue
			}
			id := method + " " + path
			if out[id] == nil {
				out[id] = map[string]string{}
			}
			out[id][asString(pm["name"])] = cf
		}
	})
	return out
}

// yamlToJSON converts a YAML (or JSON) document to JSON, stringifying
// non-string mapping keys such as unquoted response codes.
func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(stringKeys(v))
}

func stringKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, elem := range val {
			val[k] = stringKeys(elem)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[fmt.Sprint(k)] = stringKeys(elem)
		}
		return out
	case []any:
		for i, elem := range val {
			val[i] = stringKeys(elem)
		}
		return val
	default:
		return v
	}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func containsString(list []any, want string) bool {
	for _, v := range list {
		if s, ok := v.(string); ok && s == want {
			return true
		}
	}
	return false
}

func extractSchemaFromParam(pm map[string]any) map[string]any {
	if sch, ok := pm["schema"].(map[string]any); ok {
		return sch
	}
	t, _ := pm["type"].(string)
	if t == "" {
		return nil
	}
	m := map[string]any{"type": t}
	if it, ok := pm["items"].(map[string]any); ok {
		m["items"] = it
	}
	if f, ok := pm["format"].(string); ok && f != "" {
		m["format"] = f
	}
	return m
}

func formDataFromBodyParam(pm map[string]any) map[string]any {
	name := asString(pm["name"])
	if name == "" {
		name = "field"
	}
	out := map[string]any{"in": "formData", "name": name}
	if desc := asString(pm["description"]); desc != "" {
		out["description"] = desc
	}
	if req, ok := pm["required"].(bool); ok {
		out["required"] = req
	}
	src := extractSchemaFromParam(pm)
	typ, format := asString(src["type"]), asString(src["format"])
	if typ == "" {
		// A referenced object cannot be expressed as a form field.
		typ = "string"
	}
	out["type"] = typ
	if items, ok := src["items"].(map[string]any); ok {
		out["items"] = items
	}
	if format != "" {
		out["format"] = format
	}
	return out
}
