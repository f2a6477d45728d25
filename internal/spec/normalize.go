package spec

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// BuildOption configures how the Document is built from an OpenAPI doc.
type BuildOption func(*buildConfig)

type buildConfig struct {
	includeTags map[string]struct{}
	excludeTags map[string]struct{}
	methods     map[HttpMethod]struct{}
	pathRes     []*regexp.Regexp
}

// WithIncludeTags keeps only operations that have at least one of the given tags.
func WithIncludeTags(tags []string) BuildOption {
	return func(c *buildConfig) {
		c.includeTags = addTags(c.includeTags, tags)
	}
}

// WithExcludeTags removes operations that have any of the given tags.
func WithExcludeTags(tags []string) BuildOption {
	return func(c *buildConfig) {
		c.excludeTags = addTags(c.excludeTags, tags)
	}
}

func addTags(set map[string]struct{}, tags []string) map[string]struct{} {
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(tags))
		}
		set[t] = struct{}{}
	}
	return set
}

// WithMethods keeps only operations using one of the provided HTTP methods.
func WithMethods(methods []HttpMethod) BuildOption {
	return func(c *buildConfig) {
		for _, m := range methods {
			if c.methods == nil {
				c.methods = make(map[HttpMethod]struct{}, len(methods))
			}
			c.methods[HttpMethod(strings.ToLower(string(m)))] = struct{}{}
		}
	}
}

// WithPathPatterns keeps only operations whose path matches at least one of
// the regular expressions. An invalid pattern never matches.
func WithPathPatterns(patterns []string) BuildOption {
	return func(c *buildConfig) {
		for _, p := range patterns {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			re, err := regexp.Compile(p)
			if err != nil {
				re = regexp.MustCompile("a^$")
			}
			c.pathRes = append(c.pathRes, re)
		}
	}
}

// BuildDocument converts a loaded source into the operation/schema graph.
// Named component schemas become shared *Schema values, so every $ref to a
// component resolves to the same pointer.
func BuildDocument(ctx context.Context, src *Source, opts ...BuildOption) (*Document, error) {
	_ = ctx
	if src == nil || src.Doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	doc := src.Doc

	cfg := &buildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	out := &Document{
		Schemas: map[string]*Schema{},
	}
	if doc.Info != nil {
		out.Title = safeStr(doc.Info.Title)
		out.Version = safeStr(doc.Info.Version)
		out.Description = safeStr(doc.Info.Description)
	}
	for _, s := range doc.Servers {
		if s == nil {
			continue
		}
		out.Servers = append(out.Servers, Server{URL: safeStr(s.URL), Description: safeStr(s.Description)})
	}

	c := newSchemaConverter(out.Schemas)
	if doc.Components != nil {
		c.registerComponents(doc.Components.Schemas)
	}

	var formats map[string]map[string]string
	if src.Version == 2 {
		formats = v2CollectionFormats(src.Raw)
	}

	pathKeys := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, p := range pathKeys {
		item := doc.Paths[p]
		if item == nil || !matchesPath(p, cfg) {
			continue
		}
		for _, pair := range []struct {
			m HttpMethod
			o *openapi3.Operation
		}{
			{GET, item.Get},
			{POST, item.Post},
			{PUT, item.Put},
			{DELETE, item.Delete},
			{PATCH, item.Patch},
			{HEAD, item.Head},
			{OPTIONS, item.Options},
			{TRACE, item.Trace},
		} {
			if pair.o == nil {
				continue
			}
			if len(cfg.methods) > 0 {
				if _, ok := cfg.methods[pair.m]; !ok {
					continue
				}
			}
			tags := make([]string, 0, len(pair.o.Tags))
			for _, t := range pair.o.Tags {
				if t = strings.TrimSpace(t); t != "" {
					tags = append(tags, t)
				}
			}
			if !allowByTags(tags, cfg) {
				continue
			}

			id := string(pair.m) + " " + p
			op := Operation{
				ID:          id,
				OperationID: safeStr(pair.o.OperationID),
				Method:      pair.m,
				Path:        p,
				Summary:     safeStr(pair.o.Summary),
				Description: safeStr(pair.o.Description),
				Tags:        tags,
				Deprecated:  pair.o.Deprecated,
			}
			op.Parameters = mergeParameters(c, item.Parameters, pair.o.Parameters)
			if pair.o.RequestBody != nil && pair.o.RequestBody.Value != nil {
				op.Parameters = append(op.Parameters, c.bodyParameters(pair.o.RequestBody.Value, formats[id])...)
			}
			op.Responses = c.responses(pair.o.Responses)
			out.Operations = append(out.Operations, op)
		}
	}

	out.SchemaNames = make([]string, 0, len(out.Schemas))
	for name := range out.Schemas {
		out.SchemaNames = append(out.SchemaNames, name)
	}
	sort.Strings(out.SchemaNames)
	out.Tags = collectSortedTags(out.Operations)
	return out, nil
}

func matchesPath(p string, cfg *buildConfig) bool {
	if len(cfg.pathRes) == 0 {
		return true
	}
	for _, re := range cfg.pathRes {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

func allowByTags(tags []string, cfg *buildConfig) bool {
	if len(cfg.includeTags) > 0 {
		ok := false
		for _, t := range tags {
			if _, yes := cfg.includeTags[t]; yes {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, t := range tags {
		if _, blocked := cfg.excludeTags[t]; blocked {
			return false
		}
	}
	return true
}

func safeStr(s string) string { return strings.TrimSpace(s) }

// mergeParameters keeps declaration order: path-level parameters first, an
// operation-level parameter with the same location and name replaces its
// path-level counterpart in place.
func mergeParameters(c *schemaConverter, pathLevel, opLevel openapi3.Parameters) []Parameter {
	var out []Parameter
	index := map[string]int{}
	add := func(pref *openapi3.ParameterRef) {
		pm, ok := c.parameter(pref)
		if !ok {
			return
		}
		key := string(pm.Kind) + ":" + pm.Name
		if i, seen := index[key]; seen {
			out[i] = pm
			return
		}
		index[key] = len(out)
		out = append(out, pm)
	}
	for _, p := range pathLevel {
		add(p)
	}
	for _, p := range opLevel {
		add(p)
	}
	return out
}

type schemaConverter struct {
	named   map[string]*Schema
	byValue map[*openapi3.Schema]*Schema
}

func newSchemaConverter(named map[string]*Schema) *schemaConverter {
	return &schemaConverter{named: named, byValue: map[*openapi3.Schema]*Schema{}}
}

// registerComponents creates a placeholder per component before filling any,
// so recursive references land on the shared pointer.
func (c *schemaConverter) registerComponents(schemas openapi3.Schemas) {
	names := make([]string, 0, len(schemas))
	for name, ref := range schemas {
		if ref == nil {
			continue
		}
		names = append(names, name)
		s := &Schema{Name: name}
		c.named[name] = s
		if ref.Value != nil && ref.Ref == "" {
			c.byValue[ref.Value] = s
		}
	}
	sort.Strings(names)
	for _, name := range names {
		ref := schemas[name]
		if ref.Ref != "" {
			// Component that is itself an alias of another component.
			if target := c.convert(ref); target != nil && target != c.named[name] {
				*c.named[name] = *target
				c.named[name].Name = name
			}
			continue
		}
		c.fill(c.named[name], ref.Value)
	}
}

func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func (c *schemaConverter) convert(ref *openapi3.SchemaRef) *Schema {
	if ref == nil {
		return nil
	}
	if ref.Ref != "" {
		name := refName(ref.Ref)
		if s, ok := c.named[name]; ok {
			return s
		}
		// External ref that is not a local component: register it on first sight.
		s := &Schema{Name: name}
		c.named[name] = s
		if ref.Value != nil {
			c.byValue[ref.Value] = s
			c.fill(s, ref.Value)
		}
		return s
	}
	if ref.Value == nil {
		return nil
	}
	if s, ok := c.byValue[ref.Value]; ok {
		return s
	}
	s := &Schema{}
	c.byValue[ref.Value] = s
	c.fill(s, ref.Value)
	return s
}

func (c *schemaConverter) fill(s *Schema, v *openapi3.Schema) {
	if v == nil {
		return
	}
	s.Type = ParseJSONType(v.Type)
	s.Format = safeStr(v.Format)
	s.Description = safeStr(v.Description)
	s.Nullable = v.Nullable || extensionBool(v.Extensions, "x-nullable")
	if s.Nullable {
		s.Type |= TypeNull
	}
	s.Required = append([]string(nil), v.Required...)
	if len(v.Enum) > 0 {
		s.Enum = append([]any(nil), v.Enum...)
	}
	s.Items = c.convert(v.Items)
	if v.AdditionalProperties.Schema != nil {
		s.AdditionalProperties = c.convert(v.AdditionalProperties.Schema)
	} else if v.AdditionalProperties.Has != nil && *v.AdditionalProperties.Has && len(v.Properties) == 0 {
		s.AdditionalProperties = &Schema{}
	}
	if len(v.Properties) > 0 {
		s.Properties = make(map[string]*Schema, len(v.Properties))
		for name := range v.Properties {
			s.PropertyOrder = append(s.PropertyOrder, name)
		}
		sort.Strings(s.PropertyOrder)
		for _, name := range s.PropertyOrder {
			s.Properties[name] = c.convert(v.Properties[name])
		}
	}
	for _, r := range v.AllOf {
		s.AllOf = appendSchema(s.AllOf, c.convert(r))
	}
	for _, r := range v.OneOf {
		s.OneOf = appendSchema(s.OneOf, c.convert(r))
	}
	for _, r := range v.AnyOf {
		s.AnyOf = appendSchema(s.AnyOf, c.convert(r))
	}
}

func appendSchema(list []*Schema, s *Schema) []*Schema {
	if s == nil {
		return list
	}
	return append(list, s)
}

func extensionBool(ext map[string]any, key string) bool {
	b, _ := ext[key].(bool)
	return b
}

// asFile returns s with the file tag when it describes binary content. Named
// schemas are never rewritten.
func asFile(s *Schema) *Schema {
	if s == nil || s.Name != "" {
		return s
	}
	if s.Type.Is(TypeString) && s.Format == "binary" {
		cp := *s
		cp.Type = TypeFile | (s.Type & TypeNull)
		return &cp
	}
	if s.IsArray() && s.Items != nil && s.Items.Name == "" && s.Items.Type.Is(TypeString) && s.Items.Format == "binary" {
		cp := *s
		cp.Items = asFile(s.Items)
		return &cp
	}
	return s
}

func (c *schemaConverter) parameter(pref *openapi3.ParameterRef) (Parameter, bool) {
	if pref == nil || pref.Value == nil {
		return Parameter{}, false
	}
	p := pref.Value
	pm := Parameter{
		Name:        safeStr(p.Name),
		Kind:        ParameterKind(safeStr(p.In)),
		Required:    p.Required,
		Deprecated:  p.Deprecated,
		Description: safeStr(p.Description),
	}
	if p.Schema != nil {
		pm.Schema = c.convert(p.Schema)
		if p.Schema.Value != nil {
			pm.Default = p.Schema.Value.Default
		}
	} else if mt := pickMedia(p.Content); mt != nil {
		pm.Schema = c.convert(mt.Schema)
	}
	return pm, true
}

// bodyParameters expands a request body. Form bodies become one formData
// parameter per property; anything else is a single body parameter.
func (c *schemaConverter) bodyParameters(rb *openapi3.RequestBody, formats map[string]string) []Parameter {
	for _, mime := range []string{"multipart/form-data", "application/x-www-form-urlencoded"} {
		mt := rb.Content.Get(mime)
		if mt == nil || mt.Schema == nil || mt.Schema.Value == nil || len(mt.Schema.Value.Properties) == 0 {
			continue
		}
		form := c.convert(mt.Schema)
		params := make([]Parameter, 0, len(form.PropertyOrder))
		for _, name := range form.PropertyOrder {
			prop := form.Properties[name]
			pm := Parameter{
				Name:             name,
				Kind:             InFormData,
				Required:         form.IsRequired(name),
				Schema:           asFile(prop),
				CollectionFormat: formats[name],
			}
			if prop != nil {
				pm.Description = prop.Description
			}
			params = append(params, pm)
		}
		return params
	}

	mime, mt := pickContent(rb.Content)
	if mt == nil {
		return nil
	}
	name := "body"
	if n, ok := rb.Extensions["x-originalParamName"].(string); ok && strings.TrimSpace(n) != "" {
		name = strings.TrimSpace(n)
	}
	schema := c.convert(mt.Schema)
	if !isJSONMime(mime) {
		schema = asFile(schema)
	}
	return []Parameter{{
		Name:        name,
		Kind:        InBody,
		Required:    rb.Required,
		Schema:      schema,
		Description: safeStr(rb.Description),
	}}
}

func (c *schemaConverter) responses(rs openapi3.Responses) []Response {
	codes := make([]string, 0, len(rs))
	for code := range rs {
		codes = append(codes, code)
	}
	SortStatusCodes(codes)
	out := make([]Response, 0, len(codes))
	for _, code := range codes {
		rref := rs[code]
		if rref == nil || rref.Value == nil {
			continue
		}
		r := Response{StatusCode: code}
		if rref.Value.Description != nil {
			r.Description = safeStr(*rref.Value.Description)
		}
		if mime, mt := pickContent(rref.Value.Content); mt != nil {
			r.ContentType = mime
			r.Schema = c.convert(mt.Schema)
			if !isJSONMime(mime) {
				r.Schema = asFile(r.Schema)
			}
		}
		if r.Schema != nil {
			r.Nullable = r.Schema.Nullable
		}
		out = append(out, r)
	}
	return out
}

// SortStatusCodes orders explicit numeric codes ascending, then range codes
// such as 2XX, then default, then anything else lexically.
func SortStatusCodes(codes []string) {
	rank := func(code string) (int, int) {
		if n, err := strconv.Atoi(code); err == nil {
			return 0, n
		}
		up := strings.ToUpper(code)
		if len(up) == 3 && strings.HasSuffix(up, "XX") && up[0] >= '1' && up[0] <= '5' {
			return 1, int(up[0] - '0')
		}
		if strings.EqualFold(code, "default") {
			return 2, 0
		}
		return 3, 0
	}
	sort.SliceStable(codes, func(i, j int) bool {
		ci, ni := rank(codes[i])
		cj, nj := rank(codes[j])
		if ci != cj {
			return ci < cj
		}
		if ni != nj {
			return ni < nj
		}
		return codes[i] < codes[j]
	})
}

func pickMedia(content openapi3.Content) *openapi3.MediaType {
	_, mt := pickContent(content)
	return mt
}

// pickContent prefers application/json, then any +json type, then the first
// media type by name.
func pickContent(content openapi3.Content) (string, *openapi3.MediaType) {
	if len(content) == 0 {
		return "", nil
	}
	if mt := content["application/json"]; mt != nil {
		return "application/json", mt
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if isJSONMime(k) && content[k] != nil {
			return k, content[k]
		}
	}
	for _, k := range keys {
		if content[k] != nil {
			return k, content[k]
		}
	}
	return "", nil
}

func isJSONMime(mime string) bool {
	mime = strings.ToLower(mime)
	return mime == "application/json" || strings.HasSuffix(mime, "+json") || mime == "text/json" || mime == "*/*"
}

func collectSortedTags(ops []Operation) []string {
	set := make(map[string]struct{})
	for _, op := range ops {
		for _, t := range op.Tags {
			set[t] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
