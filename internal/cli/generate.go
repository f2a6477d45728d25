package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swagger2client/internal/codegen"
	"github.com/mark3labs/swagger2client/internal/emitter"
	"github.com/mark3labs/swagger2client/internal/logging"
	"github.com/mark3labs/swagger2client/internal/opname"
	"github.com/mark3labs/swagger2client/internal/spec"
	"github.com/mark3labs/swagger2client/internal/target"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input       string
	Lang        string
	Out         string
	Namespace   string
	IncludeTags []string
	ExcludeTags []string
	Methods     []string
	Paths       []string

	ClassName                  string
	OperationNameGenerator     string
	GenerateOptionalParameters bool
	WrapResponses              bool
	ResponseClass              string
	GenerateClientClasses      bool
	GenerateClientInterfaces   bool
	GenerateDtoTypes           bool
	Concurrency                int

	ConfigPath string
	DryRun     bool
	Force      bool
	Verbose    bool
}

func defaultGenerateConfig() GenerateConfig {
	d := codegen.DefaultSettings()
	return GenerateConfig{
		Lang:                       d.Language.Name,
		ClassName:                  d.ClassName,
		OperationNameGenerator:     "tags",
		GenerateOptionalParameters: d.GenerateOptionalParameters,
		ResponseClass:              d.ResponseClassNameTemplate,
		GenerateClientClasses:      d.GenerateClientClasses,
		GenerateClientInterfaces:   d.GenerateClientInterfaces,
		GenerateDtoTypes:           d.GenerateDtoTypes,
		Concurrency:                d.Concurrency,
	}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate client code from an OpenAPI/Swagger document",
		Long: "Generate client interfaces and models from an OpenAPI/Swagger document. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  swagger2client generate --input spec.yaml --lang csharp --out ./out
  swagger2client generate --input spec.yaml --lang go --namespace petstore --wrap-responses
  swagger2client --config config.yaml generate --force --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.String("lang", "", "Target language (csharp|typescript|go); defaults to csharp")
	flags.String("out", "", "Output directory (derived from spec when omitted)")
	flags.String("namespace", "", "C# namespace or Go package name")
	flags.StringSlice("include-tags", nil, "Only include operations with these tags")
	flags.StringSlice("exclude-tags", nil, "Exclude operations with these tags")
	flags.StringSlice("methods", nil, "Only include operations with these HTTP methods")
	flags.StringSlice("paths", nil, "Only include operations whose path matches one of these regular expressions")
	flags.String("class-name", "", "Client name template; {controller} is replaced by the group name")
	flags.String("operation-names", "", "Operation grouping policy (tags|operation-id|single|path-segments)")
	flags.Bool("optional-parameters", false, "Move optional parameters last and let callers omit them")
	flags.Bool("wrap-responses", false, "Wrap results in a response class carrying status and headers")
	flags.String("response-class", "", "Response wrapper name template; {controller} is replaced by the group name")
	flags.Bool("client-classes", true, "Emit client classes")
	flags.Bool("client-interfaces", false, "Emit client interfaces")
	flags.Bool("dto-types", true, "Emit model types for named schemas")
	flags.Int("concurrency", 0, "Operations built in parallel (1 builds sequentially)")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Overwrite existing output when set")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	strs := map[string]*string{
		"input":           &cfg.Input,
		"lang":            &cfg.Lang,
		"out":             &cfg.Out,
		"namespace":       &cfg.Namespace,
		"class-name":      &cfg.ClassName,
		"operation-names": &cfg.OperationNameGenerator,
		"response-class":  &cfg.ResponseClass,
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(value)
	}

	slices := map[string]*[]string{
		"include-tags": &cfg.IncludeTags,
		"exclude-tags": &cfg.ExcludeTags,
		"methods":      &cfg.Methods,
		"paths":        &cfg.Paths,
	}
	for name, dst := range slices {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		*dst = sanitizeTags(value)
	}

	bools := map[string]*bool{
		"optional-parameters": &cfg.GenerateOptionalParameters,
		"wrap-responses":      &cfg.WrapResponses,
		"client-classes":      &cfg.GenerateClientClasses,
		"client-interfaces":   &cfg.GenerateClientInterfaces,
		"dto-types":           &cfg.GenerateDtoTypes,
		"dry-run":             &cfg.DryRun,
		"force":               &cfg.Force,
		"verbose":             &cfg.Verbose,
	}
	for name, dst := range bools {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	if flags.Changed("concurrency") {
		value, err := flags.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Lang = strings.ToLower(strings.TrimSpace(c.Lang))
	c.Out = strings.TrimSpace(c.Out)
	c.Namespace = strings.TrimSpace(c.Namespace)
	c.ClassName = strings.TrimSpace(c.ClassName)
	c.OperationNameGenerator = strings.ToLower(strings.TrimSpace(c.OperationNameGenerator))
	c.ResponseClass = strings.TrimSpace(c.ResponseClass)
	c.IncludeTags = sanitizeTags(c.IncludeTags)
	c.ExcludeTags = sanitizeTags(c.ExcludeTags)
	c.Paths = sanitizeTags(c.Paths)
	methods := sanitizeTags(c.Methods)
	for i, m := range methods {
		methods[i] = strings.ToLower(m)
	}
	c.Methods = methods
}

var knownMethods = map[spec.HttpMethod]bool{
	spec.GET: true, spec.POST: true, spec.PUT: true, spec.DELETE: true,
	spec.PATCH: true, spec.HEAD: true, spec.OPTIONS: true, spec.TRACE: true,
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}

	if c.Lang == "" {
		c.Lang = "csharp"
	}
	lang, err := target.Lookup(c.Lang)
	if err != nil {
		return newUsageError(fmt.Sprintf("generate: unsupported --lang %q (allowed: %s)", c.Lang, strings.Join(target.Names(), ", ")))
	}
	c.Lang = lang.Name

	if _, err := opname.ByName(c.OperationNameGenerator); err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}

	if c.Concurrency < 0 {
		return newUsageError(fmt.Sprintf("generate: --concurrency must not be negative (got %d)", c.Concurrency))
	}

	for _, m := range c.Methods {
		if !knownMethods[spec.HttpMethod(m)] {
			return newUsageError(fmt.Sprintf("generate: unknown HTTP method %q", m))
		}
	}

	overlap := intersect(c.IncludeTags, c.ExcludeTags)
	if len(overlap) > 0 {
		return newUsageError(fmt.Sprintf("generate: include/exclude tags overlap: %s", strings.Join(overlap, ", ")))
	}

	return nil
}

// settings converts the merged config into engine settings.
func (c *GenerateConfig) settings(logger logging.Logger) (codegen.Settings, error) {
	s := codegen.DefaultSettings()
	lang, err := target.Lookup(c.Lang)
	if err != nil {
		return s, err
	}
	names, err := opname.ByName(c.OperationNameGenerator)
	if err != nil {
		return s, err
	}
	s.Language = lang
	s.OperationNameGenerator = names
	s.GenerateOptionalParameters = c.GenerateOptionalParameters
	s.WrapResponses = c.WrapResponses
	if c.ResponseClass != "" {
		s.ResponseClassNameTemplate = c.ResponseClass
	}
	if c.ClassName != "" {
		s.ClassName = c.ClassName
	}
	s.GenerateClientClasses = c.GenerateClientClasses
	s.GenerateClientInterfaces = c.GenerateClientInterfaces
	s.GenerateDtoTypes = c.GenerateDtoTypes
	if c.Concurrency > 0 {
		s.Concurrency = c.Concurrency
	}
	s.Logger = logger
	return s, nil
}

func (c *GenerateConfig) buildOptions() []spec.BuildOption {
	opts := []spec.BuildOption{
		spec.WithIncludeTags(c.IncludeTags),
		spec.WithExcludeTags(c.ExcludeTags),
	}
	if len(c.Methods) > 0 {
		methods := make([]spec.HttpMethod, len(c.Methods))
		for i, m := range c.Methods {
			methods[i] = spec.HttpMethod(m)
		}
		opts = append(opts, spec.WithMethods(methods))
	}
	if len(c.Paths) > 0 {
		opts = append(opts, spec.WithPathPatterns(c.Paths))
	}
	return opts
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	logger := logging.NewText(os.Stderr, cfg.Verbose)
	settings, err := cfg.settings(logger)
	if err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}

	// 1) Load the spec (file or http/https URL) with validation and conversion
	src, err := spec.Load(ctx, cfg.Input, spec.WithLogger(logger))
	if err != nil {
		var se *spec.SpecError
		if errors.As(err, &se) {
			msg := fmt.Sprintf("spec: %s", se.Message)
			if se.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
			}
			if se.JSONPointer != "" {
				msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
			}
			return newUsageError(msg)
		}
		return err
	}

	// 2) Build the operation/schema graph with filters
	doc, err := spec.BuildDocument(ctx, src, cfg.buildOptions()...)
	if err != nil {
		return fmt.Errorf("build document: %w", err)
	}

	// 3) Resolve the client model
	res, err := codegen.Generate(ctx, doc, settings)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	printFailures(os.Stderr, res)
	if len(res.Operations) == 0 && len(res.Failures) > 0 {
		return fmt.Errorf("generate: %d operations skipped: %w", len(res.Failures), ErrNothingGenerated)
	}

	outDir := cfg.Out
	if outDir == "" {
		outDir = deriveOutDir(doc.Title)
	}
	absOut := outDir
	if ap, err := filepath.Abs(outDir); err == nil {
		absOut = ap
	}

	// 4) Render and write
	out, err := emitter.Emit(ctx, doc, res, emitter.Options{
		OutDir:    outDir,
		Namespace: cfg.Namespace,
		Force:     cfg.Force,
		DryRun:    cfg.DryRun,
		Logger:    logger,
	})
	if err != nil {
		return wrapOutputError(err, absOut)
	}
	if cfg.DryRun {
		paths := make([]string, 0, len(out.Planned))
		for _, p := range out.Planned {
			paths = append(paths, p.RelPath)
		}
		printPlan(absOut, len(out.Planned), paths)
	}
	return nil
}

// printFailures reports operations skipped by a partial generation.
func printFailures(w io.Writer, res *codegen.Result) {
	if res.Succeeded() {
		return
	}
	total := len(res.Operations) + len(res.Failures)
	fmt.Fprintf(w, "Skipped %d of %d operations:\n", len(res.Failures), total)
	for _, f := range res.Failures {
		fmt.Fprintf(w, "- %s: %v\n", f.OperationID, f.Err)
	}
}

func printPlan(outDir string, count int, relPaths []string) {
	fmt.Fprintf(os.Stdout, "Planned writes to %s (%d files):\n", outDir, count)
	for _, p := range relPaths {
		fmt.Fprintf(os.Stdout, "- %s\n", p)
	}
}

func wrapOutputError(err error, outDir string) error {
	// Provide clearer guidance for common FS failures.
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "output directory") {
		return newUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --out or use --force when appropriate.", outDir, msg))
	}
	return err
}

// deriveOutDir turns a spec title into a directory name: "Swagger Petstore"
// becomes "swagger-petstore-client".
func deriveOutDir(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	repl := strings.NewReplacer("/", " ", "_", " ", ".", " ", ",", " ", ":", " ")
	var b strings.Builder
	for _, r := range repl.Replace(t) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	parts := strings.Fields(b.String())
	if len(parts) == 0 {
		return "client"
	}
	return strings.Join(append(parts, "client"), "-")
}

func sanitizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	strs := map[string]*string{
		"input":                  &cfg.Input,
		"lang":                   &cfg.Lang,
		"out":                    &cfg.Out,
		"namespace":              &cfg.Namespace,
		"classname":              &cfg.ClassName,
		"operationnamegenerator": &cfg.OperationNameGenerator,
		"responseclass":          &cfg.ResponseClass,
	}
	lists := map[string]*[]string{
		"includetags": &cfg.IncludeTags,
		"excludetags": &cfg.ExcludeTags,
		"methods":     &cfg.Methods,
		"paths":       &cfg.Paths,
	}
	bools := map[string]*bool{
		"generateoptionalparameters": &cfg.GenerateOptionalParameters,
		"wrapresponses":              &cfg.WrapResponses,
		"generateclientclasses":      &cfg.GenerateClientClasses,
		"generateclientinterfaces":   &cfg.GenerateClientInterfaces,
		"generatedtotypes":           &cfg.GenerateDtoTypes,
		"dryrun":                     &cfg.DryRun,
		"force":                      &cfg.Force,
		"verbose":                    &cfg.Verbose,
	}

	for key, value := range raw {
		normalized := normalizeKey(key)
		var err error
		if dst, ok := strs[normalized]; ok {
			*dst, err = valueAsString(value)
		} else if dst, ok := lists[normalized]; ok {
			var list []string
			list, err = valueAsStringSlice(value)
			*dst = sanitizeTags(list)
		} else if dst, ok := bools[normalized]; ok {
			*dst, err = valueAsBool(value)
		} else if normalized == "concurrency" {
			cfg.Concurrency, err = valueAsInt(value)
		} else {
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func valueAsInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case float64:
		if val != float64(int(val)) {
			return 0, fmt.Errorf("expected integer, got %v", val)
		}
		return int(val), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
