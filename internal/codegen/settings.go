package codegen

import (
	"strings"

	"github.com/mark3labs/swagger2client/internal/logging"
	"github.com/mark3labs/swagger2client/internal/opname"
	"github.com/mark3labs/swagger2client/internal/target"
)

// ControllerToken is replaced by the operation's group name in
// ResponseClassNameTemplate and ClassName.
const ControllerToken = "{controller}"

// Settings is the immutable configuration of one generation run. It is passed
// by value into every component that needs it.
type Settings struct {
	Language *target.Language

	// GenerateOptionalParameters moves required parameters before optional
	// ones so optional ones can be defaulted.
	GenerateOptionalParameters bool
	WrapResponses              bool
	ResponseClassNameTemplate  string

	OperationNameGenerator opname.Generator

	// ClassName is the client class name template.
	ClassName                string
	GenerateClientClasses    bool
	GenerateClientInterfaces bool
	GenerateDtoTypes         bool

	// Concurrency > 1 builds operations in parallel.
	Concurrency int

	Logger logging.Logger
}

// DefaultSettings returns the C# defaults.
func DefaultSettings() Settings {
	return Settings{
		Language:                   target.CSharp(),
		GenerateOptionalParameters: false,
		ResponseClassNameTemplate:  "SwaggerResponse",
		OperationNameGenerator:     opname.FirstTag{},
		ClassName:                  ControllerToken + "Client",
		GenerateClientClasses:      true,
		GenerateDtoTypes:           true,
		Concurrency:                1,
		Logger:                     logging.Nop{},
	}
}

// normalized fills zero values with defaults.
func (s Settings) normalized() Settings {
	d := DefaultSettings()
	if s.Language == nil {
		s.Language = d.Language
	}
	if s.OperationNameGenerator == nil {
		s.OperationNameGenerator = d.OperationNameGenerator
	}
	if s.ResponseClassNameTemplate == "" {
		s.ResponseClassNameTemplate = d.ResponseClassNameTemplate
	}
	if s.ClassName == "" {
		s.ClassName = d.ClassName
	}
	if s.Concurrency < 1 {
		s.Concurrency = 1
	}
	s.Logger = logging.OrNop(s.Logger)
	return s
}

// ResponseClassName is the wrapper type name for group.
func (s Settings) ResponseClassName(group string) string {
	return strings.ReplaceAll(s.ResponseClassNameTemplate, ControllerToken, group)
}

// ClientName is the client class name for group.
func (s Settings) ClientName(group string) string {
	return strings.ReplaceAll(s.ClassName, ControllerToken, group)
}
