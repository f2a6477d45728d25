package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/swagger2client/internal/spec"
	"github.com/mark3labs/swagger2client/internal/target"
)

// ResponseModel is one declared response after type resolution.
type ResponseModel struct {
	StatusCode  string `json:"statusCode"`
	Type        string `json:"type,omitempty"`        // empty when IsVoid
	IsSuccess   bool   `json:"isSuccess"`
	IsPrimary   bool   `json:"isPrimary"`
	IsVoid      bool   `json:"isVoid"`
	IsFile      bool   `json:"isFile"`
	IsNullable  bool   `json:"isNullable"`
	Description string `json:"description,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// ResponseSet is the classified response list of one operation.
type ResponseSet struct {
	Responses []ResponseModel
	// Primary is the chosen success response, nil when there is none.
	Primary       *ResponseModel
	Errors        []ResponseModel
	ExceptionType string
}

// IsSuccessStatusCode reports an explicit success code: 200-299 or 2XX.
func IsSuccessStatusCode(code string) bool {
	if strings.EqualFold(code, "2XX") {
		return true
	}
	n, err := strconv.Atoi(code)
	return err == nil && n >= 200 && n < 300
}

func isDefaultCode(code string) bool { return strings.EqualFold(code, "default") }

type ResponseModelBuilder struct {
	lang  *target.Language
	types *TypeResolver
}

func NewResponseModelBuilder(lang *target.Language, types *TypeResolver) ResponseModelBuilder {
	return ResponseModelBuilder{lang: lang, types: types}
}

// Build resolves and classifies the responses of op. "default" is a success
// only when op declares no explicit success code.
func (b ResponseModelBuilder) Build(op spec.Operation) (ResponseSet, error) {
	if err := validateStatusCodes(op); err != nil {
		return ResponseSet{}, err
	}

	explicitSuccess := false
	for _, r := range op.Responses {
		if IsSuccessStatusCode(r.StatusCode) {
			explicitSuccess = true
			break
		}
	}

	set := ResponseSet{Responses: make([]ResponseModel, 0, len(op.Responses))}
	var errorSchemas []*spec.Schema
	for _, r := range op.Responses {
		m := b.model(r)
		m.IsSuccess = IsSuccessStatusCode(r.StatusCode) || (isDefaultCode(r.StatusCode) && !explicitSuccess)
		if !m.IsSuccess {
			set.Errors = append(set.Errors, m)
			errorSchemas = append(errorSchemas, r.Schema)
		}
		set.Responses = append(set.Responses, m)
	}

	if i := primaryIndex(set.Responses); i >= 0 {
		set.Responses[i].IsPrimary = true
		set.Primary = &set.Responses[i]
	}
	set.ExceptionType = b.exceptionType(set.Errors, errorSchemas)
	return set, nil
}

func (b ResponseModelBuilder) model(r spec.Response) ResponseModel {
	m := ResponseModel{
		StatusCode:  r.StatusCode,
		Description: r.Description,
		ContentType: r.ContentType,
		IsNullable:  r.Nullable,
	}
	switch {
	case isFileResponse(r):
		m.IsFile = true
		m.Type = b.lang.FileResponseType
	case r.Schema == nil:
		m.IsVoid = true
	default:
		m.Type = b.types.Resolve(r.Schema, TypeContext{Nullable: r.Nullable})
	}
	return m
}

func isFileResponse(r spec.Response) bool {
	if r.Schema != nil {
		return r.Schema.IsFile()
	}
	return strings.EqualFold(r.ContentType, "application/octet-stream")
}

// exceptionType is the generic exception unless exactly one error response
// exists, in which case it is that response's type.
func (b ResponseModelBuilder) exceptionType(errs []ResponseModel, schemas []*spec.Schema) string {
	if len(errs) != 1 {
		return b.lang.ExceptionType
	}
	if schemas[0] == nil {
		return b.lang.DefaultExceptionName
	}
	return b.types.Resolve(schemas[0], TypeContext{Nullable: errs[0].IsNullable, Fallback: b.lang.DefaultExceptionName})
}

// primaryIndex picks the lowest explicit numeric success code, then 2XX, then
// a successful default. -1 when there is no success response.
func primaryIndex(rs []ResponseModel) int {
	best, bestRank, bestCode := -1, 0, 0
	for i, r := range rs {
		if !r.IsSuccess {
			continue
		}
		rank, code := 2, 0
		if n, err := strconv.Atoi(r.StatusCode); err == nil {
			rank, code = 0, n
		} else if strings.EqualFold(r.StatusCode, "2XX") {
			rank = 1
		}
		if best < 0 || rank < bestRank || (rank == bestRank && code < bestCode) {
			best, bestRank, bestCode = i, rank, code
		}
	}
	return best
}

func validateStatusCodes(op spec.Operation) error {
	seen := map[string]bool{}
	for _, r := range op.Responses {
		code := strings.ToUpper(strings.TrimSpace(r.StatusCode))
		var problem string
		switch {
		case code == "":
			problem = "response with empty status code"
		case seen[code]:
			problem = fmt.Sprintf("duplicate status code %q", r.StatusCode)
		case !validStatusCode(code):
			problem = fmt.Sprintf("invalid status code %q", r.StatusCode)
		}
		if problem != "" {
			return &BuildError{Code: MalformedResponses, OperationID: op.ID, Message: problem}
		}
		seen[code] = true
	}
	return nil
}

func validStatusCode(code string) bool {
	if code == "DEFAULT" {
		return true
	}
	if len(code) != 3 || code[0] < '1' || code[0] > '5' {
		return false
	}
	if code[1:] == "XX" {
		return true
	}
	_, err := strconv.Atoi(code)
	return err == nil && code[1] >= '0' && code[1] <= '9' && code[2] >= '0' && code[2] <= '9'
}
