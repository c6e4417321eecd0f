package tmdoc

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/tmengine/internal/iri"
)

// Validation error codes (E200-E209)
const (
	ErrInvalidField        = "E200" // field failed a struct rule
	ErrRequiredField       = "E201" // required field missing
	ErrInvalidIRI          = "E202" // malformed IRI
	ErrDuplicateTopicID    = "E203" // topic id used twice
	ErrUndefinedTopic      = "E204" // reference to an unknown topic id
	ErrMultipleReification = "E205" // topic reifies more than one construct
	ErrTooFewElements      = "E206" // list shorter than allowed
)

// ValidationError represents a document validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is a failed validation as a single error.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", errs[0].Error(), len(errs)-1)
}

// docValidate is the validator instance for documents.
// Initialized in init() with custom validators.
var docValidate *validator.Validate

func init() {
	docValidate = validator.New()

	// Field paths use the serialized names.
	docValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = docValidate.RegisterValidation("iri", validateIRI)
	_ = docValidate.RegisterValidation("absiri", validateAbsoluteIRI)
}

// validateIRI accepts an absolute IRI that normalizes, or a relative
// reference to be resolved against the document base.
func validateIRI(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.IsAbs() {
		_, err = iri.Normalize(s)
		return err == nil
	}
	return true
}

func validateAbsoluteIRI(fl validator.FieldLevel) bool {
	_, err := iri.Normalize(fl.Field().String())
	return err == nil
}

// Validate checks doc and returns every problem found (does not
// fail-fast). Struct rules run first; topic references are only resolved
// when the struct rules pass.
func Validate(doc *Document) []ValidationError {
	if doc == nil {
		return []ValidationError{{Field: "document", Message: "document is nil", Code: ErrRequiredField}}
	}
	if errs := validateStruct(doc); len(errs) > 0 {
		return errs
	}
	return validateReferences(doc)
}

func validateStruct(doc *Document) []ValidationError {
	err := docValidate.Struct(doc)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "document", Message: err.Error(), Code: ErrInvalidField}}
	}

	errs := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Document.")
		switch fe.Tag() {
		case "required":
			errs = append(errs, ValidationError{Field: field, Message: "is required", Code: ErrRequiredField})
		case "iri", "absiri":
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("invalid IRI %q", fe.Value()), Code: ErrInvalidIRI})
		case "min":
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("needs at least %s element(s)", fe.Param()), Code: ErrTooFewElements})
		default:
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("failed %q rule", fe.Tag()), Code: ErrInvalidField})
		}
	}
	return errs
}

// refChecker resolves topic references against the declared ids.
type refChecker struct {
	ids       map[string]bool
	reifierOf map[string]string
	errs      []ValidationError
}

func validateReferences(doc *Document) []ValidationError {
	rc := &refChecker{
		ids:       make(map[string]bool, len(doc.Topics)),
		reifierOf: make(map[string]string),
	}

	for i, td := range doc.Topics {
		if rc.ids[td.ID] {
			rc.add(fmt.Sprintf("topics[%d].id", i), ErrDuplicateTopicID, "topic id %q is already declared", td.ID)
			continue
		}
		rc.ids[td.ID] = true
	}

	rc.reifier("reifier", doc.Reifier)
	for i, td := range doc.Topics {
		path := fmt.Sprintf("topics[%d]", i)
		if td.Reifies != "" {
			rc.claim(path+".reifies", td.ID, td.Reifies)
		}
		rc.refs(path+".types", td.Types)
		for j, nd := range td.Names {
			npath := fmt.Sprintf("%s.names[%d]", path, j)
			if nd.Type != "" {
				rc.ref(npath+".type", nd.Type)
			}
			rc.refs(npath+".scope", nd.Scope)
			rc.reifier(npath+".reifier", nd.Reifier)
			for k, vd := range nd.Variants {
				vpath := fmt.Sprintf("%s.variants[%d]", npath, k)
				rc.refs(vpath+".scope", vd.Scope)
				rc.reifier(vpath+".reifier", vd.Reifier)
			}
		}
		for j, od := range td.Occurrences {
			opath := fmt.Sprintf("%s.occurrences[%d]", path, j)
			rc.ref(opath+".type", od.Type)
			rc.refs(opath+".scope", od.Scope)
			rc.reifier(opath+".reifier", od.Reifier)
		}
	}
	for i, ad := range doc.Associations {
		apath := fmt.Sprintf("associations[%d]", i)
		rc.ref(apath+".type", ad.Type)
		rc.refs(apath+".scope", ad.Scope)
		rc.reifier(apath+".reifier", ad.Reifier)
		for j, rd := range ad.Roles {
			rpath := fmt.Sprintf("%s.roles[%d]", apath, j)
			rc.ref(rpath+".type", rd.Type)
			rc.ref(rpath+".player", rd.Player)
			rc.reifier(rpath+".reifier", rd.Reifier)
		}
	}
	return rc.errs
}

func (rc *refChecker) add(field, code, format string, args ...any) {
	rc.errs = append(rc.errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code})
}

func (rc *refChecker) ref(field, id string) bool {
	if !rc.ids[id] {
		rc.add(field, ErrUndefinedTopic, "undefined topic %q", id)
		return false
	}
	return true
}

func (rc *refChecker) refs(field string, ids []string) {
	for i, id := range ids {
		rc.ref(fmt.Sprintf("%s[%d]", field, i), id)
	}
}

func (rc *refChecker) reifier(field, id string) {
	if id == "" {
		return
	}
	target, ok := strings.CutSuffix(field, ".reifier")
	if !ok {
		target = "the topic map"
	}
	if rc.ref(field, id) {
		rc.claim(field, id, target)
	}
}

// claim records that topic id reifies target.
func (rc *refChecker) claim(field, id, target string) {
	if prev, ok := rc.reifierOf[id]; ok {
		rc.add(field, ErrMultipleReification, "topic %q already reifies %s", id, prev)
		return
	}
	rc.reifierOf[id] = target
}
