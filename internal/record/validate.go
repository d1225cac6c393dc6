package record

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/enrollment-service/internal/domain"
)

var (
	cpfTag   = "cpf"
	cpfRegex = regexp.MustCompile(`^(\d{3}\.\d{3}\.\d{3}-\d{2}|\d{11})$`)

	roleTag = "role"

	unitRequiredTag = "unit_required"

	validateOnce sync.Once
	validate     *validator.Validate
)

// FieldError reports a problem with a single column.
type FieldError struct {
	Field string
	Rule  string
}

// ValidationError lists every column of a row that failed validation.
type ValidationError struct {
	Table  string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Field, f.Rule))
	}
	return fmt.Sprintf("invalid %s row: %s", e.Table, strings.Join(parts, ", "))
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// Use db tag names for errors instead of Go struct names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return columnTag(fld)
		})

		_ = validate.RegisterValidation(cpfTag, func(fl validator.FieldLevel) bool {
			return cpfRegex.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
			return domain.Role(fl.Field().String()).Valid()
		})
		validate.RegisterStructValidation(adminStructValidation, AdminRow{})
	})
	return validate
}

// adminStructValidation requires a bound unit for unit-specific admins.
func adminStructValidation(sl validator.StructLevel) {
	row, ok := sl.Current().Interface().(AdminRow)
	if !ok {
		return
	}
	if row.AccessLevel == string(domain.AccessUnitSpecific) && (row.PoloID == nil || *row.PoloID == "") {
		sl.ReportError(row.PoloID, "polo_id", "PoloID", unitRequiredTag, "")
	}
}

// Validate checks a row against its column rules before it is written.
func Validate(table string, row any) error {
	err := validatorInstance().Struct(row)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Table: table}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	sort.Slice(out.Fields, func(i, j int) bool { return out.Fields[i].Field < out.Fields[j].Field })
	return out
}
