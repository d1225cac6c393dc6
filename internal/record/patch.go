package record

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spec-kit/enrollment-service/internal/domain"
)

// Assignment is one column = value pair of a write.
type Assignment struct {
	Column string
	Value  any
}

// Patch is an ordered set of column assignments applied by an update.
type Patch []Assignment

// Set appends or replaces the assignment for column.
func (p *Patch) Set(column string, value any) {
	for i := range *p {
		if (*p)[i].Column == column {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Assignment{Column: column, Value: value})
}

// Columns returns the patched column names in order.
func (p Patch) Columns() []string {
	cols := make([]string, len(p))
	for i, a := range p {
		cols[i] = a.Column
	}
	return cols
}

// Values returns the patched values in column order.
func (p Patch) Values() []any {
	vals := make([]any, len(p))
	for i, a := range p {
		vals[i] = a.Value
	}
	return vals
}

// Without returns a copy of p minus the named columns.
func (p Patch) Without(columns ...string) Patch {
	out := make(Patch, 0, len(p))
	for _, a := range p {
		skip := false
		for _, c := range columns {
			if a.Column == c {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, a)
		}
	}
	return out
}

// PersonPatchFrom translates a partial person change into students columns.
// An address or guardians block replaces every column of that block.
func PersonPatchFrom(u domain.PersonUpdate) Patch {
	var p Patch
	if u.Name != nil {
		p.Set("name", *u.Name)
	}
	if u.BirthDate != nil {
		p.Set("birth_date", *u.BirthDate)
	}
	if u.Gender != nil {
		p.Set("gender", string(*u.Gender))
	}
	if u.Phone != nil {
		p.Set("phone", *u.Phone)
	}
	if u.Email != nil {
		p.Set("email", nullable(*u.Email))
	}
	if a := u.Address; a != nil {
		p.Set("cep", a.ZipCode)
		p.Set("street", a.Street)
		p.Set("number", a.Number)
		p.Set("complement", nullable(a.Complement))
		p.Set("neighborhood", a.Neighborhood)
		p.Set("city", a.City)
		p.Set("state", a.State)
	}
	if g := u.Guardians; g != nil {
		p.Set("father_name", g.FatherName)
		p.Set("mother_name", g.MotherName)
		p.Set("parents_phone", g.Phone)
		p.Set("parents_email", nullable(g.Email))
		p.Set("father_cpf", g.FatherTaxID)
		p.Set("mother_cpf", g.MotherTaxID)
	}
	return p
}

// UnitPatchFrom writes every mutable column of a unit.
func UnitPatchFrom(u domain.Unit) Patch {
	return Fields(FromUnit(u), "id", "created_at", "updated_at")
}

// EnrollmentPatchFrom translates a partial enrollment change.
func EnrollmentPatchFrom(u domain.EnrollmentUpdate) Patch {
	var p Patch
	if u.Level != nil {
		p.Set("level", string(*u.Level))
	}
	if u.Observations != nil {
		p.Set("observations", nullable(*u.Observations))
	}
	if u.Status != nil {
		p.Set("status", string(*u.Status))
	}
	if u.CompletionDate != nil {
		p.Set("completion_date", dateOnly(*u.CompletionDate))
	}
	if u.CertificateIssued != nil {
		p.Set("certificate_issued", *u.CertificateIssued)
	}
	if u.CertificateDate != nil {
		p.Set("certificate_date", dateOnly(*u.CertificateDate))
	}
	return p
}

func dateOnly(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// Columns lists the db column names of a row struct in declaration order.
func Columns(row any) []string {
	t := reflect.TypeOf(row)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := columnTag(t.Field(i)); tag != "" {
			cols = append(cols, tag)
		}
	}
	return cols
}

// Fields returns every column of row as a patch, minus skip.
func Fields(row any, skip ...string) Patch {
	v := reflect.Indirect(reflect.ValueOf(row))
	t := v.Type()
	p := make(Patch, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := columnTag(t.Field(i))
		if tag == "" {
			continue
		}
		p = append(p, Assignment{Column: tag, Value: v.Field(i).Interface()})
	}
	return p.Without(skip...)
}

// ApplyPatch writes the patch into the row pointed to by dst, so a patched
// row can be validated before it is written.
func ApplyPatch(dst any, p Patch) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("apply patch: %T is not a pointer to struct", dst)
	}
	v = v.Elem()
	t := v.Type()
	index := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := columnTag(t.Field(i)); tag != "" {
			index[tag] = i
		}
	}
	for _, a := range p {
		i, ok := index[a.Column]
		if !ok {
			return fmt.Errorf("apply patch: unknown column %q", a.Column)
		}
		if err := assign(v.Field(i), a.Value); err != nil {
			return fmt.Errorf("apply patch: column %q: %w", a.Column, err)
		}
	}
	return nil
}

func assign(field reflect.Value, value any) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	val := reflect.ValueOf(value)
	switch {
	case val.Type().AssignableTo(field.Type()):
		field.Set(val)
	case field.Kind() == reflect.Pointer && val.Type().AssignableTo(field.Type().Elem()):
		ptr := reflect.New(field.Type().Elem())
		ptr.Elem().Set(val)
		field.Set(ptr)
	case val.Kind() == reflect.Pointer && val.IsNil():
		field.Set(reflect.Zero(field.Type()))
	case val.Kind() == reflect.Pointer && val.Elem().Type().AssignableTo(field.Type()):
		field.Set(val.Elem())
	default:
		return fmt.Errorf("cannot assign %s to %s", val.Type(), field.Type())
	}
	return nil
}

func columnTag(f reflect.StructField) string {
	tag := strings.Split(f.Tag.Get("db"), ",")[0]
	if tag == "-" {
		return ""
	}
	return tag
}
