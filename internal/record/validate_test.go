package record

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePersonRow(t *testing.T) {
	require.NoError(t, Validate(TablePersons, samplePersonRow()))

	row := samplePersonRow()
	row.CPF = "12345"
	row.Gender = "unknown"
	row.State = "Tocantins"

	err := Validate(TablePersons, row)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []FieldError{
		{Field: "cpf", Rule: "cpf"},
		{Field: "gender", Rule: "oneof"},
		{Field: "state", Rule: "len"},
	}, verr.Fields)
}

func TestValidateUnitLevels(t *testing.T) {
	row := UnitRow{
		Name: "Central", Street: "Rua", Number: "1", Neighborhood: "Centro", City: "Palmas",
		State: "TO", CEP: "77000-000", Pastor: "Pr. João", CoordinatorName: "Maria",
		CoordinatorCPF: "123.456.789-00", AvailableLevels: []string{"NIVEL_I", "NIVEL_V"},
	}
	err := Validate(TableUnits, row)
	require.Error(t, err)

	row.AvailableLevels = []string{"NIVEL_I", "NIVEL_IV"}
	require.NoError(t, Validate(TableUnits, row))
}

func TestValidateAdminRequiresUnitWhenUnitSpecific(t *testing.T) {
	row := AdminRow{
		Name: "Rosa", Email: "rosa@ibuc.com.br", CPF: "555.666.777-88", Phone: "(62) 9999-0000",
		Role: "secretario", AccessLevel: "polo_especifico", PasswordHash: "$2a$...",
	}
	err := Validate(TableAdmins, row)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "polo_id", verr.Fields[0].Field)

	unit := "u-1"
	row.PoloID = &unit
	require.NoError(t, Validate(TableAdmins, row))

	row.Role = "pastor"
	require.Error(t, Validate(TableAdmins, row))
}

func TestValidateCertificateGrade(t *testing.T) {
	row := CertificateRow{
		StudentID: "p", EnrollmentID: "e", PoloID: "u", CertificateNumber: "IBUC-2024-0001",
		IssueDate: time.Now(), Level: "NIVEL_II", Grade: 10, HoursCompleted: 40,
	}
	require.NoError(t, Validate(TableCertificates, row))

	row.Grade = 10.5
	require.Error(t, Validate(TableCertificates, row))
}
