package comprof_test

import (
	"testing"

	"github.com/fwojciec/comprof"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRecord_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires a profile URL", func(t *testing.T) {
		t.Parallel()

		rec := &comprof.CompanyRecord{}

		err := rec.Validate()

		assert.Equal(t, comprof.EINVALID, comprof.ErrorCode(err))
	})

	t.Run("accepts a record with only the profile URL", func(t *testing.T) {
		t.Parallel()

		rec := &comprof.CompanyRecord{ProfileURL: "https://example.com/company/acme"}

		assert.NoError(t, rec.Validate())
	})
}

func TestCompanyRecord_SetField(t *testing.T) {
	t.Parallel()

	t.Run("stores values by field kind", func(t *testing.T) {
		t.Parallel()

		rec := &comprof.CompanyRecord{}

		name, err := comprof.Coerce(comprof.FieldCompanyName, "Acme Corp")
		require.NoError(t, err)
		require.NoError(t, rec.SetField(comprof.FieldCompanyName, name))

		employees, err := comprof.Coerce(comprof.FieldEmployees, "1,024")
		require.NoError(t, err)
		require.NoError(t, rec.SetField(comprof.FieldEmployees, employees))

		founded, err := comprof.Coerce(comprof.FieldFounded, "Founded 2004")
		require.NoError(t, err)
		require.NoError(t, rec.SetField(comprof.FieldFounded, founded))

		specialties, err := comprof.Coerce(comprof.FieldSpecialties, "Search, Ads")
		require.NoError(t, err)
		require.NoError(t, rec.SetField(comprof.FieldSpecialties, specialties))

		require.NotNil(t, rec.Name)
		assert.Equal(t, "Acme Corp", *rec.Name)
		require.NotNil(t, rec.Employees)
		assert.Equal(t, 1024, *rec.Employees)
		require.NotNil(t, rec.Founded)
		assert.Equal(t, 2004, *rec.Founded)
		assert.Equal(t, []string{"Search", "Ads"}, rec.Specialties)
	})

	t.Run("rejects a kind mismatch", func(t *testing.T) {
		t.Parallel()

		rec := &comprof.CompanyRecord{}

		err := rec.SetField(comprof.FieldEmployees, comprof.FieldValue{Kind: comprof.TypeText, Text: "lots"})

		assert.Equal(t, comprof.EINVALID, comprof.ErrorCode(err))
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		rec := &comprof.CompanyRecord{}

		err := rec.SetField("company_mascot", comprof.FieldValue{Kind: comprof.TypeText, Text: "Gopher"})

		assert.Equal(t, comprof.EINVALID, comprof.ErrorCode(err))
	})
}

func TestCompanyRecord_Field(t *testing.T) {
	t.Parallel()

	t.Run("reports absent fields", func(t *testing.T) {
		t.Parallel()

		rec := &comprof.CompanyRecord{ProfileURL: "https://example.com/company/acme"}

		_, ok := rec.Field(comprof.FieldCompanyName)
		assert.False(t, ok)

		_, ok = rec.Field(comprof.FieldSpecialties)
		assert.False(t, ok)
	})

	t.Run("round-trips values set through SetField", func(t *testing.T) {
		t.Parallel()

		rec := &comprof.CompanyRecord{ProfileURL: "https://example.com/company/acme"}

		v, err := comprof.Coerce(comprof.FieldFollowers, "99")
		require.NoError(t, err)
		require.NoError(t, rec.SetField(comprof.FieldFollowers, v))

		got, ok := rec.Field(comprof.FieldFollowers)
		require.True(t, ok)
		assert.Equal(t, 99, got.Count)

		profile, ok := rec.Field(comprof.FieldCompanyProfile)
		require.True(t, ok)
		assert.Equal(t, "https://example.com/company/acme", profile.Text)
	})
}
