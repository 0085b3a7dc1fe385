package comprof_test

import (
	"testing"

	"github.com/fwojciec/comprof"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentSet_SetText(t *testing.T) {
	t.Parallel()

	t.Run("first value wins", func(t *testing.T) {
		t.Parallel()

		s := comprof.NewFragmentSet()
		s.SetText(comprof.FragmentMetaDescription, "first")
		s.SetText(comprof.FragmentMetaDescription, "second")

		v, ok := s.Text(comprof.FragmentMetaDescription)
		require.True(t, ok)
		assert.Equal(t, "first", v)
	})

	t.Run("drops empty values", func(t *testing.T) {
		t.Parallel()

		s := comprof.NewFragmentSet()
		s.SetText(comprof.FragmentPageTitle, "")

		_, ok := s.Text(comprof.FragmentPageTitle)
		assert.False(t, ok)
		assert.Zero(t, s.Len())
	})
}

func TestFragmentSet_SetStructured(t *testing.T) {
	t.Parallel()

	s := comprof.NewFragmentSet()
	s.SetStructured(&comprof.OrgBlock{Name: "Acme"})
	s.SetStructured(&comprof.OrgBlock{Name: "Other"})

	require.NotNil(t, s.Structured())
	assert.Equal(t, "Acme", s.Structured().Name)
	assert.Equal(t, 1, s.Len())
}

func TestFragmentSet_Merge(t *testing.T) {
	t.Parallel()

	t.Run("does not overwrite existing entries", func(t *testing.T) {
		t.Parallel()

		dst := comprof.NewFragmentSet()
		dst.SetText(comprof.FragmentAboutSection, "primary about")

		src := comprof.NewFragmentSet()
		src.SetText(comprof.FragmentAboutSection, "secondary about")
		src.SetText(comprof.FragmentMainContent, "body text")
		src.SetStructured(&comprof.OrgBlock{Name: "Acme"})

		dst.Merge(src)

		about, _ := dst.Text(comprof.FragmentAboutSection)
		assert.Equal(t, "primary about", about)

		body, ok := dst.Text(comprof.FragmentMainContent)
		require.True(t, ok)
		assert.Equal(t, "body text", body)

		require.NotNil(t, dst.Structured())
		assert.Equal(t, "Acme", dst.Structured().Name)
	})

	t.Run("tolerates a nil source", func(t *testing.T) {
		t.Parallel()

		dst := comprof.NewFragmentSet()
		dst.Merge(nil)

		assert.Zero(t, dst.Len())
	})
}
