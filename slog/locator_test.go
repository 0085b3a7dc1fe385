package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/comprof"
	"github.com/fwojciec/comprof/mock"
	comslog "github.com/fwojciec/comprof/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingLocator_Locate(t *testing.T) {
	t.Parallel()

	t.Run("logs fragment counts and structured flag", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Locator{
			LocateFn: func(page *comprof.RawPage) *comprof.FragmentSet {
				frags := comprof.NewFragmentSet()
				frags.SetStructured(&comprof.OrgBlock{Name: "Acme Corp"})
				frags.SetText(comprof.FragmentPageTitle, "Acme Corp | LinkedIn")
				return frags
			},
		}

		locator := comslog.NewLoggingLocator(inner, logger)
		frags := locator.Locate(&comprof.RawPage{FinalURL: "https://www.linkedin.com/company/acme"})

		require.NotNil(t, frags)
		assert.Equal(t, 2, frags.Len())
		output := buf.String()
		assert.Contains(t, output, "locate")
		assert.Contains(t, output, "url=https://www.linkedin.com/company/acme")
		assert.Contains(t, output, "structured=true")
		assert.Contains(t, output, "fragments=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs empty result on blank page", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Locator{
			LocateFn: func(page *comprof.RawPage) *comprof.FragmentSet {
				return comprof.NewFragmentSet()
			},
		}

		locator := comslog.NewLoggingLocator(inner, logger)
		frags := locator.Locate(&comprof.RawPage{})

		require.NotNil(t, frags)
		output := buf.String()
		assert.Contains(t, output, "structured=false")
		assert.Contains(t, output, "fragments=0")
	})
}
