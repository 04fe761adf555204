package cmds

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrosmart/reporter/internal/clierrors"
	"github.com/hydrosmart/reporter/internal/form"
	"github.com/hydrosmart/reporter/internal/types"
)

func TestReportLocation(t *testing.T) {
	t.Run("Captured", func(t *testing.T) {
		loc := here
		snap := form.Snapshot{
			Location: &loc,
			Status:   types.SuccessStatus(form.MsgLocationCaptured),
		}

		var out bytes.Buffer
		require.NoError(t, reportLocation(snap, false, &out))
		assert.Equal(t, "Lat: 9.082000\nLng: 8.675300\n", out.String())
	})

	t.Run("Failed", func(t *testing.T) {
		snap := form.Snapshot{Status: types.ErrorStatus(form.MsgLocationUnsupported)}

		var out bytes.Buffer
		err := reportLocation(snap, false, &out)

		assert.Equal(t, types.ExitNetwork, clierrors.Code(err))
		assert.Equal(t, "[error] Geolocation not supported by this device\n", out.String())
	})
}
