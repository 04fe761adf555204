package cmds

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hydrosmart/reporter/internal/form"
	"github.com/hydrosmart/reporter/internal/geo"
	"github.com/hydrosmart/reporter/internal/types"
)

func TestRunSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Submit", func(t *testing.T) {
		d, locator, submitter := testDeps(t)
		locator.EXPECT().Locate(gomock.Any()).Return(here, nil).Times(2)
		submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(&types.QueryResponse{}, nil)

		input := strings.Join([]string{
			"describe   rust coloured water  ",
			"photo " + writePNG(t),
			"show",
			"submit",
			"quit",
			"describe never read",
		}, "\n")

		var out bytes.Buffer
		require.NoError(t, runSession(ctx, d.newForm(), strings.NewReader(input), &out))

		got := out.String()
		assert.Contains(t, got, "Commands:")
		assert.Contains(t, got, "Lat: 9.082000\nLng: 8.675300\n")
		assert.Contains(t, got, "Description: rust coloured water\n")
		assert.Contains(t, got, "Photo: creek.png")
		assert.Contains(t, got, "Ready: run `submit`")
		assert.Contains(t, got, "[ok] Query submitted successfully!")
		assert.NotContains(t, got, "never read")
	})

	t.Run("ValidationShownAsBanner", func(t *testing.T) {
		d, locator, _ := testDeps(t)
		locator.EXPECT().Locate(gomock.Any()).Return(types.Location{}, geo.ErrUnsupported).Times(2)

		var out bytes.Buffer
		input := "locate\nsubmit\n"
		require.NoError(t, runSession(ctx, d.newForm(), strings.NewReader(input), &out))

		got := out.String()
		assert.Contains(t, got, "[error] Geolocation not supported by this device")
		assert.Contains(t, got, "[error] Please upload an image")
	})

	t.Run("Commands", func(t *testing.T) {
		d, locator, _ := testDeps(t)
		locator.EXPECT().Locate(gomock.Any()).Return(types.Location{}, geo.ErrUnavailable)

		var out bytes.Buffer
		input := "dance\nphoto\nphoto /does/not/exist.png\nshow\n"
		require.NoError(t, runSession(ctx, d.newForm(), strings.NewReader(input), &out))

		got := out.String()
		assert.Contains(t, got, `unknown command "dance"`)
		assert.Contains(t, got, "usage: photo PATH")
		assert.Contains(t, got, "cannot use /does/not/exist.png")
		assert.Contains(t, got, "Photo: none")
		assert.Contains(t, got, "Submit disabled until location is available")
	})
}

func TestRenderChanges(t *testing.T) {
	loc := here
	prev := form.Snapshot{}
	next := form.Snapshot{
		Location: &loc,
		Status:   types.SuccessStatus(form.MsgLocationCaptured),
		Version:  1,
	}

	var out bytes.Buffer
	renderChanges(&out, prev, next)
	assert.Equal(t, "Lat: 9.082000\nLng: 8.675300\n[ok] Location captured successfully\n", out.String())

	out.Reset()
	renderChanges(&out, next, next)
	assert.Empty(t, out.String(), "nothing changed")

	out.Reset()
	cleared := next
	cleared.Status = types.NoStatus()
	renderChanges(&out, next, cleared)
	assert.Empty(t, out.String(), "cleared banners are not printed")
}
