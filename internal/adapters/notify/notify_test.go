package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/notify"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var sample = domain.Notification{
	Title:   "sass failed",
	Message: "Can't find stylesheet to import.",
	File:    "scss/main.scss",
	Line:    3,
}

func TestConsoleNotifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	mockLogger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.Equal(t, "sass failed: Can't find stylesheet to import.", err.Error())
		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, "scss/main.scss:3", zErr.Metadata()["file"])
	})

	require.NoError(t, notify.NewConsoleNotifier(mockLogger).Notify(context.Background(), sample))
}

func TestDesktopNotifier(t *testing.T) {
	var gotTitle, gotBody string
	d := notify.NewDesktopNotifierWithSender(func(title, message, _ string) error {
		gotTitle, gotBody = title, message
		return nil
	})

	require.NoError(t, d.Notify(context.Background(), sample))
	assert.Equal(t, "sass failed", gotTitle)
	assert.Equal(t, "scss/main.scss:3\nCan't find stylesheet to import.", gotBody)
}

func TestDesktopNotifier_SendFails(t *testing.T) {
	d := notify.NewDesktopNotifierWithSender(func(string, string, string) error {
		return errors.New("no notification daemon")
	})

	err := d.Notify(context.Background(), domain.Notification{Title: "t", Message: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no notification daemon")
}

func TestMulti_ContinuesAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocks.NewMockNotifier(ctrl)
	second := mocks.NewMockNotifier(ctrl)

	first.EXPECT().Notify(gomock.Any(), sample).Return(errors.New("first failed"))
	second.EXPECT().Notify(gomock.Any(), sample).Return(nil)

	err := notify.Multi{first, second}.Notify(context.Background(), sample)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first failed")
}

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	_, isConsole := notify.New(mockLogger, false).(*notify.ConsoleNotifier)
	assert.True(t, isConsole)

	multi, isMulti := notify.New(mockLogger, true).(notify.Multi)
	require.True(t, isMulti)
	assert.Len(t, multi, 2)
}
