package mocks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestRecorders_AcceptMethodShapedCallbacks(t *testing.T) {
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	var logged error
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) { logged = err })

	span := mocks.NewMockSpan(ctrl)
	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), "clean").DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, span
		},
	)

	renderer := mocks.NewMockRenderer(ctrl)
	var started string
	renderer.EXPECT().OnTaskStart(gomock.Any(), "", "live", gomock.Any()).
		Do(func(spanID, _, _ string, _ time.Time) { started = spanID })

	cause := errors.New("disk full")
	logger.Error(cause)
	_, got := tracer.Start(context.Background(), "clean")
	renderer.OnTaskStart("span-1", "", "live", time.Now())

	assert.Equal(t, cause, logged)
	assert.Equal(t, span, got)
	assert.Equal(t, "span-1", started)
}
