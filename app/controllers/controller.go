// Package controllers translates HTTP requests into service calls and maps
// service errors onto the response envelope.
package controllers

import (
	"github.com/hbdiaz/ferremat/pkg/apperr"
	"github.com/hbdiaz/ferremat/pkg/ctx"
	"github.com/hbdiaz/ferremat/pkg/logger"
)

// fail writes the envelope for a service error: the apperr kind picks the
// status, and internal errors are masked behind a generic message.
func fail(cx *ctx.Context, err error) {
	if apperr.KindOf(err) == apperr.Internal {
		logger.WithCtx(cx.Context()).Error("internal error", "error", err)
	}
	cx.Error(apperr.HTTPStatus(err), apperr.MessageOf(err))
}
