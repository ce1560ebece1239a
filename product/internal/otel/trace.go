package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/shopindream/storefront/internal/constants"
)

var Tracer = otel.Tracer(constants.AppProductService)
